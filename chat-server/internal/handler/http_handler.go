package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wrxx97/chat/chat-server/internal/domain"
	"github.com/wrxx97/chat/chat-server/internal/service"
	"github.com/wrxx97/chat/pkg/log"
	"github.com/wrxx97/chat/pkg/middleware"
	"github.com/wrxx97/chat/pkg/response"
)

// Handler serves the chat REST API.
type Handler struct {
	auth          service.AuthService
	workspaces    service.WorkspaceService
	chats         service.ChatService
	messages      service.MessageService
	files         service.FileService
	maxUploadSize int64
}

type Services struct {
	Auth       service.AuthService
	Workspaces service.WorkspaceService
	Chats      service.ChatService
	Messages   service.MessageService
	Files      service.FileService
}

func NewHandler(s Services, maxUploadSize int64) *Handler {
	return &Handler{
		auth:          s.Auth,
		workspaces:    s.Workspaces,
		chats:         s.Chats,
		messages:      s.Messages,
		files:         s.Files,
		maxUploadSize: maxUploadSize,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter, verifier middleware.TokenVerifier) {
	api := r.Group("/api")
	{
		api.POST("/signup", h.Signup)
		api.POST("/signin", h.Signin)

		authed := api.Group("")
		authed.Use(middleware.RequireAuth(verifier))
		{
			authed.GET("/users", h.ListUsers)

			authed.GET("/chats", h.ListChats)
			authed.POST("/chats", h.CreateChat)
			authed.GET("/chats/:id", h.GetChat)
			authed.PATCH("/chats/:id", h.UpdateChat)
			authed.DELETE("/chats/:id", h.DeleteChat)

			authed.GET("/chats/:id/messages", h.ListMessages)
			authed.POST("/chats/:id/messages", h.SendMessage)

			authed.POST("/upload", h.Upload)
			authed.GET("/files/:ws_id/*path", h.Download)
		}
	}
}

func (h *Handler) Signup(c *gin.Context) {
	ctx := c.Request.Context()
	var req domain.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Msg("invalid signup request")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Signup(ctx, &req)
	if err != nil {
		writeError(c, err, "signup failed")
		return
	}

	response.Created(c, result)
}

func (h *Handler) Signin(c *gin.Context) {
	ctx := c.Request.Context()
	var req domain.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Msg("invalid signin request")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Signin(ctx, &req)
	if err != nil {
		writeError(c, err, "signin failed")
		return
	}

	response.Success(c, result)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.workspaces.ListUsers(c.Request.Context(), middleware.GetUser(c))
	if err != nil {
		writeError(c, err, "list users failed")
		return
	}
	response.Success(c, users)
}

func (h *Handler) ListChats(c *gin.Context) {
	chats, err := h.chats.List(c.Request.Context(), middleware.GetUser(c))
	if err != nil {
		writeError(c, err, "list chats failed")
		return
	}
	response.Success(c, chats)
}

func (h *Handler) CreateChat(c *gin.Context) {
	var req domain.CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	chat, err := h.chats.Create(c.Request.Context(), middleware.GetUser(c), &req)
	if err != nil {
		writeError(c, err, "create chat failed")
		return
	}
	response.Created(c, chat)
}

func (h *Handler) GetChat(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}

	chat, err := h.chats.Get(c.Request.Context(), middleware.GetUser(c), chatID)
	if err != nil {
		writeError(c, err, "get chat failed")
		return
	}
	response.Success(c, chat)
}

func (h *Handler) UpdateChat(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	var req domain.UpdateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	chat, err := h.chats.Update(c.Request.Context(), middleware.GetUser(c), chatID, &req)
	if err != nil {
		writeError(c, err, "update chat failed")
		return
	}
	response.Success(c, chat)
}

func (h *Handler) DeleteChat(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}

	if err := h.chats.Delete(c.Request.Context(), middleware.GetUser(c), chatID); err != nil {
		writeError(c, err, "delete chat failed")
		return
	}
	response.NoContent(c)
}

func (h *Handler) ListMessages(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	var query domain.ListMessagesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	msgs, err := h.messages.List(c.Request.Context(), middleware.GetUser(c), chatID, &query)
	if err != nil {
		writeError(c, err, "list messages failed")
		return
	}
	response.Success(c, msgs)
}

func (h *Handler) SendMessage(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.messages.Send(c.Request.Context(), middleware.GetUser(c), chatID, &req)
	if err != nil {
		writeError(c, err, "send message failed")
		return
	}
	response.Created(c, msg)
}

func chatIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid chat id")
		return 0, false
	}
	c.Request = c.Request.WithContext(log.WithInt64(c.Request.Context(), log.FieldChatID, id))
	return id, true
}

// writeError maps service errors to HTTP responses. Anything unrecognised is
// logged and reported as a 500.
func writeError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, "invalid email or password")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, "email already exists")
	case errors.Is(err, service.ErrNotMember), errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrChatNotFound), errors.Is(err, service.ErrFileNotFound):
		response.NotFound(c, err.Error())
	default:
		l := log.Ctx(c.Request.Context())
		l.Error().Err(err).Msg(msg)
		response.InternalError(c, msg)
	}
}
