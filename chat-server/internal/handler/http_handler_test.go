package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wrxx97/chat/chat-server/internal/domain"
	"github.com/wrxx97/chat/chat-server/internal/mocks"
	"github.com/wrxx97/chat/chat-server/internal/service"
	"github.com/wrxx97/chat/pkg/model"
	"github.com/wrxx97/chat/pkg/response"
)

var alice = &model.User{ID: 1, WsID: 7, Fullname: "Alice", Email: "alice@acme.org"}

type tokenTable map[string]*model.User

func (t tokenTable) Verify(token string) (*model.User, error) {
	if u, ok := t[token]; ok {
		return u, nil
	}
	return nil, errors.New("invalid")
}

type fixture struct {
	auth       *mocks.MockAuthService
	workspaces *mocks.MockWorkspaceService
	chats      *mocks.MockChatService
	messages   *mocks.MockMessageService
	files      *mocks.MockFileService
	router     *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	f := &fixture{
		auth:       mocks.NewMockAuthService(ctrl),
		workspaces: mocks.NewMockWorkspaceService(ctrl),
		chats:      mocks.NewMockChatService(ctrl),
		messages:   mocks.NewMockMessageService(ctrl),
		files:      mocks.NewMockFileService(ctrl),
		router:     gin.New(),
	}
	NewHandler(Services{
		Auth:       f.auth,
		Workspaces: f.workspaces,
		Chats:      f.chats,
		Messages:   f.messages,
		Files:      f.files,
	}, 1<<20).RegisterRoutes(f.router, tokenTable{"alice": alice})
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Authorization", "Bearer alice")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) response.Response {
	t.Helper()
	env := response.Response{Data: data}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "created", body: `{"fullname":"Alice","email":"alice@acme.org","password":"hunter42","workspace":"acme"}`, status: http.StatusCreated},
		{name: "duplicate", body: `{"fullname":"Alice","email":"alice@acme.org","password":"hunter42","workspace":"acme"}`, err: service.ErrEmailExists, status: http.StatusConflict},
		{name: "bad email", body: `{"fullname":"Alice","email":"nope","password":"hunter42","workspace":"acme"}`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			f := newFixture(t)
			if tt.status != http.StatusBadRequest {
				var resp *domain.AuthResponse
				if tt.err == nil {
					resp = &domain.AuthResponse{Token: "tok"}
				}
				f.auth.EXPECT().Signup(gomock.Any(), gomock.Any()).Return(resp, tt.err)
			}

			w := f.do(http.MethodPost, "/api/signup", tt.body)

			req.Equal(tt.status, w.Code)
			if tt.status == http.StatusCreated {
				var got domain.AuthResponse
				decode(t, w, &got)
				req.Equal("tok", got.Token)
			}
		})
	}
}

func TestSignin_InvalidCredentials(t *testing.T) {
	f := newFixture(t)
	f.auth.EXPECT().Signin(gomock.Any(), &domain.SigninRequest{Email: "alice@acme.org", Password: "x"}).
		Return(nil, service.ErrInvalidCredentials)

	w := f.do(http.MethodPost, "/api/signin", `{"email":"alice@acme.org","password":"x"}`)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newFixture(t)
	w := httptest.NewRecorder()

	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/chats", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListUsers(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.workspaces.EXPECT().ListUsers(gomock.Any(), alice).Return([]*model.ChatUser{{ID: 1, Fullname: "Alice"}}, nil)

	w := f.do(http.MethodGet, "/api/users", "")

	req.Equal(http.StatusOK, w.Code)
	var users []model.ChatUser
	decode(t, w, &users)
	req.Len(users, 1)
}

func TestChatRoutes_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "ok", status: http.StatusOK},
		{name: "not found", err: service.ErrChatNotFound, status: http.StatusNotFound},
		{name: "not member", err: service.ErrNotMember, status: http.StatusForbidden},
		{name: "invalid", err: fmt.Errorf("%w: at least 2 members are required", service.ErrInvalidInput), status: http.StatusBadRequest},
		{name: "unexpected", err: errors.New("db down"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			var chat *model.Chat
			if tt.err == nil {
				chat = &model.Chat{ID: 5}
			}
			f.chats.EXPECT().Update(gomock.Any(), alice, int64(5), gomock.Any()).Return(chat, tt.err)

			w := f.do(http.MethodPatch, "/api/chats/5", `{"members":[1,2]}`)

			require.Equal(t, tt.status, w.Code)
		})
	}
}

func TestCreateChat(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.chats.EXPECT().Create(gomock.Any(), alice, &domain.CreateChatRequest{Members: []int64{1, 2}, Public: true}).
		Return(&model.Chat{ID: 5, Type: model.ChatTypeSingle}, nil)

	w := f.do(http.MethodPost, "/api/chats", `{"members":[1,2],"public":true}`)

	req.Equal(http.StatusCreated, w.Code)
	var chat model.Chat
	decode(t, w, &chat)
	req.Equal(model.ChatTypeSingle, chat.Type)
}

func TestDeleteChat(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.chats.EXPECT().Delete(gomock.Any(), alice, int64(5)).Return(nil)

	w := f.do(http.MethodDelete, "/api/chats/5", "")

	req.Equal(http.StatusNoContent, w.Code)
	req.Empty(w.Body.Bytes())
}

func TestInvalidChatID(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/chats/abc/messages", "")

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMessages_BindsQuery(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.messages.EXPECT().List(gomock.Any(), alice, int64(5), gomock.Any()).
		DoAndReturn(func(_ any, _ *model.User, _ int64, q *domain.ListMessagesQuery) ([]*model.Message, error) {
			req.NotNil(q.LastID)
			req.Equal(int64(40), *q.LastID)
			req.Equal(10, q.Limit)
			return []*model.Message{{ID: 39}}, nil
		})

	w := f.do(http.MethodGet, "/api/chats/5/messages?last_id=40&limit=10", "")

	req.Equal(http.StatusOK, w.Code)
}

func TestSendMessage(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.messages.EXPECT().Send(gomock.Any(), alice, int64(5), &domain.SendMessageRequest{Content: "hi"}).
		Return(&model.Message{ID: 1, ChatID: 5, Content: "hi", Files: []string{}}, nil)

	w := f.do(http.MethodPost, "/api/chats/5/messages", `{"content":"hi"}`)

	req.Equal(http.StatusCreated, w.Code)
}

func TestUpload(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "hello.txt")
	req.NoError(err)
	_, err = part.Write([]byte("hello"))
	req.NoError(err)
	req.NoError(mw.Close())

	f.files.EXPECT().Upload(gomock.Any(), alice, []domain.FileUpload{{Name: "hello.txt", Data: []byte("hello")}}).
		Return([]string{"/files/7/aaf/4c6/1ddcc5e8a2dabede0f3b482cd9aea9434d.txt"}, nil)

	r := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	r.Header.Set("Authorization", "Bearer alice")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, r)

	req.Equal(http.StatusOK, w.Code)
	var got domain.UploadResponse
	decode(t, w, &got)
	req.Equal([]string{"/files/7/aaf/4c6/1ddcc5e8a2dabede0f3b482cd9aea9434d.txt"}, got.Files)
}

func TestDownload(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.files.EXPECT().Download(gomock.Any(), alice, int64(7), "/aaf/4c6/1ddcc5e8a2dabede0f3b482cd9aea9434d.txt").
		Return(&domain.FileContent{Data: []byte("hello"), ContentType: "text/plain; charset=utf-8"}, nil)

	w := f.do(http.MethodGet, "/api/files/7/aaf/4c6/1ddcc5e8a2dabede0f3b482cd9aea9434d.txt", "")

	req.Equal(http.StatusOK, w.Code)
	req.Equal("hello", w.Body.String())
	req.Equal("text/plain; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestDownload_OtherWorkspace(t *testing.T) {
	f := newFixture(t)
	f.files.EXPECT().Download(gomock.Any(), alice, int64(8), gomock.Any()).Return(nil, service.ErrForbidden)

	w := f.do(http.MethodGet, "/api/files/8/aaf/4c6/x.txt", "")

	require.Equal(t, http.StatusForbidden, w.Code)
}
