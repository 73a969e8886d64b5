package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wrxx97/chat/chat-server/internal/domain"
	"github.com/wrxx97/chat/pkg/log"
	"github.com/wrxx97/chat/pkg/middleware"
	"github.com/wrxx97/chat/pkg/response"
)

// Upload stores every file part of a multipart form and returns their URLs.
func (h *Handler) Upload(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	}
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		l.Warn().Err(err).Msg("invalid multipart upload")
		response.BadRequest(c, "invalid multipart form")
		return
	}

	uploads, err := readParts(form)
	if err != nil {
		l.Warn().Err(err).Msg("failed to read upload")
		response.BadRequest(c, "failed to read upload")
		return
	}

	urls, err := h.files.Upload(ctx, middleware.GetUser(c), uploads)
	if err != nil {
		writeError(c, err, "upload failed")
		return
	}
	response.Success(c, domain.UploadResponse{Files: urls})
}

func (h *Handler) Download(c *gin.Context) {
	wsID, err := strconv.ParseInt(c.Param("ws_id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid workspace id")
		return
	}

	content, err := h.files.Download(c.Request.Context(), middleware.GetUser(c), wsID, c.Param("path"))
	if err != nil {
		writeError(c, err, "download failed")
		return
	}
	c.Data(http.StatusOK, content.ContentType, content.Data)
}

// readParts reads file parts in field name order.
func readParts(form *multipart.Form) ([]domain.FileUpload, error) {
	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var uploads []domain.FileUpload
	for _, field := range fields {
		for _, fh := range form.File[field] {
			data, err := readPart(fh)
			if err != nil {
				return nil, err
			}
			uploads = append(uploads, domain.FileUpload{Name: fh.Filename, Data: data})
		}
	}
	return uploads, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
