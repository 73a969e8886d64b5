package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/wrxx97/chat/chat-server/internal/audit"
	"github.com/wrxx97/chat/chat-server/internal/domain"
	"github.com/wrxx97/chat/pkg/log"
	"github.com/wrxx97/chat/pkg/model"
	"github.com/wrxx97/chat/pkg/storage"
)

type fileServiceImpl struct {
	store storage.Storage
}

func NewFileService(store storage.Storage) FileService {
	return &fileServiceImpl{store: store}
}

// Upload stores each file under its content address and returns the URLs in
// request order. Content already present is not written again.
func (s *fileServiceImpl) Upload(ctx context.Context, user *model.User, files []domain.FileUpload) ([]string, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files", ErrInvalidInput)
	}

	l := log.Ctx(ctx)
	urls := make([]string, 0, len(files))
	for _, upload := range files {
		f := model.NewChatFile(user.WsID, upload.Name, upload.Data)
		key := f.Key()

		exists, err := s.store.Exists(ctx, key)
		if err != nil {
			l.Error().Err(err).Str(log.FieldFile, key).Msg("failed to check file")
			return nil, err
		}
		if !exists {
			contentType := mimetype.Detect(upload.Data).String()
			if err := s.store.Write(ctx, key, bytes.NewReader(upload.Data), int64(len(upload.Data)), contentType); err != nil {
				l.Error().Err(err).Str(log.FieldFile, key).Msg("failed to store file")
				return nil, err
			}
			audit.Record(ctx, audit.Entry{Action: audit.ActionUploadFile, UserID: user.ID, Detail: key}, "file uploaded")
		}

		urls = append(urls, f.URL())
	}
	return urls, nil
}

// Download reads the file at path inside workspace wsID. path is the part of
// the file URL after the workspace id.
func (s *fileServiceImpl) Download(ctx context.Context, user *model.User, wsID int64, path string) (*domain.FileContent, error) {
	if wsID != user.WsID {
		return nil, ErrForbidden
	}

	f, err := model.ParseChatFile(fmt.Sprintf("%d/%s", wsID, strings.TrimLeft(path, "/")))
	if err != nil {
		return nil, ErrFileNotFound
	}

	rc, err := s.store.Read(ctx, f.Key())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	return &domain.FileContent{
		Data:        data,
		ContentType: mimetype.Detect(data).String(),
	}, nil
}
