package service

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wrxx97/chat/chat-server/internal/domain"
	"github.com/wrxx97/chat/chat-server/internal/mocks"
	"github.com/wrxx97/chat/pkg/model"
	"github.com/wrxx97/chat/pkg/storage"
)

func TestFileService_UploadDeduplicates(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStorage(ctrl)
	svc := NewFileService(store)

	fresh := model.NewChatFile(7, "notes.md", []byte("# hi"))
	known := model.NewChatFile(7, "logo.PNG", []byte("png"))

	// Given one file already stored
	store.EXPECT().Exists(gomock.Any(), fresh.Key()).Return(false, nil)
	store.EXPECT().Write(gomock.Any(), fresh.Key(), gomock.Any(), int64(4), gomock.Any()).Return(nil)
	store.EXPECT().Exists(gomock.Any(), known.Key()).Return(true, nil)

	// When both are uploaded
	urls, err := svc.Upload(context.Background(), alice, []domain.FileUpload{
		{Name: "notes.md", Data: []byte("# hi")},
		{Name: "logo.PNG", Data: []byte("png")},
	})

	// Then only the new one is written and URLs keep request order
	req.NoError(err)
	req.Equal([]string{fresh.URL(), known.URL()}, urls)
	req.Contains(urls[1], ".png")
}

func TestFileService_UploadRequiresFiles(t *testing.T) {
	svc := NewFileService(mocks.NewMockStorage(gomock.NewController(t)))

	_, err := svc.Upload(context.Background(), alice, nil)

	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestFileService_Download(t *testing.T) {
	ctx := context.Background()
	file := model.NewChatFile(7, "a.txt", []byte("hello world"))
	path := "/" + file.Key()[len("7/"):]

	t.Run("should return content with detected type", func(t *testing.T) {
		req := require.New(t)
		store := mocks.NewMockStorage(gomock.NewController(t))
		store.EXPECT().Read(gomock.Any(), file.Key()).Return(io.NopCloser(bytes.NewReader([]byte("hello world"))), nil)

		content, err := NewFileService(store).Download(ctx, alice, 7, path)

		req.NoError(err)
		req.Equal([]byte("hello world"), content.Data)
		req.Contains(content.ContentType, "text/plain")
	})

	t.Run("should forbid other workspaces", func(t *testing.T) {
		store := mocks.NewMockStorage(gomock.NewController(t))

		_, err := NewFileService(store).Download(ctx, alice, 8, path)

		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("should report missing files", func(t *testing.T) {
		store := mocks.NewMockStorage(gomock.NewController(t))
		store.EXPECT().Read(gomock.Any(), file.Key()).Return(nil, storage.ErrNotFound)

		_, err := NewFileService(store).Download(ctx, alice, 7, path)

		require.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("should reject malformed paths", func(t *testing.T) {
		store := mocks.NewMockStorage(gomock.NewController(t))

		_, err := NewFileService(store).Download(ctx, alice, 7, "/../../etc/passwd")

		require.ErrorIs(t, err, ErrFileNotFound)
	})
}
