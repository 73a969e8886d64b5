//go:generate go run go.uber.org/mock/mockgen -source=interface.go -destination=../mocks/mock_repository.go -package=mocks
package repository

import (
	"context"
	"errors"

	"github.com/wrxx97/chat/chat-server/internal/domain"
	"github.com/wrxx97/chat/pkg/model"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrEmailExists = errors.New("email already exists")
)

type WorkspaceRepository interface {
	FindByName(ctx context.Context, name string) (*model.Workspace, error)
	Create(ctx context.Context, ws *model.Workspace) error
	UpdateOwner(ctx context.Context, wsID, ownerID int64) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByWorkspace(ctx context.Context, wsID int64) ([]*model.ChatUser, error)
	// CountInWorkspace counts how many of ids are users of wsID.
	CountInWorkspace(ctx context.Context, wsID int64, ids []int64) (int, error)
}

type ChatRepository interface {
	Create(ctx context.Context, chat *model.Chat) error
	GetByID(ctx context.Context, id int64) (*model.Chat, error)
	ListByWorkspace(ctx context.Context, wsID int64) ([]*model.Chat, error)
	Update(ctx context.Context, chat *model.Chat) error
	Delete(ctx context.Context, id int64) error
}

type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	// List returns up to limit messages of chatID older than lastID, newest first.
	List(ctx context.Context, chatID int64, lastID *int64, limit int) ([]*model.Message, error)
}
