//go:generate go run go.uber.org/mock/mockgen -source=interface.go -destination=../mocks/mock_service.go -package=mocks
//go:generate go run go.uber.org/mock/mockgen -destination=../mocks/mock_publisher.go -package=mocks github.com/wrxx97/chat/pkg/pubsub Publisher
//go:generate go run go.uber.org/mock/mockgen -destination=../mocks/mock_storage.go -package=mocks github.com/wrxx97/chat/pkg/storage Storage
package service

import (
	"context"

	"github.com/wrxx97/chat/chat-server/internal/domain"
	"github.com/wrxx97/chat/pkg/model"
)

// TokenSigner issues access tokens.
type TokenSigner interface {
	Sign(user *model.User) (string, error)
}

type AuthService interface {
	Signup(ctx context.Context, req *domain.SignupRequest) (*domain.AuthResponse, error)
	Signin(ctx context.Context, req *domain.SigninRequest) (*domain.AuthResponse, error)
}

type WorkspaceService interface {
	ListUsers(ctx context.Context, user *model.User) ([]*model.ChatUser, error)
}

type ChatService interface {
	// List returns the chats of the caller's workspace the caller can see.
	List(ctx context.Context, user *model.User) ([]*model.Chat, error)
	// Get returns a chat the caller is a member of, or any public channel of
	// the caller's workspace.
	Get(ctx context.Context, user *model.User, chatID int64) (*model.Chat, error)
	Create(ctx context.Context, user *model.User, req *domain.CreateChatRequest) (*model.Chat, error)
	Update(ctx context.Context, user *model.User, chatID int64, req *domain.UpdateChatRequest) (*model.Chat, error)
	Delete(ctx context.Context, user *model.User, chatID int64) error
}

type MessageService interface {
	Send(ctx context.Context, user *model.User, chatID int64, req *domain.SendMessageRequest) (*model.Message, error)
	List(ctx context.Context, user *model.User, chatID int64, query *domain.ListMessagesQuery) ([]*model.Message, error)
}

type FileService interface {
	Upload(ctx context.Context, user *model.User, files []domain.FileUpload) ([]string, error)
	Download(ctx context.Context, user *model.User, wsID int64, path string) (*domain.FileContent, error)
}
