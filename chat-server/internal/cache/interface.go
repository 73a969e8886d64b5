//go:generate go run go.uber.org/mock/mockgen -source=interface.go -destination=../mocks/mock_cache.go -package=mocks
package cache

import (
	"context"
	"errors"

	"github.com/wrxx97/chat/pkg/model"
)

var ErrCacheMiss = errors.New("cache miss")

// ChatCache keeps chats by id so membership checks on the message path skip
// the database.
type ChatCache interface {
	Get(ctx context.Context, chatID int64) (*model.Chat, error)
	Set(ctx context.Context, chat *model.Chat) error
	Delete(ctx context.Context, chatID int64) error
	Close() error
}

// NopChatCache always misses.
type NopChatCache struct{}

func (NopChatCache) Get(context.Context, int64) (*model.Chat, error) { return nil, ErrCacheMiss }
func (NopChatCache) Set(context.Context, *model.Chat) error           { return nil }
func (NopChatCache) Delete(context.Context, int64) error              { return nil }
func (NopChatCache) Close() error                                     { return nil }
