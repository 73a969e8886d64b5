package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wrxx97/chat/pkg/model"
)

type Config struct {
	Enabled  bool          `mapstructure:"enabled"`
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type RedisChatCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New returns a redis backed cache, or NopChatCache when caching is disabled.
func New(cfg Config) (ChatCache, error) {
	if !cfg.Enabled {
		return NopChatCache{}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisChatCache(client, cfg.Prefix, cfg.TTL), nil
}

func NewRedisChatCache(client *redis.Client, prefix string, ttl time.Duration) *RedisChatCache {
	if prefix == "" {
		prefix = "chat"
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisChatCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisChatCache) key(chatID int64) string {
	return fmt.Sprintf("%s:chat:%d", c.prefix, chatID)
}

func (c *RedisChatCache) Get(ctx context.Context, chatID int64) (*model.Chat, error) {
	data, err := c.client.Get(ctx, c.key(chatID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var chat model.Chat
	if err := json.Unmarshal(data, &chat); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return &chat, nil
}

func (c *RedisChatCache) Set(ctx context.Context, chat *model.Chat) error {
	data, err := json.Marshal(chat)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}
	if err := c.client.Set(ctx, c.key(chat.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

func (c *RedisChatCache) Delete(ctx context.Context, chatID int64) error {
	if err := c.client.Del(ctx, c.key(chatID)).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

func (c *RedisChatCache) Close() error {
	return c.client.Close()
}
