package pubsub

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

func newRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// RedisSource reads from a redis SUBSCRIBE connection.
type RedisSource struct {
	client *redis.Client
	sub    *redis.PubSub
}

// NewRedisSource subscribes to channels and waits for the confirmation.
func NewRedisSource(ctx context.Context, cfg RedisConfig, channels ...string) (*RedisSource, error) {
	client, err := newRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sub := client.Subscribe(ctx, channels...)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		client.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	return &RedisSource{client: client, sub: sub}, nil
}

func (s *RedisSource) Receive(ctx context.Context) (*Notification, error) {
	msg, err := s.sub.ReceiveMessage(ctx)
	if err != nil {
		if errors.Is(err, redis.ErrClosed) {
			return nil, ErrClosed
		}
		return nil, err
	}
	return &Notification{Channel: msg.Channel, Payload: msg.Payload}, nil
}

func (s *RedisSource) Close() error {
	s.sub.Close()
	return s.client.Close()
}

// RedisPublisher publishes with PUBLISH.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(cfg RedisConfig) (*RedisPublisher, error) {
	client, err := newRedisClient(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	return &RedisPublisher{client: client}, nil
}

func (p *RedisPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.client.Publish(ctx, channel, payload).Err()
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
