package pubsub

import (
	"context"
	"fmt"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverKafka    = "kafka"
)

// Config selects and configures the notification transport.
type Config struct {
	Driver string      `mapstructure:"driver"` // postgres, redis, kafka
	Redis  RedisConfig `mapstructure:"redis"`
	Kafka  KafkaConfig `mapstructure:"kafka"`
}

type RedisConfig struct {
	Address      string        `mapstructure:"address"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type KafkaConfig struct {
	Brokers    string `mapstructure:"brokers"`
	GroupID    string `mapstructure:"group_id"`
	Partitions int    `mapstructure:"partitions"`
}

// DefaultConfig listens on postgres directly.
func DefaultConfig() Config {
	return Config{
		Driver: DriverPostgres,
		Redis: RedisConfig{
			Address:      "localhost:6379",
			PoolSize:     10,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:    "localhost:9092",
			GroupID:    "notify-server",
			Partitions: 1,
		},
	}
}

// NewSource opens a Source subscribed to channels. pgDSN is only used by the
// postgres driver.
func NewSource(ctx context.Context, cfg Config, pgDSN string, channels ...string) (Source, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		return NewPostgresSource(ctx, pgDSN, channels...)
	case DriverRedis:
		return NewRedisSource(ctx, cfg.Redis, channels...)
	case DriverKafka:
		return NewKafkaSource(cfg.Kafka, channels...)
	default:
		return nil, fmt.Errorf("unsupported pubsub driver: %s", cfg.Driver)
	}
}

// NewPublisher returns the Publisher the chat server writes through. With the
// postgres driver the database triggers notify, so nothing is published.
func NewPublisher(cfg Config) (Publisher, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		return NopPublisher{}, nil
	case DriverRedis:
		return NewRedisPublisher(cfg.Redis)
	case DriverKafka:
		return NewKafkaPublisher(cfg.Kafka)
	default:
		return nil, fmt.Errorf("unsupported pubsub driver: %s", cfg.Driver)
	}
}

// NopPublisher discards everything.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, []byte) error { return nil }
func (NopPublisher) Close() error                                  { return nil }
