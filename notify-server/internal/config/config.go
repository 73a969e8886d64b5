package config

import (
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	pkgconfig "github.com/wrxx97/chat/pkg/config"
	"github.com/wrxx97/chat/pkg/database"
	pkglog "github.com/wrxx97/chat/pkg/log"
	"github.com/wrxx97/chat/pkg/pubsub"
)

type Config struct {
	Server   ServerConfig
	Database database.Config
	Auth     AuthConfig
	Notify   pubsub.Config
	Stream   StreamConfig
	Listener ListenerConfig
	Log      pkglog.Config

	v *viper.Viper
}

type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type AuthConfig struct {
	// PK is the PEM encoded Ed25519 public key of the chat server.
	PK string `mapstructure:"pk"`
}

type StreamConfig struct {
	KeepAliveInterval time.Duration `mapstructure:"keep_alive_interval"`
	KeepAliveText     string        `mapstructure:"keep_alive_text"`
	ChannelCapacity   int           `mapstructure:"channel_capacity"`
}

type ListenerConfig struct {
	MaxReconnects    int           `mapstructure:"max_reconnects"`
	ReconnectBackoff time.Duration `mapstructure:"reconnect_backoff"`
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "notify")
	if err != nil {
		return nil, err
	}

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 6687)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("database.driver", database.DriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.dbname", "chat")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("notify.driver", pubsub.DriverPostgres)
	v.SetDefault("notify.redis.address", "localhost:6379")
	v.SetDefault("notify.redis.pool_size", 10)
	v.SetDefault("notify.kafka.brokers", "localhost:9092")
	v.SetDefault("notify.kafka.group_id", "notify-server")
	v.SetDefault("stream.keep_alive_interval", "1s")
	v.SetDefault("stream.keep_alive_text", "keep-alive-text")
	v.SetDefault("stream.channel_capacity", 256)
	v.SetDefault("listener.max_reconnects", 3)
	v.SetDefault("listener.reconnect_backoff", "2s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.service_name", "notify-server")

	if err := pkgconfig.BindEnvs(v, map[string]string{
		"server.port":          "PORT",
		"database.host":        "DB_HOST",
		"database.port":        "DB_PORT",
		"database.user":        "DB_USER",
		"database.password":    "DB_PASSWORD",
		"database.dbname":      "DB_NAME",
		"auth.pk":              "AUTH_PK",
		"notify.driver":        "NOTIFY_DRIVER",
		"notify.redis.address": "REDIS_ADDRESS",
		"notify.kafka.brokers": "KAFKA_BROKERS",
		"log.level":            "LOG_LEVEL",
	}); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.v = v

	cfg.Server.ShutdownTimeout = pkgconfig.Duration(v, "server.shutdown_timeout", 10*time.Second)
	cfg.Stream.KeepAliveInterval = pkgconfig.Duration(v, "stream.keep_alive_interval", time.Second)
	cfg.Listener.ReconnectBackoff = pkgconfig.Duration(v, "listener.reconnect_backoff", 2*time.Second)

	return &cfg, nil
}

// WatchLogLevel calls apply with log.level each time the config file changes.
// It reports whether a file is being watched.
func (c *Config) WatchLogLevel(apply func(level string)) bool {
	if c.v == nil {
		return false
	}
	return pkgconfig.Watch(c.v, func(fsnotify.Event) {
		apply(c.v.GetString("log.level"))
	})
}
