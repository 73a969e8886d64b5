package config

import (
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/wrxx97/chat/chat-server/internal/cache"
	pkgconfig "github.com/wrxx97/chat/pkg/config"
	"github.com/wrxx97/chat/pkg/database"
	"github.com/wrxx97/chat/pkg/jwt"
	pkglog "github.com/wrxx97/chat/pkg/log"
	"github.com/wrxx97/chat/pkg/pubsub"
	"github.com/wrxx97/chat/pkg/storage"
)

type Config struct {
	Server   ServerConfig
	Database database.Config
	Auth     AuthConfig
	Storage  storage.Config
	Notify   pubsub.Config
	Cache    cache.Config
	Log      pkglog.Config

	v *viper.Viper
}

type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// MaxUploadSize caps a multipart upload request, in bytes.
	MaxUploadSize int64 `mapstructure:"max_upload_size"`
}

// AuthConfig holds the PEM encoded Ed25519 key pair used to issue tokens.
type AuthConfig struct {
	SK       string        `mapstructure:"sk"`
	PK       string        `mapstructure:"pk"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "chat")
	if err != nil {
		return nil, err
	}

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 6688)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_upload_size", 32<<20)
	v.SetDefault("database.driver", database.DriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.dbname", "chat")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.conn_max_lifetime", 30)
	v.SetDefault("auth.token_ttl", jwt.DefaultTTL.String())
	v.SetDefault("storage.driver", storage.DriverLocal)
	v.SetDefault("storage.local.base_path", "/tmp/chat_server")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.bucket", "chat-files")
	v.SetDefault("notify.driver", pubsub.DriverPostgres)
	v.SetDefault("notify.redis.address", "localhost:6379")
	v.SetDefault("notify.redis.pool_size", 10)
	v.SetDefault("notify.kafka.brokers", "localhost:9092")
	v.SetDefault("notify.kafka.partitions", 1)
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.address", "localhost:6379")
	v.SetDefault("cache.prefix", "chat")
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.service_name", "chat-server")

	if err := pkgconfig.BindEnvs(v, map[string]string{
		"server.port":                  "PORT",
		"database.driver":              "DB_DRIVER",
		"database.host":                "DB_HOST",
		"database.port":                "DB_PORT",
		"database.user":                "DB_USER",
		"database.password":            "DB_PASSWORD",
		"database.dbname":              "DB_NAME",
		"database.file_path":           "DB_FILE_PATH",
		"auth.sk":                      "AUTH_SK",
		"auth.pk":                      "AUTH_PK",
		"storage.driver":               "STORAGE_DRIVER",
		"storage.local.base_path":      "STORAGE_BASE_PATH",
		"storage.s3.endpoint":          "S3_ENDPOINT",
		"storage.s3.bucket":            "S3_BUCKET",
		"storage.s3.access_key_id":     "S3_ACCESS_KEY_ID",
		"storage.s3.secret_access_key": "S3_SECRET_ACCESS_KEY",
		"notify.driver":                "NOTIFY_DRIVER",
		"notify.redis.address":         "REDIS_ADDRESS",
		"notify.kafka.brokers":         "KAFKA_BROKERS",
		"notify.kafka.partitions":      "KAFKA_PARTITIONS",
		"cache.enabled":                "CACHE_ENABLED",
		"cache.address":                "CACHE_ADDRESS",
		"log.level":                    "LOG_LEVEL",
	}); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.v = v

	cfg.Server.ShutdownTimeout = pkgconfig.Duration(v, "server.shutdown_timeout", 10*time.Second)
	cfg.Auth.TokenTTL = pkgconfig.Duration(v, "auth.token_ttl", jwt.DefaultTTL)
	cfg.Cache.TTL = pkgconfig.Duration(v, "cache.ttl", 10*time.Minute)

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
