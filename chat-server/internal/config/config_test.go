package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	req := require.New(t)
	chdir(t, t.TempDir())
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("S3_BUCKET", "uploads")

	cfg, err := Load()

	req.NoError(err)
	req.Equal(6688, cfg.Server.Port)
	req.Equal(10*time.Second, cfg.Server.ShutdownTimeout)
	req.Equal(int64(32<<20), cfg.Server.MaxUploadSize)
	req.Equal(7*24*time.Hour, cfg.Auth.TokenTTL)
	req.Equal("s3", cfg.Storage.Driver)
	req.Equal("uploads", cfg.Storage.S3.Bucket)
	req.Equal("postgres", cfg.Notify.Driver)
	req.Equal(1, cfg.Notify.Kafka.Partitions)
	req.False(cfg.Cache.Enabled)
	req.Equal(10*time.Minute, cfg.Cache.TTL)
	req.Equal("chat-server", cfg.Log.ServiceName)
}

func TestLoad_ReadsYAML(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	chdir(t, dir)
	req.NoError(os.WriteFile("chat.yaml", []byte(`
server:
  port: 9000
database:
  driver: sqlite
  file_path: /tmp/chat.db
auth:
  token_ttl: 1h
cache:
  enabled: true
  ttl: 30s
notify:
  driver: redis
  kafka:
    partitions: 6
`), 0o644))

	cfg, err := Load()

	req.NoError(err)
	req.Equal(9000, cfg.Server.Port)
	req.Equal("sqlite", cfg.Database.Driver)
	req.Equal("/tmp/chat.db", cfg.Database.FilePath)
	req.Equal(time.Hour, cfg.Auth.TokenTTL)
	req.True(cfg.Cache.Enabled)
	req.Equal(30*time.Second, cfg.Cache.TTL)
	req.Equal("redis", cfg.Notify.Driver)
	req.Equal(6, cfg.Notify.Kafka.Partitions)
}
