package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func TestLoad_FileAndEnv(t *testing.T) {
	req := require.New(t)

	// Given a yaml file and an env override
	dir := t.TempDir()
	yaml := "server:\n  port: 6687\nstream:\n  keep_alive_interval: 2s\n"
	req.NoError(os.WriteFile(filepath.Join(dir, "notify.yaml"), []byte(yaml), 0o644))
	t.Setenv("STREAM_KEEP_ALIVE_TEXT", "ping")

	// When loading
	v, err := Load(dir, "notify")

	// Then both sources are visible
	req.NoError(err)
	req.Equal(6687, v.GetInt("server.port"))
	req.Equal("ping", v.GetString("stream.keep_alive_text"))
	req.Equal(2*time.Second, Duration(v, "stream.keep_alive_interval", time.Second))
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	req := require.New(t)

	v, err := Load(t.TempDir(), "absent")

	req.NoError(err)
	req.Equal(time.Second, Duration(v, "stream.keep_alive_interval", time.Second))
}

func TestBindEnvs(t *testing.T) {
	req := require.New(t)

	v, err := Load(t.TempDir(), "absent")
	req.NoError(err)
	t.Setenv("AUTH_PK", "pem")

	req.NoError(BindEnvs(v, map[string]string{"auth.pk": "AUTH_PK"}))
	req.Equal("pem", v.GetString("auth.pk"))
}

func TestWatch_ReportsRewrites(t *testing.T) {
	req := require.New(t)

	// Given a loaded config file
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.yaml")
	req.NoError(os.WriteFile(path, []byte("log:\n  level: info\n"), 0o644))
	v, err := Load(dir, "chat")
	req.NoError(err)

	changed := make(chan string, 16)
	req.True(Watch(v, func(fsnotify.Event) {
		select {
		case changed <- v.GetString("log.level"):
		default:
		}
	}))

	// When the file is rewritten
	req.NoError(os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))

	// Then the callback eventually sees the new value
	deadline := time.After(5 * time.Second)
	for {
		select {
		case level := <-changed:
			if level == "debug" {
				return
			}
		case <-deadline:
			req.Fail("no change notification")
			return
		}
	}
}

func TestWatch_NoFile(t *testing.T) {
	chdir(t, t.TempDir())
	v, err := Load(t.TempDir(), "missing")
	require.NoError(t, err)

	require.False(t, Watch(v, func(fsnotify.Event) {}))
}
