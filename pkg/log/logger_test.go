package log

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_LevelAndService(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer

	logger := NewWithWriter(Config{Level: "warn", ServiceName: "chat-server"}, &buf)
	logger.Info().Msg("dropped")
	logger.Warn().Msg("kept")

	req.NotContains(buf.String(), "dropped")
	req.Contains(buf.String(), `"message":"kept"`)
	req.Contains(buf.String(), `"service":"chat-server"`)
}

func TestSetLevel_AppliesToDerivedLoggers(t *testing.T) {
	req := require.New(t)
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	child := NewWithWriter(Config{Level: "trace"}, &buf).With().Str(FieldChatID, "1").Logger()

	SetLevel("error")
	child.Warn().Msg("quiet")
	req.Empty(buf.String())

	SetLevel("debug")
	child.Debug().Msg("loud")
	req.Contains(buf.String(), "loud")
}

func TestParseLevel_Aliases(t *testing.T) {
	req := require.New(t)
	req.Equal(zerolog.WarnLevel, parseLevel(" WARNING "))
	req.Equal(zerolog.Disabled, parseLevel("off"))
	req.Equal(zerolog.InfoLevel, parseLevel("bogus"))
}
