package log

import (
	"context"

	"github.com/rs/zerolog"
)

type loggerKey struct{}

func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// WithInt64 returns ctx with its logger extended by key=val.
func WithInt64(ctx context.Context, key string, val int64) context.Context {
	return WithLogger(ctx, Ctx(ctx).With().Int64(key, val).Logger())
}

// Ctx returns the logger carried by ctx, or the process logger.
func Ctx(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
		return logger
	}
	return global
}
