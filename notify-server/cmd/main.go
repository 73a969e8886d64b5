package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/wrxx97/chat/notify-server/internal/config"
	"github.com/wrxx97/chat/notify-server/internal/handler"
	"github.com/wrxx97/chat/notify-server/internal/hub"
	"github.com/wrxx97/chat/notify-server/internal/listener"
	"github.com/wrxx97/chat/pkg/jwt"
	pkglog "github.com/wrxx97/chat/pkg/log"
	"github.com/wrxx97/chat/pkg/pubsub"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	pkglog.Init(cfg.Log)
	logger := pkglog.L()
	cfg.WatchLogLevel(func(level string) {
		pkglog.SetLevel(level)
		logger.Info().Str("level", level).Msg("log level reloaded")
	})

	verifier, err := jwt.NewVerifier(cfg.Auth.PK)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load token verifying key")
	}

	dsn, err := cfg.Database.DSN()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid database config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := hub.NewRegistry(cfg.Stream.ChannelCapacity)

	openSource := func(ctx context.Context) (pubsub.Source, error) {
		return pubsub.NewSource(ctx, cfg.Notify, dsn, pubsub.Channels()...)
	}
	l := listener.New(openSource, registry, listener.Options{
		MaxReconnects: cfg.Listener.MaxReconnects,
		Backoff:       cfg.Listener.ReconnectBackoff,
	}, logger.With().Str("component", "listener").Logger())

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "users": registry.Len()})
	})

	handler.NewStreamHandler(registry, handler.StreamConfig{
		KeepAliveInterval: cfg.Stream.KeepAliveInterval,
		KeepAliveText:     cfg.Stream.KeepAliveText,
	}).RegisterRoutes(r, verifier)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	g, gctx := errgroup.WithContext(ctx)

	// Streams inherit gctx so they end on shutdown instead of holding it open.
	server := &http.Server{
		Addr:        addr,
		Handler:     r,
		BaseContext: func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		// Missed notifications cannot be replayed, so a dead feed takes the
		// whole process down and the supervisor restarts it.
		if err := l.Run(gctx); err != nil {
			return fmt.Errorf("change listener stopped: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info().Str("addr", addr).Str("driver", cfg.Notify.Driver).Msg("notify-server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down notify-server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("server forced to shutdown")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("notify-server stopped")
	}
}
