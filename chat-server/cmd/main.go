package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/wrxx97/chat/chat-server/internal/cache"
	"github.com/wrxx97/chat/chat-server/internal/config"
	"github.com/wrxx97/chat/chat-server/internal/domain"
	"github.com/wrxx97/chat/chat-server/internal/handler"
	"github.com/wrxx97/chat/chat-server/internal/repository"
	"github.com/wrxx97/chat/chat-server/internal/service"
	"github.com/wrxx97/chat/pkg/database"
	"github.com/wrxx97/chat/pkg/jwt"
	pkglog "github.com/wrxx97/chat/pkg/log"
	"github.com/wrxx97/chat/pkg/middleware"
	"github.com/wrxx97/chat/pkg/pubsub"
	"github.com/wrxx97/chat/pkg/storage"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tokens, err := jwt.NewManager(cfg.Auth.SK, cfg.Auth.PK, cfg.Auth.TokenTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load token keys")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.AutoMigrate(db, domain.Models()...); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}
	if err := repository.InstallNotifyTriggers(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to install notify triggers")
	}
	if cfg.Notify.Driver == pubsub.DriverPostgres && cfg.Database.Driver != database.DriverPostgres {
		logger.Warn().Str("database", cfg.Database.Driver).Msg("postgres notify driver without a postgres database: no change notifications will be sent")
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}

	publisher, err := pubsub.NewPublisher(cfg.Notify)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize publisher")
	}
	defer publisher.Close()

	chatCache, err := cache.New(cfg.Cache)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to cache")
	}
	defer chatCache.Close()

	userRepo := repository.NewGormUserRepository(db)
	chatRepo := repository.NewGormChatRepository(db)

	chatService := service.NewChatService(chatRepo, userRepo, chatCache, publisher)
	h := handler.NewHandler(handler.Services{
		Auth:       service.NewAuthService(userRepo, repository.NewGormWorkspaceRepository(db), tokens),
		Workspaces: service.NewWorkspaceService(userRepo),
		Chats:      chatService,
		Messages:   service.NewMessageService(repository.NewGormMessageRepository(db), chatService, store, publisher),
		Files:      service.NewFileService(store),
	}, cfg.Server.MaxUploadSize)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))
	r.Use(middleware.ServerTime())

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h.RegisterRoutes(r, tokens)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		logger.Info().Str("addr", addr).Str("notify", cfg.Notify.Driver).Msg("chat-server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down chat-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("server forced to shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
