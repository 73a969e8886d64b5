package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wrxx97/chat/notify-server/internal/domain"
	"github.com/wrxx97/chat/notify-server/internal/hub"
	pkglog "github.com/wrxx97/chat/pkg/log"
	"github.com/wrxx97/chat/pkg/middleware"
	"github.com/wrxx97/chat/pkg/response"
)

// Subscriber is the side of the hub streams read from.
type Subscriber interface {
	Subscribe(userID int64) (*hub.Receiver, bool)
}

type StreamConfig struct {
	KeepAliveInterval time.Duration
	KeepAliveText     string
}

type StreamHandler struct {
	hub Subscriber
	cfg StreamConfig
}

func NewStreamHandler(h Subscriber, cfg StreamConfig) *StreamHandler {
	if cfg.KeepAliveInterval <= 0 {
		cfg.KeepAliveInterval = time.Second
	}
	return &StreamHandler{hub: h, cfg: cfg}
}

// RegisterRoutes mounts the event stream behind the token check.
func (h *StreamHandler) RegisterRoutes(r gin.IRouter, verifier middleware.TokenVerifier) {
	r.GET("/events", middleware.RequireAuth(verifier), h.Events)
}

// Events streams the caller's change events as server-sent events until the
// client goes away.
func (h *StreamHandler) Events(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	user := middleware.GetUser(c)
	if user == nil {
		response.Unauthorized(c, "unauthenticated")
		return
	}

	rx, existed := h.hub.Subscribe(user.ID)
	defer rx.Close()

	if existed {
		l.Info().Int64(pkglog.FieldUserID, user.ID).Msg("user reconnected to event stream")
	} else {
		l.Info().Int64(pkglog.FieldUserID, user.ID).Msg("user opened first event stream")
	}

	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	ticker := time.NewTicker(h.cfg.KeepAliveInterval)
	defer ticker.Stop()

	for {
		ready := rx.Ready()
		if !h.drain(c, rx) {
			return
		}
		w.Flush()

		select {
		case <-ctx.Done():
			l.Debug().Int64(pkglog.FieldUserID, user.ID).Msg("event stream closed")
			return
		case <-ready:
		case <-ticker.C:
			if _, err := fmt.Fprintf(w, ": %s\n\n", h.cfg.KeepAliveText); err != nil {
				return
			}
			w.Flush()
		}
	}
}

// drain writes every pending event. It returns false once the receiver is unusable.
func (h *StreamHandler) drain(c *gin.Context, rx *hub.Receiver) bool {
	l := pkglog.Ctx(c.Request.Context())

	for {
		evt, err := rx.TryRecv()
		var lagged *hub.LaggedError
		switch {
		case err == nil:
		case errors.Is(err, hub.ErrEmpty):
			return true
		case errors.As(err, &lagged):
			l.Warn().Uint64(pkglog.FieldMissed, lagged.Missed).Msg("event stream lagged, events dropped")
			continue
		default:
			l.Error().Err(err).Msg("event stream receiver failed")
			return false
		}

		data, err := domain.Encode(evt)
		if err != nil {
			l.Error().Err(err).Str(pkglog.FieldEvent, domain.Label(evt)).Msg("failed to encode event, skipping")
			continue
		}
		c.SSEvent(domain.Label(evt), string(data))
	}
}
