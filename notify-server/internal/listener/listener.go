// Package listener pumps notifications from the change source into the hub.
package listener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wrxx97/chat/notify-server/internal/domain"
	"github.com/wrxx97/chat/notify-server/internal/notify"
	pkglog "github.com/wrxx97/chat/pkg/log"
	"github.com/wrxx97/chat/pkg/pubsub"
)

// SourceFactory opens a fresh change source.
type SourceFactory func(ctx context.Context) (pubsub.Source, error)

// Publisher is the side of the hub the listener writes to.
type Publisher interface {
	Publish(userID int64, evt domain.ChangeEvent) bool
}

type Options struct {
	// MaxReconnects is how many consecutive failed connections are tolerated
	// before Run gives up. Zero means the first failure is fatal.
	MaxReconnects int
	Backoff       time.Duration
}

type Listener struct {
	open   SourceFactory
	hub    Publisher
	opts   Options
	logger zerolog.Logger
}

func New(open SourceFactory, hub Publisher, opts Options, logger zerolog.Logger) *Listener {
	return &Listener{open: open, hub: hub, opts: opts, logger: logger}
}

// Run consumes notifications until ctx is done (nil) or the source keeps
// failing past MaxReconnects (the last error). Notifications emitted while
// disconnected are lost.
func (l *Listener) Run(ctx context.Context) error {
	failures := 0
	for {
		progressed, err := l.session(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if progressed {
			failures = 0
		}

		failures++
		if failures > l.opts.MaxReconnects {
			return fmt.Errorf("change source: %w", err)
		}

		l.logger.Error().Err(err).Int(pkglog.FieldAttempt, failures).
			Dur("backoff", l.opts.Backoff).Msg("change source failed, reconnecting")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.opts.Backoff):
		}
	}
}

// session opens one source and drains it until it fails.
func (l *Listener) session(ctx context.Context) (progressed bool, err error) {
	src, err := l.open(ctx)
	if err != nil {
		return false, err
	}
	defer src.Close()

	l.logger.Info().Msg("listening for change notifications")

	for {
		n, err := src.Receive(ctx)
		if err != nil {
			if errors.Is(err, pubsub.ErrClosed) {
				err = fmt.Errorf("source closed: %w", err)
			}
			return progressed, err
		}
		progressed = true
		l.Dispatch(n)
	}
}

// Dispatch decodes one notification and publishes it to every affected user.
// Undecodable notifications are logged and skipped.
func (l *Listener) Dispatch(n *pubsub.Notification) {
	evt, users, err := notify.Decode(n.Channel, n.Payload)
	if err != nil {
		l.logger.Warn().Err(err).Str(pkglog.FieldChannel, n.Channel).Msg("skipping notification")
		return
	}

	delivered := 0
	for _, id := range users.IDs() {
		if l.hub.Publish(id, evt) {
			delivered++
		}
	}

	l.logger.Debug().
		Str(pkglog.FieldChannel, n.Channel).
		Str(pkglog.FieldEvent, domain.Label(evt)).
		Int("affected", len(users)).
		Int(pkglog.FieldReceivers, delivered).
		Msg("notification dispatched")
}
