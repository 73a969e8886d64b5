// Package pubsub carries raw change notifications (channel + JSON payload)
// from the chat store to the notify server. Postgres LISTEN/NOTIFY is the
// native feed; redis and kafka carry the same payloads for other setups.
package pubsub

import (
	"context"
	"errors"
)

// ErrClosed is returned by Receive after Close.
var ErrClosed = errors.New("pubsub: source closed")

// Notification is one raw change notification.
type Notification struct {
	Channel string
	Payload string
}

// Source yields notifications in arrival order. Receive blocks until a
// notification arrives, ctx is done or the connection fails; a connection
// failure is returned as an error and the Source must not be reused.
type Source interface {
	Receive(ctx context.Context) (*Notification, error)
	Close() error
}

// Publisher emits notifications onto a channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Close() error
}
