package pubsub

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
)

// PostgresSource holds a dedicated connection in LISTEN mode.
type PostgresSource struct {
	conn *pgx.Conn

	mu     sync.Mutex
	closed bool
}

// NewPostgresSource connects to dsn and issues LISTEN for every channel.
func NewPostgresSource(ctx context.Context, dsn string, channels ...string) (*PostgresSource, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	for _, ch := range channels {
		if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{ch}.Sanitize()); err != nil {
			conn.Close(context.Background())
			return nil, fmt.Errorf("failed to listen on %s: %w", ch, err)
		}
	}

	return &PostgresSource{conn: conn}, nil
}

func (s *PostgresSource) Receive(ctx context.Context) (*Notification, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	n, err := s.conn.WaitForNotification(ctx)
	if err != nil {
		return nil, err
	}
	return &Notification{Channel: n.Channel, Payload: n.Payload}, nil
}

func (s *PostgresSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close(context.Background())
}
