package hub

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wrxx97/chat/notify-server/internal/domain"
)

var (
	ErrEmpty  = errors.New("hub: no pending event")
	ErrClosed = errors.New("hub: receiver closed")
)

// LaggedError reports events a receiver lost because it fell more than the
// buffer capacity behind. The receiver has already skipped ahead.
type LaggedError struct {
	Missed uint64
}

func (e *LaggedError) Error() string {
	return fmt.Sprintf("hub: receiver lagged, %d events missed", e.Missed)
}

// Broadcast is a bounded multi-consumer ring. Send never blocks: the oldest
// event is overwritten and slow receivers find out through LaggedError.
type Broadcast struct {
	mu        sync.Mutex
	buf       []domain.ChangeEvent
	tail      uint64 // sequence number of the next event
	wake      chan struct{}
	receivers int
}

func NewBroadcast(capacity int) *Broadcast {
	if capacity < 1 {
		capacity = 1
	}
	return &Broadcast{
		buf:  make([]domain.ChangeEvent, capacity),
		wake: make(chan struct{}),
	}
}

// Send appends evt and wakes waiting receivers. It returns the number of
// live receivers at the time of the send.
func (b *Broadcast) Send(evt domain.ChangeEvent) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf[b.tail%uint64(len(b.buf))] = evt
	b.tail++

	close(b.wake)
	b.wake = make(chan struct{})

	return b.receivers
}

// Subscribe returns a receiver positioned after every event sent so far.
func (b *Broadcast) Subscribe() *Receiver {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.receivers++
	return &Receiver{b: b, next: b.tail}
}

func (b *Broadcast) ReceiverCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.receivers
}

// Receiver reads a Broadcast from its own cursor. A Receiver is not safe for
// concurrent use.
type Receiver struct {
	b      *Broadcast
	next   uint64
	closed bool
}

// Ready returns a channel closed by the next Send. Take it before draining
// with TryRecv so no wake-up is lost.
func (r *Receiver) Ready() <-chan struct{} {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	return r.b.wake
}

// TryRecv returns the next event, ErrEmpty when caught up, or a *LaggedError
// after which the next call yields the oldest retained event.
func (r *Receiver) TryRecv() (domain.ChangeEvent, error) {
	if r.closed {
		return nil, ErrClosed
	}

	b := r.b
	b.mu.Lock()
	defer b.mu.Unlock()

	if r.next == b.tail {
		return nil, ErrEmpty
	}

	capacity := uint64(len(b.buf))
	if b.tail-r.next > capacity {
		oldest := b.tail - capacity
		missed := oldest - r.next
		r.next = oldest
		return nil, &LaggedError{Missed: missed}
	}

	evt := b.buf[r.next%capacity]
	r.next++
	return evt, nil
}

// Recv blocks until an event is available, the receiver lags or ctx is done.
func (r *Receiver) Recv(ctx context.Context) (domain.ChangeEvent, error) {
	for {
		ready := r.Ready()
		evt, err := r.TryRecv()
		if !errors.Is(err, ErrEmpty) {
			return evt, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ready:
		}
	}
}

// Close detaches the receiver. The Broadcast stays alive for later subscribers.
func (r *Receiver) Close() {
	if r.closed {
		return
	}
	r.closed = true

	r.b.mu.Lock()
	r.b.receivers--
	r.b.mu.Unlock()
}
