// Package hub routes change events to the live streams of each user.
package hub

import (
	"sync"

	"github.com/wrxx97/chat/notify-server/internal/domain"
)

const (
	shardCount = 32

	DefaultCapacity = 256
)

// Registry maps user ids to their Broadcast. It is striped so traffic for one
// user never contends with another user on a different shard. Entries are
// created on first subscribe and kept for the life of the process.
type Registry struct {
	shards   [shardCount]*shard
	capacity int
}

type shard struct {
	mu       sync.RWMutex
	channels map[int64]*Broadcast
}

func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	r := &Registry{capacity: capacity}
	for i := range r.shards {
		r.shards[i] = &shard{channels: make(map[int64]*Broadcast)}
	}
	return r
}

func (r *Registry) shardFor(userID int64) *shard {
	return r.shards[uint64(userID)%shardCount]
}

func (r *Registry) lookup(userID int64) *Broadcast {
	s := r.shardFor(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.channels[userID]
}

// Subscribe attaches a new receiver to userID's channel, creating the channel
// if needed. existed reports whether the channel was already there.
func (r *Registry) Subscribe(userID int64) (rx *Receiver, existed bool) {
	if b := r.lookup(userID); b != nil {
		return b.Subscribe(), true
	}

	s := r.shardFor(userID)
	s.mu.Lock()
	b, existed := s.channels[userID]
	if !existed {
		b = NewBroadcast(r.capacity)
		s.channels[userID] = b
	}
	s.mu.Unlock()

	return b.Subscribe(), existed
}

// Publish hands evt to userID's channel. It never blocks and reports false
// when the user has never subscribed.
func (r *Registry) Publish(userID int64, evt domain.ChangeEvent) bool {
	b := r.lookup(userID)
	if b == nil {
		return false
	}
	b.Send(evt)
	return true
}

// ReceiverCount returns the live receivers for userID.
func (r *Registry) ReceiverCount(userID int64) int {
	if b := r.lookup(userID); b != nil {
		return b.ReceiverCount()
	}
	return 0
}

// Len returns the number of users with a channel.
func (r *Registry) Len() int {
	n := 0
	for _, s := range r.shards {
		s.mu.RLock()
		n += len(s.channels)
		s.mu.RUnlock()
	}
	return n
}
