// path: internal/statesync/memory.go
package statesync

import (
	"context"
	"sync"
)

// MemoryBus is the in-process Bus: a buffered queue drained by one dispatch
// goroutine. Publishing never blocks; events beyond the buffer are dropped
// with ErrBusFull. Suitable for single-node deployments and tests.
type MemoryBus struct {
	mu     sync.RWMutex
	subs   map[string][]*memorySub
	queue  chan Envelope
	done   chan struct{}
	closed bool
}

type memorySub struct {
	bus     *MemoryBus
	gameID  string
	handler Handler
}

// NewMemoryBus starts the dispatch goroutine over a buffer of the given size.
func NewMemoryBus(buffer int) *MemoryBus {
	if buffer <= 0 {
		buffer = 256
	}
	b := &MemoryBus{
		subs:  make(map[string][]*memorySub),
		queue: make(chan Envelope, buffer),
		done:  make(chan struct{}),
	}
	go b.dispatch()
	return b
}

func (b *MemoryBus) dispatch() {
	defer close(b.done)
	for env := range b.queue {
		b.mu.RLock()
		targets := make([]*memorySub, 0, len(b.subs[env.GameID])+len(b.subs[""]))
		targets = append(targets, b.subs[env.GameID]...)
		if env.GameID != "" {
			targets = append(targets, b.subs[""]...)
		}
		b.mu.RUnlock()
		for _, sub := range targets {
			sub.handler(env)
		}
	}
}

// Publish is non-blocking. The read lock is held across the send so Close
// cannot tear down the queue underneath an in-flight publish.
func (b *MemoryBus) Publish(ctx context.Context, env Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}
	select {
	case b.queue <- env:
		return nil
	default:
		return ErrBusFull
	}
}

func (b *MemoryBus) Subscribe(gameID string, h Handler) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBusClosed
	}
	sub := &memorySub{bus: b, gameID: gameID, handler: h}
	b.subs[gameID] = append(b.subs[gameID], sub)
	return sub, nil
}

// Close stops accepting publishes, drains the queue and waits for the
// dispatch goroutine to finish.
func (b *MemoryBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	close(b.queue)
	<-b.done
	return nil
}

func (s *memorySub) Unsubscribe() error {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	subs := s.bus.subs[s.gameID]
	for i, cand := range subs {
		if cand == s {
			s.bus.subs[s.gameID] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	return nil
}
