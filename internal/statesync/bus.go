// path: internal/statesync/bus.go

// Package statesync carries game-state events across the engine boundary.
// The rules engine computes successor states; everything downstream of that
// (clients, spectators, persistence replicas) learns about them through a Bus.
// The engine neither knows nor cares which transport backs it.
package statesync

import (
	"context"
	"errors"
	"time"
)

// EventGameSnapshot is published after every committed move, reset and
// creation, carrying the full serialized game.
const EventGameSnapshot = "game.snapshot"

var (
	// ErrBusFull reports a publish dropped because the bus cannot keep up.
	// State sync is best-effort; the move that triggered it stays committed.
	ErrBusFull = errors.New("statesync: bus full, event dropped")

	// ErrBusClosed reports an operation on a closed bus.
	ErrBusClosed = errors.New("statesync: bus closed")
)

// Envelope wraps one event for transport.
type Envelope struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	EventType string    `json:"eventType"`
	GameID    string    `json:"gameId"`
	Payload   []byte    `json:"payload"`
}

// Handler consumes delivered envelopes. Handlers must not block; slow
// consumers stall delivery for their whole subscription.
type Handler func(Envelope)

// Subscription is a live handler registration.
type Subscription interface {
	Unsubscribe() error
}

// Bus publishes envelopes keyed by game id and delivers them to subscribers.
type Bus interface {
	// Publish submits the envelope for delivery.
	Publish(ctx context.Context, env Envelope) error

	// Subscribe registers a handler for one game id, or for every game when
	// gameID is empty.
	Subscribe(gameID string, h Handler) (Subscription, error)

	Close() error
}
