// path: internal/statesync/publisher.go
package statesync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Shibainu432/3D-Chesss/internal/engine"
)

// Publisher turns game snapshots into bus envelopes. One instance serves all
// games; the bus does the per-game fan-out.
type Publisher struct {
	bus    Bus
	source string
	logger *zap.Logger
}

// NewPublisher wraps the bus. source labels this node in every envelope.
func NewPublisher(bus Bus, source string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{bus: bus, source: source, logger: logger}
}

// PublishSnapshot serializes the snapshot and publishes it under the game's
// id. A full bus is logged and swallowed; sync is best-effort and must never
// fail a committed move.
func (p *Publisher) PublishSnapshot(ctx context.Context, snap engine.GameSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("statesync: encode snapshot %s: %w", snap.ID, err)
	}
	env := Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    p.source,
		EventType: EventGameSnapshot,
		GameID:    snap.ID,
		Payload:   payload,
	}
	if err := p.bus.Publish(ctx, env); err != nil {
		if errors.Is(err, ErrBusFull) {
			p.logger.Warn("snapshot dropped, bus full", zap.String("game_id", snap.ID))
			return nil
		}
		return err
	}
	return nil
}
