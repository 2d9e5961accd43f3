// path: internal/statesync/nats.go
package statesync

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATSBus carries envelopes over NATS subjects, one subject per game id under
// a common prefix, so clients subscribe to exactly the games they watch.
type NATSBus struct {
	conn   *nats.Conn
	prefix string
}

// NewNATSBus connects to the NATS server at url. prefix defaults to "chess".
func NewNATSBus(url, prefix string) (*NATSBus, error) {
	if prefix == "" {
		prefix = "chess"
	}
	conn, err := nats.Connect(url,
		nats.Name("chess-statesync"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("statesync: connect %s: %w", url, err)
	}
	return &NATSBus{conn: conn, prefix: prefix}, nil
}

func (b *NATSBus) subject(gameID string) string {
	if gameID == "" {
		return b.prefix + ".>"
	}
	return b.prefix + "." + gameID
}

func (b *NATSBus) Publish(ctx context.Context, env Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.conn.IsClosed() {
		return ErrBusClosed
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("statesync: encode envelope: %w", err)
	}
	if err := b.conn.Publish(b.subject(env.GameID), data); err != nil {
		return fmt.Errorf("statesync: publish %s: %w", env.GameID, err)
	}
	return nil
}

func (b *NATSBus) Subscribe(gameID string, h Handler) (Subscription, error) {
	sub, err := b.conn.Subscribe(b.subject(gameID), func(msg *nats.Msg) {
		var env Envelope
		if err := json.Unmarshal(msg.Data, &env); err != nil {
			return
		}
		h(env)
	})
	if err != nil {
		return nil, fmt.Errorf("statesync: subscribe %s: %w", gameID, err)
	}
	return natsSub{sub}, nil
}

// Close flushes buffered publishes before dropping the connection.
func (b *NATSBus) Close() error {
	if b.conn.IsClosed() {
		return nil
	}
	return b.conn.Drain()
}

type natsSub struct {
	sub *nats.Subscription
}

func (s natsSub) Unsubscribe() error { return s.sub.Unsubscribe() }
