// path: internal/session/manager.go

// Package session keeps the registry of live games. Each session wraps one
// engine.Game behind its own mutex; the engine itself is single-threaded per
// game, so the manager owns all cross-request serialization.
package session

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Shibainu432/3D-Chesss/internal/engine"
	"github.com/Shibainu432/3D-Chesss/internal/statesync"
)

// ErrGameNotFound reports an unknown game id.
var ErrGameNotFound = errors.New("session: game not found")

// SnapshotStore is the persistence collaborator, satisfied by store.Store.
type SnapshotStore interface {
	SaveGame(engine.GameSnapshot) error
	LoadGame(string) (engine.GameSnapshot, error)
	ListGames() ([]string, error)
}

// Manager owns every live session. Zero collaborators are fine: with a nil
// publisher and store the manager is a purely in-memory registry.
type Manager struct {
	logger    *zap.Logger
	publisher *statesync.Publisher
	store     SnapshotStore

	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	mu   sync.Mutex
	game *engine.Game
}

// NewManager builds a manager. publisher and store may be nil.
func NewManager(logger *zap.Logger, publisher *statesync.Publisher, store SnapshotStore) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		logger:    logger,
		publisher: publisher,
		store:     store,
		sessions:  make(map[string]*session),
	}
}

// CreateGame starts a fresh game and returns its snapshot.
func (m *Manager) CreateGame(ctx context.Context) engine.GameSnapshot {
	g := engine.NewGame()

	m.mu.Lock()
	m.sessions[g.ID()] = &session{game: g}
	activeGames.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	m.logger.Info("game created", zap.String("game_id", g.ID()))
	snap := g.Snapshot()
	m.fanOut(ctx, snap)
	return snap
}

// Adopt registers an already-built game, replacing any session with the same
// id. Restore paths and tests use it to seed arbitrary positions.
func (m *Manager) Adopt(g *engine.Game) {
	m.mu.Lock()
	m.sessions[g.ID()] = &session{game: g}
	activeGames.Set(float64(len(m.sessions)))
	m.mu.Unlock()
}

// ListGames returns the ids of every live session, sorted for stable output.
func (m *Manager) ListGames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot returns the current snapshot of one game.
func (m *Manager) Snapshot(id string) (engine.GameSnapshot, error) {
	sess, err := m.get(id)
	if err != nil {
		return engine.GameSnapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.game.Snapshot(), nil
}

// LegalTargets returns the legal moves for the piece at from.
func (m *Manager) LegalTargets(id string, from engine.Coord) ([]engine.Move, error) {
	sess, err := m.get(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.game.LegalTargets(from)
}

// ProposeMove submits one move for the side on turn of the given game.
func (m *Manager) ProposeMove(ctx context.Context, id string, from, to engine.Coord, promotion engine.PieceType) (*engine.MoveOutcome, error) {
	sess, err := m.get(id)
	if err != nil {
		return nil, err
	}

	movesProposed.Inc()
	sess.mu.Lock()
	out, err := sess.game.ProposeMove(from, to, promotion)
	var snap engine.GameSnapshot
	if err == nil && out.PromotionToken == "" {
		snap = sess.game.Snapshot()
	}
	sess.mu.Unlock()

	if err != nil {
		movesRejected.WithLabelValues(rejectionReason(err)).Inc()
		return nil, err
	}
	if out.PromotionToken != "" {
		m.logger.Info("promotion pending",
			zap.String("game_id", id),
			zap.String("from", from.String()),
			zap.String("to", to.String()))
		return out, nil
	}

	movesApplied.Inc()
	m.logger.Info("move applied",
		zap.String("game_id", id),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.String("state", snap.StateName))
	m.fanOut(ctx, snap)
	return out, nil
}

// ResolvePromotion completes a pending two-phase promotion.
func (m *Manager) ResolvePromotion(ctx context.Context, id, token string, choice engine.PieceType) (*engine.MoveOutcome, error) {
	sess, err := m.get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	out, err := sess.game.ResolvePromotion(token, choice)
	var snap engine.GameSnapshot
	if err == nil {
		snap = sess.game.Snapshot()
	}
	sess.mu.Unlock()

	if err != nil {
		movesRejected.WithLabelValues(rejectionReason(err)).Inc()
		return nil, err
	}
	movesApplied.Inc()
	m.logger.Info("promotion resolved",
		zap.String("game_id", id),
		zap.String("choice", choice.Name()))
	m.fanOut(ctx, snap)
	return out, nil
}

// ResetGame puts the game back to the initial position, keeping its id.
func (m *Manager) ResetGame(ctx context.Context, id string) (engine.GameSnapshot, error) {
	sess, err := m.get(id)
	if err != nil {
		return engine.GameSnapshot{}, err
	}
	sess.mu.Lock()
	sess.game.Reset()
	snap := sess.game.Snapshot()
	sess.mu.Unlock()

	m.logger.Info("game reset", zap.String("game_id", id))
	m.fanOut(ctx, snap)
	return snap, nil
}

// RestoreFromStore loads every persisted snapshot into the registry, skipping
// the ones that no longer restore cleanly. No-op without a store.
func (m *Manager) RestoreFromStore() error {
	if m.store == nil {
		return nil
	}
	ids, err := m.store.ListGames()
	if err != nil {
		return err
	}
	restored := 0
	for _, id := range ids {
		snap, err := m.store.LoadGame(id)
		if err != nil {
			m.logger.Warn("skipping stored game", zap.String("game_id", id), zap.Error(err))
			continue
		}
		g, err := engine.RestoreGame(snap)
		if err != nil {
			m.logger.Warn("skipping corrupt snapshot", zap.String("game_id", id), zap.Error(err))
			continue
		}
		m.Adopt(g)
		restored++
	}
	m.logger.Info("restored games from store", zap.Int("count", restored))
	return nil
}

func (m *Manager) get(id string) (*session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return sess, nil
}

// fanOut pushes the committed snapshot to the optional collaborators. Both
// are best-effort: a failed sync or save never unwinds the move.
func (m *Manager) fanOut(ctx context.Context, snap engine.GameSnapshot) {
	if m.publisher != nil {
		if err := m.publisher.PublishSnapshot(ctx, snap); err != nil {
			m.logger.Warn("state sync failed", zap.String("game_id", snap.ID), zap.Error(err))
		}
	}
	if m.store != nil {
		if err := m.store.SaveGame(snap); err != nil {
			m.logger.Warn("snapshot save failed", zap.String("game_id", snap.ID), zap.Error(err))
		}
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, engine.ErrIllegalMove):
		return "illegal"
	case errors.Is(err, engine.ErrNoPiece):
		return "no_piece"
	case errors.Is(err, engine.ErrWrongTurn):
		return "wrong_turn"
	case errors.Is(err, engine.ErrGameOver):
		return "game_over"
	case errors.Is(err, engine.ErrPromotionChoice):
		return "promotion_choice"
	case errors.Is(err, engine.ErrNoPendingPromotion):
		return "no_pending_promotion"
	case errors.Is(err, engine.ErrPromotionOutstanding):
		return "promotion_outstanding"
	default:
		return "other"
	}
}
