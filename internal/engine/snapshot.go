// path: internal/engine/snapshot.go
package engine

import "fmt"

// PieceState is a serializable representation of a Piece. Moved is carried
// exactly: losing it corrupts castling and pawn double-step legality on
// reload.
type PieceState struct {
	Type      PieceType `json:"type"`
	TypeName  string    `json:"typeName"`
	Color     Color     `json:"color"`
	ColorName string    `json:"colorName"`
	Pos       Coord     `json:"pos"`
	Moved     bool      `json:"moved"`
}

// GameSnapshot is a serializable representation of a full session, handed to
// the state-sync and persistence collaborators after every executed move.
type GameSnapshot struct {
	ID        string                  `json:"id"`
	Pieces    []PieceState            `json:"pieces"`
	Turn      Color                   `json:"turn"`
	TurnName  string                  `json:"turnName"`
	Status    Status                  `json:"status"`
	StateName string                  `json:"stateName"`
	Captured  map[string][]PieceState `json:"captured"`

	// PendingPromotion echoes the outstanding two-phase token, if any.
	// Snapshots carrying one cannot be restored; they exist for display.
	PendingPromotion string `json:"pendingPromotion,omitempty"`
}

func pieceState(pc *Piece) PieceState {
	return PieceState{
		Type:      pc.Type,
		TypeName:  pc.Type.Name(),
		Color:     pc.Color,
		ColorName: pc.Color.String(),
		Pos:       pc.Pos,
		Moved:     pc.Moved,
	}
}

// Snapshot serializes the session. Pieces come out in cell-index order, so
// equal positions produce equal snapshots.
func (g *Game) Snapshot() GameSnapshot {
	snap := GameSnapshot{
		ID:        g.id,
		Pieces:    make([]PieceState, 0, 32),
		Turn:      g.turn,
		TurnName:  g.turn.String(),
		Status:    g.status,
		StateName: g.status.State.String(),
		Captured:  make(map[string][]PieceState, 2),
	}
	for _, pc := range g.board.cells {
		if pc != nil {
			snap.Pieces = append(snap.Pieces, pieceState(pc))
		}
	}
	for _, color := range []Color{White, Black} {
		states := make([]PieceState, 0, len(g.captured[color.Index()]))
		for i := range g.captured[color.Index()] {
			states = append(states, pieceState(&g.captured[color.Index()][i]))
		}
		snap.Captured[color.String()] = states
	}
	if g.pending != nil {
		snap.PendingPromotion = g.pending.token
	}
	return snap
}

// RestoreGame rebuilds a session from a snapshot, preserving every piece's
// moved flag, the captured sets and the side to move. Status is recomputed,
// never trusted from the snapshot. Snapshots with an outstanding promotion
// cannot be restored: the deferred move itself is not serialized.
func RestoreGame(snap GameSnapshot) (*Game, error) {
	if snap.ID == "" {
		return nil, fmt.Errorf("restore: snapshot missing game id")
	}
	if snap.PendingPromotion != "" {
		return nil, fmt.Errorf("restore: game %s has an unresolved promotion", snap.ID)
	}

	board := NewBoard()
	for _, ps := range snap.Pieces {
		if !ps.Pos.InBounds() {
			return nil, fmt.Errorf("restore: piece coordinate %s out of range", ps.Pos)
		}
		if board.At(ps.Pos) != nil {
			return nil, fmt.Errorf("restore: two pieces share coordinate %s", ps.Pos)
		}
		board.Place(ps.Pos, &Piece{Type: ps.Type, Color: ps.Color, Moved: ps.Moved})
	}
	for _, color := range []Color{White, Black} {
		if _, ok := board.FindKing(color); !ok {
			return nil, fmt.Errorf("restore: no %s king on the board", color)
		}
	}

	g := &Game{id: snap.ID, board: board, turn: snap.Turn}
	for colorName, states := range snap.Captured {
		color, ok := ParseColor(colorName)
		if !ok {
			return nil, fmt.Errorf("restore: unknown captured-set color %q", colorName)
		}
		for _, ps := range states {
			g.captured[color.Index()] = append(g.captured[color.Index()],
				Piece{Type: ps.Type, Color: ps.Color, Pos: ps.Pos, Moved: ps.Moved})
		}
	}
	g.status = Evaluate(g.board, g.turn)
	return g, nil
}
