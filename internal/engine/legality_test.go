// path: internal/engine/legality_test.go
package engine

import (
	"errors"
	"testing"
)

func moveSet(moves []Move) map[Coord]Move {
	set := make(map[Coord]Move, len(moves))
	for _, m := range moves {
		set[m.To] = m
	}
	return set
}

func TestPinnedRookStaysOnThePinLine(t *testing.T) {
	b := NewBoard()
	b.Place(mustCoord(t, "a1a"), &Piece{Type: King, Color: White})
	rook := &Piece{Type: Rook, Color: White}
	b.Place(mustCoord(t, "a1c"), rook)
	b.Place(mustCoord(t, "a1g"), &Piece{Type: Rook, Color: Black})
	b.Place(mustCoord(t, "h8h"), &Piece{Type: King, Color: Black})

	moves, err := LegalMoves(b, rook)
	if err != nil {
		t.Fatalf("legal moves: %v", err)
	}
	set := moveSet(moves)
	if _, ok := set[mustCoord(t, "b1c")]; ok {
		t.Fatalf("pinned rook must not leave the pin line")
	}
	if _, ok := set[mustCoord(t, "a1e")]; !ok {
		t.Fatalf("pinned rook should slide along the pin line")
	}
	capture, ok := set[mustCoord(t, "a1g")]
	if !ok {
		t.Fatalf("pinned rook should be able to capture the pinning rook")
	}
	if !capture.Capture {
		t.Fatalf("expected capture flag on %s", capture.To)
	}
}

func TestKingMayNotStepIntoAttack(t *testing.T) {
	b := NewBoard()
	king := &Piece{Type: King, Color: White}
	b.Place(mustCoord(t, "a1a"), king)
	b.Place(mustCoord(t, "b8a"), &Piece{Type: Rook, Color: Black})
	b.Place(mustCoord(t, "h8h"), &Piece{Type: King, Color: Black})

	moves, err := LegalMoves(b, king)
	if err != nil {
		t.Fatalf("legal moves: %v", err)
	}
	set := moveSet(moves)
	for _, attacked := range []string{"b1a", "b2a"} {
		if _, ok := set[mustCoord(t, attacked)]; ok {
			t.Fatalf("king must not step onto attacked square %s", attacked)
		}
	}
	if _, ok := set[mustCoord(t, "a2a")]; !ok {
		t.Fatalf("expected safe square a2a in king's legal set")
	}
}

func TestLegalMovesRejectsDesyncedPiece(t *testing.T) {
	b := NewBoard()
	b.Place(mustCoord(t, "a1a"), &Piece{Type: King, Color: White})
	stray := &Piece{Type: Rook, Color: White, Pos: mustCoord(t, "d4d")}

	if _, err := LegalMoves(b, stray); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected ErrInvariantViolation, got %v", err)
	}
}

// castlingBase is the minimal position where White may castle both sides.
func castlingBase(t *testing.T) *Board {
	t.Helper()
	b := NewBoard()
	b.Place(mustCoord(t, "e1a"), &Piece{Type: King, Color: White})
	b.Place(mustCoord(t, "h1a"), &Piece{Type: Rook, Color: White})
	b.Place(mustCoord(t, "a1a"), &Piece{Type: Rook, Color: White})
	b.Place(mustCoord(t, "h8h"), &Piece{Type: King, Color: Black})
	return b
}

func castleFor(t *testing.T, b *Board, side CastlingSide) (Move, bool) {
	t.Helper()
	king := b.At(mustCoord(t, "e1a"))
	if king == nil {
		t.Fatalf("no king at e1a")
	}
	moves, err := LegalMoves(b, king)
	if err != nil {
		t.Fatalf("legal moves: %v", err)
	}
	for _, m := range moves {
		if m.Castle == side {
			return m, true
		}
	}
	return Move{}, false
}

func TestCastlingGating(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(t *testing.T, b *Board)
		wantKingside  bool
		wantQueenside bool
	}{
		{
			name:          "both sides available",
			wantKingside:  true,
			wantQueenside: true,
		},
		{
			name: "moved king castles nowhere",
			mutate: func(t *testing.T, b *Board) {
				b.At(mustCoord(t, "e1a")).Moved = true
			},
		},
		{
			name: "moved kingside rook blocks only its side",
			mutate: func(t *testing.T, b *Board) {
				b.At(mustCoord(t, "h1a")).Moved = true
			},
			wantQueenside: true,
		},
		{
			name: "occupied square between king and rook",
			mutate: func(t *testing.T, b *Board) {
				b.Place(mustCoord(t, "f1a"), &Piece{Type: Bishop, Color: White})
			},
			wantQueenside: true,
		},
		{
			name: "attacked king path",
			mutate: func(t *testing.T, b *Board) {
				b.Place(mustCoord(t, "f8a"), &Piece{Type: Rook, Color: Black})
			},
			wantQueenside: true,
		},
		{
			name: "attacked king destination",
			mutate: func(t *testing.T, b *Board) {
				b.Place(mustCoord(t, "g8a"), &Piece{Type: Rook, Color: Black})
			},
			wantQueenside: true,
		},
		{
			name: "king in check castles nowhere",
			mutate: func(t *testing.T, b *Board) {
				b.Place(mustCoord(t, "e8a"), &Piece{Type: Rook, Color: Black})
			},
		},
		{
			name: "rook on another layer does not qualify",
			mutate: func(t *testing.T, b *Board) {
				rook := b.Remove(mustCoord(t, "h1a"))
				b.Place(mustCoord(t, "h1b"), rook)
			},
			wantQueenside: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			b := castlingBase(t)
			if tt.mutate != nil {
				tt.mutate(t, b)
			}
			if _, ok := castleFor(t, b, CastleKingside); ok != tt.wantKingside {
				t.Fatalf("kingside castle presence = %v, want %v", ok, tt.wantKingside)
			}
			if _, ok := castleFor(t, b, CastleQueenside); ok != tt.wantQueenside {
				t.Fatalf("queenside castle presence = %v, want %v", ok, tt.wantQueenside)
			}
		})
	}
}

func TestCastleNeedsRoomForTheKingWalk(t *testing.T) {
	// An unmoved king parked one or two files from an unmoved corner rook
	// satisfies every other castling precondition, but the two-file walk
	// would leave the board or land on the rook itself. Neither candidate
	// may be generated.
	tests := []struct {
		name string
		king string
		rook string
	}{
		{name: "kingside walk off the board", king: "g1a", rook: "h1a"},
		{name: "kingside walk onto the rook", king: "f1a", rook: "h1a"},
		{name: "queenside walk off the board", king: "b1a", rook: "a1a"},
		{name: "queenside walk onto the rook", king: "c1a", rook: "a1a"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoard()
			king := &Piece{Type: King, Color: White}
			b.Place(mustCoord(t, tt.king), king)
			b.Place(mustCoord(t, tt.rook), &Piece{Type: Rook, Color: White})
			b.Place(mustCoord(t, "h8h"), &Piece{Type: King, Color: Black})

			moves, err := LegalMoves(b, king)
			if err != nil {
				t.Fatalf("legal moves: %v", err)
			}
			for _, m := range moves {
				if m.Castle != CastleNone {
					t.Fatalf("generated castle candidate %s -> %s with no room for the king", m.From, m.To)
				}
				if !m.To.InBounds() {
					t.Fatalf("generated out-of-range destination %s", m.To)
				}
				if m.To == mustCoord(t, tt.rook) {
					t.Fatalf("generated king move onto the friendly rook at %s", tt.rook)
				}
			}
		})
	}
}

func TestExecuteCastleRelocatesRook(t *testing.T) {
	tests := []struct {
		name     string
		side     CastlingSide
		kingDest string
		rookDest string
		rookFrom string
	}{
		{name: "kingside", side: CastleKingside, kingDest: "g1a", rookDest: "f1a", rookFrom: "h1a"},
		{name: "queenside", side: CastleQueenside, kingDest: "c1a", rookDest: "d1a", rookFrom: "a1a"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			b := castlingBase(t)
			m, ok := castleFor(t, b, tt.side)
			if !ok {
				t.Fatalf("expected %s castle to be available", tt.side)
			}
			if m.To != mustCoord(t, tt.kingDest) {
				t.Fatalf("king destination = %s, want %s", m.To, tt.kingDest)
			}

			res, err := Execute(b, m)
			if err != nil {
				t.Fatalf("execute castle: %v", err)
			}
			next := res.Board
			king := next.At(mustCoord(t, tt.kingDest))
			if king == nil || king.Type != King || !king.Moved {
				t.Fatalf("expected moved king on %s", tt.kingDest)
			}
			rook := next.At(mustCoord(t, tt.rookDest))
			if rook == nil || rook.Type != Rook || !rook.Moved {
				t.Fatalf("expected moved rook on %s", tt.rookDest)
			}
			if next.At(mustCoord(t, tt.rookFrom)) != nil {
				t.Fatalf("expected rook corner %s to be vacated", tt.rookFrom)
			}
		})
	}
}
