// path: internal/engine/status_test.go
package engine

import "testing"

func TestEvaluateActiveOpening(t *testing.T) {
	b := NewStandardBoard()
	for _, side := range []Color{White, Black} {
		st := Evaluate(b, side)
		if st.State != StateActive || st.InCheck || st.GameOver {
			t.Fatalf("expected active opening status for %s, got %+v", side, st)
		}
	}
}

func TestEvaluateCheckWithEscape(t *testing.T) {
	b := NewBoard()
	b.Place(mustCoord(t, "a1a"), &Piece{Type: King, Color: Black})
	b.Place(mustCoord(t, "h1a"), &Piece{Type: Rook, Color: White})
	b.Place(mustCoord(t, "h8h"), &Piece{Type: King, Color: White})

	st := Evaluate(b, Black)
	if st.State != StateCheck || !st.InCheck || st.GameOver {
		t.Fatalf("expected escapable check, got %+v", st)
	}
}

func TestEvaluateCheckmate(t *testing.T) {
	// Four rooks box in the cornered king: one per rank-layer row adjacent
	// to the corner, covering the check and all seven flight squares.
	b := NewBoard()
	b.Place(mustCoord(t, "a1a"), &Piece{Type: King, Color: Black})
	for _, sq := range []string{"h1a", "h2a", "h1b", "h2b"} {
		b.Place(mustCoord(t, sq), &Piece{Type: Rook, Color: White})
	}
	b.Place(mustCoord(t, "h8h"), &Piece{Type: King, Color: White})

	st := Evaluate(b, Black)
	if st.State != StateCheckmate {
		t.Fatalf("expected checkmate, got %+v", st)
	}
	if !st.InCheck || !st.GameOver || !st.HasWinner || st.Winner != White {
		t.Fatalf("checkmate status fields wrong: %+v", st)
	}
	if !st.State.Terminal() {
		t.Fatalf("checkmate must be terminal")
	}
}

func TestEvaluateStalemate(t *testing.T) {
	// The corner square itself is uncovered; every flight square is not.
	b := NewBoard()
	b.Place(mustCoord(t, "a1a"), &Piece{Type: King, Color: Black})
	for _, sq := range []string{"h2a", "h1b", "h2b", "b1f"} {
		b.Place(mustCoord(t, sq), &Piece{Type: Rook, Color: White})
	}
	b.Place(mustCoord(t, "h8h"), &Piece{Type: King, Color: White})

	st := Evaluate(b, Black)
	if st.State != StateStalemate {
		t.Fatalf("expected stalemate, got %+v", st)
	}
	if st.InCheck || !st.GameOver || st.HasWinner {
		t.Fatalf("stalemate status fields wrong: %+v", st)
	}
	if !st.State.Terminal() {
		t.Fatalf("stalemate must be terminal")
	}
}

func TestEvaluateIsGlobalAcrossPieces(t *testing.T) {
	// The boxed-in king would be stalemated on its own, but a stray pawn
	// elsewhere still has a push, so the side retains a legal move.
	b := NewBoard()
	b.Place(mustCoord(t, "a1a"), &Piece{Type: King, Color: Black})
	for _, sq := range []string{"h2a", "h1b", "h2b", "b1f"} {
		b.Place(mustCoord(t, sq), &Piece{Type: Rook, Color: White})
	}
	b.Place(mustCoord(t, "h8h"), &Piece{Type: King, Color: White})
	b.Place(mustCoord(t, "h8f"), &Piece{Type: Pawn, Color: Black, Moved: true})

	st := Evaluate(b, Black)
	if st.State != StateActive {
		t.Fatalf("expected the pawn push to keep the position active, got %+v", st)
	}
}
