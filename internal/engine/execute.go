// path: internal/engine/execute.go
package engine

import "fmt"

// Result reports the outcome of executing one already-legal move.
type Result struct {
	// Board is the successor position. Nil while Pending.
	Board *Board

	// Captured is the enemy piece removed by the move, reported for the
	// caller's captured-set bookkeeping. Nil on quiet moves.
	Captured *Piece

	// Move echoes the executed candidate, promotion choice included.
	Move Move

	// Pending signals a pawn that reached the promotion layer without a
	// supplied choice. No board was produced; the caller must re-apply the
	// same move with Promotion set.
	Pending bool
}

// Execute applies a legality-filtered move to the board, producing the
// successor board plus a capture report. The input board is never mutated:
// all side effects land atomically on a clone. A move requiring promotion
// without a choice yields a Pending result and defers mutation entirely.
func Execute(b *Board, m Move) (*Result, error) {
	pc := b.At(m.From)
	if pc == nil {
		return nil, fmt.Errorf("%w: no piece at %s", ErrInvariantViolation, m.From)
	}

	if m.NeedsPromotion {
		if m.Promotion == NoPieceType {
			return &Result{Move: m, Pending: true}, nil
		}
		if !m.Promotion.Promotable() {
			return nil, fmt.Errorf("%w: %s", ErrPromotionChoice, m.Promotion)
		}
	}

	next := b.Clone()
	captured := applyMove(next, m, m.Promotion)
	return &Result{Board: next, Captured: captured, Move: m}, nil
}
