// path: internal/engine/errors.go
package engine

import "errors"

var (
	// ErrIllegalMove rejects a destination outside the legality-filtered set.
	// The board is left unchanged; the caller re-prompts for a legal move.
	ErrIllegalMove = errors.New("illegal move")

	// ErrNoPiece rejects a request naming an empty source coordinate.
	ErrNoPiece = errors.New("no piece at source coordinate")

	// ErrWrongTurn rejects a request moving the side not on turn.
	ErrWrongTurn = errors.New("not this side's turn")

	// ErrGameOver rejects moves proposed after checkmate or stalemate.
	ErrGameOver = errors.New("game is over")

	// ErrPromotionChoice rejects promotion to anything but queen, rook,
	// bishop or knight.
	ErrPromotionChoice = errors.New("invalid promotion choice")

	// ErrNoPendingPromotion rejects a promotion resolution when no move is
	// waiting on one, or when the token does not match.
	ErrNoPendingPromotion = errors.New("no matching pending promotion")

	// ErrPromotionOutstanding rejects new moves while an earlier move still
	// awaits its promotion choice.
	ErrPromotionOutstanding = errors.New("promotion resolution outstanding")

	// ErrInvariantViolation flags caller/engine state desynchronization, such
	// as a request referencing a piece not present at its claimed coordinate.
	// It indicates a precondition failure, not a recoverable game-rule case.
	ErrInvariantViolation = errors.New("board state desynchronized")
)
