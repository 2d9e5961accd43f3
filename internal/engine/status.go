// path: internal/engine/status.go
package engine

// Evaluate classifies the position for the side about to move. Checkmate and
// stalemate are global properties: every piece of the side to move is checked
// for a legal move, not just a previously selected one.
func Evaluate(b *Board, sideToMove Color) Status {
	inCheck := b.IsKingInCheck(sideToMove)
	hasMove := hasAnyLegalMove(b, sideToMove)

	status := Status{State: StateActive, InCheck: inCheck}
	switch {
	case inCheck && !hasMove:
		status.State = StateCheckmate
		status.GameOver = true
		status.HasWinner = true
		status.Winner = sideToMove.Opposite()
	case !inCheck && !hasMove:
		status.State = StateStalemate
		status.GameOver = true
	case inCheck:
		status.State = StateCheck
	}
	return status
}

func hasAnyLegalMove(b *Board, color Color) bool {
	for _, pc := range b.Pieces(color) {
		moves, err := LegalMoves(b, pc)
		if err != nil {
			continue
		}
		if len(moves) > 0 {
			return true
		}
	}
	return false
}
