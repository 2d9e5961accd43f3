// path: internal/engine/attack.go
package engine

// IsSquareAttacked reports whether any piece of the given color attacks the
// target coordinate. Pawn non-capture forward moves and castling are excluded:
// neither can ever capture, so neither threatens a square. This is the
// engine's hottest primitive (it runs once per candidate during legality
// filtering); it scans the attacker's pieces and bails on the first hit.
func (b *Board) IsSquareAttacked(target Coord, by Color) bool {
	for _, pc := range b.cells {
		if pc == nil || pc.Color != by {
			continue
		}
		for _, t := range b.targets(pc, true) {
			if t == target {
				return true
			}
		}
	}
	return false
}

// IsKingInCheck reports whether the color's king is attacked by the opponent.
// A board with no king for the color (only reachable through hand-built test
// positions) is never in check.
func (b *Board) IsKingInCheck(color Color) bool {
	king, ok := b.FindKing(color)
	if !ok {
		return false
	}
	return b.IsSquareAttacked(king.Pos, color.Opposite())
}
