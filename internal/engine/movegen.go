// path: internal/engine/movegen.go
package engine

// Direction tables for the 3D generalization of the classic piece geometry.
// Rooks slide along the six axis units; bishops along the twelve two-axis
// diagonals (the 2D diagonal applied independently in the xy, xz and yz
// planes); kings step to any of the 26 unit neighbors; knights jump any
// permutation of displacement magnitudes {2,1,0} across the three axes.
var (
	axisDirections = [6]Delta{
		{DX: 1}, {DX: -1},
		{DY: 1}, {DY: -1},
		{DZ: 1}, {DZ: -1},
	}
	diagonalDirections []Delta
	kingOffsets        []Delta
	knightOffsets      []Delta
)

func init() {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				nonzero := abs(dx) + abs(dy) + abs(dz)
				if nonzero == 0 {
					continue
				}
				kingOffsets = append(kingOffsets, Delta{DX: dx, DY: dy, DZ: dz})
				if nonzero == 2 {
					diagonalDirections = append(diagonalDirections, Delta{DX: dx, DY: dy, DZ: dz})
				}
			}
		}
	}
	for dx := -2; dx <= 2; dx++ {
		for dy := -2; dy <= 2; dy++ {
			for dz := -2; dz <= 2; dz++ {
				if isKnightDelta(abs(dx), abs(dy), abs(dz)) {
					knightOffsets = append(knightOffsets, Delta{DX: dx, DY: dy, DZ: dz})
				}
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// isKnightDelta reports whether the magnitudes are a permutation of {2,1,0}.
func isKnightDelta(mx, my, mz int) bool {
	lo, mid, hi := mx, my, mz
	if lo > mid {
		lo, mid = mid, lo
	}
	if mid > hi {
		mid, hi = hi, mid
	}
	if lo > mid {
		lo, mid = mid, lo
	}
	return lo == 0 && mid == 1 && hi == 2
}

// PseudoLegalTargets enumerates destinations that respect piece geometry and
// occupancy but ignore whether the mover's own king is left in check.
// Generation order is unspecified; callers must treat the result as a set.
func (b *Board) PseudoLegalTargets(pc *Piece) []Coord {
	return b.targets(pc, false)
}

// targets is the shared generator. In attack mode, pawn forward pushes are
// skipped (they cannot capture) and occupied squares are included regardless
// of the occupant's color, so defended squares count as attacked. Castling is
// never generated here; it needs multi-square state and lives in the legality
// filter.
func (b *Board) targets(pc *Piece, attacksOnly bool) []Coord {
	if pc == nil {
		return nil
	}
	switch pc.Type {
	case Pawn:
		return b.pawnTargets(pc, attacksOnly)
	case Knight:
		return b.jumpTargets(pc, knightOffsets, attacksOnly)
	case Bishop:
		return b.slideTargets(pc, diagonalDirections, attacksOnly)
	case Rook:
		return b.slideTargets(pc, axisDirections[:], attacksOnly)
	case Queen:
		out := b.slideTargets(pc, axisDirections[:], attacksOnly)
		return append(out, b.slideTargets(pc, diagonalDirections, attacksOnly)...)
	case King:
		return b.jumpTargets(pc, kingOffsets, attacksOnly)
	default:
		return nil
	}
}

// slideTargets walks each ray until the board edge or the first occupied
// square. A friendly occupant blocks; an enemy occupant is included as a
// capture and then blocks.
func (b *Board) slideTargets(pc *Piece, directions []Delta, attacksOnly bool) []Coord {
	var out []Coord
	for _, d := range directions {
		for cur := pc.Pos.Shift(d); cur.InBounds(); cur = cur.Shift(d) {
			occupant := b.At(cur)
			if occupant == nil {
				out = append(out, cur)
				continue
			}
			if attacksOnly || occupant.Color != pc.Color {
				out = append(out, cur)
			}
			break
		}
	}
	return out
}

// jumpTargets handles knights and kings: fixed offsets, no path blocking.
func (b *Board) jumpTargets(pc *Piece, offsets []Delta, attacksOnly bool) []Coord {
	var out []Coord
	for _, d := range offsets {
		cur := pc.Pos.Shift(d)
		if !cur.InBounds() {
			continue
		}
		occupant := b.At(cur)
		if occupant == nil || attacksOnly || occupant.Color != pc.Color {
			out = append(out, cur)
		}
	}
	return out
}

// pawnTargets generates the forward push (one step along the color's
// advancing layer axis onto an empty square, or two from the starting layer
// while the pawn is unmoved), and the two capture diagonals: one step forward
// combined with one step sideways along x, onto an enemy-occupied square.
func (b *Board) pawnTargets(pc *Piece, attacksOnly bool) []Coord {
	var out []Coord
	forward := Delta{DZ: pc.Color.Forward()}

	if !attacksOnly {
		step := pc.Pos.Shift(forward)
		if step.InBounds() && b.At(step) == nil {
			out = append(out, step)
			double := step.Shift(forward)
			if !pc.Moved && double.InBounds() && b.At(double) == nil {
				out = append(out, double)
			}
		}
	}

	for _, dx := range [2]int{-1, 1} {
		cur := pc.Pos.Shift(Delta{DX: dx, DZ: pc.Color.Forward()})
		if !cur.InBounds() {
			continue
		}
		if attacksOnly {
			out = append(out, cur)
			continue
		}
		if victim := b.At(cur); victim != nil && victim.Color != pc.Color {
			out = append(out, cur)
		}
	}
	return out
}
