// path: internal/engine/legality.go
package engine

import (
	"encoding/json"
	"fmt"
)

// Move is a candidate action. It stays a candidate until it comes out of
// LegalMoves; only filtered moves may be executed.
type Move struct {
	From    Coord
	To      Coord
	Capture bool
	Castle  CastlingSide

	// NeedsPromotion marks a pawn move onto the promotion layer. Execution
	// defers until Promotion carries one of the four promotable types.
	NeedsPromotion bool

	// Promotion is the chosen replacement type, or NoPieceType while the
	// choice is still pending. Only meaningful when NeedsPromotion is set.
	Promotion PieceType
}

// moveJSON is the wire form of Move. The promotion choice travels as the
// long-form piece name once resolved; unresolved candidates omit it, so a
// serialized outcome is self-describing.
type moveJSON struct {
	From           Coord        `json:"from"`
	To             Coord        `json:"to"`
	Capture        bool         `json:"capture,omitempty"`
	Castle         CastlingSide `json:"castle,omitempty"`
	NeedsPromotion bool         `json:"needsPromotion,omitempty"`
	Promotion      string       `json:"promotion,omitempty"`
}

func (m Move) MarshalJSON() ([]byte, error) {
	out := moveJSON{
		From:           m.From,
		To:             m.To,
		Capture:        m.Capture,
		Castle:         m.Castle,
		NeedsPromotion: m.NeedsPromotion,
	}
	if m.Promotion.Promotable() {
		out.Promotion = m.Promotion.Name()
	}
	return json.Marshal(out)
}

func (m *Move) UnmarshalJSON(data []byte) error {
	var in moveJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	m.From, m.To = in.From, in.To
	m.Capture, m.Castle, m.NeedsPromotion = in.Capture, in.Castle, in.NeedsPromotion
	m.Promotion = NoPieceType
	if in.Promotion != "" {
		pt, ok := ParsePieceType(in.Promotion)
		if !ok {
			return fmt.Errorf("invalid promotion type %q", in.Promotion)
		}
		m.Promotion = pt
	}
	return nil
}

// LegalMoves intersects the piece's pseudo-legal destinations (plus castling)
// with the constraint that the mover's own king must not be left in check.
// Every candidate is simulated on a scratch clone of the board with all of its
// side effects applied, then discarded if the simulation exposes the king.
func LegalMoves(b *Board, pc *Piece) ([]Move, error) {
	if pc == nil {
		return nil, ErrNoPiece
	}
	if b.At(pc.Pos) != pc {
		return nil, fmt.Errorf("%w: piece %s/%s not at claimed coordinate %s",
			ErrInvariantViolation, pc.Color, pc.Type, pc.Pos)
	}

	var candidates []Move
	for _, to := range b.PseudoLegalTargets(pc) {
		candidates = append(candidates, Move{
			From:           pc.Pos,
			To:             to,
			Capture:        b.At(to) != nil,
			NeedsPromotion: pc.Type == Pawn && to.Z == pc.Color.PromotionLayer(),
			Promotion:      NoPieceType,
		})
	}
	for _, side := range [2]CastlingSide{CastleKingside, CastleQueenside} {
		if m, ok := castleMove(b, pc, side); ok {
			candidates = append(candidates, m)
		}
	}

	var out []Move
	for _, m := range candidates {
		if !leavesKingInCheck(b, pc.Color, m) {
			out = append(out, m)
		}
	}
	return out, nil
}

// leavesKingInCheck simulates the candidate on a clone, side effects included.
// Partial simulation would silently under- or over-report legality, so the
// clone goes through the same applyMove used by real execution. The promotion
// placeholder is irrelevant to the check test; any mover-owned type serves.
func leavesKingInCheck(b *Board, mover Color, m Move) bool {
	sim := b.Clone()
	promotion := m.Promotion
	if m.NeedsPromotion && !promotion.Promotable() {
		promotion = Queen
	}
	applyMove(sim, m, promotion)
	return sim.IsKingInCheck(mover)
}

// castleMove builds the castling candidate for one side, or reports that it
// is unavailable. Eligibility: king and the relevant rook both unmoved and on
// the same rank and layer, every square strictly between them empty, and
// neither the king's square, its path, nor its destination attacked by the
// opponent. The king travels two files along x; the rook lands adjacent on
// the inside.
func castleMove(b *Board, king *Piece, side CastlingSide) (Move, bool) {
	if king == nil || king.Type != King || king.Moved {
		return Move{}, false
	}

	rookX, step := 7, 1
	if side == CastleQueenside {
		rookX, step = 0, -1
	}
	rook := b.At(Coord{X: rookX, Y: king.Pos.Y, Z: king.Pos.Z})
	if rook == nil || rook.Type != Rook || rook.Color != king.Color || rook.Moved {
		return Move{}, false
	}

	// The king needs room for its full two-file walk: a king parked one or
	// two files from the corner would land outside the board or on the rook
	// itself. Such placements never arise from the standard setup, but
	// hand-built and restored positions can hold them.
	dest := Coord{X: king.Pos.X + 2*step, Y: king.Pos.Y, Z: king.Pos.Z}
	if !dest.InBounds() || dest == rook.Pos {
		return Move{}, false
	}

	lo, hi := king.Pos.X, rookX
	if lo > hi {
		lo, hi = hi, lo
	}
	for x := lo + 1; x < hi; x++ {
		if b.At(Coord{X: x, Y: king.Pos.Y, Z: king.Pos.Z}) != nil {
			return Move{}, false
		}
	}

	enemy := king.Color.Opposite()
	if b.IsSquareAttacked(king.Pos, enemy) {
		return Move{}, false
	}
	for i := 1; i <= 2; i++ {
		sq := Coord{X: king.Pos.X + i*step, Y: king.Pos.Y, Z: king.Pos.Z}
		if b.IsSquareAttacked(sq, enemy) {
			return Move{}, false
		}
	}

	return Move{From: king.Pos, To: dest, Castle: side, Promotion: NoPieceType}, true
}

// castleRookSquares resolves the rook relocation for an executed castle: from
// its corner file to the square adjacent to the king's destination on the
// castled side.
func castleRookSquares(m Move) (from, to Coord) {
	rookX, inward := 7, -1
	if m.Castle == CastleQueenside {
		rookX, inward = 0, 1
	}
	from = Coord{X: rookX, Y: m.To.Y, Z: m.To.Z}
	to = Coord{X: m.To.X + inward, Y: m.To.Y, Z: m.To.Z}
	return from, to
}

// applyMove mutates b with every side effect of the move: source vacated,
// capture removed, mover flagged as moved, castle rook relocated, pawn
// replaced on promotion. It is shared between simulation and execution so the
// two can never disagree. Returns the captured piece, if any.
func applyMove(b *Board, m Move, promotion PieceType) *Piece {
	pc := b.Remove(m.From)
	if pc == nil {
		return nil
	}
	captured := b.Remove(m.To)
	pc.Moved = true
	b.Place(m.To, pc)

	if m.Castle != CastleNone {
		rookFrom, rookTo := castleRookSquares(m)
		if rook := b.Remove(rookFrom); rook != nil {
			rook.Moved = true
			b.Place(rookTo, rook)
		}
	}
	if pc.Type == Pawn && promotion.Promotable() {
		pc.Type = promotion
	}
	return captured
}
