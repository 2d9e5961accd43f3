// path: internal/engine/board.go
package engine

// Piece is a single piece on the board. Moved flips to true the first time the
// piece relocates and never resets; it gates castling eligibility and the pawn
// double-step.
type Piece struct {
	Type  PieceType
	Color Color
	Pos   Coord
	Moved bool
}

// Board maps every coordinate of the 8x8x8 lattice to at most one piece. It is
// a dumb occupancy store: no rule validation happens at this layer. Callers
// own the current board and supply it on each engine call; operations that
// change a position produce a fresh board via Clone.
type Board struct {
	cells [512]*Piece
}

// backRankOrder is the standard pattern along x at the fixed home rank.
var backRankOrder = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns an empty board.
func NewBoard() *Board { return &Board{} }

// NewStandardBoard returns the initial position: each color's back rank on its
// home layer (z=0 for White, z=7 for Black) along x at y=0, with eight pawns
// on the adjacent layer. The four middle layers start empty.
func NewStandardBoard() *Board {
	b := NewBoard()
	for _, color := range []Color{White, Black} {
		for x, pt := range backRankOrder {
			b.Place(Coord{X: x, Y: 0, Z: color.HomeLayer()}, &Piece{Type: pt, Color: color})
		}
		for x := 0; x < 8; x++ {
			b.Place(Coord{X: x, Y: 0, Z: color.PawnLayer()}, &Piece{Type: Pawn, Color: color})
		}
	}
	return b
}

// At returns the piece occupying the coordinate, or nil.
func (b *Board) At(c Coord) *Piece {
	if !c.InBounds() {
		return nil
	}
	return b.cells[c.index()]
}

// Place puts the piece on the coordinate, overwriting any occupant, and keeps
// the piece's own position in sync with its cell.
func (b *Board) Place(c Coord, pc *Piece) {
	if !c.InBounds() || pc == nil {
		return
	}
	pc.Pos = c
	b.cells[c.index()] = pc
}

// Remove vacates the coordinate and returns the piece that occupied it.
func (b *Board) Remove(c Coord) *Piece {
	if !c.InBounds() {
		return nil
	}
	pc := b.cells[c.index()]
	b.cells[c.index()] = nil
	return pc
}

// Clone returns a structural deep copy. The legality filter simulates every
// candidate move on a clone so the real game state is never mutated.
func (b *Board) Clone() *Board {
	next := &Board{}
	for i, pc := range b.cells {
		if pc == nil {
			continue
		}
		cp := *pc
		next.cells[i] = &cp
	}
	return next
}

// Pieces collects every piece of the color, in cell-index order.
func (b *Board) Pieces(color Color) []*Piece {
	var out []*Piece
	for _, pc := range b.cells {
		if pc != nil && pc.Color == color {
			out = append(out, pc)
		}
	}
	return out
}

// FindKing locates the color's king.
func (b *Board) FindKing(color Color) (*Piece, bool) {
	for _, pc := range b.cells {
		if pc != nil && pc.Color == color && pc.Type == King {
			return pc, true
		}
	}
	return nil, false
}
