// Package engine implements the rules of volumetric chess: an 8x8x8 board,
// per-piece move generation extended into three spatial axes, check and mate
// detection, castling, and pawn promotion. Every operation is a pure
// computation over a caller-supplied board; the engine holds no state between
// calls beyond the Game session facade.
package engine

import "fmt"

// Color identifies a side.
type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) Index() int { return int(c) }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Forward is the direction of pawn advance along the layer axis.
func (c Color) Forward() int {
	if c == White {
		return 1
	}
	return -1
}

// HomeLayer is the z layer holding the color's back rank at game start.
func (c Color) HomeLayer() int {
	if c == White {
		return 0
	}
	return 7
}

// PawnLayer is the z layer holding the color's pawns at game start.
func (c Color) PawnLayer() int {
	if c == White {
		return 1
	}
	return 6
}

// PromotionLayer is the farthest z layer on the color's advancing axis.
// A pawn reaching it must promote.
func (c Color) PromotionLayer() int {
	if c == White {
		return 7
	}
	return 0
}

func ParseColor(s string) (Color, bool) {
	switch s {
	case "white", "w":
		return White, true
	case "black", "b":
		return Black, true
	default:
		return 0, false
	}
}

// PieceType enumerates the six canonical piece kinds.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King

	// NoPieceType marks an absent promotion choice on a Move.
	NoPieceType PieceType = 255
)

func (p PieceType) String() string {
	switch p {
	case Pawn:
		return "P"
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return fmt.Sprintf("piece(%d)", uint8(p))
	}
}

// Name returns the lowercase long-form name used in serialized state.
func (p PieceType) Name() string {
	switch p {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "?"
	}
}

// Promotable reports whether a pawn may promote to this type.
func (p PieceType) Promotable() bool {
	switch p {
	case Queen, Rook, Bishop, Knight:
		return true
	default:
		return false
	}
}

func ParsePieceType(s string) (PieceType, bool) {
	switch s {
	case "p", "pawn":
		return Pawn, true
	case "n", "knight":
		return Knight, true
	case "b", "bishop":
		return Bishop, true
	case "r", "rook":
		return Rook, true
	case "q", "queen":
		return Queen, true
	case "k", "king":
		return King, true
	default:
		return NoPieceType, false
	}
}

// Delta is a displacement vector over the three axes.
type Delta struct {
	DX, DY, DZ int
}

// Coord addresses one cell of the 8x8x8 lattice. X is the file, Y the rank,
// Z the layer (the volumetric dimension absent from standard chess).
type Coord struct {
	X, Y, Z int
}

func (c Coord) InBounds() bool {
	return c.X >= 0 && c.X < 8 && c.Y >= 0 && c.Y < 8 && c.Z >= 0 && c.Z < 8
}

func (c Coord) Shift(d Delta) Coord {
	return Coord{X: c.X + d.DX, Y: c.Y + d.DY, Z: c.Z + d.DZ}
}

func (c Coord) index() int { return c.X | c.Y<<3 | c.Z<<6 }

// String renders the coordinate in three-character algebraic form: file a-h
// along x, rank 1-8 along y, layer a-h along z. (0,0,1) is "a1b".
func (c Coord) String() string {
	if !c.InBounds() {
		return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
	}
	return string([]byte{byte('a' + c.X), byte('1' + c.Y), byte('a' + c.Z)})
}

func ParseCoord(s string) (Coord, bool) {
	if len(s) != 3 {
		return Coord{}, false
	}
	file, rank, layer := s[0], s[1], s[2]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' || layer < 'a' || layer > 'h' {
		return Coord{}, false
	}
	return Coord{X: int(file - 'a'), Y: int(rank - '1'), Z: int(layer - 'a')}, true
}

func (c Coord) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Coord) UnmarshalText(text []byte) error {
	parsed, ok := ParseCoord(string(text))
	if !ok {
		return fmt.Errorf("invalid coordinate %q", string(text))
	}
	*c = parsed
	return nil
}

// CastlingSide distinguishes the two compound king moves.
type CastlingSide uint8

const (
	CastleNone CastlingSide = iota
	CastleKingside
	CastleQueenside
)

func (cs CastlingSide) String() string {
	switch cs {
	case CastleKingside:
		return "kingside"
	case CastleQueenside:
		return "queenside"
	default:
		return "none"
	}
}

// GameState is the outcome classification of a position for the side to move.
type GameState uint8

const (
	StateActive GameState = iota
	StateCheck
	StateCheckmate
	StateStalemate
)

func (s GameState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateCheck:
		return "check"
	case StateCheckmate:
		return "checkmate"
	case StateStalemate:
		return "stalemate"
	default:
		return "?"
	}
}

// Terminal reports whether the game is over in this state.
func (s GameState) Terminal() bool {
	return s == StateCheckmate || s == StateStalemate
}

// Status is the evaluated classification of a position. It is derived from a
// board plus side to move and recomputed after every executed move, never
// stored independently.
type Status struct {
	State     GameState `json:"state"`
	InCheck   bool      `json:"inCheck"`
	GameOver  bool      `json:"gameOver"`
	HasWinner bool      `json:"hasWinner"`
	Winner    Color     `json:"winner"`
}
