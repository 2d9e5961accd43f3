// path: internal/engine/game.go
package engine

import (
	"github.com/google/uuid"
)

// Game is the session facade over the pure rules core: it owns one match's
// authoritative board, side to move, captured-piece bookkeeping, and the
// status recomputed after every executed move. A Game is not safe for
// concurrent use; callers serialize move submission per session.
type Game struct {
	id       string
	board    *Board
	turn     Color
	captured [2][]Piece
	status   Status
	pending  *pendingPromotion
}

// pendingPromotion is the two-phase token for a move awaiting its promotion
// choice. The board stays untouched until the caller resolves it.
type pendingPromotion struct {
	token string
	move  Move
}

// MoveOutcome reports a proposed move at the session level.
type MoveOutcome struct {
	GameID string `json:"gameId"`
	Move   Move   `json:"move"`

	// Captured is the serialized capture report, nil on quiet moves.
	Captured *PieceState `json:"captured,omitempty"`

	// Status classifies the resulting position for the side now to move.
	// Zero-valued while PromotionToken is set.
	Status Status `json:"status"`

	// PromotionToken is non-empty when the move awaits a promotion choice;
	// pass it to ResolvePromotion to finalize.
	PromotionToken string `json:"promotionToken,omitempty"`
}

// NewGame starts a fresh session from the standard initial position, White to
// move.
func NewGame() *Game {
	g := &Game{
		id:    uuid.NewString(),
		board: NewStandardBoard(),
		turn:  White,
	}
	g.status = Evaluate(g.board, g.turn)
	return g
}

func (g *Game) ID() string     { return g.id }
func (g *Game) Turn() Color    { return g.turn }
func (g *Game) Status() Status { return g.status }

// Reset clears the session back to the initial position, keeping its id.
func (g *Game) Reset() {
	g.board = NewStandardBoard()
	g.turn = White
	g.captured = [2][]Piece{}
	g.pending = nil
	g.status = Evaluate(g.board, g.turn)
}

// LegalTargets returns the legal moves for the piece on the coordinate, for
// UI highlighting. The selected piece must belong to the side on turn.
func (g *Game) LegalTargets(from Coord) ([]Move, error) {
	if g.status.GameOver {
		return nil, ErrGameOver
	}
	pc := g.board.At(from)
	if pc == nil {
		return nil, ErrNoPiece
	}
	if pc.Color != g.turn {
		return nil, ErrWrongTurn
	}
	return LegalMoves(g.board, pc)
}

// ProposeMove validates and applies one move for the side on turn. The
// destination must be in the legality-filtered set or the proposal is
// rejected with ErrIllegalMove and the board left unchanged. A pawn reaching
// the promotion layer without a choice returns an outcome carrying a
// promotion token instead of mutating the board; promotion may also be
// supplied up front to complete in one call.
func (g *Game) ProposeMove(from, to Coord, promotion PieceType) (*MoveOutcome, error) {
	if g.status.GameOver {
		return nil, ErrGameOver
	}
	if g.pending != nil {
		return nil, ErrPromotionOutstanding
	}

	moves, err := g.LegalTargets(from)
	if err != nil {
		return nil, err
	}
	var chosen *Move
	for i := range moves {
		if moves[i].To == to {
			chosen = &moves[i]
			break
		}
	}
	if chosen == nil {
		return nil, ErrIllegalMove
	}

	m := *chosen
	if promotion != NoPieceType {
		if !promotion.Promotable() {
			return nil, ErrPromotionChoice
		}
		m.Promotion = promotion
	}

	res, err := Execute(g.board, m)
	if err != nil {
		return nil, err
	}
	if res.Pending {
		g.pending = &pendingPromotion{token: uuid.NewString(), move: m}
		return &MoveOutcome{GameID: g.id, Move: m, PromotionToken: g.pending.token}, nil
	}
	return g.commit(res), nil
}

// ResolvePromotion completes the move held by the token, replacing the pawn
// in place with the chosen type (color preserved, moved flag set).
func (g *Game) ResolvePromotion(token string, choice PieceType) (*MoveOutcome, error) {
	if g.pending == nil || g.pending.token != token {
		return nil, ErrNoPendingPromotion
	}
	if !choice.Promotable() {
		return nil, ErrPromotionChoice
	}

	m := g.pending.move
	m.Promotion = choice
	res, err := Execute(g.board, m)
	if err != nil {
		return nil, err
	}
	g.pending = nil
	return g.commit(res), nil
}

// commit installs the successor board, records any capture against the moving
// side, flips the turn and re-evaluates status for the side now to move.
func (g *Game) commit(res *Result) *MoveOutcome {
	mover := g.turn
	g.board = res.Board
	out := &MoveOutcome{GameID: g.id, Move: res.Move}
	if res.Captured != nil {
		g.captured[mover.Index()] = append(g.captured[mover.Index()], *res.Captured)
		state := pieceState(res.Captured)
		out.Captured = &state
	}
	g.turn = g.turn.Opposite()
	g.status = Evaluate(g.board, g.turn)
	out.Status = g.status
	return out
}
