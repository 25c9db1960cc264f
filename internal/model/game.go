package model

import "fmt"

type CastlingRights struct {
	WhiteKingside  bool `json:"whiteKingside"`
	WhiteQueenside bool `json:"whiteQueenside"`
	BlackKingside  bool `json:"blackKingside"`
	BlackQueenside bool `json:"blackQueenside"`
}

func (c CastlingRights) Has(color Color, kingside bool) bool {
	switch {
	case color == White && kingside:
		return c.WhiteKingside
	case color == White:
		return c.WhiteQueenside
	case kingside:
		return c.BlackKingside
	}
	return c.BlackQueenside
}

func (c *CastlingRights) revokeAll(color Color) {
	if color == White {
		c.WhiteKingside, c.WhiteQueenside = false, false
		return
	}
	c.BlackKingside, c.BlackQueenside = false, false
}

// revokeCorner drops the right tied to a rook home square once that square
// is vacated or captured on, whatever currently stands there.
func (c *CastlingRights) revokeCorner(pos Position) {
	switch pos {
	case Position{File: 1, Rank: 1}:
		c.WhiteQueenside = false
	case Position{File: 8, Rank: 1}:
		c.WhiteKingside = false
	case Position{File: 1, Rank: 8}:
		c.BlackQueenside = false
	case Position{File: 8, Rank: 8}:
		c.BlackKingside = false
	}
}

// Game is a chess position with the history needed to take moves back. A
// Game is not safe for concurrent use.
type Game struct {
	board      *Board
	sideToMove Color
	enPassant  *Position
	castling   CastlingRights
	halfMove   int
	fullMove   int
	whiteKing  Position
	blackKing  Position
	history    []historyEntry
}

// NewGame returns the standard initial position with white to move.
func NewGame() *Game {
	return &Game{
		board:      InitialBoard(),
		sideToMove: White,
		castling:   CastlingRights{WhiteKingside: true, WhiteQueenside: true, BlackKingside: true, BlackQueenside: true},
		fullMove:   1,
		whiteKing:  Position{File: 5, Rank: 1},
		blackKing:  Position{File: 5, Rank: 8},
	}
}

// Clone returns an independent copy, history included.
func (g *Game) Clone() *Game {
	clone := &Game{}
	// g's own record always decodes
	if err := clone.load(g.Record()); err != nil {
		panic(fmt.Sprintf("clone: %v", err))
	}
	clone.halfMove, clone.fullMove = g.halfMove, g.fullMove
	clone.history = append([]historyEntry(nil), g.history...)
	return clone
}

// Board exposes the grid for reading. Callers must not modify it.
func (g *Game) Board() *Board {
	return g.board
}

// PieceAt returns a copy of the piece on pos.
func (g *Game) PieceAt(pos Position) (Piece, bool) {
	piece := g.board.Get(pos)
	if piece == nil {
		return Piece{}, false
	}
	return *piece, true
}

func (g *Game) SideToMove() Color {
	return g.sideToMove
}

func (g *Game) EnPassant() (Position, bool) {
	if g.enPassant == nil {
		return Position{}, false
	}
	return *g.enPassant, true
}

func (g *Game) Castling() CastlingRights {
	return g.castling
}

func (g *Game) HalfMoveClock() int {
	return g.halfMove
}

func (g *Game) FullMoveNumber() int {
	return g.fullMove
}

func (g *Game) KingPosition(color Color) Position {
	if color == White {
		return g.whiteKing
	}
	return g.blackKing
}

func (g *Game) setKingPosition(color Color, pos Position) {
	if color == White {
		g.whiteKing = pos
		return
	}
	g.blackKing = pos
}

// IsEnPassant reports whether mv is a pawn capturing onto the en passant target.
func (g *Game) IsEnPassant(mv Move) bool {
	if g.enPassant == nil || mv.To != *g.enPassant || mv.From.File == mv.To.File {
		return false
	}
	piece := g.board.Get(mv.From)
	return piece != nil && piece.Type == Pawn
}

// IsCapture reports whether mv removes an enemy piece, en passant included.
func (g *Game) IsCapture(mv Move) bool {
	return !g.board.IsEmpty(mv.To) || g.IsEnPassant(mv)
}

// IsCastle reports whether mv is a king moving two files.
func (g *Game) IsCastle(mv Move) bool {
	piece := g.board.Get(mv.From)
	return piece != nil && piece.Type == King && abs(mv.To.File-mv.From.File) == 2
}

// MakeMove plays mv, which must be one of LegalMoves.
func (g *Game) MakeMove(mv Move) error {
	if !ContainsMove(g.LegalMoves(), mv) {
		return fmt.Errorf("%w: %s", ErrIllegalMove, mv)
	}
	before := g.snapshot(mv)
	if err := g.apply(mv); err != nil {
		// apply fails before touching anything but the board
		if restoreErr := g.restore(before); restoreErr != nil {
			return fmt.Errorf("%v (restore: %v)", err, restoreErr)
		}
		return err
	}
	g.pushHistory(before)
	return nil
}

func (g *Game) apply(mv Move) error {
	piece, err := g.board.Take(mv.From)
	if err != nil {
		return err
	}
	captured := g.board.Get(mv.To) != nil

	enPassant := g.enPassant
	g.enPassant = nil
	if piece.Type == Pawn {
		switch {
		case abs(mv.To.Rank-mv.From.Rank) == 2:
			g.enPassant = &Position{File: mv.From.File, Rank: (mv.From.Rank + mv.To.Rank) / 2}
		case enPassant != nil && mv.To == *enPassant && mv.From.File != mv.To.File:
			if _, err := g.board.Take(Position{File: mv.To.File, Rank: mv.From.Rank}); err != nil {
				return err
			}
			captured = true
		}
	}

	if piece.Type == King {
		g.setKingPosition(piece.Color, mv.To)
		g.castling.revokeAll(piece.Color)
		if abs(mv.To.File-mv.From.File) == 2 {
			if err := g.castleRook(mv); err != nil {
				return err
			}
		}
	}
	g.castling.revokeCorner(mv.From)
	g.castling.revokeCorner(mv.To)

	if mv.Promotion != "" {
		piece = &Piece{Type: mv.Promotion, Color: piece.Color}
	}
	g.board.Set(mv.To, piece)

	if piece.Type == Pawn || mv.Promotion != "" || captured {
		g.halfMove = 0
	} else {
		g.halfMove++
	}
	if g.sideToMove == Black {
		g.fullMove++
	}
	g.sideToMove = g.sideToMove.Opposite()
	return nil
}

// castleRook moves the rook that belongs to a castling king move.
func (g *Game) castleRook(mv Move) error {
	side := castleSides[0]
	if mv.To.File < mv.From.File {
		side = castleSides[1]
	}
	rook, err := g.board.Take(Position{File: side.rookFile, Rank: mv.From.Rank})
	if err != nil {
		return err
	}
	g.board.Set(Position{File: side.rookTo, Rank: mv.From.Rank}, rook)
	return nil
}
