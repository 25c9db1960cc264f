package model

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// PromotionKinds are the piece types a pawn may promote to, in the order
// promotion moves are generated.
var PromotionKinds = []PieceType{Rook, Knight, Bishop, Queen}

// Notation returns the piece letter used in algebraic notation. Pawns have none.
func (p PieceType) Notation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	Position Position  `json:"position"`
}

// Attacks returns the squares the piece threatens. Sliding rays continue
// through enemyKing so that the squares behind a checked king stay attacked.
func (p *Piece) Attacks(b *Board, enemyKing Position) []Position {
	switch p.Type {
	case Pawn:
		return pawnAttacks(p)
	case Knight:
		return stepAttacks(p.Position, knightSteps)
	case Bishop:
		return slidingAttacks(b, p.Position, diagonalDirs, enemyKing)
	case Rook:
		return slidingAttacks(b, p.Position, straightDirs, enemyKing)
	case Queen:
		return slidingAttacks(b, p.Position, queenDirs, enemyKing)
	case King:
		return stepAttacks(p.Position, kingSteps)
	}
	return nil
}

// MovesIgnoringPins returns the pseudo-legal moves of the piece. Castling is
// not included; it needs the attack context only the game has.
func (p *Piece) MovesIgnoringPins(b *Board, enPassant *Position) []Move {
	switch p.Type {
	case Pawn:
		return pawnMoves(b, p, enPassant)
	case Knight:
		return stepMoves(b, p, knightSteps)
	case Bishop:
		return slidingMoves(b, p, diagonalDirs)
	case Rook:
		return slidingMoves(b, p, straightDirs)
	case Queen:
		return slidingMoves(b, p, queenDirs)
	case King:
		return stepMoves(b, p, kingSteps)
	}
	return nil
}
