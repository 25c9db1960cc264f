package model

import (
	"fmt"
	"strings"
)

// Board is the 8x8 grid. Squares are indexed [file-1][rank-1].
type Board struct {
	squares [8][8]*Piece
}

func EmptyBoard() *Board {
	return &Board{}
}

// InitialBoard returns the standard 32 piece setup.
func InitialBoard() *Board {
	board := EmptyBoard()
	backRank := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for i, pieceType := range backRank {
		file := i + 1
		board.Set(Position{File: file, Rank: 1}, &Piece{Type: pieceType, Color: White})
		board.Set(Position{File: file, Rank: 2}, &Piece{Type: Pawn, Color: White})
		board.Set(Position{File: file, Rank: 7}, &Piece{Type: Pawn, Color: Black})
		board.Set(Position{File: file, Rank: 8}, &Piece{Type: pieceType, Color: Black})
	}
	return board
}

// Get returns the piece on pos, or nil when the square is empty or off the board.
func (b *Board) Get(pos Position) *Piece {
	if !pos.Valid() {
		return nil
	}
	return b.squares[pos.File-1][pos.Rank-1]
}

// Set places piece on pos and keeps the piece's own position in sync. A nil
// piece clears the square.
func (b *Board) Set(pos Position, piece *Piece) {
	if piece != nil {
		piece.Position = pos
	}
	b.squares[pos.File-1][pos.Rank-1] = piece
}

// Take removes and returns the piece on pos.
func (b *Board) Take(pos Position) (*Piece, error) {
	piece := b.Get(pos)
	if piece == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmptySquare, pos)
	}
	b.squares[pos.File-1][pos.Rank-1] = nil
	return piece, nil
}

func (b *Board) IsEmpty(pos Position) bool {
	return b.Get(pos) == nil
}

// Pieces returns the pieces of one color in file-major, rank-ascending order.
func (b *Board) Pieces(color Color) []*Piece {
	pieces := make([]*Piece, 0, 16)
	for file := range b.squares {
		for _, piece := range b.squares[file] {
			if piece != nil && piece.Color == color {
				pieces = append(pieces, piece)
			}
		}
	}
	return pieces
}

// Encode packs the board into 64 bytes, file-major and rank-ascending.
func (b *Board) Encode() [64]byte {
	var out [64]byte
	for file := range b.squares {
		for rank, piece := range b.squares[file] {
			if piece != nil {
				out[file*8+rank] = PieceCode(piece.Type, piece.Color)
			}
		}
	}
	return out
}

// DecodeBoard rebuilds a board from its 64 byte encoding and reports where the
// two kings stand.
func DecodeBoard(data [64]byte) (board *Board, whiteKing, blackKing Position, err error) {
	board = EmptyBoard()
	for i, code := range data {
		if code == 0 {
			continue
		}
		pos := Position{File: i/8 + 1, Rank: i%8 + 1}
		pieceType, color, ok := PieceFromCode(code)
		if !ok {
			return nil, Position{}, Position{}, fmt.Errorf("%w: unknown piece code %d on %s", ErrMalformedRecord, code, pos)
		}
		if pieceType == Pawn && (pos.Rank == 1 || pos.Rank == 8) {
			return nil, Position{}, Position{}, fmt.Errorf("%w: pawn on %s", ErrMalformedRecord, pos)
		}
		if pieceType == King {
			king := &whiteKing
			if color == Black {
				king = &blackKing
			}
			if king.Valid() {
				return nil, Position{}, Position{}, fmt.Errorf("%w: second %s king on %s", ErrMalformedRecord, color, pos)
			}
			*king = pos
		}
		board.Set(pos, &Piece{Type: pieceType, Color: color})
	}
	if !whiteKing.Valid() {
		return nil, Position{}, Position{}, fmt.Errorf("%w: no white king", ErrMissingKing)
	}
	if !blackKing.Valid() {
		return nil, Position{}, Position{}, fmt.Errorf("%w: no black king", ErrMissingKing)
	}
	return board, whiteKing, blackKing, nil
}

// PieceCode returns the compact code of a piece: 1-6 for white pawn, rook,
// knight, bishop, queen, king and the same plus 10 for black.
func PieceCode(pieceType PieceType, color Color) byte {
	var code byte
	switch pieceType {
	case Pawn:
		code = 1
	case Rook:
		code = 2
	case Knight:
		code = 3
	case Bishop:
		code = 4
	case Queen:
		code = 5
	case King:
		code = 6
	default:
		return 0
	}
	if color == Black {
		code += 10
	}
	return code
}

func PieceFromCode(code byte) (PieceType, Color, bool) {
	color := White
	if code > 10 {
		color = Black
		code -= 10
	}
	switch code {
	case 1:
		return Pawn, color, true
	case 2:
		return Rook, color, true
	case 3:
		return Knight, color, true
	case 4:
		return Bishop, color, true
	case 5:
		return Queen, color, true
	case 6:
		return King, color, true
	}
	return "", "", false
}

// String draws the board with rank 8 on top, uppercase for white.
func (b *Board) String() string {
	var sb strings.Builder
	for rank := 8; rank >= 1; rank-- {
		fmt.Fprintf(&sb, "%d ", rank)
		for file := 1; file <= 8; file++ {
			piece := b.Get(Position{File: file, Rank: rank})
			if piece == nil {
				sb.WriteString(". ")
				continue
			}
			letter := piece.Type.Notation()
			if piece.Type == Pawn {
				letter = "P"
			}
			if piece.Color == Black {
				letter = strings.ToLower(letter)
			}
			sb.WriteString(letter + " ")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
