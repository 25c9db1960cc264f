// Package notation converts games to and from the text formats clients use:
// FEN for positions and SAN for moves.
package notation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/benbeisheim/legalchess-backend/internal/model"
)

const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var ErrInvalidFEN = errors.New("invalid FEN")

var fenLetters = map[byte]model.PieceType{
	'p': model.Pawn,
	'n': model.Knight,
	'b': model.Bishop,
	'r': model.Rook,
	'q': model.Queen,
	'k': model.King,
}

// ParseFEN builds a game from a FEN string. The clock fields are optional
// and default to "0 1". Counters must fit the compact record (0-255).
func ParseFEN(fen string) (*model.Game, error) {
	fields := strings.Fields(fen)
	if len(fields) == 4 {
		fields = append(fields, "0", "1")
	}
	if len(fields) != 6 {
		return nil, fmt.Errorf("%w: want 6 fields, got %d", ErrInvalidFEN, len(fields))
	}

	var r model.Record
	if err := parsePlacement(&r, fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		r.SetSideToMove(model.White)
	case "b":
		r.SetSideToMove(model.Black)
	default:
		return nil, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}

	castling, err := parseCastling(fields[2])
	if err != nil {
		return nil, err
	}
	r.SetCastling(castling)

	if fields[3] != "-" {
		target, err := model.ParsePosition(fields[3])
		if err != nil || (target.Rank != 3 && target.Rank != 6) {
			return nil, fmt.Errorf("%w: en passant square %q", ErrInvalidFEN, fields[3])
		}
		r.SetEnPassant(&target)
	}

	halfMove, err := parseCounter(fields[4], 0)
	if err != nil {
		return nil, err
	}
	fullMove, err := parseCounter(fields[5], 1)
	if err != nil {
		return nil, err
	}
	r.SetClocks(halfMove, fullMove)

	g, err := model.FromRecord(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFEN, err)
	}
	return g, nil
}

func parsePlacement(r *model.Record, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: want 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for i, row := range ranks {
		rank := 8 - i
		file := 1
		for j := 0; j < len(row); j++ {
			c := row[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			pieceType, ok := fenLetters[lower(c)]
			if !ok {
				return fmt.Errorf("%w: unknown piece %q", ErrInvalidFEN, c)
			}
			if file > 8 {
				return fmt.Errorf("%w: rank %d is too long", ErrInvalidFEN, rank)
			}
			color := model.White
			if c == lower(c) {
				color = model.Black
			}
			r.SetSquare(model.Position{File: file, Rank: rank}, pieceType, color)
			file++
		}
		if file != 9 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrInvalidFEN, rank, file-1)
		}
	}
	return nil
}

func parseCastling(field string) (model.CastlingRights, error) {
	var c model.CastlingRights
	if field == "-" {
		return c, nil
	}
	for _, ch := range field {
		switch ch {
		case 'K':
			c.WhiteKingside = true
		case 'Q':
			c.WhiteQueenside = true
		case 'k':
			c.BlackKingside = true
		case 'q':
			c.BlackQueenside = true
		default:
			return c, fmt.Errorf("%w: castling %q", ErrInvalidFEN, field)
		}
	}
	return c, nil
}

func parseCounter(field string, min int) (int, error) {
	n, err := strconv.Atoi(field)
	if err != nil || n < min || n > 255 {
		return 0, fmt.Errorf("%w: counter %q", ErrInvalidFEN, field)
	}
	return n, nil
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

// FEN renders the game's current position.
func FEN(g *model.Game) string {
	var sb strings.Builder
	board := g.Board()
	for rank := 8; rank >= 1; rank-- {
		empty := 0
		for file := 1; file <= 8; file++ {
			piece := board.Get(model.Position{File: file, Rank: rank})
			if piece == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(pieceLetter(piece))
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 1 {
			sb.WriteByte('/')
		}
	}

	side := "w"
	if g.SideToMove() == model.Black {
		side = "b"
	}

	enPassant := "-"
	if target, ok := g.EnPassant(); ok {
		enPassant = target.String()
	}

	return fmt.Sprintf("%s %s %s %s %d %d", sb.String(), side, castlingField(g.Castling()), enPassant, g.HalfMoveClock(), g.FullMoveNumber())
}

func pieceLetter(piece *model.Piece) byte {
	letter := byte('P')
	if n := piece.Type.Notation(); n != "" {
		letter = n[0]
	}
	if piece.Color == model.Black {
		letter = lower(letter)
	}
	return letter
}

func castlingField(c model.CastlingRights) string {
	var s string
	if c.WhiteKingside {
		s += "K"
	}
	if c.WhiteQueenside {
		s += "Q"
	}
	if c.BlackKingside {
		s += "k"
	}
	if c.BlackQueenside {
		s += "q"
	}
	if s == "" {
		return "-"
	}
	return s
}
