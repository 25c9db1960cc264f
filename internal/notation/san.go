package notation

import (
	"fmt"
	"strings"

	"github.com/benbeisheim/legalchess-backend/internal/model"
)

// SAN renders a legal move in standard algebraic notation, check and mate
// suffixes included. g is not modified.
func SAN(g *model.Game, mv model.Move) (string, error) {
	legal := g.LegalMoves()
	if !model.ContainsMove(legal, mv) {
		return "", fmt.Errorf("%w: %s", model.ErrIllegalMove, mv)
	}
	piece, _ := g.PieceAt(mv.From)

	var sb strings.Builder
	switch {
	case g.IsCastle(mv) && mv.To.File > mv.From.File:
		sb.WriteString("O-O")
	case g.IsCastle(mv):
		sb.WriteString("O-O-O")
	case piece.Type == model.Pawn:
		if g.IsCapture(mv) {
			sb.WriteString(mv.From.String()[:1])
			sb.WriteByte('x')
		}
		sb.WriteString(mv.To.String())
		if mv.Promotion != "" {
			sb.WriteString("=" + mv.Promotion.Notation())
		}
	default:
		sb.WriteString(piece.Type.Notation())
		sb.WriteString(disambiguation(g, legal, mv, piece.Type))
		if g.IsCapture(mv) {
			sb.WriteByte('x')
		}
		sb.WriteString(mv.To.String())
	}

	after := g.Clone()
	if err := after.MakeMove(mv); err != nil {
		return "", err
	}
	switch after.Outcome() {
	case model.Checkmate:
		sb.WriteByte('#')
	case model.Ongoing, model.Stalemate:
		if after.InCheck() {
			sb.WriteByte('+')
		}
	}
	return sb.String(), nil
}

// History renders the moves played in g, oldest first.
func History(g *model.Game) ([]string, error) {
	moves := g.Moves()
	replay := g.Clone()
	for range moves {
		if err := replay.UndoLastMove(); err != nil {
			return nil, err
		}
	}
	out := make([]string, 0, len(moves))
	for _, mv := range moves {
		san, err := SAN(replay, mv)
		if err != nil {
			return nil, err
		}
		out = append(out, san)
		if err := replay.MakeMove(mv); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func disambiguation(g *model.Game, legal []model.Move, mv model.Move, pieceType model.PieceType) string {
	var rivals []model.Position
	for _, other := range legal {
		if other.To != mv.To || other.From == mv.From {
			continue
		}
		if p, ok := g.PieceAt(other.From); ok && p.Type == pieceType {
			rivals = append(rivals, other.From)
		}
	}
	if len(rivals) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, from := range rivals {
		sameFile = sameFile || from.File == mv.From.File
		sameRank = sameRank || from.Rank == mv.From.Rank
	}
	square := mv.From.String()
	switch {
	case !sameFile:
		return square[:1]
	case !sameRank:
		return square[1:]
	}
	return square
}
