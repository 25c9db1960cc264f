package model

type Outcome string

const (
	Ongoing   Outcome = "ongoing"
	Checkmate Outcome = "checkmate"
	Stalemate Outcome = "stalemate"
)

// InCheck reports whether the side to move is attacked on its king square.
func (g *Game) InCheck() bool {
	color := g.sideToMove
	king := g.KingPosition(color)
	return AttackedSquares(g.board, color.Opposite(), king).IsAttacked(king)
}

// Outcome classifies the position for the side to move. Draw rules are left
// to the caller.
func (g *Game) Outcome() Outcome {
	if len(g.LegalMoves()) > 0 {
		return Ongoing
	}
	if g.InCheck() {
		return Checkmate
	}
	return Stalemate
}
