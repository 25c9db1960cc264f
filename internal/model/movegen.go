package model

func pawnDirection(color Color) int {
	if color == White {
		return 1
	}
	return -1
}

func pawnStartRank(color Color) int {
	if color == White {
		return 2
	}
	return 7
}

func promotionRank(color Color) int {
	if color == White {
		return 8
	}
	return 1
}

// enPassantRank is the rank a pawn stands on when it may capture en passant.
func enPassantRank(color Color) int {
	if color == White {
		return 5
	}
	return 4
}

func homeRank(color Color) int {
	if color == White {
		return 1
	}
	return 8
}

// pawnAttacks are the forward diagonals only; the push squares are never attacked.
func pawnAttacks(p *Piece) []Position {
	dr := pawnDirection(p.Color)
	attacked := make([]Position, 0, 2)
	for _, df := range []int{-1, 1} {
		if pos := p.Position.offset(direction{df, dr}); pos.Valid() {
			attacked = append(attacked, pos)
		}
	}
	return attacked
}

func pawnMoves(b *Board, p *Piece, enPassant *Position) []Move {
	dr := pawnDirection(p.Color)
	targets := make([]Position, 0, 4)

	for _, pos := range pawnAttacks(p) {
		if occupant := b.Get(pos); occupant != nil && occupant.Color != p.Color {
			targets = append(targets, pos)
		}
	}

	one := p.Position.offset(direction{0, dr})
	if one.Valid() && b.IsEmpty(one) {
		targets = append(targets, one)
		two := one.offset(direction{0, dr})
		if p.Position.Rank == pawnStartRank(p.Color) && b.IsEmpty(two) {
			targets = append(targets, two)
		}
	}

	if canCaptureEnPassant(b, p, enPassant) {
		targets = append(targets, *enPassant)
	}

	moves := make([]Move, 0, len(targets))
	for _, to := range targets {
		if to.Rank == promotionRank(p.Color) {
			for _, kind := range PromotionKinds {
				moves = append(moves, Move{From: p.Position, To: to, Promotion: kind})
			}
			continue
		}
		moves = append(moves, Move{From: p.Position, To: to})
	}
	return moves
}

// canCaptureEnPassant checks that the pawn stands beside the pawn that just
// made a double step and that the target is diagonally in front of it.
func canCaptureEnPassant(b *Board, p *Piece, enPassant *Position) bool {
	if enPassant == nil || p.Position.Rank != enPassantRank(p.Color) {
		return false
	}
	if enPassant.Rank != p.Position.Rank+pawnDirection(p.Color) || abs(enPassant.File-p.Position.File) != 1 {
		return false
	}
	victim := b.Get(Position{File: enPassant.File, Rank: p.Position.Rank})
	return victim != nil && victim.Type == Pawn && victim.Color != p.Color && b.IsEmpty(*enPassant)
}
