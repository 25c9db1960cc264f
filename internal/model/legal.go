package model

type castleSide struct {
	kingside bool
	rookFile int
	rookTo   int
	kingTo   int
	between  []int
	transit  []int
}

var castleSides = []castleSide{
	{kingside: true, rookFile: 8, rookTo: 6, kingTo: 7, between: []int{6, 7}, transit: []int{6, 7}},
	{kingside: false, rookFile: 1, rookTo: 4, kingTo: 3, between: []int{2, 3, 4}, transit: []int{4, 3}},
}

// LegalMoves returns every legal move for the side to move. The order is
// stable: pieces in board order, then castling, then the king's steps.
func (g *Game) LegalMoves() []Move {
	color := g.sideToMove
	king := g.KingPosition(color)
	attacks := AttackedSquares(g.board, color.Opposite(), king)
	checkers := attacks.Attackers(king)

	moves := make([]Move, 0, 48)
	if len(checkers) < 2 {
		moves = append(moves, g.nonKingMoves(color, king)...)
		if len(checkers) == 1 {
			moves = g.resolveCheck(moves, checkers[0], king)
		} else {
			moves = append(moves, g.castlingMoves(color, attacks)...)
		}
	}
	return append(moves, g.kingMoves(king, attacks)...)
}

func (g *Game) nonKingMoves(color Color, king Position) []Move {
	var moves []Move
	for _, piece := range g.board.Pieces(color) {
		if piece.Type == King {
			continue
		}
		allowed, pinned := PinRestriction(piece, g.board, king)
		for _, mv := range piece.MovesIgnoringPins(g.board, g.enPassant) {
			if pinned && !containsPosition(allowed, mv.To) {
				continue
			}
			if piece.Type == Pawn && g.IsEnPassant(mv) && g.enPassantExposesKing(mv, king) {
				continue
			}
			moves = append(moves, mv)
		}
	}
	return moves
}

// resolveCheck keeps the moves that capture the checker or, for a sliding
// checker, block the line to the king. A pawn that just made a double step
// may also be removed en passant.
func (g *Game) resolveCheck(moves []Move, checker Attacker, king Position) []Move {
	targets := []Position{checker.Position}
	switch checker.Type {
	case Bishop, Rook, Queen:
		targets = rayBetween(king, checker.Position)
	}

	kept := moves[:0]
	for _, mv := range moves {
		if containsPosition(targets, mv.To) {
			kept = append(kept, mv)
			continue
		}
		if checker.Type == Pawn && g.IsEnPassant(mv) &&
			checker.Position == (Position{File: g.enPassant.File, Rank: mv.From.Rank}) {
			kept = append(kept, mv)
		}
	}
	return kept
}

func (g *Game) kingMoves(king Position, attacks *AttackMap) []Move {
	piece := g.board.Get(king)
	if piece == nil {
		return nil
	}
	var moves []Move
	for _, mv := range piece.MovesIgnoringPins(g.board, nil) {
		if !attacks.IsAttacked(mv.To) {
			moves = append(moves, mv)
		}
	}
	return moves
}

// castlingMoves assumes the king is not in check.
func (g *Game) castlingMoves(color Color, attacks *AttackMap) []Move {
	rank := homeRank(color)
	kingHome := Position{File: 5, Rank: rank}
	if g.KingPosition(color) != kingHome {
		return nil
	}

	var moves []Move
	for _, side := range castleSides {
		if !g.castling.Has(color, side.kingside) {
			continue
		}
		rook := g.board.Get(Position{File: side.rookFile, Rank: rank})
		if rook == nil || rook.Type != Rook || rook.Color != color {
			continue
		}
		if !g.castlePathClear(side, rank, attacks) {
			continue
		}
		moves = append(moves, Move{From: kingHome, To: Position{File: side.kingTo, Rank: rank}})
	}
	return moves
}

func (g *Game) castlePathClear(side castleSide, rank int, attacks *AttackMap) bool {
	for _, file := range side.between {
		if !g.board.IsEmpty(Position{File: file, Rank: rank}) {
			return false
		}
	}
	for _, file := range side.transit {
		if attacks.IsAttacked(Position{File: file, Rank: rank}) {
			return false
		}
	}
	return true
}

// enPassantExposesKing handles the one discovered check a pin scan misses:
// capturer and victim leave the king's rank together, opening it to a rook
// or queen.
func (g *Game) enPassantExposesKing(mv Move, king Position) bool {
	if king.Rank != mv.From.Rank {
		return false
	}
	victim := Position{File: mv.To.File, Rank: mv.From.Rank}
	step := direction{sign(mv.From.File - king.File), 0}
	for pos := king.offset(step); pos.Valid(); pos = pos.offset(step) {
		if pos == mv.From || pos == victim {
			continue
		}
		occupant := g.board.Get(pos)
		if occupant == nil {
			continue
		}
		return occupant.Color != g.sideToMove && (occupant.Type == Rook || occupant.Type == Queen)
	}
	return false
}
