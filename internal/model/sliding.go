package model

// slidingAttacks casts a ray in each direction until the board edge or the
// first occupied square, which is included. The ray keeps going through
// passThrough, the square of the king being attacked.
func slidingAttacks(b *Board, from Position, dirs []direction, passThrough Position) []Position {
	attacked := make([]Position, 0, 14)
	for _, d := range dirs {
		for pos := from.offset(d); pos.Valid(); pos = pos.offset(d) {
			attacked = append(attacked, pos)
			if pos != passThrough && !b.IsEmpty(pos) {
				break
			}
		}
	}
	return attacked
}

// slidingMoves walks the same rays but stops before own pieces and on the
// first enemy piece.
func slidingMoves(b *Board, piece *Piece, dirs []direction) []Move {
	moves := make([]Move, 0, 14)
	for _, d := range dirs {
		for pos := piece.Position.offset(d); pos.Valid(); pos = pos.offset(d) {
			occupant := b.Get(pos)
			if occupant == nil {
				moves = append(moves, Move{From: piece.Position, To: pos})
				continue
			}
			if occupant.Color != piece.Color {
				moves = append(moves, Move{From: piece.Position, To: pos})
			}
			break
		}
	}
	return moves
}

func stepAttacks(from Position, steps []direction) []Position {
	attacked := make([]Position, 0, len(steps))
	for _, d := range steps {
		if pos := from.offset(d); pos.Valid() {
			attacked = append(attacked, pos)
		}
	}
	return attacked
}

func stepMoves(b *Board, piece *Piece, steps []direction) []Move {
	moves := make([]Move, 0, len(steps))
	for _, pos := range stepAttacks(piece.Position, steps) {
		if occupant := b.Get(pos); occupant == nil || occupant.Color != piece.Color {
			moves = append(moves, Move{From: piece.Position, To: pos})
		}
	}
	return moves
}
