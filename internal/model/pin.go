package model

// PinRestriction reports whether piece is absolutely pinned to its king and,
// if so, the only squares it may move to: the line between the king and the
// pinner, the pinner's square included. ok is false for unpinned pieces.
func PinRestriction(piece *Piece, b *Board, ownKing Position) (allowed []Position, ok bool) {
	if piece.Position == ownKing {
		return nil, false
	}
	toKing, aligned := lineBetween(piece.Position, ownKing)
	if !aligned {
		return nil, false
	}

	for pos := piece.Position.offset(toKing); pos != ownKing; pos = pos.offset(toKing) {
		if !b.IsEmpty(pos) {
			return nil, false
		}
		allowed = append(allowed, pos)
	}

	away := toKing.reverse()
	for pos := piece.Position.offset(away); pos.Valid(); pos = pos.offset(away) {
		occupant := b.Get(pos)
		if occupant == nil {
			allowed = append(allowed, pos)
			continue
		}
		if occupant.Color == piece.Color || !slidesAlong(occupant.Type, away) {
			return nil, false
		}
		return append(allowed, pos), true
	}
	return nil, false
}

func slidesAlong(pieceType PieceType, d direction) bool {
	switch pieceType {
	case Queen:
		return true
	case Rook:
		return !d.diagonal()
	case Bishop:
		return d.diagonal()
	}
	return false
}
