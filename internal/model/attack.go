package model

// Attacker describes a piece attacking a square. It is copied out of the
// board so the map does not depend on later mutations.
type Attacker struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	Position Position  `json:"position"`
}

// AttackMap lists, per square, the pieces of one side attacking it.
type AttackMap struct {
	squares [8][8][]Attacker
}

func (m *AttackMap) Attackers(pos Position) []Attacker {
	if !pos.Valid() {
		return nil
	}
	return m.squares[pos.File-1][pos.Rank-1]
}

func (m *AttackMap) IsAttacked(pos Position) bool {
	return len(m.Attackers(pos)) > 0
}

// AttackedSquares builds the attack map of one side. Rays pass through the
// defending king so a king cannot step back along the line that checks it.
func AttackedSquares(b *Board, attacking Color, defendingKing Position) *AttackMap {
	m := &AttackMap{}
	for _, piece := range b.Pieces(attacking) {
		attacker := Attacker{Type: piece.Type, Color: piece.Color, Position: piece.Position}
		for _, pos := range piece.Attacks(b, defendingKing) {
			m.squares[pos.File-1][pos.Rank-1] = append(m.squares[pos.File-1][pos.Rank-1], attacker)
		}
	}
	return m
}
