package model

import (
	"fmt"
	"strings"
)

// Move is a transition from one square to another. Promotion is set only for
// pawn moves reaching the far rank.
type Move struct {
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
}

// String returns the move in long algebraic form, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != "" {
		s += strings.ToLower(m.Promotion.Notation())
	}
	return s
}

func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("invalid move %q", s)
	}
	from, err := ParsePosition(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %w", s, err)
	}
	to, err := ParsePosition(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %w", s, err)
	}
	mv := Move{From: from, To: to}
	if len(s) == 5 {
		switch s[4] {
		case 'q':
			mv.Promotion = Queen
		case 'r':
			mv.Promotion = Rook
		case 'b':
			mv.Promotion = Bishop
		case 'n':
			mv.Promotion = Knight
		default:
			return Move{}, fmt.Errorf("invalid promotion in move %q", s)
		}
	}
	return mv, nil
}

// ContainsMove reports whether mv is in moves.
func ContainsMove(moves []Move, mv Move) bool {
	for _, m := range moves {
		if m == mv {
			return true
		}
	}
	return false
}
