package model

import "fmt"

// Position is a square addressed by 1-indexed file (a=1) and rank.
type Position struct {
	File int `json:"file"`
	Rank int `json:"rank"`
}

func (p Position) Valid() bool {
	return p.File >= 1 && p.File <= 8 && p.Rank >= 1 && p.Rank <= 8
}

func (p Position) offset(d direction) Position {
	return Position{File: p.File + d.df, Rank: p.Rank + d.dr}
}

// String returns the square notation of the position, e.g. "e4".
func (p Position) String() string {
	if !p.Valid() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+p.File-1, p.Rank)
}

func ParsePosition(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	p := Position{File: int(s[0]) - 'a' + 1, Rank: int(s[1]) - '1' + 1}
	if !p.Valid() {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	return p, nil
}

type direction struct {
	df int
	dr int
}

func (d direction) reverse() direction {
	return direction{df: -d.df, dr: -d.dr}
}

func (d direction) diagonal() bool {
	return d.df != 0 && d.dr != 0
}

var (
	straightDirs = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonalDirs = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs    = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightSteps  = []direction{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	kingSteps    = queenDirs
)

// lineBetween returns the unit step leading from one square toward another
// when both share a rank, file or diagonal.
func lineBetween(from, to Position) (direction, bool) {
	df, dr := to.File-from.File, to.Rank-from.Rank
	switch {
	case df == 0 && dr == 0:
		return direction{}, false
	case df == 0:
		return direction{0, sign(dr)}, true
	case dr == 0:
		return direction{sign(df), 0}, true
	case abs(df) == abs(dr):
		return direction{sign(df), sign(dr)}, true
	}
	return direction{}, false
}

// rayBetween lists the squares after from up to and including to. Both squares
// must be aligned.
func rayBetween(from, to Position) []Position {
	d, ok := lineBetween(from, to)
	if !ok {
		return nil
	}
	var ray []Position
	for pos := from.offset(d); pos.Valid(); pos = pos.offset(d) {
		ray = append(ray, pos)
		if pos == to {
			break
		}
	}
	return ray
}

func containsPosition(positions []Position, pos Position) bool {
	for _, p := range positions {
		if p == pos {
			return true
		}
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
