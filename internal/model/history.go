package model

import "fmt"

// historyEntry is the position as it was before move was applied. The
// counters are kept beside the record since its bytes wrap above 255.
type historyEntry struct {
	record   Record
	halfMove int
	fullMove int
	move     Move
}

func (g *Game) pushHistory(before historyEntry) {
	g.history = append(g.history, before)
}

// snapshot captures the current position as a history entry for mv.
func (g *Game) snapshot(mv Move) historyEntry {
	return historyEntry{record: g.Record(), halfMove: g.halfMove, fullMove: g.fullMove, move: mv}
}

// restore loads entry's record and puts back the full-width counters.
func (g *Game) restore(entry historyEntry) error {
	if err := g.load(entry.record); err != nil {
		return err
	}
	g.halfMove, g.fullMove = entry.halfMove, entry.fullMove
	return nil
}

// UndoLastMove restores the position saved by the most recent MakeMove.
func (g *Game) UndoLastMove() error {
	if len(g.history) == 0 {
		return ErrEmptyHistory
	}
	idx := len(g.history) - 1
	entry := g.history[idx]
	if err := g.restore(entry); err != nil {
		return fmt.Errorf("restore %s: %w", entry.move, err)
	}
	g.history = g.history[:idx]
	return nil
}

// Moves returns the moves played since the game was created, oldest first.
func (g *Game) Moves() []Move {
	moves := make([]Move, len(g.history))
	for i, entry := range g.history {
		moves[i] = entry.move
	}
	return moves
}

func (g *Game) HistoryLen() int {
	return len(g.history)
}
