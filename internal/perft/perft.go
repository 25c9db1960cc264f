// Package perft counts move-tree leaves to check the move generator against
// published reference numbers.
package perft

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/benbeisheim/legalchess-backend/internal/model"
)

// Stats are counted at the leaves. Captures include en passant captures.
type Stats struct {
	Nodes      uint64 `json:"nodes"`
	Captures   uint64 `json:"captures"`
	EnPassant  uint64 `json:"enPassant"`
	Castles    uint64 `json:"castles"`
	Promotions uint64 `json:"promotions"`
}

func (s *Stats) add(o Stats) {
	s.Nodes += o.Nodes
	s.Captures += o.Captures
	s.EnPassant += o.EnPassant
	s.Castles += o.Castles
	s.Promotions += o.Promotions
}

// Split is the subtree of one root move.
type Split struct {
	Move  model.Move `json:"-"`
	UCI   string     `json:"move"`
	Stats Stats      `json:"stats"`
}

// Count walks the tree to depth plies below g and restores g before
// returning. Depth 0 counts the position itself.
func Count(g *model.Game, depth int) (Stats, error) {
	if depth <= 0 {
		return Stats{Nodes: 1}, nil
	}
	var stats Stats
	for _, mv := range g.LegalMoves() {
		if depth == 1 {
			stats.add(leaf(g, mv))
			continue
		}
		if err := g.MakeMove(mv); err != nil {
			return stats, err
		}
		sub, err := Count(g, depth-1)
		if err != nil {
			return stats, err
		}
		if err := g.UndoLastMove(); err != nil {
			return stats, err
		}
		stats.add(sub)
	}
	return stats, nil
}

// leaf classifies mv, which must be legal in g, as a single node.
func leaf(g *model.Game, mv model.Move) Stats {
	stats := Stats{Nodes: 1}
	if g.IsCapture(mv) {
		stats.Captures = 1
	}
	if g.IsEnPassant(mv) {
		stats.EnPassant = 1
	}
	if g.IsCastle(mv) {
		stats.Castles = 1
	}
	if mv.Promotion != "" {
		stats.Promotions = 1
	}
	return stats
}

// Divide counts each root move's subtree in parallel. Every worker plays on
// its own clone of g, so g itself is never touched. workers <= 0 uses one
// worker per CPU. Splits come back sorted by move.
func Divide(ctx context.Context, g *model.Game, depth, workers int) ([]Split, error) {
	if depth < 1 {
		return nil, fmt.Errorf("perft: depth %d, want at least 1", depth)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	roots := g.LegalMoves()
	splits := make([]Split, len(roots))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, mv := range roots {
		i, mv := i, mv
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			worker := g.Clone()
			if depth == 1 {
				splits[i] = Split{Move: mv, UCI: mv.String(), Stats: leaf(worker, mv)}
				return nil
			}
			if err := worker.MakeMove(mv); err != nil {
				return err
			}
			stats, err := Count(worker, depth-1)
			if err != nil {
				return fmt.Errorf("perft %s: %w", mv, err)
			}
			splits[i] = Split{Move: mv, UCI: mv.String(), Stats: stats}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(splits, func(a, b int) bool { return splits[a].UCI < splits[b].UCI })
	return splits, nil
}

// Total sums the splits of a divide.
func Total(splits []Split) Stats {
	var total Stats
	for _, s := range splits {
		total.add(s.Stats)
	}
	return total
}
