package model_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/notnil/chess"

	"github.com/benbeisheim/legalchess-backend/internal/notation"
)

// TestRandomPlayoutsAgainstOracle plays random games and compares the legal
// move set with notnil/chess at every ply.
func TestRandomPlayoutsAgainstOracle(t *testing.T) {
	starts := []string{
		notation.InitialFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}
	games, plies := 8, 150
	if testing.Short() {
		games, plies = 2, 60
	}

	for _, fen := range starts {
		for seed := int64(1); seed <= int64(games); seed++ {
			rng := rand.New(rand.NewSource(seed))
			g := mustFEN(t, fen)

			opt, err := chess.FEN(fen)
			if err != nil {
				t.Fatalf("oracle FEN(%q): %v", fen, err)
			}
			pos := chess.NewGame(opt).Position()

			var line []string
			for ply := 0; ply < plies; ply++ {
				ours := uci(g.LegalMoves())
				theirs := make([]string, 0, len(ours))
				byName := make(map[string]*chess.Move)
				for _, m := range pos.ValidMoves() {
					theirs = append(theirs, m.String())
					byName[m.String()] = m
				}
				sort.Strings(theirs)

				if !equal(ours, theirs) {
					t.Fatalf("%s seed %d after %v:\n ours   %v\n oracle %v", fen, seed, line, ours, theirs)
				}
				if len(ours) == 0 {
					break
				}

				pick := ours[rng.Intn(len(ours))]
				mv := g.LegalMoves()[0]
				for _, candidate := range g.LegalMoves() {
					if candidate.String() == pick {
						mv = candidate
						break
					}
				}
				if err := g.MakeMove(mv); err != nil {
					t.Fatalf("MakeMove(%s): %v", pick, err)
				}
				pos = pos.Update(byName[pick])
				line = append(line, pick)
			}

			// unwinding the whole line must land on the start position
			for range line {
				if err := g.UndoLastMove(); err != nil {
					t.Fatal(err)
				}
			}
			if got := notation.FEN(g); got != notation.FEN(mustFEN(t, fen)) {
				t.Errorf("%s seed %d: undo ended on %s", fen, seed, got)
			}
		}
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
