package perft

import (
	"context"
	"errors"
	"testing"

	"github.com/dylhunn/dragontoothmg"

	"github.com/benbeisheim/legalchess-backend/internal/model"
	"github.com/benbeisheim/legalchess-backend/internal/notation"
)

const (
	kiwipete  = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	position3 = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
	position4 = "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1"
	position5 = "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8"
	position6 = "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10"
)

func mustParse(t *testing.T, fen string) *model.Game {
	t.Helper()
	g, err := notation.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return g
}

type perftCase struct {
	name  string
	fen   string
	depth int
	want  Stats
	deep  bool
}

var perftCases = []perftCase{
	{"initial 1", notation.InitialFEN, 1, Stats{Nodes: 20}, false},
	{"initial 2", notation.InitialFEN, 2, Stats{Nodes: 400}, false},
	{"initial 3", notation.InitialFEN, 3, Stats{Nodes: 8902, Captures: 34}, false},
	{"initial 4", notation.InitialFEN, 4, Stats{Nodes: 197281, Captures: 1576}, false},
	{"initial 5", notation.InitialFEN, 5, Stats{Nodes: 4865609, Captures: 82719, EnPassant: 258}, true},
	{"kiwipete 1", kiwipete, 1, Stats{Nodes: 48, Captures: 8, Castles: 2}, false},
	{"kiwipete 2", kiwipete, 2, Stats{Nodes: 2039, Captures: 351, EnPassant: 1, Castles: 91}, false},
	{"kiwipete 3", kiwipete, 3, Stats{Nodes: 97862, Captures: 17102, EnPassant: 45, Castles: 3162}, true},
	{"position 3 1", position3, 1, Stats{Nodes: 14, Captures: 1}, false},
	{"position 3 2", position3, 2, Stats{Nodes: 191, Captures: 14}, false},
	{"position 3 3", position3, 3, Stats{Nodes: 2812, Captures: 209, EnPassant: 2}, false},
	{"position 3 4", position3, 4, Stats{Nodes: 43238, Captures: 3348, EnPassant: 123}, false},
	{"position 3 5", position3, 5, Stats{Nodes: 674624, Captures: 52051, EnPassant: 1165}, true},
	{"position 4 1", position4, 1, Stats{Nodes: 6}, false},
	{"position 4 2", position4, 2, Stats{Nodes: 264, Captures: 87, Castles: 6, Promotions: 48}, false},
	{"position 4 3", position4, 3, Stats{Nodes: 9467, Captures: 1021, EnPassant: 4, Promotions: 120}, false},
	{"position 5 1", position5, 1, Stats{Nodes: 44}, false},
	{"position 5 2", position5, 2, Stats{Nodes: 1486}, false},
	{"position 5 3", position5, 3, Stats{Nodes: 62379}, false},
	{"position 6 1", position6, 1, Stats{Nodes: 46}, false},
	{"position 6 2", position6, 2, Stats{Nodes: 2079}, false},
	{"position 6 3", position6, 3, Stats{Nodes: 89890}, true},
}

func TestCount(t *testing.T) {
	for _, tc := range perftCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.deep && testing.Short() {
				t.Skip("deep perft skipped in short mode")
			}
			g := mustParse(t, tc.fen)
			before := g.Record()

			got, err := Count(g, tc.depth)
			if err != nil {
				t.Fatalf("Count: %v", err)
			}
			if got.Nodes != tc.want.Nodes {
				t.Fatalf("nodes = %d, want %d", got.Nodes, tc.want.Nodes)
			}
			checkBreakdown(t, got, tc.want)
			if g.Record() != before || g.HistoryLen() != 0 {
				t.Error("Count did not restore the game")
			}
		})
	}
}

// checkBreakdown compares only the counters a case states; zero means the
// reference number is not part of the case.
func checkBreakdown(t *testing.T, got, want Stats) {
	t.Helper()
	if want.Captures != 0 && got.Captures != want.Captures {
		t.Errorf("captures = %d, want %d", got.Captures, want.Captures)
	}
	if want.EnPassant != 0 && got.EnPassant != want.EnPassant {
		t.Errorf("en passant = %d, want %d", got.EnPassant, want.EnPassant)
	}
	if want.Castles != 0 && got.Castles != want.Castles {
		t.Errorf("castles = %d, want %d", got.Castles, want.Castles)
	}
	if want.Promotions != 0 && got.Promotions != want.Promotions {
		t.Errorf("promotions = %d, want %d", got.Promotions, want.Promotions)
	}
}

func TestInitialPositionHasNoCastlesAtDepthFour(t *testing.T) {
	got, err := Count(model.NewGame(), 4)
	if err != nil {
		t.Fatal(err)
	}
	if got.Castles != 0 || got.EnPassant != 0 || got.Promotions != 0 {
		t.Errorf("unexpected special moves %+v", got)
	}
}

func TestDivideMatchesCount(t *testing.T) {
	for _, fen := range []string{notation.InitialFEN, kiwipete, position4} {
		g := mustParse(t, fen)
		want, err := Count(g, 3)
		if err != nil {
			t.Fatal(err)
		}
		splits, err := Divide(context.Background(), g, 3, 4)
		if err != nil {
			t.Fatalf("Divide: %v", err)
		}
		if len(splits) != len(g.LegalMoves()) {
			t.Errorf("%d splits, want one per root move (%d)", len(splits), len(g.LegalMoves()))
		}
		if got := Total(splits); got != want {
			t.Errorf("%s: divide total %+v, count %+v", fen, got, want)
		}
		for i := 1; i < len(splits); i++ {
			if splits[i-1].UCI >= splits[i].UCI {
				t.Errorf("splits not sorted at %d", i)
			}
		}
		if g.HistoryLen() != 0 {
			t.Error("Divide touched the game")
		}
	}
}

func TestDivideDepthOne(t *testing.T) {
	splits, err := Divide(context.Background(), mustParse(t, kiwipete), 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	total := Total(splits)
	if total.Nodes != 48 || total.Captures != 8 || total.Castles != 2 {
		t.Errorf("total = %+v", total)
	}
}

func TestDivideRejectsBadInput(t *testing.T) {
	if _, err := Divide(context.Background(), model.NewGame(), 0, 1); err == nil {
		t.Error("depth 0 accepted")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Divide(ctx, model.NewGame(), 3, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled divide error = %v", err)
	}
}

// TestDivideAgainstDragontooth cross-checks every root subtree with an
// independent bitboard generator.
func TestDivideAgainstDragontooth(t *testing.T) {
	depth := 3
	if testing.Short() {
		depth = 2
	}
	for _, fen := range []string{notation.InitialFEN, kiwipete, position3, position4, position5, position6} {
		splits, err := Divide(context.Background(), mustParse(t, fen), depth, 0)
		if err != nil {
			t.Fatalf("Divide: %v", err)
		}
		ours := make(map[string]uint64, len(splits))
		for _, s := range splits {
			ours[s.UCI] = s.Stats.Nodes
		}

		board := dragontoothmg.ParseFen(fen)
		theirs := make(map[string]uint64)
		for _, mv := range board.GenerateLegalMoves() {
			unapply := board.Apply(mv)
			theirs[mv.String()] = dragontoothPerft(&board, depth-1)
			unapply()
		}

		if len(ours) != len(theirs) {
			t.Errorf("%s: %d root moves, oracle has %d", fen, len(ours), len(theirs))
		}
		for mv, n := range theirs {
			if ours[mv] != n {
				t.Errorf("%s %s: %d nodes, oracle %d", fen, mv, ours[mv], n)
			}
		}
	}
}

func dragontoothPerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var n uint64
	for _, mv := range moves {
		unapply := b.Apply(mv)
		n += dragontoothPerft(b, depth-1)
		unapply()
	}
	return n
}
