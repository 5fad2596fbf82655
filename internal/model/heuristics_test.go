package model

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseStrategy(t *testing.T) {
	for in, want := range map[string]Strategy{"random": StrategyRandom, "Greedy": StrategyGreedy} {
		got, err := ParseStrategy(in)
		if err != nil || got != want {
			t.Errorf("ParseStrategy(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseStrategy("minimax"); err == nil {
		t.Error("ParseStrategy(minimax) should fail")
	}
}

func TestSuggestionsAreReproducible(t *testing.T) {
	for _, strategy := range []Strategy{StrategyRandom, StrategyGreedy} {
		t.Run(string(strategy), func(t *testing.T) {
			run := func() []string {
				g := NewGame()
				rng := rand.New(rand.NewPCG(42, 7))
				var moves []string
				for i := 0; i < 30 && g.Status() == StatusInProgress; i++ {
					m, ok := g.Suggest(strategy, g.Turn(), rng)
					if !ok {
						break
					}
					outcome, err := g.SubmitMove(m.From, m.To)
					if err != nil {
						t.Fatalf("suggested move %s rejected: %v", m, err)
					}
					if outcome.Kind == OutcomePromotionRequired {
						g.SubmitPromotion(Queen)
					}
					moves = append(moves, m.String())
				}
				return moves
			}

			first, second := run(), run()
			if len(first) == 0 {
				t.Fatal("no moves suggested")
			}
			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("same seed gave different games (-first +second):\n%s", diff)
			}
		})
	}
}

func TestSuggestDoesNotChangeGame(t *testing.T) {
	g := mustFEN(t, kiwipeteFEN)
	before := cloneBoard(g.board)
	rng := rand.New(rand.NewPCG(1, 1))

	for i := 0; i < 10; i++ {
		g.SuggestGreedyMove(White, rng)
		g.SuggestRandomMove(White, rng)
	}
	if diff := cmp.Diff(before, g.board, cmp.AllowUnexported(Board{}, Piece{})); diff != "" {
		t.Errorf("suggestions changed the board (-before +after):\n%s", diff)
	}
}

func TestGreedyPreference(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want string
	}{
		{name: "capture with check", fen: "q3k3/8/8/8/8/8/8/R3K3 w - - 0 1", want: "a1a8"},
		{name: "check over capture", fen: "4k3/8/8/8/8/8/8/1R1nK3 w - - 0 1", want: "b1b8"},
		{name: "capture over quiet", fen: "4k3/8/8/8/8/8/p7/R3K3 w - - 0 1", want: "a1a2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustFEN(t, tt.fen)
			for seed := uint64(0); seed < 20; seed++ {
				m, ok := g.SuggestGreedyMove(White, rand.New(rand.NewPCG(seed, seed)))
				if !ok {
					t.Fatal("no suggestion")
				}
				if m.String() != tt.want {
					t.Fatalf("seed %d: SuggestGreedyMove = %s, want %s", seed, m, tt.want)
				}
			}
		})
	}
}

func TestRandomCoversLegalMoves(t *testing.T) {
	g := NewGame()
	rng := rand.New(rand.NewPCG(3, 3))
	legal := legalStrings(g, White)
	seen := map[string]bool{}

	for i := 0; i < 2000; i++ {
		m, ok := g.SuggestRandomMove(White, rng)
		if !ok {
			t.Fatal("no suggestion")
		}
		if !legal[m.String()] {
			t.Fatalf("suggested illegal move %s", m)
		}
		seen[m.String()] = true
	}
	if len(seen) != len(legal) {
		t.Errorf("saw %d distinct moves, want %d", len(seen), len(legal))
	}
}

func TestSuggestPendingPromotion(t *testing.T) {
	g := mustFEN(t, "8/P7/8/8/8/8/8/k6K w - - 0 1")
	play(t, g, "a7a8")
	if _, ok := g.SuggestRandomMove(White, rand.New(rand.NewPCG(1, 1))); ok {
		t.Error("no suggestion expected while a promotion is pending")
	}
}
