package selfplay

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"go.uber.org/zap"
)

// Config describes a batch of games.
type Config struct {
	Games   int
	Workers int
	White   model.Strategy
	Black   model.Strategy
	// Seed makes the batch reproducible; game i uses Seed+i.
	Seed uint64
	// MaxPlies ends a game undecided after this many half-moves. Zero means
	// no limit.
	MaxPlies int
	// FEN is the starting position; empty means the standard one.
	FEN string
}

// Result is the end of one game.
type Result struct {
	Index  int
	Status model.Status
	// Winner is meaningful when Status is checkmate.
	Winner model.Color
	Plies  int
	Moves  []string
	Err    error
}

// Summary tallies a batch.
type Summary struct {
	Games      int
	WhiteWins  int
	BlackWins  int
	Stalemates int
	Undecided  int
	Plies      int
}

func (s Summary) String() string {
	return fmt.Sprintf("games=%d white=%d black=%d stalemate=%d undecided=%d plies=%d",
		s.Games, s.WhiteWins, s.BlackWins, s.Stalemates, s.Undecided, s.Plies)
}

// Summarize counts the results.
func Summarize(results []Result) Summary {
	s := Summary{Games: len(results)}
	for _, r := range results {
		s.Plies += r.Plies
		switch {
		case r.Status == model.StatusCheckmate && r.Winner == model.White:
			s.WhiteWins++
		case r.Status == model.StatusCheckmate:
			s.BlackWins++
		case r.Status == model.StatusStalemate:
			s.Stalemates++
		default:
			s.Undecided++
		}
	}
	return s
}

// Run plays cfg.Games games on cfg.Workers goroutines and returns the results
// ordered by index. Cancelling ctx skips games not yet started.
func Run(ctx context.Context, cfg Config, logger *zap.Logger) ([]Result, error) {
	if cfg.Games < 0 {
		return nil, fmt.Errorf("selfplay: negative game count %d", cfg.Games)
	}
	if cfg.FEN != "" {
		if _, err := model.NewGameFromFEN(cfg.FEN); err != nil {
			return nil, err
		}
	}

	pool := NewPool(func(job Job) Result {
		r := Play(cfg, job.Index)
		logger.Debug("game finished",
			zap.Int("index", r.Index),
			zap.String("status", string(r.Status)),
			zap.Int("plies", r.Plies),
			zap.Error(r.Err),
		)
		return r
	}, WithWorkers(cfg.Workers), WithBufferSize(cfg.Workers*2))
	pool.Start()

	go func() {
		defer pool.Close()
		for i := 0; i < cfg.Games; i++ {
			select {
			case <-ctx.Done():
				pool.Stop()
				return
			default:
			}
			pool.Submit(Job{Index: i})
		}
	}()

	results := make([]Result, 0, cfg.Games)
	var errs []error
	for r := range pool.Results() {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("game %d: %w", r.Index, r.Err))
		}
		results = append(results, r)
	}
	slices.SortFunc(results, func(a, b Result) int { return a.Index - b.Index })

	logger.Info("self-play finished", zap.Stringer("summary", Summarize(results)))
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return results, errors.Join(errs...)
}

// Play plays game index of cfg to the end. Computer promotions always take a
// queen.
func Play(cfg Config, index int) Result {
	result := Result{Index: index}
	game := model.NewGame()
	if cfg.FEN != "" {
		var err error
		if game, err = model.NewGameFromFEN(cfg.FEN); err != nil {
			result.Err = err
			return result
		}
	}

	seed := cfg.Seed + uint64(index)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	strategies := map[model.Color]model.Strategy{model.White: cfg.White, model.Black: cfg.Black}

	for game.Status() == model.StatusInProgress {
		if cfg.MaxPlies > 0 && result.Plies >= cfg.MaxPlies {
			break
		}
		side := game.Turn()
		m, ok := game.Suggest(strategies[side], side, rng)
		if !ok {
			break
		}
		outcome, err := game.SubmitMove(m.From, m.To)
		if err != nil {
			result.Err = err
			break
		}
		text := m.String()
		if outcome.Kind == model.OutcomePromotionRequired {
			if _, err := game.SubmitPromotion(model.Queen); err != nil {
				result.Err = err
				break
			}
			text += "q"
		}
		result.Moves = append(result.Moves, text)
		result.Plies++
	}

	result.Status = game.Status()
	result.Winner, _ = game.Winner()
	return result
}
