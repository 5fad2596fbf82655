package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/selfplay"
	"go.uber.org/zap"
)

func main() {
	var (
		games    = flag.Int("games", 100, "number of games to play")
		workers  = flag.Int("workers", runtime.NumCPU(), "parallel games")
		white    = flag.String("white", "greedy", "white strategy (random|greedy)")
		black    = flag.String("black", "random", "black strategy (random|greedy)")
		seed     = flag.Uint64("seed", 0, "base seed; 0 picks one from the clock")
		maxPlies = flag.Int("max-plies", 400, "half-move cap per game, 0 for none")
		fen      = flag.String("fen", "", "starting position in FEN")
		perft    = flag.Int("perft", 0, "count perft to this depth instead of playing")
		verbose  = flag.Bool("v", false, "log every game and print move lists")
	)
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	defer logger.Sync()

	if *perft > 0 {
		if err := runPerft(*fen, *perft); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	whiteStrategy, err := model.ParseStrategy(*white)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	blackStrategy, err := model.ParseStrategy(*black)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := selfplay.Run(ctx, selfplay.Config{
		Games:    *games,
		Workers:  *workers,
		White:    whiteStrategy,
		Black:    blackStrategy,
		Seed:     *seed,
		MaxPlies: *maxPlies,
		FEN:      *fen,
	}, logger)
	if *verbose {
		for _, r := range results {
			fmt.Printf("%d %s %s\n", r.Index, r.Status, strings.Join(r.Moves, " "))
		}
	}
	fmt.Printf("seed=%d %s\n", *seed, selfplay.Summarize(results))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runPerft(fen string, depth int) error {
	game := model.NewGame()
	if fen != "" {
		var err error
		if game, err = model.NewGameFromFEN(fen); err != nil {
			return err
		}
	}
	for d := 1; d <= depth; d++ {
		start := time.Now()
		nodes := game.Perft(d)
		fmt.Printf("perft(%d) = %d (%v)\n", d, nodes, time.Since(start).Round(time.Millisecond))
	}
	return nil
}
