package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/lox/war/internal/game"
	"github.com/lox/war/internal/randutil"
	"github.com/lox/war/internal/statslog"
)

// AutoCmd plays a single game to the end without interaction
type AutoCmd struct {
	Seed      *int64 `help:"Deterministic shuffle seed (optional)"`
	MaxRounds *int   `help:"Stop and decide by cards held after this many rounds"`
	Export    bool   `short:"e" help:"Append the result to the stats file"`
	Verbose   bool   `help:"Print every round"`
}

func (c *AutoCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger, closeLog, err := g.logger(cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()

	seed := randutil.Resolve(cfg.Seed)
	if c.Seed != nil {
		seed = *c.Seed
	}
	maxRounds := cfg.Simulation.MaxRounds
	if c.MaxRounds != nil {
		maxRounds = *c.MaxRounds
	}

	var stats *statslog.Log
	if c.Export {
		stats = statslog.New(cfg.StatsFile, nil)
	}

	return playAuto(os.Stdout, autoOptions{
		Seed:      seed,
		Player1:   cfg.Player1,
		Player2:   cfg.Player2,
		MaxRounds: maxRounds,
		Verbose:   c.Verbose,
		StatsLog:  stats,
		Logger:    logger,
	})
}

type autoOptions struct {
	Seed      int64
	Player1   string
	Player2   string
	MaxRounds int
	Verbose   bool
	StatsLog  *statslog.Log // Nil skips export
	Logger    *log.Logger
}

func playAuto(w io.Writer, opts autoOptions) error {
	g := game.New(randutil.New(opts.Seed),
		game.WithPlayerNames(opts.Player1, opts.Player2),
		game.WithLogger(opts.Logger),
	)

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("WAR  %s vs %s", g.Player1().Name, g.Player2().Name)))
	fmt.Fprintf(w, "Seed: %d\n\n", opts.Seed)

	for !g.IsEnded() {
		if opts.MaxRounds > 0 && g.Rounds() >= opts.MaxRounds {
			fmt.Fprintf(w, "Stopped after %d rounds; deciding by cards held.\n\n", g.Rounds())
			g.End()
			break
		}
		out, err := g.PlayRound()
		if err != nil {
			return fmt.Errorf("play round: %w", err)
		}
		if opts.Verbose && out.Dealt {
			printRound(w, out, g.Player1().Name, g.Player2().Name)
		}
	}

	fmt.Fprint(w, statslog.Describe(g.Stats()))

	if opts.StatsLog != nil {
		if _, err := opts.StatsLog.Append(g.Stats()); err != nil {
			return err
		}
		fmt.Fprintf(w, "\nStats exported to %s\n", opts.StatsLog.Path())
	}
	return nil
}

func printRound(w io.Writer, out game.RoundOutcome, name1, name2 string) {
	first := out.Round - len(out.Battles) + 1
	for i, b := range out.Battles {
		marker := ""
		if b.Tied() {
			marker = "  WAR!"
		}
		fmt.Fprintf(w, "%5d  %s %-3s  %s %-3s%s\n", first+i, name1, b.Player1Card, name2, b.Player2Card, marker)
	}
	switch out.AwardedTo {
	case game.Seat1:
		fmt.Fprintf(w, "       %s takes %d (%d-%d)\n", name1, out.PileAwarded, out.Player1Cards, out.Player2Cards)
	case game.Seat2:
		fmt.Fprintf(w, "       %s takes %d (%d-%d)\n", name2, out.PileAwarded, out.Player1Cards, out.Player2Cards)
	}
}
