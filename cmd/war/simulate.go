package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lox/war/cmd/war/shared"
	"github.com/lox/war/internal/fileutil"
	"github.com/lox/war/internal/game"
	"github.com/lox/war/internal/randutil"
	"github.com/lox/war/internal/simulator"
	"github.com/lox/war/internal/statistics"
)

// SimulateCmd plays many seeded games in parallel
type SimulateCmd struct {
	Games     *int   `short:"n" help:"Number of games to simulate"`
	Workers   *int   `short:"w" help:"Number of parallel workers"`
	MaxRounds *int   `help:"Round limit per game"`
	Seed      *int64 `help:"Seed of the first game; game i uses seed+i"`
	Output    string `short:"o" help:"Write a JSON report to this file"`
	Quiet     bool   `short:"q" help:"Hide the progress bar"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger, closeLog, err := g.logger(cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()

	simCfg := simulator.Config{
		Games:     cfg.Simulation.Games,
		MaxRounds: cfg.Simulation.MaxRounds,
		Workers:   cfg.Simulation.Workers,
		Seed:      randutil.Resolve(cfg.Seed),
		Logger:    logger,
	}
	if c.Games != nil {
		simCfg.Games = *c.Games
	}
	if c.Workers != nil {
		simCfg.Workers = *c.Workers
	}
	if c.MaxRounds != nil {
		simCfg.MaxRounds = *c.MaxRounds
	}
	if c.Seed != nil {
		simCfg.Seed = *c.Seed
	}
	if !c.Quiet {
		simCfg.Progress = newProgressDots(os.Stderr).Update
	}

	ctx := shared.SetupSignalHandler(logger)
	start := time.Now()
	stats, err := simulator.New(simCfg).Run(ctx)
	if err != nil {
		return err
	}

	report := newSimulationReport(simCfg, stats, time.Since(start))
	printReport(os.Stdout, report)

	if c.Output != "" {
		if err := writeReport(c.Output, report); err != nil {
			return err
		}
		logger.Info("Wrote simulation report", "path", c.Output)
	}
	return nil
}

type simulationReport struct {
	Games           int        `json:"games"`
	Seed            int64      `json:"seed"`
	MaxRounds       int        `json:"maxRounds"`
	Player1Wins     int        `json:"player1Wins"`
	Player2Wins     int        `json:"player2Wins"`
	Ties            int        `json:"ties"`
	Capped          int        `json:"capped"`
	Player1WinRate  float64    `json:"player1WinRate"`
	MeanRounds      float64    `json:"meanRounds"`
	StdDevRounds    float64    `json:"stdDevRounds"`
	MedianRounds    float64    `json:"medianRounds"`
	P90Rounds       float64    `json:"p90Rounds"`
	CI95            [2]float64 `json:"ci95"`
	WarsPerGame     float64    `json:"warsPerGame"`
	MaxWarsInGame   int        `json:"maxWarsInGame"`
	LongestGame     int        `json:"longestGame"`
	LongestGameSeed int64      `json:"longestGameSeed"`
	Elapsed         string     `json:"elapsed"`
}

func newSimulationReport(cfg simulator.Config, s *statistics.Statistics, elapsed time.Duration) simulationReport {
	lo, hi := s.ConfidenceInterval95()
	return simulationReport{
		Games:           s.Games,
		Seed:            cfg.Seed,
		MaxRounds:       cfg.MaxRounds,
		Player1Wins:     s.Player1Wins,
		Player2Wins:     s.Player2Wins,
		Ties:            s.Ties,
		Capped:          s.Capped,
		Player1WinRate:  s.WinRate(game.Player1),
		MeanRounds:      s.Mean(),
		StdDevRounds:    s.StdDev(),
		MedianRounds:    s.Median(),
		P90Rounds:       s.Percentile(0.9),
		CI95:            [2]float64{lo, hi},
		WarsPerGame:     s.WarsPerGame(),
		MaxWarsInGame:   s.MaxWarsInGame,
		LongestGame:     s.LongestGame,
		LongestGameSeed: s.LongestGameSeed,
		Elapsed:         elapsed.Round(time.Millisecond).String(),
	}
}

func printReport(w io.Writer, r simulationReport) {
	fmt.Fprintln(w, titleStyle.Render("Simulation Results"))
	fmt.Fprintf(w, "Games:          %d (seeds %d..%d)\n", r.Games, r.Seed, r.Seed+int64(r.Games)-1)
	fmt.Fprintf(w, "Player 1 wins:  %d (%.1f%%)\n", r.Player1Wins, r.Player1WinRate*100)
	fmt.Fprintf(w, "Player 2 wins:  %d\n", r.Player2Wins)
	fmt.Fprintf(w, "Ties:           %d\n", r.Ties)
	if r.Capped > 0 {
		fmt.Fprintf(w, "Capped:         %d (no winner after %d rounds)\n", r.Capped, r.MaxRounds)
	}
	fmt.Fprintf(w, "Rounds:         mean %.1f ± %.1f, median %.0f, p90 %.0f\n",
		r.MeanRounds, r.StdDevRounds, r.MedianRounds, r.P90Rounds)
	fmt.Fprintf(w, "95%% CI:         [%.1f, %.1f]\n", r.CI95[0], r.CI95[1])
	fmt.Fprintf(w, "Wars per game:  %.2f (max %d)\n", r.WarsPerGame, r.MaxWarsInGame)
	if r.LongestGame > 0 {
		fmt.Fprintf(w, "Longest game:   %d rounds (seed %d)\n", r.LongestGame, r.LongestGameSeed)
	}
	fmt.Fprintf(w, "Elapsed:        %s\n", r.Elapsed)
}

func writeReport(path string, r simulationReport) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	})
}
