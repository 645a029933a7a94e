package main

import (
	"fmt"
	"time"

	"github.com/lox/war/cmd/war/shared"
	"github.com/lox/war/internal/statslog"
	"github.com/lox/war/internal/tui"
)

// PlayCmd runs the interactive terminal game
type PlayCmd struct {
	Seed     *int64        `help:"Deterministic shuffle seed (optional)"`
	Player1  string        `help:"Name of the first player"`
	Player2  string        `help:"Name of the second player"`
	Autoplay time.Duration `default:"150ms" help:"Delay between rounds while autoplay is on"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	cfg.Player1 = firstNonEmpty(c.Player1, cfg.Player1)
	cfg.Player2 = firstNonEmpty(c.Player2, cfg.Player2)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid player names: %w", err)
	}

	// stdout belongs to the terminal UI
	logger, closeLog, err := g.logger(cfg, true)
	if err != nil {
		return err
	}
	defer closeLog()

	seed := cfg.Seed
	if c.Seed != nil {
		seed = *c.Seed
	}

	logger.Info("Starting interactive game", "seed", seed, "stats_file", cfg.StatsFile)
	ctx := shared.SetupSignalHandler(logger)

	return tui.Run(ctx, tui.Config{
		Player1:          cfg.Player1,
		Player2:          cfg.Player2,
		Seed:             seed,
		StatsLog:         statslog.New(cfg.StatsFile, nil),
		Logger:           logger,
		AutoplayInterval: c.Autoplay,
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
