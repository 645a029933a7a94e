package main

import (
	"fmt"

	"github.com/lox/war/cmd/war/shared"
	"github.com/lox/war/internal/server"
	"github.com/lox/war/internal/statslog"
)

// ServeCmd runs the WebSocket server
type ServeCmd struct {
	Address     string `help:"Listen address (overrides config)"`
	Port        int    `short:"p" help:"Listen port (overrides config)"`
	Seed        *int64 `help:"Deterministic seed for each connection's first game (optional)"`
	ExportStats *bool  `help:"Append every finished game to the stats file"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if c.Address != "" {
		cfg.Server.Address = c.Address
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.ExportStats != nil {
		cfg.Server.ExportStats = *c.ExportStats
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid server settings: %w", err)
	}

	logger, closeLog, err := g.logger(cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()

	seed := cfg.Seed
	if c.Seed != nil {
		seed = *c.Seed
	}

	srv := server.NewServer(server.Config{
		Addr:        cfg.ServerAddress(),
		Player1:     cfg.Player1,
		Player2:     cfg.Player2,
		Seed:        seed,
		StatsLog:    statslog.New(cfg.StatsFile, nil),
		ExportStats: cfg.Server.ExportStats,
		Logger:      logger,
	})

	logger.Info("Starting War server",
		"address", cfg.ServerAddress(),
		"seed", seed,
		"export_stats", cfg.Server.ExportStats,
		"stats_file", cfg.StatsFile)

	ctx := shared.SetupSignalHandler(logger)
	return srv.Start(ctx)
}
