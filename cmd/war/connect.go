package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/lox/war/cmd/war/shared"
	"github.com/lox/war/internal/client"
	"github.com/lox/war/internal/server"
)

const connectTimeout = 10 * time.Second

// ConnectCmd plays a game hosted by a War server
type ConnectCmd struct {
	URL       string `arg:"" optional:"" help:"Server URL (defaults to the configured server address)"`
	Seed      *int64 `help:"Ask the server for a game with this seed"`
	MaxRounds *int   `help:"Stop after this many rounds"`
	Export    bool   `short:"e" help:"Ask the server to export the result to its stats file"`
	Verbose   bool   `help:"Print every round"`
}

func (c *ConnectCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger, closeLog, err := g.logger(cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()

	url := c.URL
	if url == "" {
		url = "http://" + cfg.ServerAddress()
	}
	maxRounds := cfg.Simulation.MaxRounds
	if c.MaxRounds != nil {
		maxRounds = *c.MaxRounds
	}

	ctx := shared.SetupSignalHandler(logger)
	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	cl := client.NewClient(url, logger)
	started, err := cl.Connect(dialCtx)
	if err != nil {
		return err
	}
	defer func() { _ = cl.Disconnect() }()

	opts := remoteOptions{
		MaxRounds: maxRounds,
		Verbose:   c.Verbose,
		Export:    c.Export,
	}
	if c.Seed != nil {
		opts.NewGame = &server.NewGameData{Seed: *c.Seed}
	}
	return playRemote(ctx, os.Stdout, cl, started, opts)
}

type remoteOptions struct {
	NewGame   *server.NewGameData // Non-nil redeals before playing
	MaxRounds int
	Verbose   bool
	Export    bool
}

// remoteGame is the part of client.Client that playRemote drives
type remoteGame interface {
	PlayRound(ctx context.Context) (server.RoundData, error)
	Stats(ctx context.Context) (server.StatsData, error)
	NewGame(ctx context.Context, opts server.NewGameData) (server.GameStartedData, error)
	Export(ctx context.Context) (server.ExportedData, error)
}

func playRemote(ctx context.Context, w io.Writer, cl remoteGame, started server.GameStartedData, opts remoteOptions) error {
	if opts.NewGame != nil {
		var err error
		if started, err = cl.NewGame(ctx, *opts.NewGame); err != nil {
			return fmt.Errorf("new game: %w", err)
		}
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("WAR  %s vs %s", started.Player1, started.Player2)))
	fmt.Fprintf(w, "Game: %s\nSeed: %d\n\n", started.GameID, started.Seed)

	rounds := 0
	for {
		if opts.MaxRounds > 0 && rounds >= opts.MaxRounds {
			fmt.Fprintf(w, "Stopped after %d rounds.\n\n", rounds)
			break
		}
		round, err := cl.PlayRound(ctx)
		if err != nil {
			return fmt.Errorf("play round: %w", err)
		}
		if opts.Verbose && round.Dealt {
			printRemoteRound(w, round, started.Player1, started.Player2)
		}
		if round.GameEnded {
			break
		}
		rounds = round.Round
	}

	stats, err := cl.Stats(ctx)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	printRemoteStats(w, stats)

	if opts.Export {
		exported, err := cl.Export(ctx)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintf(w, "\nStats exported to %s\n", exported.Path)
	}
	return nil
}

func printRemoteRound(w io.Writer, round server.RoundData, name1, name2 string) {
	first := round.Round - len(round.Battles) + 1
	for i, b := range round.Battles {
		marker := ""
		if b.Tied {
			marker = "  WAR!"
		}
		fmt.Fprintf(w, "%5d  %s %-3s  %s %-3s%s\n", first+i, name1, b.Player1Card, name2, b.Player2Card, marker)
	}
	if round.AwardedTo != "" {
		fmt.Fprintf(w, "       %s takes %d (%d-%d)\n", round.AwardedTo, round.PileAwarded, round.Player1Cards, round.Player2Cards)
	}
}

func printRemoteStats(w io.Writer, s server.StatsData) {
	var b strings.Builder
	fmt.Fprintf(&b, "Game %s (%s)\n", s.GameID, s.State)
	fmt.Fprintf(&b, "  Winner:  %s\n", s.Winner)
	fmt.Fprintf(&b, "  Rounds:  %d\n", s.RoundsPlayed)
	fmt.Fprintf(&b, "  Wars:    %d\n", s.Wars)
	fmt.Fprintf(&b, "  Cards:   %s %d, %s %d, pile %d\n", s.Player1, s.Player1Cards, s.Player2, s.Player2Cards, s.PileCards)
	fmt.Fprintf(&b, "  Won:     %s %d, %s %d\n", s.Player1, s.Player1CardsWon, s.Player2, s.Player2CardsWon)
	fmt.Fprint(w, b.String())
}
