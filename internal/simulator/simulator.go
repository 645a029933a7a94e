// Package simulator plays batches of unattended games and aggregates them.
package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/lox/war/internal/game"
	"github.com/lox/war/internal/randutil"
	"github.com/lox/war/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxRounds caps a single game. War can cycle forever when both hands
// settle into a repeating order, so every simulated game needs a limit.
const DefaultMaxRounds = 10000

// Config holds configuration for running simulations
type Config struct {
	Games     int
	MaxRounds int   // Zero means DefaultMaxRounds
	Workers   int   // Zero means GOMAXPROCS
	Seed      int64 // Game i is shuffled with Seed+i
	Logger    *log.Logger

	// Progress, if set, is called after each finished game. It may be called
	// from several goroutines at once.
	Progress func(done, total int)
}

// Simulator runs War game simulations
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.MaxRounds <= 0 {
		config.MaxRounds = DefaultMaxRounds
	}
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.Workers > config.Games && config.Games > 0 {
		config.Workers = config.Games
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Simulator{config: config, logger: logger.WithPrefix("simulator")}
}

// Run plays every configured game and returns the aggregated results. Games
// are spread across workers by index, and each worker keeps its own tally, so
// the result for a given seed does not depend on scheduling.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if s.config.Games <= 0 {
		return nil, fmt.Errorf("invalid games count: %d", s.config.Games)
	}

	workers := s.config.Workers
	partial := make([]*statistics.Statistics, workers)
	var done atomic.Int64

	s.logger.Info("Starting simulation", "games", s.config.Games, "workers", workers,
		"seed", s.config.Seed, "max_rounds", s.config.MaxRounds)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		stats := &statistics.Statistics{}
		partial[w] = stats
		g.Go(func() error {
			for i := w; i < s.config.Games; i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				stats.Add(PlayGame(s.config.Seed+int64(i), s.config.MaxRounds))
				n := done.Add(1)
				if s.config.Progress != nil {
					s.config.Progress(int(n), s.config.Games)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("simulation stopped after %d games: %w", done.Load(), err)
	}

	stats := &statistics.Statistics{}
	for _, p := range partial {
		stats.Merge(p)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.logger.Info("Simulation complete", "games", stats.Games, "capped", stats.Capped,
		"mean_rounds", fmt.Sprintf("%.1f", stats.Mean()))
	return stats, nil
}

// PlayGame plays one game shuffled from seed until it ends or reaches
// maxRounds, whichever comes first.
func PlayGame(seed int64, maxRounds int) statistics.GameResult {
	g := game.New(randutil.New(seed), game.WithID(fmt.Sprintf("sim-%d", seed)))
	for !g.IsEnded() && g.Rounds() < maxRounds {
		if _, err := g.PlayRound(); err != nil {
			break
		}
	}

	stats := g.Stats()
	return statistics.GameResult{
		Seed:            seed,
		Winner:          stats.Winner,
		Rounds:          stats.RoundsPlayed,
		Wars:            stats.Wars,
		Capped:          !g.IsEnded(),
		Player1CardsWon: stats.Player1CardsWon,
		Player2CardsWon: stats.Player2CardsWon,
	}
}

// RunSimulation is a convenience wrapper that builds a Simulator and runs it.
func RunSimulation(ctx context.Context, games int, seed int64, logger *log.Logger) (*statistics.Statistics, error) {
	return New(Config{Games: games, Seed: seed, Logger: logger}).Run(ctx)
}
