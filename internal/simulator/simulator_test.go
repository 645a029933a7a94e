package simulator

import (
	"context"
	"io"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/war/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel})
}

func TestNew(t *testing.T) {
	sim := New(Config{Games: 100, Seed: 12345, Logger: quietLogger()})
	require.NotNil(t, sim)
	assert.Equal(t, 100, sim.config.Games)
	assert.Equal(t, int64(12345), sim.config.Seed)
	assert.Equal(t, DefaultMaxRounds, sim.config.MaxRounds)
	assert.Positive(t, sim.config.Workers)
}

func TestNew_WorkersCappedByGames(t *testing.T) {
	sim := New(Config{Games: 2, Workers: 8})
	assert.Equal(t, 2, sim.config.Workers)
}

func TestPlayGame_Deterministic(t *testing.T) {
	a := PlayGame(42, DefaultMaxRounds)
	b := PlayGame(42, DefaultMaxRounds)
	assert.Equal(t, a, b)
	assert.Equal(t, int64(42), a.Seed)
	assert.Positive(t, a.Rounds)
}

func TestPlayGame_Capped(t *testing.T) {
	result := PlayGame(7, 1)
	// Ending in one round would take six chained wars from a fresh deal.
	assert.True(t, result.Capped)
	assert.Equal(t, game.Undecided, result.Winner)
	assert.GreaterOrEqual(t, result.Rounds, 1)
}

func TestSimulator_Run(t *testing.T) {
	sim := New(Config{Games: 20, Seed: 1, Workers: 3, Logger: quietLogger()})

	stats, err := sim.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, stats.Validate())

	assert.Equal(t, 20, stats.Games)
	assert.Equal(t, 20, stats.Player1Wins+stats.Player2Wins+stats.Ties+stats.Capped)
	assert.Len(t, stats.Values, 20)
	assert.Positive(t, stats.Mean())
}

func TestSimulator_Run_IndependentOfWorkers(t *testing.T) {
	one, err := New(Config{Games: 16, Seed: 99, Workers: 1}).Run(context.Background())
	require.NoError(t, err)
	four, err := New(Config{Games: 16, Seed: 99, Workers: 4}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, one.Player1Wins, four.Player1Wins)
	assert.Equal(t, one.Player2Wins, four.Player2Wins)
	assert.Equal(t, one.Ties, four.Ties)
	assert.Equal(t, one.Capped, four.Capped)
	assert.Equal(t, one.SumRounds, four.SumRounds)
	assert.Equal(t, one.TotalWars, four.TotalWars)
	assert.ElementsMatch(t, one.Values, four.Values)
}

func TestSimulator_Run_Progress(t *testing.T) {
	var calls atomic.Int64
	var lastTotal atomic.Int64
	sim := New(Config{
		Games:   10,
		Seed:    5,
		Workers: 2,
		Progress: func(done, total int) {
			calls.Add(1)
			lastTotal.Store(int64(total))
		},
	})

	_, err := sim.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), calls.Load())
	assert.Equal(t, int64(10), lastTotal.Load())
}

func TestSimulator_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{Games: 50, Seed: 1, Workers: 2}).Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulator_Run_InvalidGames(t *testing.T) {
	_, err := New(Config{Games: 0}).Run(context.Background())
	assert.Error(t, err)
}

func TestRunSimulation_Convenience(t *testing.T) {
	stats, err := RunSimulation(context.Background(), 4, 12345, quietLogger())
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 4, stats.Games)
}
