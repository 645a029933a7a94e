// Package statistics aggregates the results of many simulated games.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/war/internal/game"
)

// GameResult represents the outcome of a single simulated game
type GameResult struct {
	Seed            int64       // RNG seed for this game (for replay)
	Winner          game.Winner // Undecided when Capped
	Rounds          int         // Rounds played, counting every face-up comparison
	Wars            int         // Ties resolved during the game
	Capped          bool        // Stopped at the round limit before a winner emerged
	Player1CardsWon int
	Player2CardsWon int
}

// Statistics tracks rounds-per-game and outcome statistics
type Statistics struct {
	Games       int
	Player1Wins int
	Player2Wins int
	Ties        int
	Capped      int

	SumRounds  float64
	SumRounds2 float64   // Sum of squares for variance calculation
	Values     []float64 // Rounds per game for median/percentile calculation

	TotalWars     int
	MaxWarsInGame int

	LongestGame     int   // Most rounds in a finished game
	LongestGameSeed int64 // Seed that replays LongestGame
}

// Add incorporates a new game result into the statistics
func (s *Statistics) Add(result GameResult) {
	rounds := float64(result.Rounds)
	s.Games++
	s.SumRounds += rounds
	s.SumRounds2 += rounds * rounds
	s.Values = append(s.Values, rounds)

	switch {
	case result.Capped:
		s.Capped++
	case result.Winner == game.Player1:
		s.Player1Wins++
	case result.Winner == game.Player2:
		s.Player2Wins++
	default:
		s.Ties++
	}

	s.TotalWars += result.Wars
	if result.Wars > s.MaxWarsInGame {
		s.MaxWarsInGame = result.Wars
	}
	if !result.Capped && result.Rounds > s.LongestGame {
		s.LongestGame = result.Rounds
		s.LongestGameSeed = result.Seed
	}
}

// Merge folds other into s
func (s *Statistics) Merge(other *Statistics) {
	s.Games += other.Games
	s.Player1Wins += other.Player1Wins
	s.Player2Wins += other.Player2Wins
	s.Ties += other.Ties
	s.Capped += other.Capped
	s.SumRounds += other.SumRounds
	s.SumRounds2 += other.SumRounds2
	s.Values = append(s.Values, other.Values...)
	s.TotalWars += other.TotalWars
	if other.MaxWarsInGame > s.MaxWarsInGame {
		s.MaxWarsInGame = other.MaxWarsInGame
	}
	if other.LongestGame > s.LongestGame {
		s.LongestGame = other.LongestGame
		s.LongestGameSeed = other.LongestGameSeed
	}
}

// Mean returns the arithmetic mean of rounds per game
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumRounds / float64(s.Games)
}

// Variance returns the sample variance of rounds per game
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumRounds2 - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

// StdDev returns the sample standard deviation of rounds per game
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// WarsPerGame returns the mean number of wars per game
func (s *Statistics) WarsPerGame() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalWars) / float64(s.Games)
}

// WinRate returns the share of decided games won by w. Ties count as decided.
func (s *Statistics) WinRate(w game.Winner) float64 {
	decided := s.Games - s.Capped
	if decided == 0 {
		return 0
	}
	switch w {
	case game.Player1:
		return float64(s.Player1Wins) / float64(decided)
	case game.Player2:
		return float64(s.Player2Wins) / float64(decided)
	case game.Tie:
		return float64(s.Ties) / float64(decided)
	default:
		return 0
	}
}

// Median returns the median rounds per game
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the rounds-per-game value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks that the counters agree with each other
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}
	if len(s.Values) != s.Games {
		return fmt.Errorf("values array length (%d) does not match games count (%d)",
			len(s.Values), s.Games)
	}
	if outcomes := s.Player1Wins + s.Player2Wins + s.Ties + s.Capped; outcomes != s.Games {
		return fmt.Errorf("outcome total (%d) does not match games count (%d)", outcomes, s.Games)
	}
	if s.MaxWarsInGame > s.TotalWars {
		return fmt.Errorf("max wars in one game (%d) exceeds total wars (%d)", s.MaxWarsInGame, s.TotalWars)
	}
	return nil
}
