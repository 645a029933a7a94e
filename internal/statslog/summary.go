package statslog

import (
	"fmt"
	"strings"
	"time"

	"github.com/lox/war/internal/game"
)

// Summary aggregates a set of records
type Summary struct {
	Games       int
	Player1Wins int
	Player2Wins int
	Ties        int
	Undecided   int
	TotalRounds int
	LongestGame int // Most rounds in a single record
	TotalTime   time.Duration
	First       time.Time
	Last        time.Time
}

// Summarize aggregates records
func Summarize(records []Record) Summary {
	var s Summary
	for _, r := range records {
		s.Games++
		switch r.Winner {
		case game.Player1:
			s.Player1Wins++
		case game.Player2:
			s.Player2Wins++
		case game.Tie:
			s.Ties++
		default:
			s.Undecided++
		}
		s.TotalRounds += r.Rounds
		s.TotalTime += r.Duration
		if r.Rounds > s.LongestGame {
			s.LongestGame = r.Rounds
		}
		if s.First.IsZero() || r.Time.Before(s.First) {
			s.First = r.Time
		}
		if r.Time.After(s.Last) {
			s.Last = r.Time
		}
	}
	return s
}

// AverageRounds returns the mean rounds per recorded game
func (s Summary) AverageRounds() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalRounds) / float64(s.Games)
}

// Describe renders live game stats the way the stats view shows them.
func Describe(s game.Stats) string {
	end := "In Progress"
	if s.Ended() {
		end = s.EndTime.Format(TimeLayout)
	}
	current := s.Winner.String()

	var b strings.Builder
	fmt.Fprintf(&b, "Game Start:    %s\n", s.StartTime.Format(TimeLayout))
	fmt.Fprintf(&b, "Game End:      %s\n", end)
	fmt.Fprintf(&b, "Duration:      %s\n", s.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "Rounds Played: %d\n", s.RoundsPlayed)
	fmt.Fprintf(&b, "Wars:          %d\n", s.Wars)
	fmt.Fprintf(&b, "\nCurrent Winner: %s\n\n", current)
	fmt.Fprintf(&b, "%s Cards Won: %d (holding %d)\n", s.Player1Name, s.Player1CardsWon, s.Player1Cards)
	fmt.Fprintf(&b, "%s Cards Won: %d (holding %d)\n", s.Player2Name, s.Player2CardsWon, s.Player2Cards)
	if s.PileCards > 0 {
		fmt.Fprintf(&b, "Center Pile:   %d\n", s.PileCards)
	}
	return b.String()
}
