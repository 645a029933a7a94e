package statslog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/war/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exportTime = time.Date(2026, time.October, 19, 14, 3, 12, 0, time.Local)

func finishedStats() game.Stats {
	start := exportTime.Add(-90 * time.Second)
	return game.Stats{
		GameID:          "01jab3testgame000000000000",
		Player1Name:     "Player 1",
		Player2Name:     "Player 2",
		State:           game.Ended,
		Winner:          game.Player1,
		StartTime:       start,
		EndTime:         start.Add(63250 * time.Millisecond),
		Duration:        63250 * time.Millisecond,
		RoundsPlayed:    412,
		Wars:            27,
		Player1CardsWon: 230,
		Player2CardsWon: 188,
		Player1Cards:    52,
	}
}

func newMockClock(t *testing.T) *quartz.Mock {
	clock := quartz.NewMock(t)
	clock.Set(exportTime)
	return clock
}

func TestRecordFormat(t *testing.T) {
	rec := NewRecord(finishedStats(), exportTime)

	want := strings.Join([]string{
		"Date/Time:     2026-10-19 14:03:12",
		"Game ID:       01jab3testgame000000000000",
		"Players:       Player 1 vs Player 2",
		"Winner:        Player 1",
		"Rounds Played: 412",
		"Duration:      1m3.25s",
		"Player 1 Won:  230 cards",
		"Player 2 Won:  188 cards",
		"----------------------------------------",
		"",
	}, "\n")
	assert.Equal(t, want, rec.Format())
}

func TestAppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFilename)
	log := New(path, newMockClock(t))

	first, err := log.Append(finishedStats())
	require.NoError(t, err)

	running := finishedStats()
	running.State = game.InProgress
	running.Winner = game.Undecided
	running.RoundsPlayed = 10
	_, err = log.Append(running)
	require.NoError(t, err)

	records, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	got := records[0]
	assert.True(t, first.Time.Equal(got.Time), "time %v != %v", first.Time, got.Time)
	assert.Equal(t, first.GameID, got.GameID)
	assert.Equal(t, "Player 1", got.Player1Name)
	assert.Equal(t, "Player 2", got.Player2Name)
	assert.Equal(t, game.Player1, got.Winner)
	assert.Equal(t, 412, got.Rounds)
	assert.Equal(t, 63250*time.Millisecond, got.Duration)
	assert.Equal(t, 230, got.Player1Won)
	assert.Equal(t, 188, got.Player2Won)

	assert.Equal(t, game.Undecided, records[1].Winner)
	assert.Equal(t, 10, records[1].Rounds)
}

func TestAppendFailureIsReported(t *testing.T) {
	dir := t.TempDir()
	log := New(dir, newMockClock(t)) // a directory cannot be appended to

	_, err := log.Append(finishedStats())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export stats")
}

func TestAppendRejectsUnreadableNames(t *testing.T) {
	for _, name := range []string{"Rock vs Roll", "Bob\nWinner: Bob"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultFilename)
			stats := finishedStats()
			stats.Player1Name = name

			_, err := New(path, newMockClock(t)).Append(stats)
			require.ErrorIs(t, err, game.ErrInvalidPlayerName)
			assert.NoFileExists(t, path)
		})
	}
}

func TestNewDefaults(t *testing.T) {
	log := New("", nil)
	assert.True(t, filepath.IsAbs(log.Path()))
	assert.Equal(t, DefaultFilename, filepath.Base(log.Path()))
}

func TestParseTolerance(t *testing.T) {
	input := `
Date/Time:     2026-01-02 03:04:05
Winner:        None
Rounds Played: 3
Mood:          sleepy
----------------------------------------
Winner:        Tie
Rounds Played: 7
`
	records, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, game.Undecided, records[0].Winner)
	assert.Equal(t, 3, records[0].Rounds)
	assert.Equal(t, game.Tie, records[1].Winner)
	assert.Equal(t, 7, records[1].Rounds)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "no separator", input: "just some text\n"},
		{name: "bad rounds", input: "Rounds Played: many\n"},
		{name: "bad duration", input: "Duration: forever\n"},
		{name: "bad cards", input: "Player 1 Won: lots\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSummarize(t *testing.T) {
	base := exportTime
	records := []Record{
		{Time: base, Winner: game.Player1, Rounds: 100, Duration: time.Second},
		{Time: base.Add(time.Hour), Winner: game.Player2, Rounds: 300, Duration: 2 * time.Second},
		{Time: base.Add(-time.Hour), Winner: game.Tie, Rounds: 20},
		{Time: base.Add(2 * time.Hour), Winner: game.Undecided, Rounds: 4},
		{Time: base.Add(3 * time.Hour), Winner: game.Player1, Rounds: 76},
	}

	s := Summarize(records)
	assert.Equal(t, 5, s.Games)
	assert.Equal(t, 2, s.Player1Wins)
	assert.Equal(t, 1, s.Player2Wins)
	assert.Equal(t, 1, s.Ties)
	assert.Equal(t, 1, s.Undecided)
	assert.Equal(t, 500, s.TotalRounds)
	assert.Equal(t, 300, s.LongestGame)
	assert.Equal(t, 3*time.Second, s.TotalTime)
	assert.InDelta(t, 100.0, s.AverageRounds(), 0.001)
	assert.True(t, s.First.Equal(base.Add(-time.Hour)))
	assert.True(t, s.Last.Equal(base.Add(3*time.Hour)))

	assert.Zero(t, Summarize(nil).AverageRounds())
}

func TestDescribe(t *testing.T) {
	s := finishedStats()
	s.PileCards = 0
	out := Describe(s)
	assert.Contains(t, out, "Rounds Played: 412")
	assert.Contains(t, out, "Current Winner: Player 1")
	assert.Contains(t, out, "Player 1 Cards Won: 230")
	assert.NotContains(t, out, "In Progress")
	assert.NotContains(t, out, "Center Pile")

	s.State = game.InProgress
	s.Winner = game.Undecided
	s.PileCards = 6
	out = Describe(s)
	assert.Contains(t, out, "Game End:      In Progress")
	assert.Contains(t, out, "Current Winner: Undecided")
	assert.Contains(t, out, "Center Pile:   6")
}
