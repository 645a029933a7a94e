// Package statslog records finished games in an append-only, human readable
// text file and reads them back.
//
// Each record is a block of "Label: value" lines closed by a dashed
// separator:
//
//	Date/Time:     2026-10-19 14:03:12
//	Game ID:       01jab3...
//	Players:       Player 1 vs Player 2
//	Winner:        Player 1
//	Rounds Played: 412
//	Duration:      1m3.25s
//	Player 1 Won:  230 cards
//	Player 2 Won:  188 cards
//	----------------------------------------
package statslog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/war/internal/fileutil"
	"github.com/lox/war/internal/game"
)

// DefaultFilename is used when no stats file is configured
const DefaultFilename = "war_stats.txt"

// TimeLayout is the layout of the Date/Time line
const TimeLayout = "2006-01-02 15:04:05"

const separator = "----------------------------------------"

// Record is one exported game
type Record struct {
	Time        time.Time
	GameID      string
	Player1Name string
	Player2Name string
	Winner      game.Winner
	Rounds      int
	Duration    time.Duration
	Player1Won  int
	Player2Won  int
}

// NewRecord builds a record from game stats, stamped with the export time.
func NewRecord(s game.Stats, now time.Time) Record {
	return Record{
		Time:        now,
		GameID:      s.GameID,
		Player1Name: s.Player1Name,
		Player2Name: s.Player2Name,
		Winner:      s.Winner,
		Rounds:      s.RoundsPlayed,
		Duration:    s.Duration,
		Player1Won:  s.Player1CardsWon,
		Player2Won:  s.Player2CardsWon,
	}
}

// Format renders the record as a text block ending in the separator line.
func (r Record) Format() string {
	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "%-15s%s\n", label+":", value)
	}
	field("Date/Time", r.Time.Format(TimeLayout))
	field("Game ID", r.GameID)
	field("Players", r.Player1Name+game.NameSeparator+r.Player2Name)
	field("Winner", r.Winner.String())
	field("Rounds Played", strconv.Itoa(r.Rounds))
	field("Duration", r.Duration.Round(time.Millisecond).String())
	field("Player 1 Won", fmt.Sprintf("%d cards", r.Player1Won))
	field("Player 2 Won", fmt.Sprintf("%d cards", r.Player2Won))
	b.WriteString(separator + "\n")
	return b.String()
}

// Log appends records to a stats file. It is safe for concurrent use.
type Log struct {
	path  string
	clock quartz.Clock
	mu    sync.Mutex
}

// New returns a log writing to path. An empty path uses DefaultFilename in
// the working directory and a nil clock uses the real clock.
func New(path string, clock quartz.Clock) *Log {
	if path == "" {
		path = DefaultFilename
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Log{path: path, clock: clock}
}

// Path returns the absolute path of the stats file when it can be resolved.
func (l *Log) Path() string {
	if abs, err := filepath.Abs(l.path); err == nil {
		return abs
	}
	return l.path
}

// Append exports the game's current stats. Games still in progress are
// recorded with an Undecided winner. The game itself is never modified, so a
// failed export can simply be retried.
func (l *Log) Append(s game.Stats) (Record, error) {
	for _, name := range []string{s.Player1Name, s.Player2Name} {
		if err := game.ValidatePlayerName(name); err != nil {
			return Record{}, fmt.Errorf("export stats: %w", err)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec := NewRecord(s, l.clock.Now())
	if err := fileutil.AppendFile(l.path, []byte(rec.Format()), 0o644); err != nil {
		return Record{}, fmt.Errorf("export stats to %s: %w", l.Path(), err)
	}
	return rec, nil
}

// ReadFile parses every record in the stats file at path
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads records from r. A trailing block without a separator is
// accepted, which tolerates a file cut short by a crash mid-write.
func Parse(r io.Reader) ([]Record, error) {
	var (
		records []Record
		cur     Record
		dirty   bool
		lineNo  int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "---"):
			if dirty {
				records = append(records, cur)
			}
			cur, dirty = Record{}, false
			continue
		}

		label, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("line %d: expected \"Label: value\", got %q", lineNo, line)
		}
		if err := cur.set(strings.TrimSpace(label), strings.TrimSpace(value)); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		dirty = true
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if dirty {
		records = append(records, cur)
	}
	return records, nil
}

func (r *Record) set(label, value string) error {
	var err error
	switch label {
	case "Date/Time":
		r.Time, err = time.ParseInLocation(TimeLayout, value, time.Local)
	case "Game ID":
		r.GameID = value
	case "Players":
		r.Player1Name, r.Player2Name, _ = strings.Cut(value, game.NameSeparator)
	case "Winner":
		r.Winner = ParseWinner(value)
	case "Rounds Played":
		r.Rounds, err = strconv.Atoi(value)
	case "Duration":
		r.Duration, err = time.ParseDuration(value)
	case "Player 1 Won":
		_, err = fmt.Sscanf(value, "%d cards", &r.Player1Won)
	case "Player 2 Won":
		_, err = fmt.Sscanf(value, "%d cards", &r.Player2Won)
	default:
		// Unknown labels are skipped so older or hand-edited files still load.
	}
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", label, value, err)
	}
	return nil
}

// ParseWinner maps a winner label back to its value. Unknown labels,
// including the "None" written for unfinished games, are Undecided.
func ParseWinner(label string) game.Winner {
	switch label {
	case game.Player1.String():
		return game.Player1
	case game.Player2.String():
		return game.Player2
	case game.Tie.String():
		return game.Tie
	default:
		return game.Undecided
	}
}
