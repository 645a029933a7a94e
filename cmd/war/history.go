package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/lox/war/internal/statslog"
)

// HistoryCmd summarises the stats file
type HistoryCmd struct {
	File  string `arg:"" optional:"" help:"Stats file to read (defaults to the configured stats_file)"`
	Limit int    `short:"n" default:"10" help:"Number of recent games to list (0 = none)"`
}

func (c *HistoryCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	path := c.File
	if path == "" {
		path = cfg.StatsFile
	}

	records, err := statslog.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stdout, "No games recorded yet in %s\n", path)
		return nil
	}
	if err != nil {
		return err
	}

	printHistory(os.Stdout, records, c.Limit)
	return nil
}

func printHistory(w io.Writer, records []statslog.Record, limit int) {
	s := statslog.Summarize(records)

	fmt.Fprintln(w, titleStyle.Render("Game History"))
	fmt.Fprintf(w, "Games:          %d\n", s.Games)
	if s.Games == 0 {
		return
	}
	fmt.Fprintf(w, "Player 1 wins:  %d\n", s.Player1Wins)
	fmt.Fprintf(w, "Player 2 wins:  %d\n", s.Player2Wins)
	fmt.Fprintf(w, "Ties:           %d\n", s.Ties)
	if s.Undecided > 0 {
		fmt.Fprintf(w, "Unfinished:     %d\n", s.Undecided)
	}
	fmt.Fprintf(w, "Average rounds: %.1f\n", s.AverageRounds())
	fmt.Fprintf(w, "Longest game:   %d rounds\n", s.LongestGame)
	fmt.Fprintf(w, "Time played:    %s\n", s.TotalTime.Round(time.Second))
	fmt.Fprintf(w, "Recorded:       %s to %s\n", s.First.Format(statslog.TimeLayout), s.Last.Format(statslog.TimeLayout))

	if limit <= 0 {
		return
	}
	start := max(len(records)-limit, 0)
	fmt.Fprintln(w)
	for _, r := range records[start:] {
		fmt.Fprintf(w, "%s  %-10s %5d rounds  %s vs %s\n",
			r.Time.Format(statslog.TimeLayout), r.Winner, r.Rounds, r.Player1Name, r.Player2Name)
	}
}
