// Package tui is the interactive terminal front end for a single War game.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/war/internal/deck"
	"github.com/lox/war/internal/game"
	"github.com/lox/war/internal/randutil"
	"github.com/lox/war/internal/statslog"
)

// DefaultAutoplayInterval is the delay between rounds while autoplay is on
const DefaultAutoplayInterval = 150 * time.Millisecond

const sidebarWidth = 34

// Config configures the interactive game
type Config struct {
	Player1  string
	Player2  string
	Seed     int64 // Zero shuffles differently every game
	StatsLog *statslog.Log
	Clock    quartz.Clock
	Logger   *log.Logger

	AutoplayInterval time.Duration
}

type entryKind int

const (
	entryRound entryKind = iota
	entryWar
	entryInfo
	entryGameOver
)

type logEntry struct {
	kind entryKind
	text string
}

// autoplayMsg drives one autoplay step; gen discards ticks from a previous
// autoplay run.
type autoplayMsg struct{ gen int }

// Model is the Bubble Tea model for a War game
type Model struct {
	cfg    Config
	logger *log.Logger
	keys   keyMap
	help   help.Model

	game   *game.Game
	seed   int64
	games  int
	last   game.RoundOutcome
	played bool

	logViewport viewport.Model
	gameLog     []logEntry

	showStats   bool
	autoplay    bool
	autoplayGen int
	status      string
	quitting    bool

	width  int
	height int
}

// New creates the model and deals the first game.
func New(cfg Config) *Model {
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.AutoplayInterval <= 0 {
		cfg.AutoplayInterval = DefaultAutoplayInterval
	}

	m := &Model{
		cfg:         cfg,
		logger:      cfg.Logger.WithPrefix("tui"),
		keys:        defaultKeyMap(),
		help:        help.New(),
		logViewport: viewport.New(10, 5),
	}
	m.newGame()
	return m
}

// Run starts the program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}

// Game returns the game currently being played
func (m *Model) Game() *game.Game { return m.game }

// Seed returns the shuffle seed of the current game, for replay
func (m *Model) Seed() int64 { return m.seed }

// Status returns the most recent status line
func (m *Model) Status() string { return m.status }

// Autoplaying reports whether rounds are being played automatically
func (m *Model) Autoplaying() bool { return m.autoplay }

// LogLines returns the round log as plain text
func (m *Model) LogLines() []string {
	lines := make([]string, len(m.gameLog))
	for i, e := range m.gameLog {
		lines[i] = e.text
	}
	return lines
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)
		return m, nil

	case autoplayMsg:
		if !m.autoplay || msg.gen != m.autoplayGen {
			return m, nil
		}
		m.playRound()
		if m.game.IsEnded() {
			m.autoplay = false
			return m, nil
		}
		return m, m.autoplayTick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Play):
			m.autoplay = false
			m.playRound()
		case key.Matches(msg, m.keys.Autoplay):
			return m, m.toggleAutoplay()
		case key.Matches(msg, m.keys.Stats):
			m.showStats = !m.showStats
		case key.Matches(msg, m.keys.Export):
			m.export()
		case key.Matches(msg, m.keys.NewGame):
			m.newGame()
		case key.Matches(msg, m.keys.ScrollUp):
			m.logViewport.ScrollUp(1)
		case key.Matches(msg, m.keys.ScrollDn):
			m.logViewport.ScrollDown(1)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

func (m *Model) newGame() {
	m.seed = m.cfg.Seed + int64(m.games)
	if m.cfg.Seed == 0 {
		m.seed = randutil.Seed()
	}
	m.games++

	m.game = game.New(randutil.New(m.seed),
		game.WithPlayerNames(m.cfg.Player1, m.cfg.Player2),
		game.WithClock(m.cfg.Clock),
		game.WithLogger(m.cfg.Logger),
	)
	m.last = game.RoundOutcome{}
	m.played = false
	m.autoplay = false
	m.autoplayGen++
	m.gameLog = nil
	m.status = fmt.Sprintf("New game dealt (seed %d)", m.seed)

	p1, p2 := m.game.Player1(), m.game.Player2()
	m.addEntry(entryInfo, fmt.Sprintf("%s and %s each hold %d cards.", p1.Name, p2.Name, p1.CardCount()))
	m.logger.Info("New game", "id", m.game.ID(), "seed", m.seed)
}

func (m *Model) toggleAutoplay() tea.Cmd {
	if m.autoplay {
		m.autoplay = false
		m.status = "Autoplay off"
		return nil
	}
	if m.game.IsEnded() {
		m.status = "Game over. Press n for a new game."
		return nil
	}
	m.autoplay = true
	m.autoplayGen++
	m.status = "Autoplay on"
	return m.autoplayTick()
}

func (m *Model) autoplayTick() tea.Cmd {
	gen := m.autoplayGen
	return tea.Tick(m.cfg.AutoplayInterval, func(time.Time) tea.Msg {
		return autoplayMsg{gen: gen}
	})
}

func (m *Model) playRound() {
	out, err := m.game.PlayRound()
	if errors.Is(err, game.ErrGameOver) {
		m.status = "Game over. Press n for a new game."
		return
	}
	if err != nil {
		m.status = "Error: " + err.Error()
		m.logger.Error("Failed to play round", "error", err)
		return
	}

	m.last = out
	m.played = m.played || out.Dealt
	for _, e := range describeRound(out, m.game.Player1().Name, m.game.Player2().Name) {
		m.addEntry(e.kind, e.text)
	}
	m.status = fmt.Sprintf("Round %d", out.Round)
	if out.GameEnded {
		m.status = "Game over: " + m.winnerLabel(out.Winner)
	}
}

func (m *Model) export() {
	if m.cfg.StatsLog == nil {
		m.status = "Stats export is disabled"
		return
	}
	rec, err := m.cfg.StatsLog.Append(m.game.Stats())
	if err != nil {
		m.status = "Error: " + err.Error()
		m.logger.Error("Failed to export stats", "error", err)
		return
	}
	m.status = "Stats exported to " + m.cfg.StatsLog.Path()
	m.logger.Info("Exported stats", "path", m.cfg.StatsLog.Path(), "winner", rec.Winner)
}

func (m *Model) winnerLabel(w game.Winner) string {
	switch w {
	case game.Player1:
		return m.game.Player1().Name + " wins"
	case game.Player2:
		return m.game.Player2().Name + " wins"
	case game.Tie:
		return "it's a tie"
	default:
		return w.String()
	}
}

// describeRound turns an outcome into log lines, one per comparison plus the
// result.
func describeRound(out game.RoundOutcome, name1, name2 string) []logEntry {
	var entries []logEntry
	for i, b := range out.Battles {
		line := fmt.Sprintf("%s plays %s, %s plays %s", name1, b.Player1Card, name2, b.Player2Card)
		if i == 0 {
			line = fmt.Sprintf("Round %d: %s", out.Round-len(out.Battles)+1, line)
		}
		if !b.Tied() {
			entries = append(entries, logEntry{entryRound, line})
			continue
		}
		entries = append(entries, logEntry{entryWar, line + ". WAR!"})
		if n1, n2 := len(b.Player1Ante), len(b.Player2Ante); n1+n2 > 0 {
			entries = append(entries, logEntry{entryWar,
				fmt.Sprintf("  %s puts %d face down, %s puts %d face down", name1, n1, name2, n2)})
		}
	}

	switch out.AwardedTo {
	case game.Seat1:
		entries = append(entries, logEntry{entryRound, fmt.Sprintf("  %s takes %d cards", name1, out.PileAwarded)})
	case game.Seat2:
		entries = append(entries, logEntry{entryRound, fmt.Sprintf("  %s takes %d cards", name2, out.PileAwarded)})
	}

	if out.GameEnded {
		verdict := "It's a tie!"
		switch out.Winner {
		case game.Player1:
			verdict = name1 + " wins the game!"
		case game.Player2:
			verdict = name2 + " wins the game!"
		}
		if out.PileCards > 0 {
			entries = append(entries, logEntry{entryInfo,
				fmt.Sprintf("  A player ran out of cards mid-war; %d cards stay in the pile", out.PileCards)})
		}
		entries = append(entries, logEntry{entryGameOver,
			fmt.Sprintf("GAME OVER after %d rounds. %s", out.Round, verdict)})
	}
	return entries
}

func (m *Model) addEntry(kind entryKind, text string) {
	m.gameLog = append(m.gameLog, logEntry{kind: kind, text: text})
	m.logViewport.SetContent(m.renderLog())
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := HeaderStyle.Render(fmt.Sprintf("WAR  %s vs %s", m.game.Player1().Name, m.game.Player2().Name))

	bottom := m.renderActionPane()
	bottomPane := paneStyle.
		BorderForeground(focusColor).
		Width(max(m.width-2, 1)).
		Render(bottom)

	topHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(bottomPane)-2, 1)

	sidebar := paneStyle.
		Width(sidebarWidth).
		Height(topHeight).
		Render(m.renderSidebarPane())

	m.logViewport.Width = max(m.width-sidebarWidth-4, 1)
	m.logViewport.Height = topHeight
	m.logViewport.SetContent(m.renderLog())
	logPane := paneStyle.
		Width(m.logViewport.Width).
		Height(topHeight).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebar)
	return lipgloss.JoinVertical(lipgloss.Left, header, topRow, bottomPane)
}

func (m *Model) renderLog() string {
	lines := make([]string, len(m.gameLog))
	for i, e := range m.gameLog {
		switch e.kind {
		case entryWar:
			lines[i] = WarStyle.Render(e.text)
		case entryGameOver:
			lines[i] = HeaderStyle.Render(e.text)
		case entryInfo:
			lines[i] = InfoStyle.Render(e.text)
		default:
			lines[i] = GameLogStyle.Render(e.text)
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderSidebarPane() string {
	if m.showStats {
		return RoundStyle.Render("Game Stats") + "\n\n" + statslog.Describe(m.game.Stats())
	}

	var content strings.Builder
	p1, p2 := m.game.Player1(), m.game.Player2()

	content.WriteString(RoundStyle.Render(fmt.Sprintf("Round %d", m.game.Rounds())))
	content.WriteString("\n\n")
	fmt.Fprintf(&content, "%s: %d cards\n", PlayerInfoStyle.Render(p1.Name), p1.CardCount())
	fmt.Fprintf(&content, "%s: %d cards\n", PlayerInfoStyle.Render(p2.Name), p2.CardCount())
	if pile := len(m.game.Pile()); pile > 0 {
		content.WriteString(WarningStyle.Render(fmt.Sprintf("Pile: %d cards", pile)))
		content.WriteString("\n")
	}

	if m.played && m.last.Dealt {
		b := m.last.Battles[len(m.last.Battles)-1]
		content.WriteString("\nLast cards:\n")
		fmt.Fprintf(&content, "  %s  %s\n", formatCard(b.Player1Card), b.Player1Card.Name())
		fmt.Fprintf(&content, "  %s  %s\n", formatCard(b.Player2Card), b.Player2Card.Name())
	}

	if m.game.IsEnded() {
		content.WriteString("\n")
		content.WriteString(SuccessStyle.Render(strings.ToUpper(m.winnerLabel(m.game.Winner()))))
		content.WriteString("\n")
	}
	return content.String()
}

func (m *Model) renderActionPane() string {
	var content strings.Builder
	status := m.status
	if strings.HasPrefix(status, "Error:") {
		content.WriteString(ErrorStyle.Render(status))
	} else {
		content.WriteString(InfoStyle.Render(status))
	}
	content.WriteString("\n")
	content.WriteString(m.help.View(m.keys))
	return content.String()
}

// formatCard formats a card with its suit colour
func formatCard(c deck.Card) string {
	if c.IsRed() {
		return RedCardStyle.Render(c.String())
	}
	return BlackCardStyle.Render(c.String())
}
