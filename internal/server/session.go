package server

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/war/internal/game"
	"github.com/lox/war/internal/randutil"
)

// ErrExportDisabled is returned by Export when the server has no stats log
var ErrExportDisabled = errors.New("stats export is not configured")

// Session is the game owned by one connection. Requests on a connection are
// handled one at a time, so a Session needs no locking of its own.
type Session struct {
	config Config
	clock  quartz.Clock
	logger *log.Logger

	game  *game.Game
	seed  int64
	games int

	lastExport string
}

// NewSession creates a session and deals its first game
func NewSession(config Config, clock quartz.Clock, logger *log.Logger) *Session {
	s := &Session{config: config, clock: clock, logger: logger}
	s.NewGame(NewGameData{})
	return s
}

// Game returns the current game
func (s *Session) Game() *game.Game { return s.game }

// NewGame deals a fresh game. Empty fields in data fall back to the server
// defaults; a configured seed advances by one for every game in the session.
func (s *Session) NewGame(data NewGameData) GameStartedData {
	name1 := firstNonEmpty(data.Player1, s.config.Player1)
	name2 := firstNonEmpty(data.Player2, s.config.Player2)

	switch {
	case data.Seed != 0:
		s.seed = data.Seed
	case s.config.Seed != 0:
		s.seed = s.config.Seed + int64(s.games)
	default:
		s.seed = randutil.Seed()
	}
	s.games++

	bus := game.NewEventBus()
	bus.Subscribe(game.SubscriberFunc(s.onEvent))

	s.game = game.New(randutil.New(s.seed),
		game.WithPlayerNames(name1, name2),
		game.WithClock(s.clock),
		game.WithLogger(s.logger),
		game.WithEventBus(bus),
	)
	s.lastExport = ""

	s.logger.Info("Game started", "id", s.game.ID(), "seed", s.seed)
	return s.Started()
}

// Started describes the current game as dealt
func (s *Session) Started() GameStartedData {
	return GameStartedData{
		GameID:       s.game.ID(),
		Seed:         s.seed,
		Player1:      s.game.Player1().Name,
		Player2:      s.game.Player2().Name,
		Player1Cards: s.game.Player1().CardCount(),
		Player2Cards: s.game.Player2().CardCount(),
	}
}

// PlayRound plays one round of the current game
func (s *Session) PlayRound() (RoundData, error) {
	out, err := s.game.PlayRound()
	if err != nil {
		return RoundData{}, err
	}
	data := RoundDataFromOutcome(s.game.ID(), out, s.game.Player1().Name, s.game.Player2().Name)
	if out.GameEnded {
		data.Exported = s.lastExport
	}
	return data, nil
}

// Stats returns the current game's stats
func (s *Session) Stats() StatsData {
	return StatsDataFromGame(s.game.Stats())
}

// Export appends the current game's stats to the stats log
func (s *Session) Export() (ExportedData, error) {
	if s.config.StatsLog == nil {
		return ExportedData{}, ErrExportDisabled
	}
	rec, err := s.config.StatsLog.Append(s.game.Stats())
	if err != nil {
		return ExportedData{}, err
	}
	return ExportedData{
		GameID: rec.GameID,
		Path:   s.config.StatsLog.Path(),
		Winner: winnerName(rec.Winner, rec.Player1Name, rec.Player2Name),
	}, nil
}

func (s *Session) onEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.WarEvent:
		s.logger.Debug("War", "id", e.GameID, "depth", e.Depth, "pile", e.PileSize)
	case game.GameOverEvent:
		if !s.config.ExportStats {
			return
		}
		exported, err := s.Export()
		if err != nil {
			s.logger.Error("Failed to export stats", "id", e.GameID, "error", err)
			return
		}
		s.lastExport = exported.Path
		s.logger.Info("Exported stats", "id", e.GameID, "path", exported.Path, "winner", exported.Winner)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrGameOver):
		return ErrCodeGameOver
	case errors.Is(err, ErrExportDisabled):
		return ErrCodeExportDisabled
	default:
		return ErrCodeInternal
	}
}

func describeError(err error) string {
	if errors.Is(err, game.ErrGameOver) {
		return fmt.Sprintf("%s; send %s to deal again", err, MessageTypeNewGame)
	}
	return err.Error()
}
