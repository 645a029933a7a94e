package game

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/war/internal/deck"
)

// Default player names
const (
	DefaultPlayer1 = "Player 1"
	DefaultPlayer2 = "Player 2"
)

// Option configures a Game during creation.
type Option func(*gameConfig)

type gameConfig struct {
	id       string
	names    [2]string
	deck     *deck.Deck    // If provided, dealt as-is instead of a fresh shuffle
	hands    [][]deck.Card // If provided, overrides deck entirely
	clock    quartz.Clock
	logger   *log.Logger
	eventBus EventBus
}

// WithID sets the game identifier. Defaults to a generated game ID.
func WithID(id string) Option {
	return func(c *gameConfig) { c.id = id }
}

// WithPlayerNames sets the display names of both players.
func WithPlayerNames(player1, player2 string) Option {
	return func(c *gameConfig) {
		if player1 != "" {
			c.names[0] = player1
		}
		if player2 != "" {
			c.names[1] = player2
		}
	}
}

// WithDeck deals the given deck instead of shuffling a new one.
func WithDeck(d *deck.Deck) Option {
	return func(c *gameConfig) { c.deck = d }
}

// WithHands starts the game from explicit hands, front card first. The
// hands may hold any number of cards, which makes stacked scenarios easy to
// build in tests.
func WithHands(player1, player2 []deck.Card) Option {
	return func(c *gameConfig) { c.hands = [][]deck.Card{player1, player2} }
}

// WithClock sets the clock used for start and end timestamps.
func WithClock(clock quartz.Clock) Option {
	return func(c *gameConfig) { c.clock = clock }
}

// WithLogger sets the logger. Defaults to discarding output.
func WithLogger(logger *log.Logger) Option {
	return func(c *gameConfig) { c.logger = logger }
}

// WithEventBus sets the bus that receives game events.
func WithEventBus(bus EventBus) Option {
	return func(c *gameConfig) { c.eventBus = bus }
}

func defaultConfig() *gameConfig {
	return &gameConfig{
		names:  [2]string{DefaultPlayer1, DefaultPlayer2},
		clock:  quartz.NewReal(),
		logger: log.New(io.Discard),
	}
}
