package game

import (
	"time"

	"github.com/lox/war/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeRoundPlayed EventType = "round_played"
	EventTypeWar         EventType = "war"
	EventTypeGameOver    EventType = "game_over"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a game
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// RoundPlayedEvent is published once per PlayRound call that dealt cards
type RoundPlayedEvent struct {
	GameID    string
	Outcome   RoundOutcome
	timestamp time.Time
}

func (e RoundPlayedEvent) EventType() EventType { return EventTypeRoundPlayed }
func (e RoundPlayedEvent) Timestamp() time.Time { return e.timestamp }

// WarEvent is published for every tied comparison, before antes are placed
type WarEvent struct {
	GameID    string
	Tied      Battle
	PileSize  int
	Depth     int // 1 for the first tie in a round, 2 for a tie inside that war, ...
	timestamp time.Time
}

func (e WarEvent) EventType() EventType { return EventTypeWar }
func (e WarEvent) Timestamp() time.Time { return e.timestamp }

// GameOverEvent is published exactly once, when the game ends
type GameOverEvent struct {
	GameID    string
	Winner    Winner
	Stats     Stats
	timestamp time.Time
}

func (e GameOverEvent) EventType() EventType { return EventTypeGameOver }
func (e GameOverEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// SubscriberFunc adapts a function to EventSubscriber
type SubscriberFunc func(event GameEvent)

// OnEvent calls f(event)
func (f SubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a synchronous in-memory event bus. Subscribers run on the
// caller's goroutine in subscription order.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, s := range bus.subscribers {
		s.OnEvent(event)
	}
}

func cardsCopy(cards []deck.Card) []deck.Card {
	if len(cards) == 0 {
		return nil
	}
	return append([]deck.Card(nil), cards...)
}
