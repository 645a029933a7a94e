package game

import (
	"fmt"
	"strings"

	"github.com/lox/war/internal/deck"
)

// NameSeparator joins the two player names in stats records
const NameSeparator = " vs "

// ValidatePlayerName rejects names that could not be written to a stats
// record and read back: line breaks or the name separator.
func ValidatePlayerName(name string) error {
	switch {
	case strings.ContainsAny(name, "\r\n"):
		return fmt.Errorf("%w %q: contains a line break", ErrInvalidPlayerName, name)
	case strings.Contains(name, NameSeparator):
		return fmt.Errorf("%w %q: contains %q", ErrInvalidPlayerName, name, NameSeparator)
	}
	return nil
}

// Player holds one side of the table: a FIFO hand and a lifetime count of
// cards won.
type Player struct {
	Name     string
	hand     []deck.Card
	cardsWon int
}

// NewPlayer creates a player holding cards in play order.
func NewPlayer(name string, cards []deck.Card) *Player {
	return &Player{Name: name, hand: append([]deck.Card(nil), cards...)}
}

// PlayCard removes and returns the card at the front of the hand.
func (p *Player) PlayCard() (deck.Card, bool) {
	if len(p.hand) == 0 {
		return deck.Card{}, false
	}
	c := p.hand[0]
	p.hand = p.hand[1:]
	return c, true
}

// AddCards appends cards to the back of the hand in the given order and
// credits them as won.
func (p *Player) AddCards(cards []deck.Card) {
	p.hand = append(p.hand, cards...)
	p.cardsWon += len(cards)
}

// CardCount returns the number of cards in hand
func (p *Player) CardCount() int {
	if p == nil {
		return 0
	}
	return len(p.hand)
}

// HasCards reports whether the hand is non-empty
func (p *Player) HasCards() bool {
	return p.CardCount() > 0
}

// CardsWon returns the total number of cards won over the game
func (p *Player) CardsWon() int {
	if p == nil {
		return 0
	}
	return p.cardsWon
}

// Hand returns a copy of the hand, front first
func (p *Player) Hand() []deck.Card {
	return append([]deck.Card(nil), p.hand...)
}
