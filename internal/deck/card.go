package deck

import "fmt"

// Suit represents a card suit. Suits never affect comparison in War.
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// Suits lists every suit in deck construction order.
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// String returns the suit symbol
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// Name returns the long name of the suit, e.g. "Hearts"
func (s Suit) Name() string {
	switch s {
	case Hearts:
		return "Hearts"
	case Diamonds:
		return "Diamonds"
	case Clubs:
		return "Clubs"
	case Spades:
		return "Spades"
	default:
		return "Unknown"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the rank as printed on the card
func (r Rank) String() string {
	switch r {
	case Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten:
		return fmt.Sprintf("%d", int(r))
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return "?"
	}
}

// Valid reports whether r is one of the thirteen standard ranks.
func (r Rank) Valid() bool {
	return r >= Two && r <= Ace
}

// Strength is the value War compares. Every rank scores its face value
// (J=11, Q=12, K=13, A=14) except Four, which scores 5 and therefore ties
// with Five.
//
// The Four/Five tie is kept on purpose so recorded games stay reproducible.
// It is most likely a transcription bug in the rule table (see DESIGN.md).
func (r Rank) Strength() int {
	if r == Four {
		return 5
	}
	return int(r)
}

// Card represents a playing card
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the short form of a card (e.g., "10♥")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// Name returns the long form of a card (e.g., "10 of Hearts")
func (c Card) Name() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit.Name())
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// Strength returns the comparison value of the card
func (c Card) Strength() int {
	return c.Rank.Strength()
}

// Beats reports whether c is strictly stronger than other.
func (c Card) Beats(other Card) bool {
	return c.Strength() > other.Strength()
}

// Ties reports whether c and other have equal strength.
func (c Card) Ties(other Card) bool {
	return c.Strength() == other.Strength()
}
