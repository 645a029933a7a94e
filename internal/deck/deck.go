package deck

import (
	rand "math/rand/v2"
)

// Size is the number of cards in a standard deck
const Size = 52

// Deck is an ordered sequence of cards that is consumed once by Split.
type Deck struct {
	cards []Card
}

// Standard returns all 52 cards in construction order (suit-major).
func Standard() []Card {
	cards := make([]Card, 0, Size)
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return cards
}

// New creates a standard deck shuffled with rng. A nil rng falls back to the
// process-wide generator.
func New(rng *rand.Rand) *Deck {
	d := &Deck{cards: Standard()}
	d.shuffle(rng)
	return d
}

// FromCards creates a deck with a fixed order. The slice is copied.
func FromCards(cards []Card) *Deck {
	return &Deck{cards: append([]Card(nil), cards...)}
}

// shuffle applies a Fisher-Yates permutation
func (d *Deck) shuffle(rng *rand.Rand) {
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if rng != nil {
			j = rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Cards returns a copy of the remaining cards
func (d *Deck) Cards() []Card {
	return append([]Card(nil), d.cards...)
}

// Len returns the number of cards left in the deck
func (d *Deck) Len() int {
	return len(d.cards)
}

// Split deals the deck into two hands at the midpoint and empties the deck.
// For an odd-sized deck the second hand receives the extra card.
func (d *Deck) Split() (first, second []Card) {
	mid := len(d.cards) / 2
	first = append([]Card(nil), d.cards[:mid]...)
	second = append([]Card(nil), d.cards[mid:]...)
	d.cards = nil
	return first, second
}
