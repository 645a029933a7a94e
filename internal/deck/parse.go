package deck

import (
	"fmt"
	"strings"
)

// ParseCards parses a string of card notation into a slice of cards.
// Format: "4h5sTcAd" where each card is [Rank][Suit]. Tens may be written
// as "T" or "10". Spaces and commas are ignored.
// Suits: h (hearts), d (diamonds), c (clubs), s (spades)
func ParseCards(s string) ([]Card, error) {
	s = strings.NewReplacer(" ", "", ",", "").Replace(s)

	cards := []Card{}
	for i := 0; i < len(s); {
		width := 2
		if strings.HasPrefix(s[i:], "10") {
			width = 3
		}
		if i+width > len(s) {
			return nil, fmt.Errorf("incomplete card at position %d", i)
		}

		rank, err := parseRank(s[i : i+width-1])
		if err != nil {
			return nil, fmt.Errorf("invalid rank at position %d: %w", i, err)
		}
		suit, err := parseSuit(s[i+width-1])
		if err != nil {
			return nil, fmt.Errorf("invalid suit at position %d: %w", i+width-1, err)
		}

		cards = append(cards, Card{Rank: rank, Suit: suit})
		i += width
	}

	return cards, nil
}

// MustParseCards parses cards and panics on error (for tests)
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards '%s': %v", s, err))
	}
	return cards
}

func parseRank(s string) (Rank, error) {
	switch strings.ToUpper(s) {
	case "A":
		return Ace, nil
	case "K":
		return King, nil
	case "Q":
		return Queen, nil
	case "J":
		return Jack, nil
	case "T", "10":
		return Ten, nil
	case "9":
		return Nine, nil
	case "8":
		return Eight, nil
	case "7":
		return Seven, nil
	case "6":
		return Six, nil
	case "5":
		return Five, nil
	case "4":
		return Four, nil
	case "3":
		return Three, nil
	case "2":
		return Two, nil
	default:
		return 0, fmt.Errorf("unknown rank %q", s)
	}
}

func parseSuit(c byte) (Suit, error) {
	switch c {
	case 'h', 'H':
		return Hearts, nil
	case 'd', 'D':
		return Diamonds, nil
	case 'c', 'C':
		return Clubs, nil
	case 's', 'S':
		return Spades, nil
	default:
		return 0, fmt.Errorf("unknown suit %q", c)
	}
}
