package holdem

import "fmt"

// Suit represents a card suit.
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// code is the single-letter wire form of the suit.
func (s Suit) code() byte {
	switch s {
	case Spades:
		return 's'
	case Hearts:
		return 'h'
	case Diamonds:
		return 'd'
	default:
		return 'c'
	}
}

// Rank represents a card rank, Two (2) through Ace (14). Aces are high;
// straight detection treats them as low in the wheel.
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

func (r Rank) String() string {
	switch {
	case r >= Two && r <= Nine:
		return string(rune('0' + int(r)))
	case r == Ten:
		return "T"
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Card is an immutable playing card.
type Card struct {
	Suit Suit
	Rank Rank
}

func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the display form, e.g. "A♠".
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// Code returns the compact wire form, e.g. "As", "Td".
func (c Card) Code() string {
	return string([]byte{c.Rank.String()[0], c.Suit.code()})
}

// Value returns the numeric comparison value, 2-14.
func (c Card) Value() int {
	return int(c.Rank)
}

// ParseCard parses the compact form ("As", "Td", "2c"). Used by tests to
// stack decks deterministically.
func ParseCard(code string) (Card, error) {
	if len(code) != 2 {
		return Card{}, fmt.Errorf("invalid card code %q", code)
	}

	var rank Rank
	switch code[0] {
	case '2', '3', '4', '5', '6', '7', '8', '9':
		rank = Rank(code[0] - '0')
	case 'T':
		rank = Ten
	case 'J':
		rank = Jack
	case 'Q':
		rank = Queen
	case 'K':
		rank = King
	case 'A':
		rank = Ace
	default:
		return Card{}, fmt.Errorf("invalid rank in %q", code)
	}

	var suit Suit
	switch code[1] {
	case 's':
		suit = Spades
	case 'h':
		suit = Hearts
	case 'd':
		suit = Diamonds
	case 'c':
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid suit in %q", code)
	}

	return Card{Suit: suit, Rank: rank}, nil
}

// MustParseCards parses a list of compact codes and panics on error.
func MustParseCards(codes ...string) []Card {
	cards := make([]Card, 0, len(codes))
	for _, code := range codes {
		c, err := ParseCard(code)
		if err != nil {
			panic(err)
		}
		cards = append(cards, c)
	}
	return cards
}

// Codes renders a card slice into compact wire form.
func Codes(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Code()
	}
	return out
}
