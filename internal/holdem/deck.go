package holdem

import "math/rand"

// Deck is an ordered set of the 52 unique cards, consumed from the end.
// A full hand at a 9-seat table consumes at most 25 cards, so running dry
// is a programming error, not a legal outcome: Deal panics on an empty deck.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck builds the full 52-card deck in deterministic order. Callers
// shuffle before dealing; the rng is injected so tests and the per-room
// runtime control their own randomness.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
	return d
}

// NewStackedDeck builds a deck that deals the given cards in order. Tests
// use it to script exact boards.
func NewStackedDeck(cards ...Card) *Deck {
	// Deal pops from the end, so store in reverse.
	reversed := make([]Card, len(cards))
	for i, c := range cards {
		reversed[len(cards)-1-i] = c
	}
	return &Deck{cards: reversed}
}

// Shuffle applies a uniform Fisher-Yates permutation.
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns one card.
func (d *Deck) Deal() Card {
	if len(d.cards) == 0 {
		panic("holdem: deal from empty deck")
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card
}

// DealN deals n cards.
func (d *Deck) DealN(n int) []Card {
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = d.Deal()
	}
	return cards
}

// Burn discards one card face down, as before each street's community cards.
func (d *Deck) Burn() {
	d.Deal()
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
