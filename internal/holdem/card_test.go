package holdem_test

import (
	"math/rand"
	"testing"

	"holdem-service/internal/holdem"
)

func TestParseCardRoundTrip(t *testing.T) {
	for _, code := range []string{"As", "Td", "2c", "9h", "Kd", "Qs", "Jh"} {
		card, err := holdem.ParseCard(code)
		if err != nil {
			t.Fatalf("parse %q failed: %v", code, err)
		}
		if card.Code() != code {
			t.Fatalf("round trip %q -> %q", code, card.Code())
		}
	}
}

func TestParseCardRejectsGarbage(t *testing.T) {
	for _, code := range []string{"", "A", "1s", "Ax", "10h", "as"} {
		if _, err := holdem.ParseCard(code); err == nil {
			t.Fatalf("expected error for %q", code)
		}
	}
}

func TestDeckHas52UniqueCards(t *testing.T) {
	deck := holdem.NewDeck(rand.New(rand.NewSource(1)))
	deck.Shuffle()

	if deck.Remaining() != 52 {
		t.Fatalf("expected 52 cards, got %d", deck.Remaining())
	}

	seen := map[string]bool{}
	for deck.Remaining() > 0 {
		code := deck.Deal().Code()
		if seen[code] {
			t.Fatalf("duplicate card %q", code)
		}
		seen[code] = true
	}
	if len(seen) != 52 {
		t.Fatalf("expected 52 unique cards, got %d", len(seen))
	}
}

func TestStackedDeckDealsInOrder(t *testing.T) {
	deck := holdem.NewStackedDeck(holdem.MustParseCards("As", "Kd", "2c")...)

	for _, want := range []string{"As", "Kd", "2c"} {
		if got := deck.Deal().Code(); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
	if deck.Remaining() != 0 {
		t.Fatalf("expected empty deck, got %d", deck.Remaining())
	}
}

func TestDealFromEmptyDeckPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	holdem.NewStackedDeck().Deal()
}
