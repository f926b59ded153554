package holdem_test

import (
	"errors"
	"testing"

	"holdem-service/internal/holdem"
	appErr "holdem-service/pkg/errors"
)

func newSeats(chips ...int) []*holdem.Seat {
	seats := make([]*holdem.Seat, len(chips))
	for i, c := range chips {
		seats[i] = &holdem.Seat{
			ID:    int64(i + 1),
			Name:  "player",
			Index: i,
			Chips: c,
		}
	}
	return seats
}

// stacked scripts a deck; tests stack exactly as many cards as the hand
// will consume.
func stacked(codes ...string) *holdem.Deck {
	return holdem.NewStackedDeck(holdem.MustParseCards(codes...)...)
}

func mustApply(t *testing.T, h *holdem.Hand, seat int, kind holdem.ActionType, amount int) {
	t.Helper()
	if err := h.Apply(holdem.Action{Type: kind, Amount: amount, Seat: seat}); err != nil {
		t.Fatalf("seat %d %v(%d) failed: %v", seat, kind, amount, err)
	}
}

func totalChips(seats []*holdem.Seat) int {
	total := 0
	for _, s := range seats {
		total += s.Chips + s.TotalBet
	}
	return total
}

func TestBlindsPostedAndFirstToAct(t *testing.T) {
	seats := newSeats(100, 100, 100)
	h := holdem.NewHand(seats, 0, 1, 2, stacked(
		"2s", "3s", "4s", "5s", "2d", "3d",
	))

	if seats[1].Chips != 99 || seats[1].Bet != 1 {
		t.Fatalf("small blind not posted: chips=%d bet=%d", seats[1].Chips, seats[1].Bet)
	}
	if seats[2].Chips != 98 || seats[2].Bet != 2 {
		t.Fatalf("big blind not posted: chips=%d bet=%d", seats[2].Chips, seats[2].Bet)
	}
	if h.CurrentBet != 2 {
		t.Fatalf("expected current bet 2, got %d", h.CurrentBet)
	}
	if h.Acting != 0 {
		t.Fatalf("expected seat 0 to act first, got %d", h.Acting)
	}
	if h.Pot() != 3 {
		t.Fatalf("expected pot 3, got %d", h.Pot())
	}
	for i, s := range seats {
		if len(s.HoleCards) != 2 {
			t.Fatalf("seat %d has %d hole cards", i, len(s.HoleCards))
		}
	}
}

func TestHeadsUpButtonPostsSmallBlind(t *testing.T) {
	seats := newSeats(100, 100)
	h := holdem.NewHand(seats, 0, 1, 2, stacked("2s", "3s", "4s", "5s"))

	if seats[0].Bet != 1 {
		t.Fatalf("expected button to post small blind, bet=%d", seats[0].Bet)
	}
	if seats[1].Bet != 2 {
		t.Fatalf("expected non-button to post big blind, bet=%d", seats[1].Bet)
	}
	if h.Acting != 0 {
		t.Fatalf("expected button to act first heads-up, got %d", h.Acting)
	}
}

func TestTurnAndActionValidation(t *testing.T) {
	seats := newSeats(100, 100, 100)
	h := holdem.NewHand(seats, 0, 1, 2, stacked(
		"2s", "3s", "4s", "5s", "2d", "3d",
	))

	err := h.Apply(holdem.Action{Type: holdem.Call, Seat: 1})
	if !errors.Is(err, appErr.ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}

	err = h.Apply(holdem.Action{Type: holdem.Check, Seat: 0})
	if !errors.Is(err, appErr.ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction for check facing a bet, got %v", err)
	}
}

func TestMinRaiseEnforced(t *testing.T) {
	seats := newSeats(200, 200, 200)
	h := holdem.NewHand(seats, 0, 2, 4, stacked(
		"2s", "3s", "4s", "5s", "2d", "3d",
	))

	// Facing a bet of 4 the minimum raise-to is 8.
	for _, amount := range []int{5, 7} {
		err := h.Apply(holdem.Action{Type: holdem.Raise, Amount: amount, Seat: 0})
		if !errors.Is(err, appErr.ErrInvalidAction) {
			t.Fatalf("raise to %d should be rejected, got %v", amount, err)
		}
	}
	mustApply(t, h, 0, holdem.Raise, 8)
	if h.CurrentBet != 8 {
		t.Fatalf("expected current bet 8, got %d", h.CurrentBet)
	}
}

func TestBigBlindOptionPreflop(t *testing.T) {
	seats := newSeats(100, 100, 100)
	h := holdem.NewHand(seats, 0, 1, 2, stacked(
		"2s", "3s", "4s", "5s", "2d", "3d",
		"7c", "Ah", "Kh", "Qh",
	))

	mustApply(t, h, 0, holdem.Call, 0)
	mustApply(t, h, 1, holdem.Call, 0)

	// Everyone merely called; the big blind still closes the action.
	if h.Street != holdem.Preflop {
		t.Fatalf("street advanced before the big blind's option")
	}
	if h.Acting != 2 {
		t.Fatalf("expected big blind to act, got seat %d", h.Acting)
	}

	mustApply(t, h, 2, holdem.Check, 0)
	if h.Street != holdem.Flop {
		t.Fatalf("expected flop after big blind check, got %v", h.Street)
	}
	if len(h.Board) != 3 {
		t.Fatalf("expected 3 board cards, got %d", len(h.Board))
	}
}

func TestRaiseReopensAction(t *testing.T) {
	seats := newSeats(100, 100, 100)
	h := holdem.NewHand(seats, 0, 1, 2, stacked(
		"2s", "3s", "4s", "5s", "2d", "3d",
		"7c", "Ah", "Kh", "Qh",
	))

	mustApply(t, h, 0, holdem.Call, 0)
	mustApply(t, h, 1, holdem.Call, 0)
	mustApply(t, h, 2, holdem.Raise, 4)

	// The raise puts everyone who already called back in the round.
	if h.Street != holdem.Preflop {
		t.Fatalf("street advanced past a live raise")
	}
	if h.Acting != 0 {
		t.Fatalf("expected action back on seat 0, got %d", h.Acting)
	}

	mustApply(t, h, 0, holdem.Call, 0)
	mustApply(t, h, 1, holdem.Call, 0)
	if h.Street != holdem.Flop {
		t.Fatalf("expected flop, got %v", h.Street)
	}
}

func TestFoldWinSkipsShowdown(t *testing.T) {
	seats := newSeats(100, 100, 100)
	h := holdem.NewHand(seats, 0, 1, 2, stacked(
		"2s", "3s", "4s", "5s", "2d", "3d",
	))

	mustApply(t, h, 0, holdem.Fold, 0)
	mustApply(t, h, 1, holdem.Fold, 0)

	if !h.Finished() {
		t.Fatal("hand should be finished")
	}
	if !h.Result.WonByFold {
		t.Fatal("expected win by fold")
	}
	if len(h.Result.Scores) != 0 {
		t.Fatal("no hands should be evaluated on a fold win")
	}
	if seats[2].Chips != 101 {
		t.Fatalf("expected winner stack 101, got %d", seats[2].Chips)
	}

	err := h.Apply(holdem.Action{Type: holdem.Check, Seat: 2})
	if !errors.Is(err, appErr.ErrNoActiveHand) {
		t.Fatalf("expected ErrNoActiveHand after settlement, got %v", err)
	}
}

func TestShortCallIsAllIn(t *testing.T) {
	seats := newSeats(100, 3, 100)
	h := holdem.NewHand(seats, 0, 1, 2, stacked(
		"2s", "3s", "4s", "5s", "2d", "3d",
	))

	mustApply(t, h, 0, holdem.Raise, 10)
	mustApply(t, h, 1, holdem.Call, 0)

	if !seats[1].AllIn {
		t.Fatal("short caller should be all-in")
	}
	if seats[1].Bet != 3 || seats[1].Chips != 0 {
		t.Fatalf("short call committed wrong amount: bet=%d chips=%d", seats[1].Bet, seats[1].Chips)
	}
}

func TestShowdownSplitsPotWithOddChip(t *testing.T) {
	seats := newSeats(100, 100, 100)
	h := holdem.NewHand(seats, 0, 1, 2, stacked(
		"2s", "3s", // seat 0
		"4s", "5s", // seat 1
		"2d", "3d", // seat 2
		"7c", "Ah", "Kh", "Qh", // burn + flop
		"8c", "Jh", // burn + turn
		"9c", "Th", // burn + river
	))

	mustApply(t, h, 0, holdem.Call, 0)
	mustApply(t, h, 1, holdem.Fold, 0)
	mustApply(t, h, 2, holdem.Check, 0)
	for h.Street != holdem.Showdown {
		mustApply(t, h, h.Acting, holdem.Check, 0)
	}

	if !h.Finished() || h.Result.WonByFold {
		t.Fatal("expected a showdown settlement")
	}
	if len(h.Result.Awards) != 1 {
		t.Fatalf("expected one pot, got %d", len(h.Result.Awards))
	}

	// Royal flush on board: seats 0 and 2 split the 5-chip pot. The odd
	// chip goes to the first winner clockwise from the button.
	award := h.Result.Awards[0]
	if award.Amount != 5 {
		t.Fatalf("expected pot of 5, got %d", award.Amount)
	}
	if len(award.Winners) != 2 {
		t.Fatalf("expected a split, got winners %v", award.Winners)
	}
	if award.Shares[2] != 3 || award.Shares[0] != 2 {
		t.Fatalf("odd chip misplaced: shares=%v", award.Shares)
	}
	if seats[0].Chips != 100 || seats[1].Chips != 99 || seats[2].Chips != 101 {
		t.Fatalf("stacks wrong after split: %d %d %d", seats[0].Chips, seats[1].Chips, seats[2].Chips)
	}
	if totalChips(seats) != 300 {
		t.Fatalf("chips not conserved: %d", totalChips(seats))
	}
}

func TestSidePotsSegmentByAllInLevel(t *testing.T) {
	seats := newSeats(100, 50, 100)
	h := holdem.NewHand(seats, 0, 1, 2, stacked(
		"2h", "3h", // seat 0: junk
		"8s", "9s", // seat 1: makes the straight
		"Kh", "Qs", // seat 2: makes top pair
		"4c", "5c", "6d", "7s", // burn + flop
		"Ts", "9h", // burn + turn
		"Jc", "Kd", // burn + river
	))

	mustApply(t, h, 0, holdem.Raise, 10)
	mustApply(t, h, 1, holdem.AllIn, 0)
	mustApply(t, h, 2, holdem.Call, 0)
	mustApply(t, h, 0, holdem.Call, 0)

	if h.Street != holdem.Flop {
		t.Fatalf("expected flop, got %v", h.Street)
	}

	mustApply(t, h, 2, holdem.Bet, 20)
	mustApply(t, h, 0, holdem.Call, 0)
	for h.Street != holdem.Showdown {
		mustApply(t, h, h.Acting, holdem.Check, 0)
	}

	if len(h.Result.Awards) != 2 {
		t.Fatalf("expected main and side pot, got %d awards", len(h.Result.Awards))
	}

	// The all-in seat's straight wins only what it matched; the side pot
	// goes to the best hand among the full-stack seats.
	main, side := h.Result.Awards[0], h.Result.Awards[1]
	if main.Amount != 150 || len(main.Winners) != 1 || main.Winners[0] != 1 {
		t.Fatalf("main pot wrong: %+v", main)
	}
	if side.Amount != 40 || len(side.Winners) != 1 || side.Winners[0] != 2 {
		t.Fatalf("side pot wrong: %+v", side)
	}
	if seats[0].Chips != 30 || seats[1].Chips != 150 || seats[2].Chips != 70 {
		t.Fatalf("stacks wrong: %d %d %d", seats[0].Chips, seats[1].Chips, seats[2].Chips)
	}
	if totalChips(seats) != 250 {
		t.Fatalf("chips not conserved: %d", totalChips(seats))
	}
}

func TestAllInRunoutDealsBoard(t *testing.T) {
	seats := newSeats(10, 10)
	h := holdem.NewHand(seats, 0, 1, 2, stacked(
		"As", "Ah", // seat 0
		"Kd", "Kc", // seat 1
		"2c", "3d", "8s", "Jc", // burn + flop
		"4h", "Qd", // burn + turn
		"5s", "2h", // burn + river
	))

	mustApply(t, h, 0, holdem.AllIn, 0)
	mustApply(t, h, 1, holdem.Call, 0)

	// Nobody can act, so the board runs out to showdown on its own.
	if !h.Finished() {
		t.Fatal("hand should be settled")
	}
	if len(h.Board) != 5 {
		t.Fatalf("expected a full board, got %d cards", len(h.Board))
	}
	if h.Result.WonByFold {
		t.Fatal("expected a showdown")
	}
	if seats[0].Chips != 20 || seats[1].Chips != 0 {
		t.Fatalf("aces should win the whole stack: %d %d", seats[0].Chips, seats[1].Chips)
	}
}

func TestForceFoldSettlesHeadsUp(t *testing.T) {
	seats := newSeats(100, 100)
	h := holdem.NewHand(seats, 0, 1, 2, stacked("2s", "3s", "4s", "5s"))

	h.ForceFold(0)

	if !h.Finished() || !h.Result.WonByFold {
		t.Fatal("expected fold settlement")
	}
	if seats[1].Chips != 101 || seats[0].Chips != 99 {
		t.Fatalf("stacks wrong: %d %d", seats[0].Chips, seats[1].Chips)
	}
}

func TestSettlementClearsCommittedBets(t *testing.T) {
	seats := newSeats(100, 100, 100)
	h := holdem.NewHand(seats, 0, 1, 2, stacked(
		"2s", "3s", "4s", "5s", "2d", "3d",
	))

	mustApply(t, h, 0, holdem.Fold, 0)
	mustApply(t, h, 1, holdem.Fold, 0)

	// The pot has been paid out; nothing stays committed.
	if h.Pot() != 0 {
		t.Fatalf("settled hand still reports a pot of %d", h.Pot())
	}
	for i, s := range seats {
		if s.Bet != 0 || s.TotalBet != 0 {
			t.Fatalf("seat %d still has committed chips: bet=%d total=%d", i, s.Bet, s.TotalBet)
		}
	}
	if totalChips(seats) != 300 {
		t.Fatalf("chips not conserved after settlement: %d", totalChips(seats))
	}
}

func TestQuadsBeatFlushAtShowdown(t *testing.T) {
	seats := newSeats(100, 100)
	h := holdem.NewHand(seats, 0, 1, 2, stacked(
		"As", "Ad", // seat 0: quad aces by the river
		"Ks", "Qs", // seat 1: king-high flush
		"3c", "Ac", "Ah", "9s", // burn + flop
		"4d", "7s", // burn + turn
		"5h", "2s", // burn + river
	))

	mustApply(t, h, 0, holdem.Call, 0)
	mustApply(t, h, 1, holdem.Check, 0)
	for h.Street != holdem.Showdown {
		mustApply(t, h, h.Acting, holdem.Check, 0)
	}

	result := h.Result
	if result.WonByFold {
		t.Fatal("expected a showdown")
	}
	if got := result.Scores[0].Category(); got != holdem.FourOfAKind {
		t.Fatalf("expected four of a kind, got %v", got)
	}
	if got := result.Scores[1].Category(); got != holdem.Flush {
		t.Fatalf("expected flush, got %v", got)
	}
	award := result.Awards[0]
	if len(award.Winners) != 1 || award.Winners[0] != 0 {
		t.Fatalf("quads should take the pot: %+v", award)
	}
	if seats[0].Chips != 102 || seats[1].Chips != 98 {
		t.Fatalf("stacks wrong: %d %d", seats[0].Chips, seats[1].Chips)
	}
}

func TestActionLogRecordsBlindsAndMoves(t *testing.T) {
	seats := newSeats(100, 100, 100)
	h := holdem.NewHand(seats, 0, 1, 2, stacked(
		"2s", "3s", "4s", "5s", "2d", "3d",
	))
	mustApply(t, h, 0, holdem.Fold, 0)

	if len(h.Log) != 3 {
		t.Fatalf("expected 3 log entries, got %d", len(h.Log))
	}
	if h.Log[0].Type != "small_blind" || h.Log[1].Type != "big_blind" || h.Log[2].Type != "fold" {
		t.Fatalf("unexpected log: %+v", h.Log)
	}
}
