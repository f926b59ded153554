package holdem

import (
	"fmt"
	"time"

	appErr "holdem-service/pkg/errors"

	"github.com/google/uuid"
)

// Street is the betting stage of a hand.
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[s]
}

// ActionType is a player action kind.
type ActionType int

const (
	Fold ActionType = iota
	Check
	Call
	Bet
	Raise
	AllIn
)

func (a ActionType) String() string {
	return [...]string{"fold", "check", "call", "bet", "raise", "all-in"}[a]
}

// ParseActionType parses the wire form of an action type.
func ParseActionType(s string) (ActionType, error) {
	switch s {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "bet":
		return Bet, nil
	case "raise":
		return Raise, nil
	case "all-in", "allin":
		return AllIn, nil
	default:
		return 0, fmt.Errorf("%w: unknown action %q", appErr.ErrInvalidAction, s)
	}
}

// Action is one seat's move. Amount is the raise-to total for bet/raise and
// ignored otherwise. Seat is the hand-seat index of the actor.
type Action struct {
	Type   ActionType
	Amount int
	Seat   int
}

// Seat is one player's place in a hand. ID, Name, Index and Chips persist
// across hands; everything else resets when a new hand is dealt.
type Seat struct {
	ID    int64
	Name  string
	Index int
	Chips int

	HoleCards []Card
	Folded    bool
	AllIn     bool
	Bet       int // committed this street
	TotalBet  int // committed this hand
	acted     bool
}

// Live reports whether the seat can still act this hand.
func (s *Seat) Live() bool {
	return !s.Folded && !s.AllIn
}

func (s *Seat) resetForHand() {
	s.HoleCards = nil
	s.Folded = false
	s.AllIn = false
	s.Bet = 0
	s.TotalBet = 0
	s.acted = false
}

// LogEntry is one recorded event in the current hand's action log. The log
// lives only as long as the hand.
type LogEntry struct {
	ID     string    `json:"id"`
	SeatID int64     `json:"seatId"`
	Type   string    `json:"type"`
	Amount int       `json:"amount,omitempty"`
	Street string    `json:"street"`
	At     time.Time `json:"at"`
}

// PotAward is the outcome of one pot at settlement.
type PotAward struct {
	Amount  int
	Winners []int       // hand-seat indexes
	Shares  map[int]int // seat index -> chips credited
}

// Result is computed once when the hand ends and never stored beyond it.
type Result struct {
	WonByFold bool
	Scores    map[int]Score // non-folded seats; empty when won by fold
	Awards    []PotAward
}

// Hand is the betting-round state machine for one dealt hand. It is not
// safe for concurrent use; the room runtime serializes access.
type Hand struct {
	Seats      []*Seat
	Button     int
	Street     Street
	Board      []Card
	CurrentBet int
	Acting     int // hand-seat index, -1 when nobody can act
	SmallBlind int
	BigBlind   int
	Log        []LogEntry
	Result     *Result

	deck     *Deck
	bbIndex  int
	bbOption bool // big blind may still close the preflop action
}

// NewHand deals a hand to the given seats: hole cards out, blinds posted,
// action on the first seat after the big blind. Seats must number at least
// two; the deck must already be shuffled (or stacked, in tests).
func NewHand(seats []*Seat, button, smallBlind, bigBlind int, deck *Deck) *Hand {
	h := &Hand{
		Seats:      seats,
		Button:     button,
		Street:     Preflop,
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		deck:       deck,
		Acting:     -1,
	}

	for _, s := range seats {
		s.resetForHand()
	}
	for _, s := range seats {
		s.HoleCards = deck.DealN(2)
	}

	var sbIndex int
	if len(seats) == 2 {
		// Heads-up: the button posts the small blind.
		sbIndex = button
		h.bbIndex = (button + 1) % 2
	} else {
		sbIndex = (button + 1) % len(seats)
		h.bbIndex = (button + 2) % len(seats)
	}
	h.postBlind(sbIndex, smallBlind, "small_blind")
	h.postBlind(h.bbIndex, bigBlind, "big_blind")
	h.CurrentBet = bigBlind
	h.bbOption = true

	h.Acting = h.nextLive(h.bbIndex + 1)
	if h.Acting == -1 {
		// Both blinds all-in: nothing to decide, run the board out.
		h.advanceStreet()
	}
	return h
}

func (h *Hand) postBlind(index, amount int, kind string) {
	s := h.Seats[index]
	paid := min(amount, s.Chips)
	s.Chips -= paid
	s.Bet = paid
	s.TotalBet = paid
	if s.Chips == 0 {
		s.AllIn = true
	}
	h.appendLog(s.ID, kind, paid)
}

// Pot returns the chips committed to the hand so far, across all streets.
func (h *Hand) Pot() int {
	total := 0
	for _, s := range h.Seats {
		total += s.TotalBet
	}
	return total
}

// Finished reports whether the hand has been settled.
func (h *Hand) Finished() bool {
	return h.Result != nil
}

// Apply validates and applies one action from the acting seat. On a
// validation error the state is unchanged and the error carries the reason.
func (h *Hand) Apply(a Action) error {
	if h.Finished() {
		return appErr.ErrNoActiveHand
	}
	if a.Seat != h.Acting {
		return appErr.ErrNotYourTurn
	}
	s := h.Seats[a.Seat]

	switch a.Type {
	case Fold:
		s.Folded = true

	case Check:
		if s.Bet != h.CurrentBet {
			return fmt.Errorf("%w: cannot check, facing a bet of %d", appErr.ErrInvalidAction, h.CurrentBet-s.Bet)
		}

	case Call:
		toCall := h.CurrentBet - s.Bet
		if toCall <= 0 {
			return fmt.Errorf("%w: nothing to call", appErr.ErrInvalidAction)
		}
		paid := min(toCall, s.Chips)
		s.Chips -= paid
		s.Bet += paid
		s.TotalBet += paid
		if s.Chips == 0 {
			// Short call: the seat is all-in for its remaining stack.
			s.AllIn = true
		}
		a.Amount = paid

	case Bet, Raise:
		minTo := h.BigBlind
		if h.CurrentBet > 0 {
			minTo = 2 * h.CurrentBet
		}
		if a.Amount < minTo {
			return fmt.Errorf("%w: raise to %d below minimum %d", appErr.ErrInvalidAction, a.Amount, minTo)
		}
		delta := a.Amount - s.Bet
		if delta > s.Chips {
			return fmt.Errorf("%w: bet of %d exceeds stack", appErr.ErrInvalidAction, a.Amount)
		}
		s.Chips -= delta
		s.Bet = a.Amount
		s.TotalBet += delta
		if s.Chips == 0 {
			s.AllIn = true
		}
		h.CurrentBet = a.Amount
		h.reopenAction(a.Seat)

	case AllIn:
		if s.Chips <= 0 {
			return fmt.Errorf("%w: no chips behind", appErr.ErrInvalidAction)
		}
		committed := s.Chips
		s.Bet += committed
		s.TotalBet += committed
		s.Chips = 0
		s.AllIn = true
		a.Amount = committed
		if s.Bet > h.CurrentBet {
			h.CurrentBet = s.Bet
			h.reopenAction(a.Seat)
		}

	default:
		return fmt.Errorf("%w: unknown action", appErr.ErrInvalidAction)
	}

	s.acted = true
	if a.Seat == h.bbIndex {
		h.bbOption = false
	}
	h.appendLog(s.ID, a.Type.String(), a.Amount)

	h.advanceTurn(a.Seat)
	return nil
}

// ForceFold folds a seat out of turn, for disconnects and turn timeouts.
func (h *Hand) ForceFold(seat int) {
	if h.Finished() || seat < 0 || seat >= len(h.Seats) {
		return
	}
	s := h.Seats[seat]
	if s.Folded {
		return
	}

	s.Folded = true
	s.acted = true
	if seat == h.bbIndex {
		h.bbOption = false
	}
	h.appendLog(s.ID, "fold", 0)

	h.advanceTurn(seat)
}

// reopenAction marks every other seat as needing to act again after a raise.
func (h *Hand) reopenAction(raiser int) {
	for i, s := range h.Seats {
		if i != raiser {
			s.acted = false
		}
	}
}

// advanceTurn moves the acting pointer after the given seat acted, advancing
// the street or settling the hand when the round is closed.
func (h *Hand) advanceTurn(from int) {
	if h.nonFoldedCount() <= 1 {
		h.finishByFold()
		return
	}

	if h.roundComplete() {
		h.advanceStreet()
		return
	}

	h.Acting = h.nextLive(from + 1)
	if h.Acting == -1 {
		h.advanceStreet()
	}
}

// roundComplete reports whether the current street's betting is closed:
// every non-folded seat has matched the bet or is all-in, and every live
// seat has acted since the last raise. Preflop, the big blind keeps its
// option to close the action even when everyone merely called.
func (h *Hand) roundComplete() bool {
	for _, s := range h.Seats {
		if !s.Live() {
			continue
		}
		if s.Bet != h.CurrentBet || !s.acted {
			return false
		}
	}
	if h.Street == Preflop && h.bbOption && h.Seats[h.bbIndex].Live() {
		return false
	}
	return true
}

// advanceStreet burns a card, reveals the next community cards, resets the
// street's betting state and puts the action on the first live seat after
// the button. With nobody left to act it cascades to showdown.
func (h *Hand) advanceStreet() {
	for _, s := range h.Seats {
		s.Bet = 0
		s.acted = false
	}
	h.CurrentBet = 0

	switch h.Street {
	case Preflop:
		h.Street = Flop
		h.deck.Burn()
		h.Board = append(h.Board, h.deck.DealN(3)...)
	case Flop:
		h.Street = Turn
		h.deck.Burn()
		h.Board = append(h.Board, h.deck.Deal())
	case Turn:
		h.Street = River
		h.deck.Burn()
		h.Board = append(h.Board, h.deck.Deal())
	case River:
		h.finishShowdown()
		return
	case Showdown:
		return
	}

	h.Acting = h.nextLive(h.Button + 1)
	if h.Acting == -1 {
		// All remaining seats are all-in; run the board out.
		h.advanceStreet()
	}
}

// finishByFold awards the whole pot to the sole remaining seat. No hands
// are evaluated and no hole cards revealed.
func (h *Hand) finishByFold() {
	winner := -1
	for i, s := range h.Seats {
		if !s.Folded {
			winner = i
			break
		}
	}
	if winner == -1 {
		return
	}

	amount := h.Pot()
	h.Seats[winner].Chips += amount
	h.clearCommitted()
	h.Result = &Result{
		WonByFold: true,
		Scores:    map[int]Score{},
		Awards: []PotAward{{
			Amount:  amount,
			Winners: []int{winner},
			Shares:  map[int]int{winner: amount},
		}},
	}
	h.Street = Showdown
	h.Acting = -1
}

// finishShowdown scores every non-folded seat against the board, awards each
// pot to its best eligible hands and credits the winners' stacks. An odd
// remainder chip goes to the first winner clockwise from the button.
func (h *Hand) finishShowdown() {
	scores := map[int]Score{}
	for i, s := range h.Seats {
		if !s.Folded {
			scores[i] = Evaluate(append(append([]Card{}, s.HoleCards...), h.Board...))
		}
	}

	awards := []PotAward{}
	for _, pot := range buildPots(h.Seats) {
		best := Score(0)
		winners := []int{}
		for _, seat := range pot.Eligible {
			score, ok := scores[seat]
			if !ok {
				continue
			}
			if score > best || len(winners) == 0 {
				best = score
				winners = []int{seat}
			} else if score == best {
				winners = append(winners, seat)
			}
		}
		if len(winners) == 0 {
			continue
		}

		share := pot.Amount / len(winners)
		remainder := pot.Amount - share*len(winners)
		shares := map[int]int{}
		for _, w := range winners {
			shares[w] = share
		}
		shares[h.firstFromButton(winners)] += remainder
		for seat, amount := range shares {
			h.Seats[seat].Chips += amount
		}
		awards = append(awards, PotAward{Amount: pot.Amount, Winners: winners, Shares: shares})
	}

	h.clearCommitted()
	h.Result = &Result{Scores: scores, Awards: awards}
	h.Street = Showdown
	h.Acting = -1
}

// clearCommitted zeroes the seats' committed chips once the pot has been
// paid out, so a settled hand reports an empty pot and stack totals match
// the buy-ins again.
func (h *Hand) clearCommitted() {
	for _, s := range h.Seats {
		s.Bet = 0
		s.TotalBet = 0
	}
}

// firstFromButton returns the winner closest clockwise from the button.
func (h *Hand) firstFromButton(winners []int) int {
	n := len(h.Seats)
	for off := 1; off <= n; off++ {
		idx := (h.Button + off) % n
		for _, w := range winners {
			if w == idx {
				return w
			}
		}
	}
	return winners[0]
}

func (h *Hand) nextLive(from int) int {
	n := len(h.Seats)
	for i := 0; i < n; i++ {
		idx := (from + i) % n
		if h.Seats[idx].Live() {
			return idx
		}
	}
	return -1
}

func (h *Hand) nonFoldedCount() int {
	count := 0
	for _, s := range h.Seats {
		if !s.Folded {
			count++
		}
	}
	return count
}

func (h *Hand) appendLog(seatID int64, kind string, amount int) {
	h.Log = append(h.Log, LogEntry{
		ID:     uuid.NewString(),
		SeatID: seatID,
		Type:   kind,
		Amount: amount,
		Street: h.Street.String(),
		At:     time.Now(),
	})
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
