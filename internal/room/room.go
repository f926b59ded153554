package room

import (
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"holdem-service/internal/config"
	"holdem-service/internal/holdem"
	appErr "holdem-service/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxSeats is the table capacity. A 9-seat hand consumes at most 25 of the
// 52 cards, which is what lets the deck model treat exhaustion as a bug.
const MaxSeats = 9

const subscriberBuffer = 16

// maxBotActions bounds the bot loop within one event, against a policy bug
// producing actions that never close a round.
const maxBotActions = 256

// seatMeta is per-seat data that is not part of the hand state machine.
type seatMeta struct {
	isBot bool
	style holdem.Style
	// pendingLeave marks a seat whose player left mid-hand; the seat is
	// folded immediately and removed once the hand settles.
	pendingLeave bool
}

// Room is one table: its seats, the live hand (if any), and the subscribers
// receiving its events.
//
// Every mutation happens under mu; all entry points lock before touching
// any state, including the bot loop and the turn timer callback.
type Room struct {
	ID string

	mu          sync.Mutex
	seats       []*holdem.Seat
	meta        map[int64]*seatMeta
	hand        *holdem.Hand
	button      int
	seq         int64
	subscribers map[int64]chan Event

	turnTimer *time.Timer
	turnGen   int64

	cfg    config.GameConfig
	rng    *rand.Rand
	botSeq int64
	log    *zap.Logger
}

func newRoom(id string, cfg config.GameConfig, rng *rand.Rand, log *zap.Logger) *Room {
	return &Room{
		ID:          id,
		meta:        map[int64]*seatMeta{},
		subscribers: map[int64]chan Event{},
		cfg:         cfg,
		rng:         rng,
		log:         log.With(zap.String("roomID", id)),
	}
}

// Subscribe registers a subject's event channel and immediately pushes the
// current state so a reconnecting client resynchronizes. If the subject is
// seated in a live hand its hole cards are re-delivered too.
func (r *Room) Subscribe(subjectID int64) <-chan Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	r.subscribers[subjectID] = ch

	r.pushLocked(subjectID, EventGameUpdate, UpdatePayload{Room: r.snapshotLocked()})
	if seat := r.seatInHandLocked(subjectID); seat != nil && len(seat.HoleCards) == 2 {
		r.pushLocked(subjectID, EventGameStarted, StartedPayload{
			Room:             r.snapshotLocked(),
			PrivateHoleCards: holdem.Codes(seat.HoleCards),
		})
	}
	return ch
}

// Unsubscribe drops a subject's channel and closes it.
func (r *Room) Unsubscribe(subjectID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ch, ok := r.subscribers[subjectID]; ok {
		delete(r.subscribers, subjectID)
		close(ch)
	}
}

// Join seats a subject with the given buy-in as its starting stack. Once
// two funded seats are present and no hand is live, the next hand deals
// automatically.
func (r *Room) Join(subjectID int64, name string, buyIn int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.joinLocked(subjectID, name, buyIn, seatMeta{})
}

// AddBot seats a scripted opponent playing the given style.
func (r *Room) AddBot(style holdem.Style, buyIn int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.botSeq++
	// Bot ids are negative so they can never collide with token subjects.
	id := -r.botSeq
	name := fmt.Sprintf("%s-bot-%d", style, r.botSeq)
	return r.joinLocked(id, name, buyIn, seatMeta{isBot: true, style: style})
}

func (r *Room) joinLocked(subjectID int64, name string, buyIn int, meta seatMeta) error {
	if len(r.seats) >= MaxSeats {
		return appErr.ErrRoomFull
	}
	for _, s := range r.seats {
		if s.ID == subjectID {
			return appErr.ErrAlreadyJoined
		}
	}

	seat := &holdem.Seat{
		ID:    subjectID,
		Name:  name,
		Index: r.freePositionLocked(),
		Chips: buyIn,
	}
	r.seats = append(r.seats, seat)
	r.meta[subjectID] = &meta

	r.broadcastLocked(EventPlayerJoined, JoinedPayload{
		Player: r.seatSnapshotLocked(seat),
		Room:   r.snapshotLocked(),
	})
	r.log.Info("player joined",
		zap.Int64("subjectID", subjectID),
		zap.Int("buyIn", buyIn),
		zap.Bool("bot", meta.isBot),
	)

	r.maybeDealLocked()
	return nil
}

// Leave removes a subject's seat. Mid-hand the seat folds out first, which
// may end the hand on the spot; the seat itself is released once the hand
// settles. Bots exist only as opponents, so when the last human stands up
// the table dies with them: any live hand is abandoned and every seat is
// released for the registry to drop the room. Returns the number of human
// seats remaining.
func (r *Room) Leave(subjectID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	meta, ok := r.meta[subjectID]
	if !ok {
		return r.humanSeatsLocked(), appErr.ErrSeatNotFound
	}

	if !meta.isBot && r.humanSeatsLocked() == 1 {
		r.teardownLocked()
		r.log.Info("last player left, closing table", zap.Int64("subjectID", subjectID))
		return 0, nil
	}

	if handIdx := r.handIndexLocked(subjectID); handIdx >= 0 && r.hand != nil && !r.hand.Finished() {
		meta.pendingLeave = true
		r.hand.ForceFold(handIdx)
		r.broadcastLocked(EventGameUpdate, UpdatePayload{
			Room:       r.snapshotLocked(),
			LastAction: &ActionRecord{PlayerID: subjectID, Type: "fold"},
		})
		if r.hand.Finished() {
			r.finishHandLocked()
		} else {
			r.resetTurnTimerLocked()
			r.runBotsLocked()
		}
	} else {
		r.removeSeatLocked(subjectID)
	}

	r.log.Info("player left", zap.Int64("subjectID", subjectID))
	return r.humanSeatsLocked(), nil
}

func (r *Room) humanSeatsLocked() int {
	n := 0
	for _, s := range r.seats {
		if m := r.meta[s.ID]; m != nil && !m.isBot {
			n++
		}
	}
	return n
}

// teardownLocked abandons any live hand and releases every seat.
func (r *Room) teardownLocked() {
	r.cancelTurnTimerLocked()
	r.hand = nil
	r.seats = nil
	r.meta = map[int64]*seatMeta{}
}

// Apply validates that the subject owns the acting seat and applies its
// action, broadcasting the updated snapshot on success.
func (r *Room) Apply(subjectID int64, actionType holdem.ActionType, amount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hand == nil || r.hand.Finished() {
		return appErr.ErrNoActiveHand
	}
	handIdx := r.handIndexLocked(subjectID)
	if handIdx < 0 {
		return appErr.ErrSeatNotFound
	}
	if handIdx != r.hand.Acting {
		return appErr.ErrNotYourTurn
	}

	if err := r.applyActionLocked(holdem.Action{Type: actionType, Amount: amount, Seat: handIdx}); err != nil {
		return err
	}
	r.runBotsLocked()
	return nil
}

// Chat relays a message to every subscriber. It never touches game state.
func (r *Room) Chat(subjectID int64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seat := r.seatByIDLocked(subjectID)
	if seat == nil {
		return appErr.ErrNotInRoom
	}

	r.broadcastLocked(EventChatMessage, ChatPayload{
		ID:         uuid.NewString(),
		PlayerID:   subjectID,
		PlayerName: seat.Name,
		Text:       text,
		Timestamp:  time.Now().UnixMilli(),
	})
	return nil
}

// Has reports whether the subject is seated in this room.
func (r *Room) Has(subjectID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seatByIDLocked(subjectID) != nil
}

// Snapshot returns the room's public state.
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Seats returns the current seat count.
func (r *Room) Seats() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seats)
}

// applyActionLocked runs one action through the state machine and handles
// the aftermath: broadcast, settlement, timer.
func (r *Room) applyActionLocked(action holdem.Action) error {
	seatID := r.hand.Seats[action.Seat].ID
	if err := r.hand.Apply(action); err != nil {
		return err
	}

	record := &ActionRecord{PlayerID: seatID, Type: action.Type.String(), Amount: action.Amount}
	r.broadcastLocked(EventGameUpdate, UpdatePayload{Room: r.snapshotLocked(), LastAction: record})

	if r.hand.Finished() {
		r.finishHandLocked()
	} else {
		r.resetTurnTimerLocked()
	}
	return nil
}

// runBotsLocked lets bot seats act for as long as the action is on one of
// them. Bots run inside the same lock scope as the triggering event, so
// their actions interleave with nothing.
func (r *Room) runBotsLocked() {
	for i := 0; i < maxBotActions; i++ {
		if r.hand == nil || r.hand.Finished() || r.hand.Acting < 0 {
			return
		}
		seat := r.hand.Seats[r.hand.Acting]
		meta := r.meta[seat.ID]
		if meta == nil || !meta.isBot {
			return
		}

		view := holdem.PolicyView{
			HoleCards:  seat.HoleCards,
			Board:      r.hand.Board,
			Pot:        r.hand.Pot(),
			CurrentBet: r.hand.CurrentBet,
			SeatBet:    seat.Bet,
			Chips:      seat.Chips,
			BigBlind:   r.hand.BigBlind,
		}
		action := holdem.Decide(view, meta.style)
		action.Seat = r.hand.Acting
		if err := r.applyActionLocked(action); err != nil {
			// A policy that proposes an illegal action forfeits the turn.
			r.log.Warn("bot action rejected, folding",
				zap.Int64("botID", seat.ID),
				zap.String("action", action.Type.String()),
				zap.Error(err),
			)
			fold := holdem.Action{Type: holdem.Fold, Seat: r.hand.Acting}
			if err := r.applyActionLocked(fold); err != nil {
				return
			}
		}
	}
	r.log.Error("bot action loop exceeded budget, abandoning")
}

// maybeDealLocked starts the next hand when the table is waiting and at
// least two funded seats are present.
func (r *Room) maybeDealLocked() {
	if !r.cfg.AutoDeal {
		return
	}
	if r.hand != nil && !r.hand.Finished() {
		return
	}

	participants := make([]*holdem.Seat, 0, len(r.seats))
	humans := 0
	for _, s := range r.seats {
		if s.Chips > 0 {
			participants = append(participants, s)
			if m := r.meta[s.ID]; m != nil && !m.isBot {
				humans++
			}
		}
	}
	// Bots never play each other; a hand needs at least one funded human.
	if len(participants) < 2 || humans == 0 {
		return
	}

	r.button = (r.button + 1) % len(participants)
	deck := holdem.NewDeck(r.rng)
	deck.Shuffle()
	r.hand = holdem.NewHand(participants, r.button, r.cfg.SmallBlind, r.cfg.BigBlind, deck)

	r.broadcastEachLocked(EventGameStarted, func(subjectID int64) interface{} {
		payload := StartedPayload{Room: r.snapshotLocked()}
		if seat := r.seatInHandLocked(subjectID); seat != nil {
			payload.PrivateHoleCards = holdem.Codes(seat.HoleCards)
		}
		return payload
	})
	r.log.Info("hand started", zap.Int("players", len(participants)), zap.Int("button", r.button))

	if r.hand.Finished() {
		// Possible when both blinds were all-in on posting.
		r.finishHandLocked()
		return
	}
	r.resetTurnTimerLocked()
	r.runBotsLocked()
}

// finishHandLocked broadcasts the settlement, releases seats that left or
// went broke mid-hand, and deals the next hand if the table still can.
func (r *Room) finishHandLocked() {
	r.cancelTurnTimerLocked()

	hand := r.hand
	result := hand.Result
	payload := ResultPayload{WonByFold: result.WonByFold}
	for _, award := range result.Awards {
		pr := PotResult{Amount: award.Amount, Shares: map[string]int{}}
		for _, w := range award.Winners {
			pr.Winners = append(pr.Winners, hand.Seats[w].ID)
		}
		for seat, chips := range award.Shares {
			pr.Shares[strconv.FormatInt(hand.Seats[seat].ID, 10)] = chips
		}
		payload.Pots = append(payload.Pots, pr)
	}
	if !result.WonByFold {
		for idx, score := range result.Scores {
			seat := hand.Seats[idx]
			payload.Hands = append(payload.Hands, ShownHand{
				PlayerID: seat.ID,
				Cards:    holdem.Codes(seat.HoleCards),
				Category: score.Category().String(),
			})
		}
	}

	r.hand = nil
	payload.Room = r.snapshotLocked()
	r.broadcastLocked(EventHandResult, payload)
	r.log.Info("hand settled", zap.Bool("wonByFold", result.WonByFold), zap.Int("pots", len(result.Awards)))

	for id, meta := range r.meta {
		if meta.pendingLeave {
			r.removeSeatLocked(id)
		}
	}

	r.maybeDealLocked()
}

func (r *Room) removeSeatLocked(subjectID int64) {
	for i, s := range r.seats {
		if s.ID == subjectID {
			r.seats = append(r.seats[:i], r.seats[i+1:]...)
			break
		}
	}
	delete(r.meta, subjectID)
	r.broadcastLocked(EventPlayerLeft, LeftPayload{PlayerID: subjectID, Room: r.snapshotLocked()})
}

// Turn timer: a stalled acting seat is folded out after cfg.TurnSeconds,
// exactly as if it had disconnected. Generation counting discards timers
// made stale by a faster action.
func (r *Room) resetTurnTimerLocked() {
	r.cancelTurnTimerLocked()
	if r.cfg.TurnSeconds <= 0 || r.hand == nil || r.hand.Finished() || r.hand.Acting < 0 {
		return
	}

	r.turnGen++
	gen := r.turnGen
	acting := r.hand.Acting
	r.turnTimer = time.AfterFunc(time.Duration(r.cfg.TurnSeconds)*time.Second, func() {
		r.onTurnTimeout(gen, acting)
	})
}

func (r *Room) onTurnTimeout(gen int64, acting int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.turnGen || r.hand == nil || r.hand.Finished() || r.hand.Acting != acting {
		return
	}

	seat := r.hand.Seats[acting]
	r.log.Warn("turn timeout, auto-folding", zap.Int64("subjectID", seat.ID))
	r.hand.ForceFold(acting)
	r.broadcastLocked(EventGameUpdate, UpdatePayload{
		Room:       r.snapshotLocked(),
		LastAction: &ActionRecord{PlayerID: seat.ID, Type: "fold"},
	})

	if r.hand.Finished() {
		r.finishHandLocked()
		return
	}
	r.resetTurnTimerLocked()
	r.runBotsLocked()
}

func (r *Room) cancelTurnTimerLocked() {
	if r.turnTimer != nil {
		r.turnTimer.Stop()
		r.turnTimer = nil
	}
}

// Broadcast helpers. Sends never block: a subscriber that cannot keep up
// loses events and resynchronizes from the next snapshot it does receive.

func (r *Room) broadcastLocked(eventType string, data interface{}) {
	seq := r.nextSeqLocked()
	for id, ch := range r.subscribers {
		r.send(id, ch, Event{Type: eventType, Seq: seq, Data: data})
	}
}

func (r *Room) broadcastEachLocked(eventType string, dataFor func(subjectID int64) interface{}) {
	seq := r.nextSeqLocked()
	for id, ch := range r.subscribers {
		r.send(id, ch, Event{Type: eventType, Seq: seq, Data: dataFor(id)})
	}
}

func (r *Room) pushLocked(subjectID int64, eventType string, data interface{}) {
	if ch, ok := r.subscribers[subjectID]; ok {
		r.send(subjectID, ch, Event{Type: eventType, Seq: r.nextSeqLocked(), Data: data})
	}
}

func (r *Room) send(subjectID int64, ch chan Event, ev Event) {
	select {
	case ch <- ev:
	default:
		r.log.Warn("subscriber channel full, dropping event",
			zap.Int64("subjectID", subjectID),
			zap.String("event", ev.Type),
		)
	}
}

func (r *Room) nextSeqLocked() int64 {
	r.seq++
	return r.seq
}

// Snapshot helpers.

func (r *Room) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:             r.ID,
		Seats:          make([]SeatSnapshot, 0, len(r.seats)),
		CommunityCards: []string{},
		ActingSeat:     -1,
		Phase:          "waiting",
	}
	for _, s := range r.seats {
		snap.Seats = append(snap.Seats, r.seatSnapshotLocked(s))
	}
	if r.hand != nil {
		snap.Pot = r.hand.Pot()
		snap.CommunityCards = holdem.Codes(r.hand.Board)
		snap.Phase = r.hand.Street.String()
		if r.hand.Acting >= 0 {
			snap.ActingSeat = r.hand.Seats[r.hand.Acting].Index
		}
	}
	return snap
}

func (r *Room) seatSnapshotLocked(s *holdem.Seat) SeatSnapshot {
	meta := r.meta[s.ID]
	snap := SeatSnapshot{
		ID:       s.ID,
		Name:     s.Name,
		Chips:    s.Chips,
		Position: s.Index,
		Status:   "waiting",
	}
	if meta != nil {
		snap.IsBot = meta.isBot
	}
	if r.handIndexLocked(s.ID) >= 0 && r.hand != nil && !r.hand.Finished() {
		snap.CurrentBet = s.Bet
		switch {
		case s.Folded:
			snap.Status = "folded"
		case s.AllIn:
			snap.Status = "all-in"
		default:
			snap.Status = "active"
		}
	}
	return snap
}

func (r *Room) seatByIDLocked(subjectID int64) *holdem.Seat {
	for _, s := range r.seats {
		if s.ID == subjectID {
			return s
		}
	}
	return nil
}

// handIndexLocked returns the subject's index within the live hand, or -1.
func (r *Room) handIndexLocked(subjectID int64) int {
	if r.hand == nil {
		return -1
	}
	for i, s := range r.hand.Seats {
		if s.ID == subjectID {
			return i
		}
	}
	return -1
}

func (r *Room) seatInHandLocked(subjectID int64) *holdem.Seat {
	if idx := r.handIndexLocked(subjectID); idx >= 0 {
		return r.hand.Seats[idx]
	}
	return nil
}

// freePositionLocked returns the lowest unoccupied seat position.
func (r *Room) freePositionLocked() int {
	taken := map[int]bool{}
	for _, s := range r.seats {
		taken[s.Index] = true
	}
	for pos := 0; pos < MaxSeats; pos++ {
		if !taken[pos] {
			return pos
		}
	}
	return len(r.seats)
}
