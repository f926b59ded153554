package room

// Event is one outbound message to a subscriber. Seq increases monotonically
// per room so clients can discard stale state.
type Event struct {
	Type string      `json:"type"`
	Seq  int64       `json:"seq"`
	Data interface{} `json:"data"`
}

const (
	EventPlayerJoined = "player_joined"
	EventGameStarted  = "game_started"
	EventPlayerLeft   = "player_left"
	EventGameUpdate   = "game_update"
	EventHandResult   = "hand_result"
	EventChatMessage  = "chat_message"
	EventRoomFull     = "room_full"
)

// SeatSnapshot is the public view of one seat. Hole cards are never part of
// it; they travel only in the owner's game_started payload.
type SeatSnapshot struct {
	ID         int64  `json:"id,string"`
	Name       string `json:"name"`
	Chips      int    `json:"chips"`
	Position   int    `json:"position"`
	Status     string `json:"status"` // waiting/active/folded/all-in
	CurrentBet int    `json:"currentBet"`
	IsBot      bool   `json:"isBot,omitempty"`
}

// Snapshot is the public state of a room, safe to send to every subscriber.
type Snapshot struct {
	ID             string         `json:"id"`
	Seats          []SeatSnapshot `json:"seats"`
	Pot            int            `json:"pot"`
	CommunityCards []string       `json:"communityCards"`
	ActingSeat     int            `json:"actingSeat"` // seat position, -1 when nobody acts
	Phase          string         `json:"phase"`      // waiting or the current street
}

// ActionRecord describes the action that produced a game_update.
type ActionRecord struct {
	PlayerID int64  `json:"playerId,string"`
	Type     string `json:"type"`
	Amount   int    `json:"amount,omitempty"`
}

type JoinedPayload struct {
	Player SeatSnapshot `json:"player"`
	Room   Snapshot     `json:"roomSnapshot"`
}

type StartedPayload struct {
	Room Snapshot `json:"roomSnapshot"`
	// PrivateHoleCards is set only on the copy delivered to the seat that
	// owns the cards.
	PrivateHoleCards []string `json:"privateHoleCards,omitempty"`
}

type LeftPayload struct {
	PlayerID int64    `json:"playerId,string"`
	Room     Snapshot `json:"roomSnapshot"`
}

type UpdatePayload struct {
	Room       Snapshot      `json:"roomSnapshot"`
	LastAction *ActionRecord `json:"lastAction,omitempty"`
}

type ChatPayload struct {
	ID         string `json:"id"`
	PlayerID   int64  `json:"playerId,string"`
	PlayerName string `json:"playerName"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"`
}

// ShownHand is one revealed hand in a showdown result.
type ShownHand struct {
	PlayerID int64    `json:"playerId,string"`
	Cards    []string `json:"cards"`
	Category string   `json:"category"`
}

// PotResult is the settlement of one pot (main or side).
type PotResult struct {
	Amount  int            `json:"amount"`
	Winners []int64        `json:"winners"`
	Shares  map[string]int `json:"shares"` // player id -> chips credited
}

type ResultPayload struct {
	Room      Snapshot    `json:"roomSnapshot"`
	WonByFold bool        `json:"wonByFold"`
	Pots      []PotResult `json:"pots"`
	Hands     []ShownHand `json:"hands,omitempty"`
}
