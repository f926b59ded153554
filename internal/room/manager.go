package room

import (
	"holdem-service/internal/config"
	"holdem-service/internal/holdem"
	appErr "holdem-service/pkg/errors"
	"holdem-service/pkg/utils/random"

	"go.uber.org/zap"
)

// roomCodeLength is the length of generated room codes.
const roomCodeLength = 6

// Manager is the operation surface the gateway talks to. It resolves room
// ids against the registry and tears rooms down when the last seat leaves.
type Manager struct {
	registry *Registry
	cfg      config.GameConfig
	log      *zap.Logger
}

func NewManager(registry *Registry, cfg config.GameConfig, log *zap.Logger) *Manager {
	return &Manager{registry: registry, cfg: cfg, log: log}
}

// RoomSummary is one row of the room listing.
type RoomSummary struct {
	ID      string `json:"id"`
	Seats   int    `json:"seats"`
	MaxSeat int    `json:"maxSeats"`
	Phase   string `json:"phase"`
}

// Join seats a subject. A blank roomID mints a fresh room code; a given one
// joins (or revives) that room. Returns the room joined.
func (m *Manager) Join(subjectID int64, name, roomID string, buyIn int) (*Room, error) {
	if buyIn < m.cfg.MinBuyIn || buyIn > m.cfg.MaxBuyIn {
		return nil, appErr.ErrBuyInRange
	}

	if roomID == "" {
		roomID = random.Code(roomCodeLength)
	}
	r, err := m.registry.GetOrCreate(roomID)
	if err != nil {
		return nil, err
	}
	if err := r.Join(subjectID, name, buyIn); err != nil {
		if r.Seats() == 0 {
			m.registry.Remove(roomID)
		}
		return nil, err
	}
	return r, nil
}

// Leave removes a subject's seat and destroys the room once its last human
// seat is gone; bot seats never keep a table alive.
func (m *Manager) Leave(subjectID int64, roomID string) error {
	r, err := m.registry.Get(roomID)
	if err != nil {
		return err
	}
	humans, err := r.Leave(subjectID)
	if err != nil {
		return err
	}
	if humans == 0 {
		m.registry.Remove(roomID)
	}
	return nil
}

// Apply routes a game action to the subject's room.
func (m *Manager) Apply(subjectID int64, roomID string, actionType holdem.ActionType, amount int) error {
	r, err := m.registry.Get(roomID)
	if err != nil {
		return err
	}
	return r.Apply(subjectID, actionType, amount)
}

// Chat relays a chat message to the room.
func (m *Manager) Chat(subjectID int64, roomID, text string) error {
	r, err := m.registry.Get(roomID)
	if err != nil {
		return err
	}
	return r.Chat(subjectID, text)
}

// AddBot seats a bot in the room with the configured minimum buy-in times
// ten, capped at the maximum, so bots arrive with a playable stack.
func (m *Manager) AddBot(roomID string, style holdem.Style) error {
	r, err := m.registry.Get(roomID)
	if err != nil {
		return err
	}

	buyIn := m.cfg.MinBuyIn * 10
	if buyIn > m.cfg.MaxBuyIn {
		buyIn = m.cfg.MaxBuyIn
	}
	return r.AddBot(style, buyIn)
}

// Subscribe attaches a subject's event channel to a room.
func (m *Manager) Subscribe(subjectID int64, roomID string) (<-chan Event, error) {
	r, err := m.registry.Get(roomID)
	if err != nil {
		return nil, err
	}
	return r.Subscribe(subjectID), nil
}

// Unsubscribe detaches a subject's event channel. Unknown rooms are a no-op;
// the room may already be gone by the time a connection closes.
func (m *Manager) Unsubscribe(subjectID int64, roomID string) {
	r, err := m.registry.Get(roomID)
	if err != nil {
		return
	}
	r.Unsubscribe(subjectID)
}

// Rooms lists the live rooms for the HTTP surface.
func (m *Manager) Rooms() []RoomSummary {
	rooms := m.registry.List()
	out := make([]RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		snap := r.Snapshot()
		out = append(out, RoomSummary{
			ID:      snap.ID,
			Seats:   len(snap.Seats),
			MaxSeat: MaxSeats,
			Phase:   snap.Phase,
		})
	}
	return out
}
