package room

import (
	"math/rand"
	"sync"
	"time"

	"holdem-service/internal/config"
	appErr "holdem-service/pkg/errors"

	"go.uber.org/zap"
)

// Registry holds the live rooms. It is injected into the manager and the
// gateway rather than kept as a package global, so tests can build isolated
// instances.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	cfg   config.GameConfig
	log   *zap.Logger
}

func NewRegistry(cfg config.GameConfig, log *zap.Logger) *Registry {
	return &Registry{
		rooms: map[string]*Room{},
		cfg:   cfg,
		log:   log,
	}
}

// GetOrCreate returns the room with the given id, creating it when absent.
// Creation fails once the configured room cap is reached.
func (reg *Registry) GetOrCreate(id string) (*Room, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if r, ok := reg.rooms[id]; ok {
		return r, nil
	}
	if reg.cfg.MaxRooms > 0 && len(reg.rooms) >= reg.cfg.MaxRooms {
		return nil, appErr.ErrRoomLimit
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	r := newRoom(id, reg.cfg, rng, reg.log)
	reg.rooms[id] = r
	reg.log.Info("room created", zap.String("roomID", id))
	return r, nil
}

// Get returns the room with the given id.
func (reg *Registry) Get(id string) (*Room, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	r, ok := reg.rooms[id]
	if !ok {
		return nil, appErr.ErrRoomNotFound
	}
	return r, nil
}

// Remove drops a room from the registry. Its state is gone for good; a new
// join under the same id starts from scratch.
func (reg *Registry) Remove(id string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, ok := reg.rooms[id]; ok {
		delete(reg.rooms, id)
		reg.log.Info("room destroyed", zap.String("roomID", id))
	}
}

// List returns all live rooms in no particular order.
func (reg *Registry) List() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	out := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		out = append(out, r)
	}
	return out
}

// Len returns the number of live rooms.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}
