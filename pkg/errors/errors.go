package errors

import "errors"

// Sentinel errors for the service. Handlers match them with errors.Is and
// map them onto the wire; everything else is treated as internal.
var (
	// Authentication
	ErrInvalidToken = errors.New("invalid token")
	ErrUnauthorized = errors.New("unauthorized")

	// Rooms and seats
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room full")
	ErrRoomLimit     = errors.New("room limit reached")
	ErrSeatNotFound  = errors.New("seat not found")
	ErrAlreadyJoined = errors.New("already seated in a room")
	ErrNotInRoom     = errors.New("not seated in this room")
	ErrBuyInRange    = errors.New("buy-in out of range")

	// Game actions
	ErrInvalidAction = errors.New("invalid action")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrNoActiveHand  = errors.New("no hand in progress")

	// Gateway
	ErrRateLimited = errors.New("rate limited")
)
