package roster

import "errors"

var (
	// ErrRosterFull is returned when adding beyond the maximum roster size.
	ErrRosterFull = errors.New("roster is full")
	// ErrLastPlayer is returned when removing the only remaining player.
	ErrLastPlayer = errors.New("cannot remove the last player")
	// ErrPlayerNotFound is returned for an unknown player id.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrInvalidOrder is returned when a reorder is not a permutation of the roster.
	ErrInvalidOrder = errors.New("order must list every player exactly once")
)
