// internal/game/errors.go
//
// Error taxonomy for room actions:
//   - RejectError: user action rejected; reported only to the acting
//     connection, no state mutation.
//   - ErrEmptyBag: expected terminal condition on draw, also surfaced to the
//     room as a no-tiles-remaining notice.
//   - ErrInsufficientPool: the pool lacks a letter a resolved claim should
//     consume. Never expected in correct operation; indicates claim/pool
//     desynchronization and aborts the action without partial application.

package game

import "errors"

// RejectError is a user-facing rejection of an action.
type RejectError string

func (e RejectError) Error() string { return string(e) }

const (
	ErrAlreadyInRoom  = RejectError("already in a room")
	ErrNotInRoom      = RejectError("not in a room")
	ErrRoomNotFound   = RejectError("room not found")
	ErrUsernameEmpty  = RejectError("username not set")
	ErrUsernameTaken  = RejectError("username already taken")
	ErrGameInProgress = RejectError("game already started")
	ErrGameEnded      = RejectError("game already ended")
)

var (
	// ErrEmptyBag reports a draw from an exhausted hidden bag.
	ErrEmptyBag = errors.New("no more tiles")

	// ErrInsufficientPool reports a pool/claim invariant breach.
	ErrInsufficientPool = errors.New("pool is missing a claimed letter")
)
