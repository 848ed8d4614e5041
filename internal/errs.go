package internal

import "errors"

// Engine error taxonomy. Validation errors are surfaced to the offending
// connection only; they never transition shared session state.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("session already exists for room")
	ErrInvalidState       = errors.New("invalid state for this action")
	ErrNotYourTurn        = errors.New("not your turn to guess")
	ErrNoActiveRound      = errors.New("no active round")
	ErrContentUnavailable = errors.New("no content available")
	ErrAlreadyFinalized   = errors.New("session already finalized")
	ErrSessionNotFound    = errors.New("no active session for room")
)
