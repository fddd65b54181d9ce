package game

import "errors"

// Rejection kinds for RequestMove. Returned errors wrap one of these, so
// callers match with errors.Is.
var (
	ErrMalformedCoordinate = errors.New("malformed coordinate")
	ErrInactiveGame        = errors.New("game not active")
	ErrEmptyOrigin         = errors.New("no piece at origin")
	ErrWrongTurn           = errors.New("not this color's turn")
	ErrFriendlyCapture     = errors.New("cannot capture own piece")
	ErrIllegalDestination  = errors.New("illegal destination")

	// ErrCorruptRecord is returned by Load when a persisted record breaks a
	// board invariant.
	ErrCorruptRecord = errors.New("corrupt game record")
)
