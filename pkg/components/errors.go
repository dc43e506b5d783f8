package components

import "errors"

var (
	ErrNoComponents           = errors.New("session needs a button group or a select menu")
	ErrRowFull                = errors.New("button row is full")
	ErrGroupFull              = errors.New("button group is full")
	ErrOutOfBounds            = errors.New("component position out of bounds")
	ErrMalformedCustomID      = errors.New("malformed component custom id")
	ErrUnsupportedInteraction = errors.New("unsupported interaction kind")
	ErrSessionClosed          = errors.New("session is disabled")
	ErrTimeout                = errors.New("timed out waiting for interaction")
)
