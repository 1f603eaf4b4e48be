package draft

import "errors"

var (
	// ErrSessionClosed is returned when using a draft session after closing it.
	ErrSessionClosed = errors.New("draft session is closed")
)
