package rpcclient

import "errors"

var (
	// ErrMissingServer is returned when calling the node before any server
	// has been selected.
	ErrMissingServer = errors.New("rpc server not selected")
)
