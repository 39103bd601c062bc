package dispatch

import "errors"

// Sentinel errors for dispatcher construction.
var (
	// ErrNilClient indicates Config.Client was not provided.
	ErrNilClient = errors.New("dispatch: upstream client is required")
)
