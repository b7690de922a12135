package queue

import "errors"

// Sentinel kinds for enqueue failures. Both mean the caller should back off.
var (
	ErrFull   = errors.New("queue full")
	ErrClosed = errors.New("queue closed")
)
