package storage

import "errors"

var (
	// ErrNotFound is returned when a blob does not exist.
	ErrNotFound = errors.New("blob not found")
	// ErrInvalidKey rejects keys that escape the store root.
	ErrInvalidKey = errors.New("invalid blob key")
	// ErrUnknownDriver is returned by Open for unsupported drivers.
	ErrUnknownDriver = errors.New("unknown blob driver")
)
