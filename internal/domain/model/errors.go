package model

import "errors"

// Sentinel kinds shared by the service and its adapters. Callers compare with
// errors.Is; adapters wrap them with detail.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBackpressure       = errors.New("backpressure")
	ErrUnsupportedMedia   = errors.New("unsupported media type")
	ErrTooLarge           = errors.New("payload too large")
)
