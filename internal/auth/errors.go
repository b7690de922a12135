package auth

import "errors"

var (
	// ErrInvalidToken covers missing, malformed, expired and forged tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrBadConfig rejects unusable secrets or costs.
	ErrBadConfig = errors.New("invalid auth configuration")
	// ErrUnauthenticated means the request carries no principal.
	ErrUnauthenticated = errors.New("unauthenticated")
)
