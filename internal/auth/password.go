// Package auth issues and checks bearer tokens and hashes passwords.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinBcryptCost     = 10
	MaxBcryptCost     = 14
	DefaultBcryptCost = 12
)

// Hasher hashes passwords with bcrypt and an optional pepper.
type Hasher struct {
	cost   int
	pepper string
}

// NewHasher validates cost (10-14).
func NewHasher(cost int, pepper string) (*Hasher, error) {
	if cost < MinBcryptCost || cost > MaxBcryptCost {
		return nil, fmt.Errorf("%w: bcrypt cost %d out of range %d-%d", ErrBadConfig, cost, MinBcryptCost, MaxBcryptCost)
	}
	return &Hasher{cost: cost, pepper: pepper}, nil
}

// Hash returns the bcrypt hash of password+pepper.
func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password+h.pepper), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. A malformed hash is an error;
// a wrong password is not.
func (h *Hasher) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password+h.pepper))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("verify password: %w", err)
	}
}
