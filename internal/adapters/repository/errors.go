package repository

import (
	"errors"

	"github.com/okian/jobmatch/internal/domain/model"
)

// Sentinel kinds for store errors. ErrNotFound and ErrConflict are the shared
// model kinds so callers above the repository need not import it.
var (
	ErrNotFound      = model.ErrNotFound
	ErrConflict      = model.ErrConflict
	ErrUnknownDriver = errors.New("unknown store driver")
	ErrClosed        = errors.New("store closed")
)
