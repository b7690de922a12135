package api

import (
	"errors"
	"net/http"

	"github.com/okian/jobmatch/internal/auth"
	"github.com/okian/jobmatch/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrRateLimited = errors.New("too many requests")
)

// Error carries the failing operation, the kind used to pick a status code
// and the underlying cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.message()
}

func (e *Error) message() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return "unknown error"
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// Wrap attaches op to err.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// WrapKind attaches op and kind to err.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// NewKind builds an error of kind with no further cause.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

type errorMapping struct {
	kind   error
	status int
	code   string
}

var errorMappings = []errorMapping{ //nolint:gochecknoglobals // static table
	{ErrBadRequest, http.StatusBadRequest, "bad_request"},
	{model.ErrInvalidInput, http.StatusBadRequest, "bad_request"},
	{model.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{auth.ErrUnauthenticated, http.StatusUnauthorized, "unauthorized"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, "unauthorized"},
	{model.ErrForbidden, http.StatusForbidden, "forbidden"},
	{model.ErrNotFound, http.StatusNotFound, "not_found"},
	{model.ErrConflict, http.StatusConflict, "conflict"},
	{model.ErrTooLarge, http.StatusRequestEntityTooLarge, "payload_too_large"},
	{model.ErrUnsupportedMedia, http.StatusUnsupportedMediaType, "unsupported_media_type"},
	{model.ErrBackpressure, http.StatusTooManyRequests, "backpressure"},
	{ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
}

// classify maps an error to its HTTP status and error code.
func classify(err error) (int, string) {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return http.StatusRequestEntityTooLarge, "payload_too_large"
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.kind) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal"
}

// publicMessage is the message shown to clients: the cause without the
// operation prefix.
func publicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.message()
	}
	return err.Error()
}
