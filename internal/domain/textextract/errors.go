package textextract

import "errors"

var (
	// ErrUnsupportedType is returned for content types without an extractor.
	ErrUnsupportedType = errors.New("unsupported resume type")
	// ErrUnreadable wraps parser failures for malformed documents.
	ErrUnreadable = errors.New("unreadable document")
)
