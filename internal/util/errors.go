package util

import "github.com/cockroachdb/errors"

// Sentinel errors for common failure modes
var (
	// ErrUnsupported indicates a protocol file or protocol name is not supported
	ErrUnsupported = errors.New("unsupported")

	// ErrNotFound indicates a required row or resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAmbiguous indicates an exact-key lookup matched more than one row
	ErrAmbiguous = errors.New("ambiguous match")

	// ErrInvalidInput indicates a value outside its fixed vocabulary
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformed indicates a protocol description line that cannot be parsed
	ErrMalformed = errors.New("malformed protocol line")
)
