package fractionator

import (
	"errors"
	"fmt"

	"github.com/tsawler/fractionator/text"
)

var (
	// ErrOutOfRange matches every *OutOfRangeError.
	ErrOutOfRange = errors.New("page out of range")

	// ErrInvalidState matches every *InvalidStateError.
	ErrInvalidState = errors.New("invalid document state")

	// ErrParse matches every *ParseError.
	ErrParse = text.ErrParse

	// ErrUnknownFormat is returned by Load for inputs that are neither PDF,
	// HTML nor text.
	ErrUnknownFormat = errors.New("unknown input format")

	// ErrNoPageSize is returned by RenderPageFitted when the source cannot
	// report page dimensions.
	ErrNoPageSize = errors.New("page size unavailable")
)

// ParseError reports a malformed content stream. No text is returned for a
// page that fails with it.
type ParseError = text.ParseError

// OutOfRangeError reports a page number outside [1, Count].
type OutOfRangeError struct {
	Page  int
	Count int
}

func (e *OutOfRangeError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("page %d out of range: document has no pages", e.Page)
	}
	return fmt.Sprintf("page %d out of range [1, %d]", e.Page, e.Count)
}

// Is reports whether target is ErrOutOfRange.
func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// InvalidStateError reports an operation on a document that is not loaded,
// failed to load or was closed.
type InvalidStateError struct {
	Reason string
	Err    error
}

func (e *InvalidStateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid document state: %s: %v", e.Reason, e.Err)
	}
	return "invalid document state: " + e.Reason
}

// Unwrap returns the load error, if any.
func (e *InvalidStateError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInvalidState.
func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}
