package text

import (
	"errors"
	"fmt"
	"strings"
)

// ErrParse is matched by every *ParseError through errors.Is.
var ErrParse = errors.New("content stream parse error")

// ParseError reports a malformed operator, an operator used outside a text
// object, or a fault in the underlying token stream.
type ParseError struct {
	Op     string // operator name, empty for stream faults
	Offset int    // byte offset in the stream, -1 when unknown
	Msg    string
	Err    error // underlying stream fault, if any
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse error")
	if e.Op != "" {
		fmt.Fprintf(&b, " in %q", e.Op)
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying stream fault.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrParse) true for any ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
