package reader

import (
	"errors"
	"fmt"
)

var (
	// ErrNoInput is returned by Visit when the source or the visitor
	// is nil.
	ErrNoInput = errors.New("nil source or visitor")

	// ErrInvalidPolicy is returned when the configured error policy is
	// neither ErrorsStrict nor ErrorsIgnore.
	ErrInvalidPolicy = errors.New("invalid error policy")
)

// errEndOfStream signals the normal end of input; it terminates the
// drive loop by flushing a final end-of-scope event and never
// propagates to the caller.
var errEndOfStream = errors.New("end of stream")

// SyntaxError reports a statement the parser could not assemble,
// with the physical line it occurred on.
type SyntaxError struct {
	Line int
	Msg  string
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
