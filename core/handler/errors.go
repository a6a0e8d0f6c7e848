package handler

import (
	"errors"
	"fmt"
	"runtime/debug"
)

var (
	ErrInvalidPhase = errors.New("interceptor hook called in invalid phase")
	ErrNilHandler   = errors.New("nil handler")
)

// ProcessingError wraps a low-level fault (a recovered panic) raised while a
// request was being handled, so resolvers can tell it apart from the errors
// handlers return on purpose.
type ProcessingError struct {
	msg   string
	value any
	stack []byte
}

// NewProcessingError captures v together with the current stack.
func NewProcessingError(msg string, v any) *ProcessingError {
	return &ProcessingError{
		msg:   msg,
		value: v,
		stack: debug.Stack(),
	}
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.msg, e.value)
}

// Value returns the original panic value.
func (e *ProcessingError) Value() any {
	return e.value
}

// Stack returns the stack trace captured at the recovery point.
func (e *ProcessingError) Stack() []byte {
	return e.stack
}

func (e *ProcessingError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}

// IsProcessingError reports whether err is or wraps a ProcessingError.
func IsProcessingError(err error) bool {
	var pe *ProcessingError
	return errors.As(err, &pe)
}

// AsProcessingError returns the first ProcessingError in err's chain.
func AsProcessingError(err error) (*ProcessingError, bool) {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
