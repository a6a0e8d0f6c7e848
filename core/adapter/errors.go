package adapter

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/dispatch/core/handler"
)

var (
	// ErrNoAdapter is a configuration fault: no registered adapter supports the
	// resolved handler.
	ErrNoAdapter   = errors.New("no adapter for handler")
	ErrNilResponse = errors.New("handler returned nil response")
)

func unsupported(h handler.Handler) error {
	return fmt.Errorf("%w: %T", ErrNoAdapter, h)
}
