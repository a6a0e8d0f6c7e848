package dispatcher

import (
	"errors"
	"fmt"
)

// ErrNoHandler is attached to the 404 written when no resolver matches.
var ErrNoHandler = errors.New("dispatcher: no handler found")

// Error is an unrecovered dispatch failure whose after-completion hooks or
// resource cleanup also failed. Unwrap returns the original cause; the
// secondary failures are kept in Suppressed and never replace it.
type Error struct {
	Err        error
	Suppressed error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v (suppressed: %v)", e.Err, e.Suppressed)
}

func (e *Error) Unwrap() error {
	return e.Err
}
