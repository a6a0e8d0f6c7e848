package async

import (
	"context"
	"time"

	"github.com/dmitrymomot/dispatch/core/handler"
)

// future holds the eventual result of a task.
type future struct {
	outcome *handler.Outcome
	err     error
	done    chan struct{}
}

func run(ctx context.Context, task Task) *future {
	f := &future{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		defer func() {
			if v := recover(); v != nil {
				f.outcome, f.err = nil, handler.NewProcessingError("async task failed", v)
			}
		}()

		select {
		case <-ctx.Done():
			f.err = ctx.Err()
			return
		default:
		}

		f.outcome, f.err = task(ctx)
	}()

	return f
}

// await blocks until the task finishes, the timeout elapses or ctx is done.
// A non-positive timeout waits without a deadline.
func (f *future) await(ctx context.Context, timeout time.Duration) (*handler.Outcome, error) {
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case <-f.done:
		return f.outcome, f.err
	case <-expired:
		return nil, ErrTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
