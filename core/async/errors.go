package async

import "errors"

var (
	// ErrNoManager is returned by Start when the request was not dispatched
	// through a dispatcher that supports asynchronous completion.
	ErrNoManager = errors.New("async: no manager in request context")

	// ErrAlreadyStarted is returned when a second task is started for a request.
	ErrAlreadyStarted = errors.New("async: concurrent handling already started")

	// ErrTimeout is the completion error of a task that did not finish in time.
	ErrTimeout = errors.New("async: task timed out")

	// ErrNotStarted is returned by Handoff when no task was started.
	ErrNotStarted = errors.New("async: concurrent handling not started")
)
