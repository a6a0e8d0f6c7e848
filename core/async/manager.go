package async

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/dispatch/core/handler"
)

// Task is deferred request work. Its outcome is rendered by the completion path
// exactly as a synchronous handler outcome would be.
type Task func(ctx context.Context) (*handler.Outcome, error)

// Completion finishes a deferred request with the task result.
type Completion func(ctx context.Context, outcome *handler.Outcome, err error) error

// Tracker reports whether a request is being completed asynchronously.
type Tracker interface {
	IsConcurrentHandlingStarted() bool
}

// Manager coordinates the asynchronous completion of one request.
type Manager struct {
	mu        sync.Mutex
	task      Task
	handedOff bool
	done      chan struct{}
	err       error
}

// NewManager returns a manager with no task started.
func NewManager() *Manager {
	return &Manager{done: make(chan struct{})}
}

type managerKey struct{}

// WithManager stores m in ctx.
func WithManager(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, managerKey{}, m)
}

// FromContext returns the manager stored in ctx.
func FromContext(ctx context.Context) (*Manager, bool) {
	m, ok := ctx.Value(managerKey{}).(*Manager)
	return m, ok && m != nil
}

// FromRequest returns the manager of the request being dispatched.
func FromRequest(r *http.Request) (*Manager, bool) {
	return FromContext(r.Context())
}

// Start defers the completion of r to task.
func Start(r *http.Request, task Task) error {
	m, ok := FromRequest(r)
	if !ok {
		return ErrNoManager
	}
	return m.Start(task)
}

// Start registers the task. Only one task may be started per request.
func (m *Manager) Start(task Task) error {
	if task == nil {
		return handler.ErrNilHandler
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.task != nil {
		return ErrAlreadyStarted
	}
	m.task = task
	return nil
}

// IsConcurrentHandlingStarted reports whether a task was started.
func (m *Manager) IsConcurrentHandlingStarted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.task != nil
}

// Handoff runs the started task in the background and calls complete with its
// result. complete runs exactly once, also when the task times out, panics or
// ctx is canceled. Subsequent calls are no-ops. Done is closed after complete
// returns.
func (m *Manager) Handoff(ctx context.Context, timeout time.Duration, complete Completion) error {
	m.mu.Lock()
	if m.task == nil {
		m.mu.Unlock()
		return ErrNotStarted
	}
	if m.handedOff {
		m.mu.Unlock()
		return nil
	}
	m.handedOff = true
	task := m.task
	m.mu.Unlock()

	taskCtx, cancel := context.WithCancel(ctx)
	f := run(taskCtx, task)

	go func() {
		defer close(m.done)
		defer cancel()

		outcome, err := f.await(ctx, timeout)
		// The task may outlive a timeout; cancel so it can stop early.
		cancel()

		m.err = complete(ctx, outcome, err)
	}()

	return nil
}

// Done is closed once the completion of a handed off task has returned.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Wait blocks until the asynchronous completion finishes or ctx is done. It
// returns immediately when no task was handed off.
func (m *Manager) Wait(ctx context.Context) error {
	m.mu.Lock()
	handedOff := m.handedOff
	m.mu.Unlock()
	if !handedOff {
		return nil
	}

	select {
	case <-m.done:
		return m.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the error reported by the completion. It is only meaningful after
// Done is closed.
func (m *Manager) Err() error {
	select {
	case <-m.done:
		return m.err
	default:
		return nil
	}
}
