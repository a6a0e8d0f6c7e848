package handler

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"
)

// ExecutionChain pairs a handler with the interceptors that wrap it.
// It is produced by a resolver and never mutated afterwards; per-dispatch
// progress lives in Execution.
type ExecutionChain struct {
	handler      Handler
	interceptors []Interceptor
	params       map[string]string
}

// NewExecutionChain creates a chain for h with the given interceptors.
func NewExecutionChain(h Handler, interceptors ...Interceptor) *ExecutionChain {
	return &ExecutionChain{
		handler:      h,
		interceptors: slices.Clone(interceptors),
	}
}

// WithParams returns a copy of the chain carrying the given path parameters.
func (c *ExecutionChain) WithParams(params map[string]string) *ExecutionChain {
	return &ExecutionChain{
		handler:      c.handler,
		interceptors: c.interceptors,
		params:       maps.Clone(params),
	}
}

// Handler returns the handler to invoke.
func (c *ExecutionChain) Handler() Handler {
	return c.handler
}

// Interceptors returns a copy of the interceptor list in registration order.
func (c *ExecutionChain) Interceptors() []Interceptor {
	return slices.Clone(c.interceptors)
}

// Params returns the path parameters extracted by the resolver.
func (c *ExecutionChain) Params() map[string]string {
	return c.params
}

// Start begins a new execution of the chain for one dispatch.
func (c *ExecutionChain) Start() *Execution {
	return &Execution{chain: c}
}

// Phase is the position of one execution in the interceptor protocol.
type Phase uint8

const (
	PhaseNotStarted Phase = iota
	PhasePreRunning
	PhaseShortCircuited
	PhasePassed
	PhaseInvoked
	PhaseAsyncDeferred
	PhaseResumed
	PhaseFinalized
)

var phaseNames = [...]string{
	PhaseNotStarted:     "not_started",
	PhasePreRunning:     "pre_running",
	PhaseShortCircuited: "short_circuited",
	PhasePassed:         "passed",
	PhaseInvoked:        "invoked",
	PhaseAsyncDeferred:  "async_deferred",
	PhaseResumed:        "resumed",
	PhaseFinalized:      "finalized",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", p)
}

// Execution tracks one dispatch through an ExecutionChain. It counts the
// interceptors whose PreHandle returned true; exactly those receive
// AfterCompletion. An execution is used by one goroutine at a time.
type Execution struct {
	chain  *ExecutionChain
	phase  Phase
	passed int
}

// Handler returns the chain's handler.
func (e *Execution) Handler() Handler {
	return e.chain.handler
}

// Phase returns the current phase.
func (e *Execution) Phase() Phase {
	return e.phase
}

// Passed returns how many interceptors completed PreHandle with true.
func (e *Execution) Passed() int {
	return e.passed
}

// ApplyPreHandle runs PreHandle in registration order. It returns false when an
// interceptor short-circuited or failed.
func (e *Execution) ApplyPreHandle(w http.ResponseWriter, r *http.Request) (bool, error) {
	if e.phase != PhaseNotStarted {
		return false, fmt.Errorf("%w: pre-handle in phase %s", ErrInvalidPhase, e.phase)
	}
	e.phase = PhasePreRunning

	for i, ic := range e.chain.interceptors {
		ok, err := ic.PreHandle(w, r, e.chain.handler)
		if err != nil {
			return false, err
		}
		if !ok {
			e.phase = PhaseShortCircuited
			return false, nil
		}
		e.passed = i + 1
	}

	e.phase = PhasePassed
	return true, nil
}

// MarkInvoked records that the handler has been invoked.
func (e *Execution) MarkInvoked() {
	if e.phase == PhasePassed {
		e.phase = PhaseInvoked
	}
}

// ApplyPostHandle runs PostHandle in reverse order. It is only valid once the
// whole pre-handle chain passed and the handler ran.
func (e *Execution) ApplyPostHandle(w http.ResponseWriter, r *http.Request, o *Outcome) error {
	if e.phase != PhaseInvoked && e.phase != PhaseResumed {
		return fmt.Errorf("%w: post-handle in phase %s", ErrInvalidPhase, e.phase)
	}

	for i := len(e.chain.interceptors) - 1; i >= 0; i-- {
		if err := e.chain.interceptors[i].PostHandle(w, r, e.chain.handler, o); err != nil {
			return err
		}
	}
	return nil
}

// TriggerAfterCompletion runs AfterCompletion in reverse order for the
// interceptors whose PreHandle passed. It runs at most once per execution;
// failures of individual hooks (including panics) do not stop the others and
// are returned joined.
func (e *Execution) TriggerAfterCompletion(w http.ResponseWriter, r *http.Request, cause error) error {
	if e.phase == PhaseFinalized {
		return nil
	}
	e.phase = PhaseFinalized

	var errs []error
	for i := e.passed - 1; i >= 0; i-- {
		if err := afterCompletion(e.chain.interceptors[i], w, r, e.chain.handler, cause); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ApplyAfterConcurrentHandlingStarted notifies async-aware interceptors, in
// reverse order, that the handler deferred completion. It replaces PostHandle
// and AfterCompletion for the current call and runs at most once.
func (e *Execution) ApplyAfterConcurrentHandlingStarted(w http.ResponseWriter, r *http.Request) error {
	if e.phase == PhaseAsyncDeferred || e.phase == PhaseResumed || e.phase == PhaseFinalized {
		return nil
	}
	e.phase = PhaseAsyncDeferred

	var errs []error
	for i := len(e.chain.interceptors) - 1; i >= 0; i-- {
		ai, ok := e.chain.interceptors[i].(AsyncInterceptor)
		if !ok {
			continue
		}
		if err := asyncStarted(ai, w, r, e.chain.handler); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Resume re-enters the execution on the async completion path so post-handle
// and after-completion can run there.
func (e *Execution) Resume() error {
	if e.phase != PhaseAsyncDeferred {
		return fmt.Errorf("%w: resume in phase %s", ErrInvalidPhase, e.phase)
	}
	e.phase = PhaseResumed
	return nil
}

func afterCompletion(ic Interceptor, w http.ResponseWriter, r *http.Request, h Handler, cause error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = NewProcessingError("after-completion panicked", p)
		}
	}()
	return ic.AfterCompletion(w, r, h, cause)
}

func asyncStarted(ai AsyncInterceptor, w http.ResponseWriter, r *http.Request, h Handler) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = NewProcessingError("async-started hook panicked", p)
		}
	}()
	return ai.AfterConcurrentHandlingStarted(w, r, h)
}
