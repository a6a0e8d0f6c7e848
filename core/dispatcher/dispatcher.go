package dispatcher

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/dmitrymomot/dispatch/core/adapter"
	"github.com/dmitrymomot/dispatch/core/async"
	"github.com/dmitrymomot/dispatch/core/conditional"
	"github.com/dmitrymomot/dispatch/core/exception"
	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/logger"
	"github.com/dmitrymomot/dispatch/core/multipart"
	"github.com/dmitrymomot/dispatch/core/render"
	"github.com/dmitrymomot/dispatch/core/resolver"
	"github.com/dmitrymomot/dispatch/core/response"
)

// DefaultAsyncTimeout bounds asynchronous completions unless configured.
const DefaultAsyncTimeout = 30 * time.Second

// Dispatcher drives one request through resolution, interception, invocation,
// result resolution and cleanup. It is safe for concurrent use once built.
type Dispatcher struct {
	resolver     resolver.Resolver
	adapters     *adapter.Registry
	exceptions   exception.Chain
	multipart    multipart.Resolver
	renderer     render.Renderer
	viewName     func(r *http.Request) string
	notFound     http.Handler
	errorHandler func(w http.ResponseWriter, r *http.Request, err error)
	asyncTimeout time.Duration
	logger       *slog.Logger
}

// New creates a dispatcher. Without options it resolves nothing; a resolver is
// normally supplied with WithResolvers.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		resolver:     resolver.Chain{},
		adapters:     adapter.Default(),
		multipart:    multipart.Standard{},
		renderer:     render.New(render.JSON{}),
		viewName:     DefaultViewName,
		notFound:     http.HandlerFunc(notFound),
		errorHandler: response.ErrorHandler,
		asyncTimeout: DefaultAsyncTimeout,
		logger:       logger.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.asyncTimeout <= 0 {
		d.asyncTimeout = DefaultAsyncTimeout
	}
	if d.exceptions == nil {
		d.exceptions = exception.Chain{
			exception.HandlerScoped{},
			exception.Defaults(),
			exception.Status{},
			exception.Processing{Logger: d.logger},
		}
	}
	return d
}

// ServeHTTP implements http.Handler. It waits for an asynchronous completion to
// finish and turns unrecovered failures into an error response when nothing was
// written yet.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ww := newResponseWriter(w)

	mgr, ok := async.FromRequest(r)
	if !ok {
		mgr = async.NewManager()
		r = r.WithContext(async.WithManager(r.Context(), mgr))
	}

	err := d.Dispatch(ww, r)
	// Handoff always completes, so this never outlives the async timeout.
	if asyncErr := mgr.Wait(context.Background()); asyncErr != nil && err == nil {
		err = asyncErr
	}
	if err == nil {
		return
	}

	d.logger.ErrorContext(r.Context(), "unrecovered dispatch failure",
		logger.Method(r.Method),
		logger.Path(r.URL.Path),
		logger.Error(err),
	)
	if ww.Written() {
		return
	}
	d.errorHandler(ww, r, err)
}

// Dispatch processes a single request. It returns nil when the request was
// handled, including not-found and recovered failures. Otherwise it returns the
// unrecovered failure after after-completion hooks have seen it, or
// adapter.ErrNoAdapter when no adapter supports the resolved handler.
//
// Dispatch installs an async.Manager when the request has none. Callers that
// need to wait for an asynchronous completion install their own and wait on it.
func (d *Dispatcher) Dispatch(w http.ResponseWriter, r *http.Request) (err error) {
	st := d.begin(w, r)
	defer func() {
		err = suppress(err, st.finalize())
	}()
	defer func() {
		if v := recover(); v != nil {
			err = st.fail(handler.NewProcessingError("dispatch failed", v))
		}
	}()

	return st.run()
}

// state is the per-dispatch bookkeeping. Nothing in it outlives the request.
type state struct {
	d     *Dispatcher
	w     *responseWriter
	r     *http.Request
	part  *multipart.Part
	chain *handler.ExecutionChain
	exec  *handler.Execution
	mgr   *async.Manager
	async bool
}

func (d *Dispatcher) begin(w http.ResponseWriter, r *http.Request) *state {
	ctx := handler.WithAttributes(r.Context())
	mgr, ok := async.FromContext(ctx)
	if !ok {
		mgr = async.NewManager()
		ctx = async.WithManager(ctx, mgr)
	}
	return &state{
		d:   d,
		w:   newResponseWriter(w),
		r:   r.WithContext(ctx),
		mgr: mgr,
	}
}

func (st *state) run() error {
	d := st.d

	part, err := multipart.Wrap(d.multipart, st.r)
	st.part = part
	st.r = part.Request()
	if err != nil {
		return st.processResult(nil, err)
	}

	chain, err := d.resolver.Resolve(st.r)
	if err != nil {
		return st.processResult(nil, err)
	}
	if chain == nil {
		d.logger.DebugContext(st.r.Context(), "no handler found",
			logger.Method(st.r.Method),
			logger.Path(st.r.URL.Path),
		)
		d.notFound.ServeHTTP(st.w, st.r)
		return nil
	}
	st.chain = chain
	st.exec = chain.Start()
	if params := chain.Params(); len(params) > 0 {
		handler.SetParams(st.r, params)
	}

	h := chain.Handler()
	ha, err := d.adapters.For(h)
	if err != nil {
		return err
	}

	if m := st.r.Method; m == http.MethodGet || m == http.MethodHead {
		res := conditional.Check(st.w, st.r, ha.LastModified(st.r, h))
		if res.NotModified {
			if m == http.MethodGet {
				st.w.WriteHeader(res.Status)
				return nil
			}
			// HEAD still runs the handler for its header side effects.
			st.w.pin(res.Status)
		}
	}

	outcome, proceed, err := st.handle(ha, h)
	if !proceed {
		if st.async {
			return nil
		}
		return st.afterCompletion(nil)
	}
	return st.processResult(outcome, err)
}

// handle runs pre-handle, the handler and post-handle. proceed is false when an
// interceptor short-circuited or the handler deferred completion.
func (st *state) handle(ha adapter.Adapter, h handler.Handler) (outcome *handler.Outcome, proceed bool, err error) {
	defer func() {
		if v := recover(); v != nil {
			outcome, proceed, err = nil, true, handler.NewProcessingError("handler dispatch failed", v)
		}
	}()

	ok, err := st.exec.ApplyPreHandle(st.w, st.r)
	if err != nil {
		return nil, true, err
	}
	if !ok {
		return nil, false, nil
	}

	outcome, err = ha.Handle(st.w, st.r, h)
	st.exec.MarkInvoked()
	if err != nil {
		return nil, true, err
	}

	if st.mgr.IsConcurrentHandlingStarted() {
		st.async = true
		return nil, false, nil
	}

	st.applyDefaultViewName(outcome)
	if err := st.exec.ApplyPostHandle(st.w, st.r, outcome); err != nil {
		return nil, true, err
	}
	return outcome, true, nil
}

// processResult resolves a failure through the exception resolvers or renders
// the outcome, then runs after-completion.
func (st *state) processResult(outcome *handler.Outcome, err error) error {
	if err != nil {
		var h handler.Handler
		if st.chain != nil {
			h = st.chain.Handler()
		}
		resolved, ok := st.d.exceptions.ResolveError(st.w, st.r, h, err)
		if !ok {
			return st.fail(err)
		}
		st.d.logger.DebugContext(st.r.Context(), "failure resolved",
			logger.Handler(h),
			logger.Error(err),
		)
		outcome = resolved
		st.applyDefaultViewName(outcome)
	}

	if !outcome.IsEmpty() {
		if rerr := st.d.renderer.Render(st.w, st.r, outcome); rerr != nil {
			return st.fail(rerr)
		}
	}
	return st.afterCompletion(nil)
}

// fail runs after-completion with the cause visible and returns the cause.
func (st *state) fail(cause error) error {
	return st.afterCompletion(cause)
}

// afterCompletion triggers the hooks once. Hook failures are logged and
// attached to a cause, never replacing it.
func (st *state) afterCompletion(cause error) error {
	if st.exec == nil {
		return cause
	}
	hookErr := st.exec.TriggerAfterCompletion(st.w, st.r, cause)
	if hookErr == nil {
		return cause
	}

	st.d.logger.WarnContext(st.r.Context(), "after-completion failed",
		logger.Handler(st.chain.Handler()),
		logger.Phase(st.exec.Phase()),
		logger.Error(hookErr),
	)
	return suppress(cause, hookErr)
}

// finalize runs exactly once per dispatch. On the async path it hands
// ownership of the request, including multipart cleanup, to the completion.
// Its failures, panics included, are logged and returned for the caller to
// attach to the dispatch result.
func (st *state) finalize() error {
	if st.async {
		return st.handoff()
	}

	if st.w.override != 0 && !st.w.Written() {
		st.w.WriteHeader(st.w.override)
	}
	return st.release()
}

func (st *state) handoff() (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = handler.NewProcessingError("async handoff panicked", v)
			st.d.logger.ErrorContext(st.r.Context(), "async handoff failed", logger.Error(err))
			err = errors.Join(err, st.release())
		}
	}()

	if err := st.exec.ApplyAfterConcurrentHandlingStarted(st.w, st.r); err != nil {
		st.d.logger.WarnContext(st.r.Context(), "async-started hook failed",
			logger.Handler(st.chain.Handler()),
			logger.Phase(st.exec.Phase()),
			logger.Error(err),
		)
	}
	if err := st.mgr.Handoff(st.r.Context(), st.d.asyncTimeout, st.complete); err != nil {
		st.d.logger.ErrorContext(st.r.Context(), "async handoff failed", logger.Error(err))
		return errors.Join(err, st.release())
	}
	return nil
}

// complete finishes a deferred request on the async completion path: it runs
// post-handle, result resolution and after-completion, then releases the
// request's resources.
func (st *state) complete(ctx context.Context, outcome *handler.Outcome, taskErr error) (err error) {
	defer func() {
		err = suppress(err, st.release())
	}()
	defer func() {
		if v := recover(); v != nil {
			err = st.fail(handler.NewProcessingError("async dispatch failed", v))
		}
	}()

	if rerr := st.exec.Resume(); rerr != nil {
		return st.fail(rerr)
	}
	if taskErr == nil {
		st.applyDefaultViewName(outcome)
		taskErr = st.exec.ApplyPostHandle(st.w, st.r, outcome)
		if taskErr != nil {
			outcome = nil
		}
	}
	return st.processResult(outcome, taskErr)
}

// release frees the multipart resources. A panicking cleanup is recovered and
// reported like a failed one.
func (st *state) release() (err error) {
	if st.part == nil {
		return nil
	}
	defer func() {
		if v := recover(); v != nil {
			err = handler.NewProcessingError("multipart cleanup panicked", v)
		}
		if err != nil {
			st.d.logger.WarnContext(st.r.Context(), "multipart cleanup failed", logger.Error(err))
		}
	}()
	return st.part.Release()
}

// suppress attaches a secondary failure to cause without replacing it. With no
// cause the failure has already been logged and is dropped.
func suppress(cause, secondary error) error {
	if cause == nil || secondary == nil {
		return cause
	}
	if e, ok := cause.(*Error); ok {
		return &Error{Err: e.Err, Suppressed: errors.Join(e.Suppressed, secondary)}
	}
	return &Error{Err: cause, Suppressed: secondary}
}

// applyDefaultViewName names outcomes that carry a model but no view.
func (st *state) applyDefaultViewName(o *handler.Outcome) {
	if o == nil || o.HasView() || len(o.Model) == 0 {
		return
	}
	o.ViewName = st.d.viewName(st.r)
}

// DefaultViewName derives a view name from the request path: leading and
// trailing slashes and the file extension are removed, so "/users/list.html"
// becomes "users/list".
func DefaultViewName(r *http.Request) string {
	p := strings.Trim(r.URL.Path, "/")
	return strings.TrimSuffix(p, path.Ext(p))
}

func notFound(w http.ResponseWriter, r *http.Request) {
	response.ErrorHandler(w, r, response.ErrNotFound.WithError(ErrNoHandler))
}
