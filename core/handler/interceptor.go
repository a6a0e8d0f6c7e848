package handler

import "net/http"

// Interceptor is a cross-cutting plugin invoked at fixed points around a
// handler invocation.
//
// PreHandle runs in registration order; returning false stops the pipeline
// (the interceptor is expected to have written the response). PostHandle runs
// in reverse order after a successful invocation and may mutate the outcome.
// AfterCompletion runs in reverse order for every interceptor whose PreHandle
// returned true, with the failure that ended the dispatch (nil if recovered).
type Interceptor interface {
	PreHandle(w http.ResponseWriter, r *http.Request, h Handler) (bool, error)
	PostHandle(w http.ResponseWriter, r *http.Request, h Handler, o *Outcome) error
	AfterCompletion(w http.ResponseWriter, r *http.Request, h Handler, err error) error
}

// AsyncInterceptor is notified instead of PostHandle and AfterCompletion when
// the handler deferred completion to a background computation.
type AsyncInterceptor interface {
	Interceptor
	AfterConcurrentHandlingStarted(w http.ResponseWriter, r *http.Request, h Handler) error
}

// InterceptorFuncs builds an interceptor from optional hook functions.
// Nil hooks are no-ops; a nil Pre always continues.
type InterceptorFuncs struct {
	Pre          func(w http.ResponseWriter, r *http.Request, h Handler) (bool, error)
	Post         func(w http.ResponseWriter, r *http.Request, h Handler, o *Outcome) error
	After        func(w http.ResponseWriter, r *http.Request, h Handler, err error) error
	AsyncStarted func(w http.ResponseWriter, r *http.Request, h Handler) error
}

var _ AsyncInterceptor = InterceptorFuncs{}

func (f InterceptorFuncs) PreHandle(w http.ResponseWriter, r *http.Request, h Handler) (bool, error) {
	if f.Pre == nil {
		return true, nil
	}
	return f.Pre(w, r, h)
}

func (f InterceptorFuncs) PostHandle(w http.ResponseWriter, r *http.Request, h Handler, o *Outcome) error {
	if f.Post == nil {
		return nil
	}
	return f.Post(w, r, h, o)
}

func (f InterceptorFuncs) AfterCompletion(w http.ResponseWriter, r *http.Request, h Handler, err error) error {
	if f.After == nil {
		return nil
	}
	return f.After(w, r, h, err)
}

func (f InterceptorFuncs) AfterConcurrentHandlingStarted(w http.ResponseWriter, r *http.Request, h Handler) error {
	if f.AsyncStarted == nil {
		return nil
	}
	return f.AsyncStarted(w, r, h)
}
