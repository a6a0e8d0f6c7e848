package handler

import "net/http"

// Handler is an opaque unit of application logic selected to service a request.
// The dispatcher never calls a handler directly: an adapter that supports its
// concrete shape does.
type Handler any

// Response renders an HTTP response directly to the writer.
type Response func(w http.ResponseWriter, r *http.Request) error

// Func is a handler that produces an outcome for the rendering stage.
// Returning a nil outcome means the handler wrote the response itself.
type Func func(w http.ResponseWriter, r *http.Request) (*Outcome, error)

// ResponseFunc is a handler returning a Response that is rendered right away.
type ResponseFunc func(r *http.Request) Response

// LastModifier is implemented by handlers that support conditional GET and HEAD
// requests. LastModified returns unix milliseconds; values <= 0 mean unknown.
type LastModifier interface {
	LastModified(r *http.Request) int64
}

// ErrorHandler is implemented by handlers that know how to recover from their
// own failures. It is consulted by the handler-scoped exception resolver before
// any global resolver.
type ErrorHandler interface {
	HandleError(w http.ResponseWriter, r *http.Request, err error) (*Outcome, bool)
}

// Versioned decorates a handler with a last-modified source.
type Versioned struct {
	Handler  Handler
	Modified func(r *http.Request) int64
}

// LastModified implements LastModifier.
func (v Versioned) LastModified(r *http.Request) int64 {
	if v.Modified == nil {
		return -1
	}
	return v.Modified(r)
}

// Unwrap returns the decorated handler.
func (v Versioned) Unwrap() Handler {
	return v.Handler
}

// Unwrap strips decorators implementing Unwrap() Handler and returns the
// innermost handler.
func Unwrap(h Handler) Handler {
	for {
		u, ok := h.(interface{ Unwrap() Handler })
		if !ok {
			return h
		}
		h = u.Unwrap()
	}
}

// Find walks the decorator chain of h and reports the first layer
// implementing T.
func Find[T any](h Handler) (T, bool) {
	for {
		if t, ok := h.(T); ok {
			return t, true
		}
		u, ok := h.(interface{ Unwrap() Handler })
		if !ok {
			var zero T
			return zero, false
		}
		h = u.Unwrap()
	}
}
