package adapter

import (
	"net/http"

	"github.com/dmitrymomot/dispatch/core/handler"
)

// Adapter invokes one family of handler shapes.
type Adapter interface {
	// Supports reports whether the adapter can invoke h.
	Supports(h handler.Handler) bool
	// LastModified returns the last-modified time of the resource served by h
	// in unix milliseconds; values <= 0 mean unknown.
	LastModified(r *http.Request, h handler.Handler) int64
	// Handle invokes h. A nil outcome means the response was written directly.
	Handle(w http.ResponseWriter, r *http.Request, h handler.Handler) (*handler.Outcome, error)
}

// lastModified asks h for its last-modified time when it supports it.
func lastModified(r *http.Request, h handler.Handler) int64 {
	if lm, ok := handler.Find[handler.LastModifier](h); ok {
		return lm.LastModified(r)
	}
	return -1
}

// Func invokes handler.Func values and plain functions of the same signature.
type Func struct{}

func (Func) Supports(h handler.Handler) bool {
	switch handler.Unwrap(h).(type) {
	case handler.Func, func(http.ResponseWriter, *http.Request) (*handler.Outcome, error):
		return true
	}
	return false
}

func (Func) LastModified(r *http.Request, h handler.Handler) int64 {
	return lastModified(r, h)
}

func (Func) Handle(w http.ResponseWriter, r *http.Request, h handler.Handler) (*handler.Outcome, error) {
	switch fn := handler.Unwrap(h).(type) {
	case handler.Func:
		return fn(w, r)
	case func(http.ResponseWriter, *http.Request) (*handler.Outcome, error):
		return fn(w, r)
	}
	return nil, unsupported(h)
}

// Response invokes handler.ResponseFunc values and renders the returned
// response immediately. A nil response is reported as ErrNilResponse.
type Response struct{}

func (Response) Supports(h handler.Handler) bool {
	switch handler.Unwrap(h).(type) {
	case handler.ResponseFunc, func(*http.Request) handler.Response:
		return true
	}
	return false
}

func (Response) LastModified(r *http.Request, h handler.Handler) int64 {
	return lastModified(r, h)
}

func (Response) Handle(w http.ResponseWriter, r *http.Request, h handler.Handler) (*handler.Outcome, error) {
	var resp handler.Response
	switch fn := handler.Unwrap(h).(type) {
	case handler.ResponseFunc:
		resp = fn(r)
	case func(*http.Request) handler.Response:
		resp = fn(r)
	default:
		return nil, unsupported(h)
	}

	if resp == nil {
		return nil, ErrNilResponse
	}
	return nil, resp(w, r)
}

// HTTP invokes standard library handlers. They always write the response
// themselves, so the outcome is nil.
type HTTP struct{}

func (HTTP) Supports(h handler.Handler) bool {
	_, ok := handler.Unwrap(h).(http.Handler)
	return ok
}

func (HTTP) LastModified(r *http.Request, h handler.Handler) int64 {
	return lastModified(r, h)
}

func (HTTP) Handle(w http.ResponseWriter, r *http.Request, h handler.Handler) (*handler.Outcome, error) {
	hh, ok := handler.Unwrap(h).(http.Handler)
	if !ok {
		return nil, unsupported(h)
	}
	hh.ServeHTTP(w, r)
	return nil, nil
}
