package exception

import (
	"net/http"

	"github.com/dmitrymomot/dispatch/core/handler"
)

// Resolver maps a failure to an outcome. The boolean reports whether the error
// was claimed.
type Resolver interface {
	ResolveError(w http.ResponseWriter, r *http.Request, h handler.Handler, err error) (*handler.Outcome, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(w http.ResponseWriter, r *http.Request, h handler.Handler, err error) (*handler.Outcome, bool)

// ResolveError implements Resolver.
func (f ResolverFunc) ResolveError(w http.ResponseWriter, r *http.Request, h handler.Handler, err error) (*handler.Outcome, bool) {
	return f(w, r, h, err)
}

// Chain tries resolvers in order. The first claim wins.
type Chain []Resolver

// ResolveError implements Resolver.
func (c Chain) ResolveError(w http.ResponseWriter, r *http.Request, h handler.Handler, err error) (*handler.Outcome, bool) {
	for _, res := range c {
		if res == nil {
			continue
		}
		if o, ok := res.ResolveError(w, r, h, err); ok {
			return o, true
		}
	}
	return nil, false
}

// HandlerScoped delegates to the handler when it implements handler.ErrorHandler.
type HandlerScoped struct{}

// ResolveError implements Resolver.
func (HandlerScoped) ResolveError(w http.ResponseWriter, r *http.Request, h handler.Handler, err error) (*handler.Outcome, bool) {
	if h == nil {
		return nil, false
	}
	eh, ok := handler.Find[handler.ErrorHandler](h)
	if !ok {
		return nil, false
	}
	return eh.HandleError(w, r, err)
}
