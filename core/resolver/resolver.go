package resolver

import (
	"net/http"

	"github.com/dmitrymomot/dispatch/core/handler"
)

// Resolver maps a request to an execution chain. A nil chain with a nil error
// means no handler matches.
type Resolver interface {
	Resolve(r *http.Request) (*handler.ExecutionChain, error)
}

// Func adapts a function to Resolver.
type Func func(r *http.Request) (*handler.ExecutionChain, error)

// Resolve implements Resolver.
func (f Func) Resolve(r *http.Request) (*handler.ExecutionChain, error) {
	return f(r)
}

// Chain tries resolvers in order and returns the first match. A resolver error
// stops the search.
type Chain []Resolver

// Resolve implements Resolver.
func (c Chain) Resolve(r *http.Request) (*handler.ExecutionChain, error) {
	for _, res := range c {
		if res == nil {
			continue
		}
		chain, err := res.Resolve(r)
		if err != nil {
			return nil, err
		}
		if chain != nil {
			return chain, nil
		}
	}
	return nil, nil
}

// Static always resolves to the same handler. Useful as the last resolver of a
// chain, for example to serve a catch-all page.
func Static(h handler.Handler, interceptors ...handler.Interceptor) Resolver {
	chain := handler.NewExecutionChain(h, interceptors...)
	return Func(func(*http.Request) (*handler.ExecutionChain, error) {
		return chain, nil
	})
}
