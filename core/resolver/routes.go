package resolver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/dispatch/core/handler"
)

const anyMethod = "*"

type route struct {
	handler      handler.Handler
	interceptors []handler.Interceptor
}

// Routes resolves requests by method and path pattern. Patterns use chi syntax:
// "/users/{id}", "/files/*", "/posts/{slug:[a-z-]+}".
//
// Routes is configured at startup and must not be modified while resolving.
type Routes struct {
	mux          *chi.Mux
	routes       map[string]route
	interceptors []handler.Interceptor
}

// NewRoutes returns an empty route table.
func NewRoutes() *Routes {
	return &Routes{
		mux:    chi.NewRouter(),
		routes: make(map[string]route),
	}
}

// Use appends interceptors applied to every route, before route interceptors.
func (rt *Routes) Use(interceptors ...handler.Interceptor) {
	rt.interceptors = append(rt.interceptors, interceptors...)
}

// Handle registers h for method and pattern. An empty method or "*" matches
// any method.
func (rt *Routes) Handle(method, pattern string, h handler.Handler, interceptors ...handler.Interceptor) error {
	if h == nil {
		return fmt.Errorf("%w: %s %s: %w", ErrInvalidRoute, method, pattern, handler.ErrNilHandler)
	}
	if !strings.HasPrefix(pattern, "/") {
		return fmt.Errorf("%w: pattern %q must begin with '/'", ErrInvalidRoute, pattern)
	}

	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = anyMethod
	}
	key := routeKey(method, pattern)
	if _, exists := rt.routes[key]; exists {
		return fmt.Errorf("%w: duplicate route %s %s", ErrInvalidRoute, method, pattern)
	}

	// The mux only matches; the stored route is the dispatch target.
	if err := register(rt.mux, method, pattern); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrInvalidRoute, method, pattern, err)
	}
	rt.routes[key] = route{handler: h, interceptors: interceptors}
	return nil
}

// MustHandle is Handle that panics on error.
func (rt *Routes) MustHandle(method, pattern string, h handler.Handler, interceptors ...handler.Interceptor) {
	if err := rt.Handle(method, pattern, h, interceptors...); err != nil {
		panic(err)
	}
}

// Get registers a GET route.
func (rt *Routes) Get(pattern string, h handler.Handler, interceptors ...handler.Interceptor) {
	rt.MustHandle(http.MethodGet, pattern, h, interceptors...)
}

// Post registers a POST route.
func (rt *Routes) Post(pattern string, h handler.Handler, interceptors ...handler.Interceptor) {
	rt.MustHandle(http.MethodPost, pattern, h, interceptors...)
}

// Put registers a PUT route.
func (rt *Routes) Put(pattern string, h handler.Handler, interceptors ...handler.Interceptor) {
	rt.MustHandle(http.MethodPut, pattern, h, interceptors...)
}

// Delete registers a DELETE route.
func (rt *Routes) Delete(pattern string, h handler.Handler, interceptors ...handler.Interceptor) {
	rt.MustHandle(http.MethodDelete, pattern, h, interceptors...)
}

// Resolve implements Resolver.
func (rt *Routes) Resolve(r *http.Request) (*handler.ExecutionChain, error) {
	path := r.URL.RawPath
	if path == "" {
		path = r.URL.Path
	}

	chain := rt.find(r.Method, path)
	if chain == nil && r.Method == http.MethodHead {
		chain = rt.find(http.MethodGet, path)
	}
	return chain, nil
}

func (rt *Routes) find(method, path string) *handler.ExecutionChain {
	rctx := chi.NewRouteContext()
	pattern := rt.mux.Find(rctx, method, path)
	if pattern == "" {
		return nil
	}

	rte, ok := rt.routes[routeKey(method, pattern)]
	if !ok {
		rte, ok = rt.routes[routeKey(anyMethod, pattern)]
	}
	if !ok {
		return nil
	}

	interceptors := make([]handler.Interceptor, 0, len(rt.interceptors)+len(rte.interceptors))
	interceptors = append(interceptors, rt.interceptors...)
	interceptors = append(interceptors, rte.interceptors...)

	chain := handler.NewExecutionChain(rte.handler, interceptors...)
	if n := len(rctx.URLParams.Keys); n > 0 {
		params := make(map[string]string, n)
		for i, k := range rctx.URLParams.Keys {
			params[k] = rctx.URLParams.Values[i]
		}
		chain = chain.WithParams(params)
	}
	return chain
}

func routeKey(method, pattern string) string {
	return method + " " + pattern
}

var matchOnly = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

// register adds the pattern to the mux, turning chi's registration panics into
// errors.
func register(mux *chi.Mux, method, pattern string) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%v", v)
		}
	}()
	if method == anyMethod {
		mux.Handle(pattern, matchOnly)
		return nil
	}
	mux.Method(method, pattern, matchOnly)
	return nil
}
