package handler

import (
	"context"
	"net/http"
	"sync"
)

type attributesKey struct{}

type paramsKey struct{}

// attributes is a request-scoped value bag. Unlike context values it can be
// written by interceptors without replacing the *http.Request, and it stays
// visible to the async completion path.
type attributes struct {
	mu     sync.RWMutex
	values map[any]any
}

// WithAttributes attaches an empty attribute bag to ctx unless one is present.
func WithAttributes(ctx context.Context) context.Context {
	if _, ok := ctx.Value(attributesKey{}).(*attributes); ok {
		return ctx
	}
	return context.WithValue(ctx, attributesKey{}, &attributes{values: make(map[any]any)})
}

func attrs(r *http.Request) *attributes {
	if r == nil {
		return nil
	}
	return attrsFrom(r.Context())
}

func attrsFrom(ctx context.Context) *attributes {
	a, _ := ctx.Value(attributesKey{}).(*attributes)
	return a
}

// SetAttribute stores a request-scoped value. It returns false when the request
// was not prepared by the dispatcher.
func SetAttribute(r *http.Request, key, val any) bool {
	a := attrs(r)
	if a == nil {
		return false
	}
	a.mu.Lock()
	a.values[key] = val
	a.mu.Unlock()
	return true
}

// Attribute returns a request-scoped value, or nil.
func Attribute(r *http.Request, key any) any {
	if r == nil {
		return nil
	}
	return AttributeFrom(r.Context(), key)
}

// AttributeFrom is Attribute for code that only holds the request context,
// such as log handlers.
func AttributeFrom(ctx context.Context, key any) any {
	a := attrsFrom(ctx)
	if a == nil {
		return nil
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.values[key]
}

// SetParams stores the path parameters extracted by the resolver.
func SetParams(r *http.Request, params map[string]string) bool {
	return SetAttribute(r, paramsKey{}, params)
}

// Param returns the value of the path parameter by key.
func Param(r *http.Request, key string) string {
	params, _ := Attribute(r, paramsKey{}).(map[string]string)
	return params[key]
}
