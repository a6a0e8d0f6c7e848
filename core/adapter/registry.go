package adapter

import (
	"slices"

	"github.com/dmitrymomot/dispatch/core/handler"
)

// Registry is an ordered list of adapters queried by capability; the first
// adapter that supports a handler wins. It is built once at startup and is
// safe for concurrent reads.
type Registry struct {
	adapters []Adapter
}

// NewRegistry creates a registry that tries adapters in the given order.
func NewRegistry(adapters ...Adapter) *Registry {
	return &Registry{adapters: slices.Clone(adapters)}
}

// Default returns a registry with the built-in adapters.
func Default() *Registry {
	return NewRegistry(Func{}, Response{}, HTTP{})
}

// For returns the first adapter supporting h, or ErrNoAdapter.
func (reg *Registry) For(h handler.Handler) (Adapter, error) {
	if h == nil {
		return nil, handler.ErrNilHandler
	}
	for _, a := range reg.adapters {
		if a.Supports(h) {
			return a, nil
		}
	}
	return nil, unsupported(h)
}

// Adapters returns the adapters in query order.
func (reg *Registry) Adapters() []Adapter {
	return slices.Clone(reg.adapters)
}
