package dispatcher

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/dispatch/core/adapter"
	"github.com/dmitrymomot/dispatch/core/exception"
	"github.com/dmitrymomot/dispatch/core/multipart"
	"github.com/dmitrymomot/dispatch/core/render"
	"github.com/dmitrymomot/dispatch/core/resolver"
)

// Config holds the env-driven dispatcher settings.
type Config struct {
	AsyncTimeout       time.Duration `env:"DISPATCH_ASYNC_TIMEOUT" envDefault:"30s"`
	MultipartMaxMemory int64         `env:"DISPATCH_MULTIPART_MAX_MEMORY" envDefault:"33554432"`
	MaxUploadSize      int64         `env:"DISPATCH_MAX_UPLOAD_SIZE" envDefault:"0"`
}

// Option configures a Dispatcher during creation.
type Option func(*Dispatcher)

// WithConfig applies env-driven settings.
func WithConfig(cfg Config) Option {
	return func(d *Dispatcher) {
		if cfg.AsyncTimeout > 0 {
			d.asyncTimeout = cfg.AsyncTimeout
		}
		d.multipart = multipart.Standard{
			MaxMemory:     cfg.MultipartMaxMemory,
			MaxUploadSize: cfg.MaxUploadSize,
		}
	}
}

// WithResolvers sets the handler resolvers, tried in order.
func WithResolvers(resolvers ...resolver.Resolver) Option {
	return func(d *Dispatcher) {
		if len(resolvers) == 1 {
			d.resolver = resolvers[0]
			return
		}
		d.resolver = resolver.Chain(resolvers)
	}
}

// WithAdapters replaces the adapter registry. Adapters are queried in order.
func WithAdapters(adapters ...adapter.Adapter) Option {
	return func(d *Dispatcher) {
		d.adapters = adapter.NewRegistry(adapters...)
	}
}

// WithExceptionResolvers replaces the exception resolver chain. Passing none
// leaves every failure unresolved.
func WithExceptionResolvers(resolvers ...exception.Resolver) Option {
	return func(d *Dispatcher) {
		d.exceptions = append(exception.Chain{}, resolvers...)
	}
}

// WithMultipart sets the multipart resolver. Nil disables multipart handling.
func WithMultipart(res multipart.Resolver) Option {
	return func(d *Dispatcher) {
		d.multipart = res
	}
}

// WithRenderer sets the renderer committing outcomes.
func WithRenderer(r render.Renderer) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.renderer = r
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithViewNameTranslator sets the function naming the view of outcomes that
// carry a model but no view.
func WithViewNameTranslator(fn func(r *http.Request) string) Option {
	return func(d *Dispatcher) {
		if fn != nil {
			d.viewName = fn
		}
	}
}

// WithNotFoundHandler sets the handler answering requests no resolver matches.
func WithNotFoundHandler(h http.Handler) Option {
	return func(d *Dispatcher) {
		if h != nil {
			d.notFound = h
		}
	}
}

// WithErrorHandler sets the function ServeHTTP uses for unrecovered failures.
func WithErrorHandler(fn func(w http.ResponseWriter, r *http.Request, err error)) Option {
	return func(d *Dispatcher) {
		if fn != nil {
			d.errorHandler = fn
		}
	}
}

// WithAsyncTimeout bounds asynchronous completions. Non-positive values fall
// back to DefaultAsyncTimeout, so a deferred request always releases its
// resources.
func WithAsyncTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		d.asyncTimeout = timeout
	}
}
