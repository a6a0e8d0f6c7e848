package interceptor

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/logger"
)

// requestIDKey is the attribute key of the request ID.
type requestIDKey struct{}

// RequestIDConfig configures the request ID interceptor.
type RequestIDConfig struct {
	// Skip defines a function to skip the interceptor for specific requests
	Skip func(r *http.Request) bool
	// Generator creates new request IDs (default: UUID v4)
	Generator func() string
	// HeaderName specifies the header name for the request ID (default: "X-Request-ID")
	HeaderName string
	// UseExisting determines whether to use an existing request ID from the incoming request
	UseExisting bool
}

// RequestID creates a request ID interceptor with default configuration.
func RequestID() handler.Interceptor {
	return RequestIDWithConfig(RequestIDConfig{})
}

// RequestIDWithConfig assigns a unique identifier to each request. The ID is
// stored as a request attribute and echoed in the response header before the
// handler runs, so it is present on every response including failures.
func RequestIDWithConfig(cfg RequestIDConfig) handler.Interceptor {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Request-ID"
	}
	if cfg.Generator == nil {
		cfg.Generator = func() string {
			return uuid.New().String()
		}
	}

	return handler.InterceptorFuncs{
		Pre: func(w http.ResponseWriter, r *http.Request, h handler.Handler) (bool, error) {
			if cfg.Skip != nil && cfg.Skip(r) {
				return true, nil
			}

			var id string
			if cfg.UseExisting {
				id = r.Header.Get(cfg.HeaderName)
			}
			if id == "" {
				id = cfg.Generator()
			}

			handler.SetAttribute(r, requestIDKey{}, id)
			w.Header().Set(cfg.HeaderName, id)
			return true, nil
		},
	}
}

// GetRequestID returns the request ID assigned by RequestID.
func GetRequestID(r *http.Request) (string, bool) {
	id, ok := handler.Attribute(r, requestIDKey{}).(string)
	return id, ok
}

// RequestIDExtractor adds the request ID to every record logged with the
// request context. Pass it to logger.WithContextExtractors.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id, ok := handler.AttributeFrom(ctx, requestIDKey{}).(string)
		if !ok {
			return slog.Attr{}, false
		}
		return logger.RequestID(id), true
	}
}
