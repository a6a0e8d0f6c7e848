package interceptor

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/response"
)

// BodyLimitConfig configures the request body limit interceptor.
type BodyLimitConfig struct {
	// Skip defines a function to skip the interceptor for specific requests
	Skip func(r *http.Request) bool

	// MaxSize is the maximum allowed size in bytes (default: 4MB)
	MaxSize int64

	// ContentTypeLimit allows setting different limits per media type
	ContentTypeLimit map[string]int64

	// ErrorHandler writes the rejection of requests whose declared length
	// exceeds the limit (default: 413 through response.ErrorHandler)
	ErrorHandler func(w http.ResponseWriter, r *http.Request, contentLength, maxSize int64)
}

// BodyLimit creates a body limit interceptor with the default 4MB limit.
func BodyLimit() handler.Interceptor {
	return BodyLimitWithConfig(BodyLimitConfig{})
}

// BodyLimitWithSize creates a body limit interceptor with the given limit.
func BodyLimitWithSize(maxSize int64) handler.Interceptor {
	return BodyLimitWithConfig(BodyLimitConfig{MaxSize: maxSize})
}

// BodyLimitWithConfig rejects requests whose Content-Length exceeds the limit
// before the handler runs, and caps the body of the rest so that reads past
// the limit fail with *http.MaxBytesError. Multipart bodies are parsed before
// interceptors run and are bounded by the dispatcher's upload limit instead.
func BodyLimitWithConfig(cfg BodyLimitConfig) handler.Interceptor {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 4 << 20
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(w http.ResponseWriter, r *http.Request, contentLength, maxSize int64) {
			response.ErrorHandler(w, r, response.ErrRequestEntityTooLarge.
				WithMessage(fmt.Sprintf("request body too large: %d bytes, limit %d", contentLength, maxSize)).
				WithDetails(map[string]any{"size": contentLength, "limit": maxSize}))
		}
	}

	return handler.InterceptorFuncs{
		Pre: func(w http.ResponseWriter, r *http.Request, h handler.Handler) (bool, error) {
			if cfg.Skip != nil && cfg.Skip(r) || r.Body == nil || r.Body == http.NoBody {
				return true, nil
			}

			maxSize := cfg.MaxSize
			if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil {
				if limit, ok := cfg.ContentTypeLimit[mediaType]; ok {
					maxSize = limit
				}
			}

			if r.ContentLength > maxSize {
				cfg.ErrorHandler(w, r, r.ContentLength, maxSize)
				return false, nil
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxSize)
			return true, nil
		},
	}
}
