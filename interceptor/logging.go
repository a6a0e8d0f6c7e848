package interceptor

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/logger"
)

type startedAtKey struct{}

// LoggingConfig configures the request logging interceptor.
type LoggingConfig struct {
	// Skip defines a function to skip logging for specific requests
	Skip func(r *http.Request) bool

	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger

	// LogLevel for successful requests (default: slog.LevelInfo)
	LogLevel slog.Level

	// SlowRequestThreshold logs slow requests at warning level (default: 5s)
	SlowRequestThreshold time.Duration

	// Component name for structured logging (default: "http")
	Component string
}

// Logging creates a request logging interceptor with default configuration.
func Logging() handler.Interceptor {
	return LoggingWithConfig(LoggingConfig{})
}

// LoggingWithLogger creates a request logging interceptor with a custom logger.
func LoggingWithLogger(log *slog.Logger) handler.Interceptor {
	return LoggingWithConfig(LoggingConfig{Logger: log})
}

// LoggingWithConfig logs one record per completed request from its
// after-completion hook, so deferred requests are logged when their
// asynchronous completion finishes. Failures are logged at error level and
// client errors or slow requests at warning level.
func LoggingWithConfig(cfg LoggingConfig) handler.Interceptor {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.LogLevel == 0 {
		cfg.LogLevel = slog.LevelInfo
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}
	if cfg.Component == "" {
		cfg.Component = "http"
	}
	log := cfg.Logger.With(logger.Component(cfg.Component))

	skip := func(r *http.Request) bool {
		return cfg.Skip != nil && cfg.Skip(r)
	}

	return handler.InterceptorFuncs{
		Pre: func(w http.ResponseWriter, r *http.Request, h handler.Handler) (bool, error) {
			if !skip(r) {
				handler.SetAttribute(r, startedAtKey{}, time.Now())
			}
			return true, nil
		},
		AsyncStarted: func(w http.ResponseWriter, r *http.Request, h handler.Handler) error {
			if !skip(r) {
				log.DebugContext(r.Context(), "request deferred",
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.Handler(h),
				)
			}
			return nil
		},
		After: func(w http.ResponseWriter, r *http.Request, h handler.Handler, err error) error {
			if skip(r) {
				return nil
			}

			status := statusOf(w, err)
			attrs := []slog.Attr{
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.StatusCode(status),
				logger.Handler(h),
				logger.ClientIP(clientIP(r)),
				logger.UserAgent(r.UserAgent()),
			}
			if n := sizeOf(w); n >= 0 {
				attrs = append(attrs, logger.BytesOut(n))
			}

			var elapsed time.Duration
			if start, ok := handler.Attribute(r, startedAtKey{}).(time.Time); ok {
				elapsed = time.Since(start)
				attrs = append(attrs, logger.Duration(elapsed))
			}

			level := cfg.LogLevel
			switch {
			case err != nil:
				level = slog.LevelError
				attrs = append(attrs, logger.Error(err))
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest, elapsed > cfg.SlowRequestThreshold:
				level = slog.LevelWarn
			}

			log.LogAttrs(r.Context(), level, "request completed", attrs...)
			return nil
		},
	}
}
