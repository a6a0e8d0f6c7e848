package healthcheck

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/logger"
	"github.com/dmitrymomot/dispatch/core/response"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// Handler creates a health check handler that serves as a liveness or a
// readiness probe depending on the checks provided.
//
// Without checks it is a liveness probe and answers "ALIVE". With checks it
// runs each in order and answers "READY" when all succeed, or 503 after
// logging the first failure.
//
//	routes.Get("/health/live", healthcheck.Handler(log))
//	routes.Get("/health/ready", healthcheck.Handler(log, db.Ping))
func Handler(log *slog.Logger, checks ...Check) handler.ResponseFunc {
	return func(r *http.Request) handler.Response {
		if len(checks) == 0 {
			return response.String("ALIVE")
		}

		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
				return response.Error(response.ErrServiceUnavailable.WithError(err))
			}
		}

		return response.String("READY")
	}
}
