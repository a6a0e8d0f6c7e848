package exception

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/logger"
	"github.com/dmitrymomot/dispatch/core/response"
)

// Processing claims recovered panics. It logs the panic value with its stack and
// writes a generic 500 response.
type Processing struct {
	Logger *slog.Logger
	// Write defaults to response.ErrorHandler.
	Write func(w http.ResponseWriter, r *http.Request, err error)
}

// ResolveError implements Resolver.
func (p Processing) ResolveError(w http.ResponseWriter, r *http.Request, h handler.Handler, err error) (*handler.Outcome, bool) {
	pe, ok := handler.AsProcessingError(err)
	if !ok {
		return nil, false
	}

	if p.Logger != nil {
		p.Logger.ErrorContext(r.Context(), "recovered from panic",
			logger.Panic(pe.Value()),
			logger.StackTrace(pe.Stack()),
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			logger.Handler(h),
		)
	}

	write(p.Write, w, r, response.ErrInternalServerError)
	return handler.Handled(), true
}
