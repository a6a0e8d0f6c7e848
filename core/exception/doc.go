// Package exception turns handler failures into renderable outcomes.
//
// Resolvers are consulted in order by a Chain; the first one that claims the
// error wins. A resolver either returns an outcome for the renderer or writes the
// response itself and returns an empty outcome. An error no resolver claims is
// returned from the dispatch unchanged.
//
//	resolvers := exception.Chain{
//		exception.HandlerScoped{},
//		exception.Mapping{Rules: []exception.Rule{
//			exception.Is(sql.ErrNoRows, http.StatusNotFound, "errors/not_found"),
//		}},
//		exception.Defaults(),
//		exception.Status{},
//		exception.Processing{Logger: log},
//	}
//
// HandlerScoped gives handlers implementing handler.ErrorHandler the first say
// over their own failures. Defaults maps framework errors: malformed multipart
// bodies to 400, oversized uploads to 413 and timed out async tasks to 503.
// Processing claims recovered panics and writes a generic 500 without leaking
// the panic value.
package exception
