// Package dispatch is a request dispatch engine for Go HTTP servers.
//
// A single Dispatcher takes every request through the same pipeline:
//
//  1. multipart detection and parsing (core/multipart)
//  2. handler resolution (core/resolver)
//  3. adapter selection for the handler's shape (core/adapter)
//  4. conditional GET/HEAD evaluation (core/conditional)
//  5. interceptor pre-handle, handler invocation and post-handle (core/handler)
//  6. failure resolution (core/exception) and view rendering (core/render)
//  7. after-completion hooks and resource cleanup
//
// Handlers may defer their result to a background task with async.Start; the
// dispatcher then finishes the request on the completion path (core/async).
//
// # Packages
//
//   - core/dispatcher: the orchestrator and its http.Handler
//   - core/handler: handler shapes, outcomes, interceptors and the execution chain
//   - core/resolver: route tables on chi and TOML route manifests
//   - core/adapter: invocation of handler.Func, handler.ResponseFunc and http.Handler
//   - core/exception: exception resolvers mapping failures to responses
//   - core/render: view resolution for html/template, templ and JSON
//   - core/response: response helpers and HTTP errors
//   - core/conditional, core/multipart, core/async: dispatch stages
//   - core/logger, core/config, core/server, core/healthcheck: ambient services
//   - interceptor: request ID, logging, metrics, JWT and body limit interceptors
//   - cmd/dispatchd: a demo service serving a route manifest
//
// Quick start:
//
//	routes := resolver.NewRoutes()
//	routes.Use(interceptor.RequestID(), interceptor.Logging())
//	routes.Get("/users/{id}", handler.Func(func(w http.ResponseWriter, r *http.Request) (*handler.Outcome, error) {
//		return handler.NewOutcome("users/show", map[string]any{"id": handler.Param(r, "id")}), nil
//	}))
//
//	d := dispatcher.New(dispatcher.WithResolvers(routes))
//	srv := server.New(":8080")
//	_ = srv.Run(ctx, d)()
package dispatch
