// Package resolver finds the execution chain for a request.
//
// A Resolver returns a nil chain when it has no handler for the request, so
// resolvers compose: Chain asks each one in order and the first match wins.
//
// Routes is the standard resolver. Matching is delegated to a chi mux; each
// route carries its handler and route-scoped interceptors, and interceptors
// registered with Use run before them for every route:
//
//	routes := resolver.NewRoutes()
//	routes.Use(interceptor.RequestID(), interceptor.Logging(log))
//	routes.Get("/users/{id}", showUser, interceptor.JWT(authCfg))
//
// Path parameters are attached to the chain and exposed to handlers through
// handler.Param. HEAD requests fall back to GET routes.
//
// Routes can also be declared in a TOML manifest that names handlers and
// interceptors from a Catalog:
//
//	[[route]]
//	method = "GET"
//	path = "/reports/{id}"
//	handler = "reports.show"
//	interceptors = ["auth"]
package resolver
