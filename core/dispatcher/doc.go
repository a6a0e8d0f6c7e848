// Package dispatcher routes a request through the complete dispatch pipeline:
// multipart detection, handler resolution, adapter selection, conditional GET
// handling, the interceptor protocol, result resolution and cleanup.
//
// A Dispatcher is built once and shared:
//
//	routes := resolver.NewRoutes()
//	routes.MustHandle(http.MethodGet, "/users/{id}", showUser)
//
//	d := dispatcher.New(
//		dispatcher.WithResolvers(routes),
//		dispatcher.WithLogger(log),
//	)
//	http.ListenAndServe(":8080", d)
//
// For every request exactly one of these happens: the not-found handler runs,
// a 304 or 412 is answered from conditional headers, or the handler chain runs
// and after-completion is triggered exactly once for every interceptor whose
// pre-handle passed. Handler failures are offered to the exception resolvers
// first; unclaimed failures are returned by Dispatch and written by ServeHTTP.
//
// # Asynchronous completion
//
// A handler may defer its result with async.Start. Dispatch then triggers the
// async-started hooks and returns without post-handle or after-completion; both
// run on the completion path together with multipart cleanup. ServeHTTP waits
// for that path so the response is complete before it returns.
package dispatcher
