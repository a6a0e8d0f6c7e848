// Package interceptor provides ready-made interceptors for the dispatcher.
//
// Interceptors run around the handler selected for a request: pre-handle in
// registration order, post-handle and after-completion in reverse. A
// pre-handle that returns false writes its own response and stops the chain,
// which is how JWT and BodyLimit reject requests.
//
//	metrics, err := interceptor.NewMetrics(prometheus.DefaultRegisterer, "app")
//	if err != nil {
//		return err
//	}
//
//	routes := resolver.NewRoutes()
//	routes.Use(
//		interceptor.RequestID(),
//		interceptor.LoggingWithLogger(log),
//		metrics.Interceptor(),
//	)
//	routes.Get("/me", showProfile, interceptor.JWT(secret))
//
// Values computed by interceptors are stored as request attributes and read
// back with GetRequestID and GetJWTClaims. RequestIDExtractor exposes the
// request ID to logger.New so every record logged with the request context
// carries it.
//
// Logging and Metrics record from after-completion, which for asynchronously
// completed requests runs on the completion path. Their numbers therefore
// cover the whole request, not just the part before the handoff.
package interceptor
