// Package server runs an http.Handler, usually a dispatcher, with production
// timeouts and graceful shutdown.
//
// Create a server from env-driven configuration and run it until the context
// is canceled:
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	return srv.Run(ctx, d)()
//
// Run returns a func() error so it can be passed to errgroup.Group.Go. When the
// context is canceled the server stops accepting connections and waits up to the
// shutdown timeout for in-flight requests. Requests dispatched asynchronously
// count as in flight until their completion has written the response.
//
// TLS is enabled with WithTLS or by setting SERVER_TLS_CERT_FILE and
// SERVER_TLS_KEY_FILE; DefaultTLSConfig is used as the base configuration.
package server
