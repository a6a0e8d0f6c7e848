// Package logger builds slog loggers and provides attribute helpers shared by
// the dispatcher, interceptors and the server.
//
// Console output uses tint for text (colors only on a terminal) or the slog JSON
// handler. A rotating file sink can be added with WithFile:
//
//	log := logger.New(
//		logger.WithDevelopment("dispatchd"),
//		logger.WithFile("log/dispatchd.log", 50, 3, 7),
//	)
//
// The same settings can come from the environment through Config:
//
//	cfg := config.MustLoad[logger.Config]()
//	log := logger.New(logger.FromConfig(cfg)...)
//
// Attribute helpers return an empty slog.Attr for nil or empty input so they can
// be passed unconditionally:
//
//	log.ErrorContext(ctx, "dispatch failed",
//		logger.Method(r.Method),
//		logger.Path(r.URL.Path),
//		logger.Handler(h),
//		logger.Error(err),
//	)
//
// Context extractors add request scoped attributes to every record logged with
// a context, for example the request ID set by the request ID interceptor.
package logger
