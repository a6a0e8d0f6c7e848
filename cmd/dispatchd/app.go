package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/dispatch/core/dispatcher"
	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/healthcheck"
	"github.com/dmitrymomot/dispatch/core/resolver"
	"github.com/dmitrymomot/dispatch/interceptor"
)

//go:embed routes.toml
var defaultManifest []byte

// reportDelay is how long the demo report task takes.
const reportDelay = 50 * time.Millisecond

// loadManifest reads the manifest at path, or the built-in one when path is empty.
func loadManifest(path string) (*resolver.Manifest, error) {
	if path == "" {
		return resolver.ParseManifest(defaultManifest)
	}
	return resolver.LoadManifest(path)
}

// catalog names every handler and interceptor a manifest may reference.
func catalog(cfg Config, log *slog.Logger, reg *prometheus.Registry) (resolver.Catalog, error) {
	metrics, err := interceptor.NewMetrics(reg, cfg.MetricsNamespace,
		interceptor.WithMetricsSkip(func(r *http.Request) bool { return r.URL.Path == "/metrics" }),
	)
	if err != nil {
		return resolver.Catalog{}, fmt.Errorf("register metrics: %w", err)
	}

	ics := map[string]handler.Interceptor{
		"request_id": interceptor.RequestIDWithConfig(interceptor.RequestIDConfig{UseExisting: true}),
		"logging":    interceptor.LoggingWithLogger(log),
		"metrics":    metrics.Interceptor(),
	}
	if cfg.JWTSecret != "" {
		ics["jwt"] = interceptor.JWT(cfg.JWTSecret)
	}

	return resolver.Catalog{
		Handlers: map[string]handler.Handler{
			"live":    healthcheck.Handler(log),
			"ready":   healthcheck.Handler(log, gatherable(reg)),
			"metrics": promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			"hello":   handler.Func(hello),
			"doc":     doc(time.Now()),
			"upload":  handler.Func(upload),
			"report":  report(reportDelay),
			"me":      handler.Func(me),
		},
		Interceptors: ics,
	}, nil
}

// newDispatcher builds the dispatcher serving the manifest's routes.
func newDispatcher(cfg Config, m *resolver.Manifest, log *slog.Logger) (*dispatcher.Dispatcher, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	cat, err := catalog(cfg, log, reg)
	if err != nil {
		return nil, err
	}

	routes, err := m.Build(cat)
	if err != nil {
		if errors.Is(err, resolver.ErrUnknownName) && cfg.JWTSecret == "" {
			return nil, fmt.Errorf("%w (is JWT_SECRET set?)", err)
		}
		return nil, err
	}

	return dispatcher.New(
		dispatcher.WithConfig(cfg.Dispatch),
		dispatcher.WithResolvers(routes),
		dispatcher.WithLogger(log),
	), nil
}

// gatherable reports whether the metrics registry can be scraped.
func gatherable(reg prometheus.Gatherer) healthcheck.Check {
	return func(context.Context) error {
		_, err := reg.Gather()
		return err
	}
}
