package main

import (
	"github.com/dmitrymomot/dispatch/core/dispatcher"
	"github.com/dmitrymomot/dispatch/core/logger"
	"github.com/dmitrymomot/dispatch/core/server"
)

// Config is the env-driven service configuration.
type Config struct {
	Logger   logger.Config
	Server   server.Config
	Dispatch dispatcher.Config

	JWTSecret        string `env:"JWT_SECRET"`
	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"dispatchd"`
}
