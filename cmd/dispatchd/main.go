// Command dispatchd serves the routes of a TOML manifest through the dispatcher.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/dmitrymomot/dispatch/core/config"
	"github.com/dmitrymomot/dispatch/core/logger"
	"github.com/dmitrymomot/dispatch/core/server"
	"github.com/dmitrymomot/dispatch/interceptor"
)

// CLI is the command line interface of dispatchd.
type CLI struct {
	Serve  Serve  `kong:"cmd,default='1',help='Start the HTTP server.'"`
	Routes Routes `kong:"cmd,help='List the routes declared by the manifest.'"`

	Manifest string `kong:"type='path',env='DISPATCHD_MANIFEST',help='Route manifest (TOML). The built-in manifest is used when empty.'"`
}

// Serve starts the HTTP server.
type Serve struct {
	Addr string `kong:"help='Listen address. Overrides SERVER_ADDR.'"`
}

// Run the serve command.
func (c *Serve) Run(cli *CLI, cfg *Config, log *slog.Logger) error {
	m, err := loadManifest(cli.Manifest)
	if err != nil {
		return err
	}

	d, err := newDispatcher(*cfg, m, log)
	if err != nil {
		return err
	}

	srvCfg := cfg.Server
	if c.Addr != "" {
		srvCfg.Addr = c.Addr
	}
	srv, err := server.NewFromConfig(srvCfg, server.WithLogger(log))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx, d)()
}

// Routes prints the manifest's route table.
type Routes struct{}

// Run the routes command.
func (c *Routes) Run(cli *CLI, kctx *kong.Context) error {
	m, err := loadManifest(cli.Manifest)
	if err != nil {
		return err
	}

	return renderTable(kctx.Stdout, []string{"METHOD", "PATH", "HANDLER", "INTERCEPTORS"}, routeRows(m))
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("dispatchd"),
		kong.Description("Serve manifest routes through the dispatcher."),
		kong.UsageOnError(),
	)

	var cfg Config
	if err := config.Load(&cfg); err != nil {
		kctx.FatalIfErrorf(err)
	}

	log := logger.New(append(
		logger.FromConfig(cfg.Logger),
		logger.WithContextExtractors(interceptor.RequestIDExtractor()),
	)...)
	logger.SetAsDefault(log)

	kctx.FatalIfErrorf(kctx.Run(&cli, &cfg, log))
}
