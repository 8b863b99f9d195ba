// Package server wires the postbox server together: logger, mailbox store,
// the TCP message endpoint and the optional metrics endpoint. It also handles
// graceful shutdown on SIGINT, SIGTERM and SIGQUIT.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/postbox/internal/cryptox"
	"github.com/dmitrijs2005/postbox/internal/logging"
	"github.com/dmitrijs2005/postbox/internal/server/config"
	"github.com/dmitrijs2005/postbox/internal/server/mailbox"
	"github.com/dmitrijs2005/postbox/internal/server/metrics"
	"github.com/dmitrijs2005/postbox/internal/server/tcp"
	"golang.org/x/sync/errgroup"
)

// App owns the server components for one process lifetime.
type App struct {
	config  *config.Config
	logger  logging.Logger
	store   *mailbox.Store
	tcp     *tcp.Server
	metrics *metrics.Server
}

// NewApp builds every component from c. Logs go to stdout.
func NewApp(c *config.Config) (*App, error) {
	return newApp(c, os.Stdout)
}

func newApp(c *config.Config, logOut io.Writer) (*App, error) {
	logger := logging.NewJSONLogger(logOut, c.LogLevel)

	store, err := mailbox.NewStore(cryptox.NewPasswordHasher(c.BcryptCost))
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	ts, err := tcp.NewServer(c, logger, store)
	if err != nil {
		return nil, fmt.Errorf("tcp server init error: %w", err)
	}

	app := &App{config: c, logger: logger, store: store, tcp: ts}
	if c.MetricsAddr != "" {
		app.metrics = metrics.NewServer(c.MetricsAddr, store, logger)
	}
	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled, a shutdown signal arrives, or one of the
// endpoints fails. A failure in either endpoint stops the other.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.tcp.Run(ctx)
	})

	if app.metrics != nil {
		g.Go(func() error {
			return app.metrics.Run(ctx)
		})
	}

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "App stopped with error", "error", err)
	} else {
		app.logger.Info(ctx, "App stopped")
	}
	return err
}
