package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/postbox/internal/client/client"
	"github.com/dmitrijs2005/postbox/internal/client/config"
)

// App is the interactive client session.
type App struct {
	config *config.Config
	client client.Client
	reader *bufio.Reader
	out    io.Writer
}

// NewApp connects to the configured server, giving up after c.Timeout.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	apiClient, err := client.Dial(ctx, c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	return newApp(c, apiClient, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, apiClient client.Client, in io.Reader, out io.Writer) *App {
	return &App{config: c, client: apiClient, reader: bufio.NewReader(in), out: out}
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	fmt.Fprintf(a.out, "Connected to %s (type 'help' for commands)\n", a.config.ServerEndpointAddr)
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.client.UserName() != ""
}

func (a *App) getStatus() string {
	if name := a.client.UserName(); name != "" {
		return "(" + name + ") "
	}
	return ""
}

// requestCtx bounds a single server exchange by the configured timeout.
func (a *App) requestCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.config.Timeout)
}
