// Package cli implements the interactive vault client: a small REPL over
// the server HTTP API.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/q42jaap/opvault/internal/client/api"
	"github.com/q42jaap/opvault/internal/client/config"
)

type App struct {
	config *config.Config
	client *api.Client
	reader *bufio.Reader
	out    *os.File
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		client: api.NewClient(c.ServerURL, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.client.LoggedIn()
}
