package main

import (
	"context"
	"os"

	"github.com/q42jaap/opvault/internal/buildinfo"
	"github.com/q42jaap/opvault/internal/client/cli"
	"github.com/q42jaap/opvault/internal/client/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	app := cli.NewApp(cfg)
	app.Run(ctx)
}
