// Command gitminer harvests GitHub code search results and scans them for secrets.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/gitminer/internal/adapters/driving/cli"
	"github.com/custodia-labs/gitminer/internal/app"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.Version = version
	cli.SetVersion(version)
	cli.SetBootstrap(app.Build)

	if err := cli.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
