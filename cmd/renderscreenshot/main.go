// Command renderscreenshot is a command-line client for the RenderScreenshot
// API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/renderscreenshot/client-go/internal/cli"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCommand(version)
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		cli.HandleExitError(err)
	}
}
