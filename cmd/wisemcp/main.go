// Package main provides the wisemcp command-line front door: it lists the tool
// catalogue, executes a single tool call and inspects the call history.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Cyclone1070/wisemcp/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(config.Load)
	if err := root.ExecuteContext(ctx); err != nil {
		var reported *toolFailure
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
