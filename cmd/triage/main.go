// Package main provides the entry point for the triage command line client.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/watchlist/triage/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
