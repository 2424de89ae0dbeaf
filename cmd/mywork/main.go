// Package main is the entry point for the mywork CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"mywork/internal/backend/googletasks"
	"mywork/internal/cli"
	"mywork/internal/commands"
	"mywork/internal/config"
	"mywork/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := func(ctx context.Context, cfg *config.Config) (service.Source, error) {
		return googletasks.New(ctx, cfg)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
