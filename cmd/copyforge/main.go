package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/copyforge/copyforge/internal/engine"
)

func main() {
	// Set up context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Distinct exit codes per error class, so shell callers can
		// tell a content gap from a bad request.
		os.Exit(engine.ExitCode(err))
	}
}
