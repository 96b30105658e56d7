package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bdsample/internal/faults"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		stop()
		os.Exit(1)
	}
}

func formatError(err error) string {
	kind := faults.Kind(err)
	if kind == "" || kind == "unknown" {
		return fmt.Sprintf("error: %v", err)
	}
	return fmt.Sprintf("error (%s): %v", kind, err)
}
