package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/devsetup/cmd/devsetup"
)

func main() {
	// Ctrl+C cancels the context, which kills any running subprocess.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := devsetup.NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	code := devsetup.HandleError(ctx, os.Stderr, err)

	stop()
	os.Exit(code)
}
