package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/dotlink/internal/cli"
)

func main() {
	// An interrupt during a confirmation prompt declines it
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, cli.NewRootCmd())
	stop()
	os.Exit(code)
}
