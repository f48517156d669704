package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Protocol-Lattice/lattice-engineer/src"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := src.Execute(ctx)
	stop()
	os.Exit(code)
}
