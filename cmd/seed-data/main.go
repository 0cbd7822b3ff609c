package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayushkatiyar1508/brain-guard/internal/seeddata"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := seeddata.NewCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
