package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/hacksphere/internal/testevents"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := testevents.NewCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "simulation failed:", err)
		stop()
		os.Exit(1)
	}
}
