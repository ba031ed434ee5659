package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/fundgraph/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.WireAssistant(); err != nil {
		application.Log.Error("wire assistant failed", "error", err)
		application.Close()
		os.Exit(1)
	}
	if err := application.Run(ctx); err != nil {
		application.Log.Error("server stopped", "error", err)
		application.Close()
		os.Exit(1)
	}
}
