package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"amo_checkbox/internal/application"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := application.Run(ctx); err != nil {
		slog.Error("application failed", "error", err)
		os.Exit(1)
	}

	slog.Info("application stopped")
}
