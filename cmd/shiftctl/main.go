package main

// Ручное обслуживание смен без планировщика:
//
//	go run cmd/shiftctl/main.go open
//	go run cmd/shiftctl/main.go close

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"amo_checkbox/internal/config"
	"amo_checkbox/internal/domain/entity"
	"amo_checkbox/internal/domain/service/fiscal"
	"amo_checkbox/internal/infrastructure/checkbox"
	"amo_checkbox/internal/worker"
	"amo_checkbox/pkg/contextx"
	"amo_checkbox/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("shiftctl failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: shiftctl open|close")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	log := logx.NewLogger(cfg.LogLevel)
	slog.SetDefault(log)
	ctx = contextx.WithLogger(ctx, log)

	var profiles []entity.FiscalProfile
	for _, p := range cfg.Checkbox.Profiles() {
		profiles = append(profiles, entity.FiscalProfile{
			ID:         p.ID,
			Login:      p.Login,
			Password:   p.Password,
			LicenseKey: p.LicenseKey,
		})
	}

	maintenance := worker.NewShiftMaintenance(
		fiscal.NewService(checkbox.NewClient(cfg.Checkbox)),
		profiles,
	)

	switch args[0] {
	case "open":
		maintenance.OpenAll(ctx)
	case "close":
		maintenance.CloseAll(ctx)
	default:
		return fmt.Errorf("unknown mode %q, want open or close", args[0])
	}

	return nil
}
