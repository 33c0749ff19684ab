// Package application собирает процесс из конфигурации: клиенты внешних
// API, доменные сервисы, HTTP-сервер вебхуков и планировщик обслуживания
// смен.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"amo_checkbox/internal/config"
	"amo_checkbox/internal/domain/entity"
	"amo_checkbox/internal/domain/service/fiscal"
	"amo_checkbox/internal/domain/service/lead"
	"amo_checkbox/internal/domain/service/receipt"
	"amo_checkbox/internal/domain/service/shipment"
	"amo_checkbox/internal/infrastructure/amocrm"
	"amo_checkbox/internal/infrastructure/checkbox"
	"amo_checkbox/internal/infrastructure/notifier"
	"amo_checkbox/internal/infrastructure/novaposhta"
	"amo_checkbox/internal/server"
	"amo_checkbox/internal/worker"
	"amo_checkbox/pkg/application/connectors"
	"amo_checkbox/pkg/application/modules"
	"amo_checkbox/pkg/contextx"
	"amo_checkbox/pkg/logx"
	"amo_checkbox/pkg/lox"
	"amo_checkbox/pkg/middlewarex"
)

const (
	appName    = "amo-checkbox"
	appVersion = "1.0.0"

	httpReadHeaderTimeout = 5 * time.Second
)

func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	log := logx.NewLogger(cfg.LogLevel)
	slog.SetDefault(log)
	ctx = contextx.WithLogger(ctx, log)

	receipts, fiscalService, bot, profiles, err := buildServices(cfg)
	if err != nil {
		return err
	}

	masker := logx.NewSensitiveDataMasker()

	router := chi.NewRouter()
	router.Use(
		middlewarex.Recovery,
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.RequestLogging(masker, cfg.Server.LogFieldMaxLen),
		middlewarex.ResponseLogging(masker, cfg.Server.LogFieldMaxLen),
	)

	server.NewServer(server.NewWebhookServer(receipts, bot)).RegisterRoutes(router)

	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{ShutdownTimeout: cfg.Server.ShutdownTimeout}.Run(ctx, g, &http.Server{
		//nolint:exhaustruct
		Addr:              cfg.Server.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: httpReadHeaderTimeout,
	})

	modules.ProbeServer{
		Name:          appName,
		Version:       appVersion,
		ListenAddress: cfg.Server.ProbeAddress,
	}.Run(ctx, g)

	modules.MetricServer{ListenAddress: cfg.Server.MetricsAddress}.Run(ctx, g)

	if cfg.Redis.Enabled() {
		if err := runShiftMaintenance(ctx, g, cfg, fiscalService, profiles); err != nil {
			return err
		}
	} else {
		log.Warn("redis is not configured, shift maintenance scheduler disabled")
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}

// buildServices строит доменный граф: вебхук и обслуживание смен делят
// одни и те же клиенты и профили касс.
func buildServices(cfg config.Config) (
	*receipt.Service,
	*fiscal.Service,
	*notifier.TelegramBot,
	[]entity.FiscalProfile,
	error,
) {
	senderNames := make(map[string]string)
	for _, account := range cfg.NovaPoshta.Accounts() {
		senderNames[account.ID] = account.SenderName
	}

	bot, err := notifier.NewTelegramBot(cfg.Telegram, senderNames)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("notifier.NewTelegramBot: %w", err)
	}

	window, err := receipt.NewWindow(cfg.Window)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("receipt.NewWindow: %w", err)
	}

	profiles := lox.Map(cfg.Checkbox.Profiles(), func(p config.CashierProfile) entity.FiscalProfile {
		return entity.FiscalProfile{
			ID:         p.ID,
			Login:      p.Login,
			Password:   p.Password,
			LicenseKey: p.LicenseKey,
		}
	})

	profileByID := make(map[string]entity.FiscalProfile, len(profiles))
	for _, profile := range profiles {
		profileByID[profile.ID] = profile
	}

	leadService := lead.NewService(amocrm.NewClient(cfg.AmoCRM), cfg.AmoCRM)
	resolver := shipment.NewResolver(novaposhta.NewClient(cfg.NovaPoshta), cfg.NovaPoshta.Accounts())
	fiscalService := fiscal.NewService(checkbox.NewClient(cfg.Checkbox))

	receipts := receipt.NewService(
		leadService,
		resolver,
		fiscalService,
		bot,
		profileByID,
		window,
		cfg.Checkbox,
	)

	return receipts, fiscalService, bot, profiles, nil
}

func runShiftMaintenance(
	ctx context.Context,
	g *errgroup.Group,
	cfg config.Config,
	fiscalService *fiscal.Service,
	profiles []entity.FiscalProfile,
) error {
	// Ранний ping: без Redis планировщик бесполезен, падаем на старте.
	redisConnection := &connectors.Redis{
		Address:        cfg.Redis.Address,
		Username:       cfg.Redis.Username,
		Password:       cfg.Redis.Password,
		DatabaseNumber: cfg.Redis.DatabaseNumber,
	}
	redisConnection.Client(ctx)

	go func() {
		<-ctx.Done()
		redisConnection.Close(context.WithoutCancel(ctx))
	}()

	maintenance := worker.NewShiftMaintenance(fiscalService, profiles)

	modules.AsynqServer{
		RedisUsername: cfg.Redis.Username,
		RedisPassword: cfg.Redis.Password,
		RedisAddress:  cfg.Redis.Address,
		RedisDB:       cfg.Redis.DatabaseNumber,
	}.Run(ctx, g,
		modules.AsynqQueues{"default": 1},
		modules.AsynqHandler{Pattern: worker.TaskShiftOpen, Handle: maintenance.HandleOpenAll},
		modules.AsynqHandler{Pattern: worker.TaskShiftClose, Handle: maintenance.HandleCloseAll},
	)

	location, err := time.LoadLocation(cfg.Window.Timezone)
	if err != nil {
		return fmt.Errorf("time.LoadLocation %q: %w", cfg.Window.Timezone, err)
	}

	modules.AsynqScheduler{
		RedisUsername: cfg.Redis.Username,
		RedisPassword: cfg.Redis.Password,
		RedisAddress:  cfg.Redis.Address,
		RedisDB:       cfg.Redis.DatabaseNumber,
		Location:      location,
	}.Run(ctx, g,
		modules.AsynqSchedulerEntry{Cronspec: cfg.Shifts.OpenCron, Task: asynq.NewTask(worker.TaskShiftOpen, nil)},
		modules.AsynqSchedulerEntry{Cronspec: cfg.Shifts.CloseCron, Task: asynq.NewTask(worker.TaskShiftClose, nil)},
	)

	return nil
}
