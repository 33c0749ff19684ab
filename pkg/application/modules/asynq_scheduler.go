package modules

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"
)

type AsynqSchedulerEntry struct {
	Cronspec string
	Task     *asynq.Task
}

// AsynqScheduler модуль, ставящий периодические задачи в очередь по
// cron-расписанию в заданной таймзоне.
type AsynqScheduler struct {
	RedisUsername string
	RedisPassword string
	RedisAddress  string
	RedisDB       int
	Location      *time.Location
}

func (s AsynqScheduler) Run(
	ctx context.Context,
	g *errgroup.Group,
	entries ...AsynqSchedulerEntry,
) {
	g.Go(func() error {
		redisConnection := asynq.RedisClientOpt{
			Addr:     s.RedisAddress,
			Username: s.RedisUsername,
			Password: s.RedisPassword,
			DB:       s.RedisDB,
		}

		scheduler := asynq.NewScheduler(redisConnection, &asynq.SchedulerOpts{
			Location: s.Location,
		})

		for _, entry := range entries {
			entryID, err := scheduler.Register(entry.Cronspec, entry.Task)
			if err != nil {
				return fmt.Errorf("scheduler.Register: %w", err)
			}

			logger(ctx).Info(
				"scheduler entry registered",
				slog.String("entry-id", entryID),
				slog.String("cronspec", entry.Cronspec),
				slog.String("task", entry.Task.Type()),
			)
		}

		go func() {
			<-ctx.Done()
			scheduler.Shutdown()
		}()

		logger(ctx).Info("asynq scheduler started", slog.String("redis-address", s.RedisAddress))

		if err := scheduler.Run(); err != nil {
			return fmt.Errorf("scheduler.Run: %w", err)
		}

		logger(ctx).Info("asynq scheduler stopped")

		return nil
	})
}
