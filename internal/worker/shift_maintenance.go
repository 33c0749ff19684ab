// Package worker содержит обработчики плановых задач обслуживания смен:
// утреннее открытие и вечернее закрытие на всех настроенных кассах.
package worker

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"amo_checkbox/internal/domain/entity"
	"amo_checkbox/pkg/contextx"
	"amo_checkbox/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	TaskShiftOpen  = "shift:open"
	TaskShiftClose = "shift:close"
)

type FiscalService interface {
	OpenShift(ctx context.Context, profile entity.FiscalProfile) error
	CloseShift(ctx context.Context, profile entity.FiscalProfile) error
}

type ShiftMaintenance struct {
	fiscal   FiscalService
	profiles []entity.FiscalProfile
}

func NewShiftMaintenance(fiscal FiscalService, profiles []entity.FiscalProfile) *ShiftMaintenance {
	return &ShiftMaintenance{
		fiscal:   fiscal,
		profiles: profiles,
	}
}

// OpenAll открывает смены на всех кассах. Кассы независимы: сбой одной
// логируется и не мешает остальным.
func (m *ShiftMaintenance) OpenAll(ctx context.Context) {
	logger(ctx).Info("shift open all started", slog.Int("profiles", len(m.profiles)))

	for _, profile := range m.profiles {
		if err := m.fiscal.OpenShift(ctx, profile); err != nil {
			logger(ctx).Error(
				"shift open failed",
				slog.String(logx.FieldProfileID, profile.ID),
				logx.Error(err),
			)

			continue
		}

		logger(ctx).Info("shift opened", slog.String(logx.FieldProfileID, profile.ID))
	}
}

// CloseAll закрывает смены на всех кассах, сбои по-кассово логируются.
func (m *ShiftMaintenance) CloseAll(ctx context.Context) {
	logger(ctx).Info("shift close all started", slog.Int("profiles", len(m.profiles)))

	for _, profile := range m.profiles {
		if err := m.fiscal.CloseShift(ctx, profile); err != nil {
			logger(ctx).Error(
				"shift close failed",
				slog.String(logx.FieldProfileID, profile.ID),
				logx.Error(err),
			)

			continue
		}

		logger(ctx).Info("shift closed", slog.String(logx.FieldProfileID, profile.ID))
	}
}

// HandleOpenAll обработчик asynq-задачи открытия смен. Всегда возвращает
// nil: повтор задачи бессмысленен, следующий запуск придёт по расписанию.
func (m *ShiftMaintenance) HandleOpenAll(ctx context.Context, _ *asynq.Task) error {
	m.OpenAll(ctx)
	return nil
}

// HandleCloseAll обработчик asynq-задачи закрытия смен.
func (m *ShiftMaintenance) HandleCloseAll(ctx context.Context, _ *asynq.Task) error {
	m.CloseAll(ctx)
	return nil
}
