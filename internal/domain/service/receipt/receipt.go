// Package receipt оркестрирует обработку одного события вебхука: от
// снапшота сделки до фискального чека, записи статуса в сделку и
// уведомления операторов.
package receipt

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"amo_checkbox/internal/config"
	"amo_checkbox/internal/domain"
	"amo_checkbox/internal/domain/entity"
	"amo_checkbox/internal/domain/money"
	"amo_checkbox/pkg/contextx"
	"amo_checkbox/pkg/errcodes"
	"amo_checkbox/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

var webhookOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
	Name: "amo_checkbox_webhook_outcomes_total",
	Help: "Webhook processing results by terminal outcome",
}, []string{"outcome"})

type OutcomeKind string

const (
	OutcomeSuccess           OutcomeKind = "ok"
	OutcomeAlreadyProcessed  OutcomeKind = "already_processed"
	OutcomeSkippedByStatus   OutcomeKind = "skipped_by_status"
	OutcomeMaintenanceWindow OutcomeKind = "maintenance_window"
	OutcomeClientError       OutcomeKind = "client_error"
	OutcomeServerError       OutcomeKind = "server_error"
)

// Outcome терминальное состояние обработки одного события. Err заполнен
// только для client_error/server_error.
type Outcome struct {
	Kind          OutcomeKind
	LeadID        int64
	ProfileID     string
	ReceiptID     string
	ReceiptNumber string
	Err           error
}

type LeadService interface {
	LoadLead(ctx context.Context, leadID int64) (entity.LeadSnapshot, error)
	IsTargetStatus(lead entity.LeadSnapshot) bool
	IsAlreadyProcessed(lead entity.LeadSnapshot) bool
	SetCheckboxStatus(ctx context.Context, leadID int64, text string)
}

type ProfileResolver interface {
	ResolveProfile(ctx context.Context, ttn string) (string, bool)
}

type FiscalService interface {
	CreateReceipt(ctx context.Context, profile entity.FiscalProfile, receipt entity.ReceiptRequest) (entity.ReceiptResult, error)
}

type Notifier interface {
	Notify(ctx context.Context, text string)
	NotifyProfile(ctx context.Context, profileID, text string)
	SenderName(profileID string) string
}

type Service struct {
	lead     LeadService
	resolver ProfileResolver
	fiscal   FiscalService
	notifier Notifier
	profiles map[string]entity.FiscalProfile
	window   Window
	cfg      config.Checkbox
	now      func() time.Time
}

type Option func(*Service)

// WithClock подменяет источник времени для проверки окна выдачи.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(
	lead LeadService,
	resolver ProfileResolver,
	fiscal FiscalService,
	notifier Notifier,
	profiles map[string]entity.FiscalProfile,
	window Window,
	cfg config.Checkbox,
	opts ...Option,
) *Service {
	s := &Service{
		lead:     lead,
		resolver: resolver,
		fiscal:   fiscal,
		notifier: notifier,
		profiles: profiles,
		window:   window,
		cfg:      cfg,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// HandleLeadEvent обрабатывает одно событие вебхука синхронно и до конца.
// Каждый шаг завершает обработку на первом несоответствии; запись статуса
// в сделку и уведомления best-effort и не меняют итог.
func (s *Service) HandleLeadEvent(ctx context.Context, leadID int64) Outcome {
	lead, err := s.lead.LoadLead(ctx, leadID)
	if err != nil {
		// Полям сделки доверять нельзя, статус в неё не пишем.
		s.notifier.Notify(ctx, fmt.Sprintf(
			"❌ Сделка <b>%d</b>: ошибка загрузки сделки\n<code>%s</code>",
			leadID, domain.UserMessage(err),
		))

		return s.finish(ctx, Outcome{Kind: OutcomeServerError, LeadID: leadID, Err: err})
	}

	if s.lead.IsAlreadyProcessed(lead) {
		return s.finish(ctx, Outcome{Kind: OutcomeAlreadyProcessed, LeadID: leadID})
	}

	if !s.lead.IsTargetStatus(lead) {
		return s.finish(ctx, Outcome{Kind: OutcomeSkippedByStatus, LeadID: leadID})
	}

	ttn := strings.TrimSpace(lead.TTN)
	if ttn == "" {
		s.lead.SetCheckboxStatus(ctx, leadID, "ERROR: no TTN in deal")
		s.notifier.Notify(ctx, fmt.Sprintf("❌ Сделка <b>%d</b>: нет ТТН в сделке", leadID))

		return s.finish(ctx, Outcome{
			Kind:   OutcomeClientError,
			LeadID: leadID,
			Err:    domain.NewError(errcodes.NoTrackingNumber, "no TTN in deal"),
		})
	}

	profileID, ok := s.resolver.ResolveProfile(ctx, ttn)
	if !ok {
		s.lead.SetCheckboxStatus(ctx, leadID, "ERROR: TTN does not belong to known Nova Poshta accounts")
		s.notifier.Notify(ctx, fmt.Sprintf(
			"❌ Сделка <b>%d</b>: ТТН <code>%s</code> не относится ни к одному аккаунту НП",
			leadID, ttn,
		))

		return s.finish(ctx, Outcome{
			Kind:   OutcomeClientError,
			LeadID: leadID,
			Err:    domain.NewError(errcodes.ProfileNotFound, "TTN does not belong to known Nova Poshta accounts"),
		})
	}

	// Вне окна выдачи идёт обслуживание смен: это не ошибка и не финал,
	// AmoCRM пришлёт событие снова, поэтому статус не записывается.
	if !s.window.Allowed(s.now()) {
		return s.finish(ctx, Outcome{Kind: OutcomeMaintenanceWindow, LeadID: leadID, ProfileID: profileID})
	}

	goods, totalMinor := buildGoods(lead.Purchases)
	if len(goods) == 0 || totalMinor <= 0 {
		const message = "no goods or zero total"

		s.lead.SetCheckboxStatus(ctx, leadID, "ERROR: "+message)
		s.notifier.NotifyProfile(ctx, profileID, fmt.Sprintf(
			"❌ Сделка <b>%d</b>: ошибка создания чека (%s)\n<code>%s</code>",
			leadID, s.notifier.SenderName(profileID), message,
		))

		return s.finish(ctx, Outcome{
			Kind:      OutcomeClientError,
			LeadID:    leadID,
			ProfileID: profileID,
			Err:       domain.NewError(errcodes.NoSellableGoods, message),
		})
	}

	discountMinor := money.ToMinorUnits(lead.Discount)
	if discountMinor > totalMinor {
		discountMinor = totalMinor
	}

	request := entity.ReceiptRequest{
		Goods:         goods,
		TotalMinor:    totalMinor,
		DiscountMinor: discountMinor,
		PaymentType:   s.cfg.PaymentType,
	}

	if s.cfg.SendEmail {
		request.Email = lead.Email
	}

	result, err := s.submit(ctx, profileID, request)
	if err != nil {
		message := domain.UserMessage(err)

		s.lead.SetCheckboxStatus(ctx, leadID, "ERROR: "+message)
		s.notifier.NotifyProfile(ctx, profileID, fmt.Sprintf(
			"❌ Сделка <b>%d</b>: ошибка при создании чека (%s)\n<code>%s</code>",
			leadID, s.notifier.SenderName(profileID), message,
		))

		return s.finish(ctx, Outcome{Kind: OutcomeServerError, LeadID: leadID, ProfileID: profileID, Err: err})
	}

	s.lead.SetCheckboxStatus(ctx, leadID, fmt.Sprintf(
		"OK: %s (id: %s)", orDash(result.Number), orDash(result.ID),
	))
	s.notifier.NotifyProfile(ctx, profileID, fmt.Sprintf(
		"✅ Сделка <b>%d</b>: чек выдан успешно (%s)\nID: <code>%s</code>\nНомер: <code>%s</code>",
		leadID, s.notifier.SenderName(profileID), orDash(result.ID), orDash(result.Number),
	))

	return s.finish(ctx, Outcome{
		Kind:          OutcomeSuccess,
		LeadID:        leadID,
		ProfileID:     profileID,
		ReceiptID:     result.ID,
		ReceiptNumber: result.Number,
	})
}

func (s *Service) submit(ctx context.Context, profileID string, request entity.ReceiptRequest) (entity.ReceiptResult, error) {
	profile, ok := s.profiles[profileID]
	if !ok {
		return entity.ReceiptResult{}, domain.NewError(
			errcodes.FiscalAuthError,
			"no cashier profile configured for account "+profileID,
		)
	}

	return s.fiscal.CreateReceipt(ctx, profile, request)
}

func (s *Service) finish(ctx context.Context, outcome Outcome) Outcome {
	webhookOutcomes.WithLabelValues(string(outcome.Kind)).Inc()

	attrs := []any{
		slog.String("outcome", string(outcome.Kind)),
		slog.Int64(logx.FieldLeadID, outcome.LeadID),
	}

	if outcome.ProfileID != "" {
		attrs = append(attrs, slog.String(logx.FieldProfileID, outcome.ProfileID))
	}

	if outcome.Err != nil {
		attrs = append(attrs, logx.Error(outcome.Err))
		logger(ctx).Error("lead event processed", attrs...)

		return outcome
	}

	logger(ctx).Info("lead event processed", attrs...)

	return outcome
}

// buildGoods пересчитывает позиции покупки в целочисленное представление
// фискального API. Код позиции — её порядковый номер в исходном списке,
// нумерация не уплотняется после отбрасывания непродаваемых строк.
func buildGoods(purchases []entity.PurchaseLine) ([]entity.Good, int64) {
	var (
		goods      []entity.Good
		totalMinor int64
	)

	for idx, purchase := range purchases {
		priceMinor := money.ToMinorUnits(purchase.Price)
		if priceMinor <= 0 || purchase.Quantity.Sign() <= 0 {
			continue
		}

		totalMinor += money.LineTotalMinor(priceMinor, purchase.Quantity)

		goods = append(goods, entity.Good{
			Code:           strconv.Itoa(idx + 1),
			Name:           purchase.Name,
			PriceMinor:     priceMinor,
			QuantityMillis: money.QuantityMillis(purchase.Quantity),
		})
	}

	return goods, totalMinor
}

func orDash(value string) string {
	if value == "" {
		return "—"
	}

	return value
}
