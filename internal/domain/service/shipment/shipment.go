// Package shipment маршрутизирует ТТН Новой Пошты на профиль кассы:
// аккаунты курьера опрашиваются по очереди, совпадение имени отправителя
// выбирает профиль.
package shipment

import (
	"context"
	"log/slog"
	"strings"

	"amo_checkbox/internal/config"
	"amo_checkbox/internal/infrastructure/novaposhta"
	"amo_checkbox/pkg/contextx"
	"amo_checkbox/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type NovaPoshtaClient interface {
	GetTrackingStatus(ctx context.Context, apiKey, ttn string) (novaposhta.StatusResponse, error)
}

type Resolver struct {
	np       NovaPoshtaClient
	accounts []config.CourierAccount
}

func NewResolver(np NovaPoshtaClient, accounts []config.CourierAccount) *Resolver {
	return &Resolver{
		np:       np,
		accounts: accounts,
	}
}

// ResolveProfile возвращает идентификатор профиля первого аккаунта, чьё
// настроенное имя отправителя совпало с отправителем ТТН. Любой сбой
// запроса по аккаунту трактуется как несовпадение, без ошибок наружу.
// Аккаунт без настроенного имени отправителя не совпадает никогда.
func (r *Resolver) ResolveProfile(ctx context.Context, ttn string) (string, bool) {
	ttn = strings.TrimSpace(ttn)
	if ttn == "" {
		return "", false
	}

	for _, account := range r.accounts {
		if account.APIKey == "" || account.SenderName == "" {
			continue
		}

		if r.matches(ctx, account, ttn) {
			return account.ID, true
		}
	}

	return "", false
}

func (r *Resolver) matches(ctx context.Context, account config.CourierAccount, ttn string) bool {
	resp, err := r.np.GetTrackingStatus(ctx, account.APIKey, ttn)
	if err != nil {
		logger(ctx).Error(
			"tracking status failed",
			slog.String("account-id", account.ID),
			slog.String(logx.FieldTTN, ttn),
			logx.Error(err),
		)

		return false
	}

	if !resp.Success || len(resp.Errors) > 0 || len(resp.Documents) == 0 {
		logger(ctx).Info(
			"ttn not found on account",
			slog.String("account-id", account.ID),
			slog.String(logx.FieldTTN, ttn),
			slog.Bool("success", resp.Success),
			slog.Int("documents", len(resp.Documents)),
		)

		return false
	}

	sender := strings.TrimSpace(resp.Documents[0].SenderDescription)

	return strings.EqualFold(sender, strings.TrimSpace(account.SenderName))
}
