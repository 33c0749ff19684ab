// Package fiscal ведёт фискальную сессию Checkbox. Состояние не живёт
// дольше одной попытки: каждый чек начинается с нового входа кассира и
// повторного открытия смены.
package fiscal

import (
	"context"
	"log/slog"
	"strings"

	"amo_checkbox/internal/domain"
	"amo_checkbox/internal/domain/entity"
	"amo_checkbox/pkg/contextx"
	"amo_checkbox/pkg/errcodes"
	"amo_checkbox/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// ShiftAlreadyOpenMarkers подстроки ответов Checkbox, означающие, что смена
// уже открыта. У провайдера нет структурного кода для этого случая, поэтому
// сверка идёт по тексту сообщения на двух языках. Хрупко к изменению
// формулировок на стороне API.
var ShiftAlreadyOpenMarkers = []string{ //nolint:gochecknoglobals
	"already",
	"вже працює",
	"зайнята іншим касиром",
}

type CheckboxClient interface {
	SignIn(ctx context.Context, login, password string) (string, error)
	OpenShift(ctx context.Context, token, licenseKey string) error
	CloseShift(ctx context.Context, token, licenseKey string) error
	CreateSellReceipt(ctx context.Context, token, licenseKey string, receipt entity.ReceiptRequest) (entity.ReceiptResult, error)
}

type Service struct {
	client CheckboxClient
}

func NewService(client CheckboxClient) *Service {
	return &Service{
		client: client,
	}
}

// CreateReceipt полная последовательность одной попытки: вход кассира,
// гарантия открытой смены, регистрация чека. Ошибка любого шага обрывает
// остальные, повторов нет.
func (s *Service) CreateReceipt(
	ctx context.Context,
	profile entity.FiscalProfile,
	receipt entity.ReceiptRequest,
) (entity.ReceiptResult, error) {
	token, err := s.signIn(ctx, profile)
	if err != nil {
		return entity.ReceiptResult{}, err
	}

	if err := s.ensureShiftOpen(ctx, token, profile); err != nil {
		return entity.ReceiptResult{}, err
	}

	result, err := s.client.CreateSellReceipt(ctx, token, profile.LicenseKey, receipt)
	if err != nil {
		return entity.ReceiptResult{}, domain.WrapError(err, errcodes.FiscalSubmitError, "receipt submit failed")
	}

	logger(ctx).Info(
		"receipt created",
		slog.String(logx.FieldProfileID, profile.ID),
		slog.String(logx.FieldReceiptID, result.ID),
		slog.String(logx.FieldReceiptNumber, result.Number),
	)

	return result, nil
}

// OpenShift входит кассиром профиля и гарантирует открытую смену.
// Используется обслуживанием смен.
func (s *Service) OpenShift(ctx context.Context, profile entity.FiscalProfile) error {
	token, err := s.signIn(ctx, profile)
	if err != nil {
		return err
	}

	return s.ensureShiftOpen(ctx, token, profile)
}

// CloseShift входит кассиром профиля и закрывает смену.
func (s *Service) CloseShift(ctx context.Context, profile entity.FiscalProfile) error {
	token, err := s.signIn(ctx, profile)
	if err != nil {
		return err
	}

	if err := s.client.CloseShift(ctx, token, profile.LicenseKey); err != nil {
		return domain.WrapError(err, errcodes.FiscalShiftError, "close shift failed")
	}

	return nil
}

func (s *Service) signIn(ctx context.Context, profile entity.FiscalProfile) (string, error) {
	token, err := s.client.SignIn(ctx, profile.Login, profile.Password)
	if err != nil {
		if domain.CodeIs(err, errcodes.FiscalAuthError) {
			return "", err
		}

		return "", domain.WrapError(err, errcodes.FiscalAuthError, "cashier signin failed")
	}

	return token, nil
}

// ensureShiftOpen открывает смену идемпотентно: ответ "уже открыта"
// считается успехом, любая другая ошибка фатальна для попытки.
func (s *Service) ensureShiftOpen(ctx context.Context, token string, profile entity.FiscalProfile) error {
	err := s.client.OpenShift(ctx, token, profile.LicenseKey)
	if err == nil {
		return nil
	}

	if IsShiftAlreadyOpen(err) {
		logger(ctx).Debug("shift already open", slog.String(logx.FieldProfileID, profile.ID))
		return nil
	}

	return domain.WrapError(err, errcodes.FiscalShiftError, "open shift failed")
}

// IsShiftAlreadyOpen распознаёт ответ "смена уже открыта" по известным
// подстрокам сообщения, без учёта регистра.
func IsShiftAlreadyOpen(err error) bool {
	message := strings.ToLower(err.Error())

	for _, marker := range ShiftAlreadyOpenMarkers {
		if strings.Contains(message, marker) {
			return true
		}
	}

	return false
}
