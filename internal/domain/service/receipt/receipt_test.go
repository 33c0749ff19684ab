package receipt_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"amo_checkbox/internal/config"
	"amo_checkbox/internal/domain"
	"amo_checkbox/internal/domain/entity"
	"amo_checkbox/internal/domain/service/receipt"
	"amo_checkbox/pkg/errcodes"
)

type fakeLeadService struct {
	snapshot  entity.LeadSnapshot
	loadErr   error
	target    bool
	processed bool
	statuses  []string
}

func (f *fakeLeadService) LoadLead(_ context.Context, _ int64) (entity.LeadSnapshot, error) {
	if f.loadErr != nil {
		return entity.LeadSnapshot{}, f.loadErr
	}
	return f.snapshot, nil
}

func (f *fakeLeadService) IsTargetStatus(entity.LeadSnapshot) bool { return f.target }

func (f *fakeLeadService) IsAlreadyProcessed(entity.LeadSnapshot) bool { return f.processed }

func (f *fakeLeadService) SetCheckboxStatus(_ context.Context, _ int64, text string) {
	f.statuses = append(f.statuses, text)
}

type fakeResolver struct {
	profileID string
	found     bool
	lastTTN   string
}

func (f *fakeResolver) ResolveProfile(_ context.Context, ttn string) (string, bool) {
	f.lastTTN = ttn
	return f.profileID, f.found
}

type fakeFiscal struct {
	result      entity.ReceiptResult
	err         error
	calls       int
	lastProfile entity.FiscalProfile
	lastRequest entity.ReceiptRequest
}

func (f *fakeFiscal) CreateReceipt(
	_ context.Context, profile entity.FiscalProfile, request entity.ReceiptRequest,
) (entity.ReceiptResult, error) {
	f.calls++
	f.lastProfile = profile
	f.lastRequest = request
	if f.err != nil {
		return entity.ReceiptResult{}, f.err
	}
	return f.result, nil
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) Notify(_ context.Context, text string) {
	f.messages = append(f.messages, text)
}

func (f *fakeNotifier) NotifyProfile(_ context.Context, profileID, text string) {
	f.messages = append(f.messages, profileID+"|"+text)
}

func (f *fakeNotifier) SenderName(profileID string) string {
	if profileID == "1" {
		return "Магазин"
	}
	return profileID
}

type fixture struct {
	lead     *fakeLeadService
	resolver *fakeResolver
	fiscal   *fakeFiscal
	notifier *fakeNotifier
	service  *receipt.Service
}

func line(price string, quantity string) entity.PurchaseLine {
	return entity.PurchaseLine{
		Name:     "Товар",
		Price:    decimal.RequireFromString(price),
		Quantity: decimal.RequireFromString(quantity),
	}
}

func newFixture(t *testing.T, opts ...receipt.Option) *fixture {
	t.Helper()

	window, err := receipt.NewWindow(config.Window{
		Timezone: "Europe/Kiev",
		OpenAt:   "00:01",
		CloseAt:  "23:45",
	})
	require.NoError(t, err)

	f := &fixture{
		lead: &fakeLeadService{
			target: true,
			snapshot: entity.LeadSnapshot{
				ID:  555,
				TTN: "20450000000001",
				Purchases: []entity.PurchaseLine{
					line("100.00", "2"),
					line("50.00", "1"),
				},
			},
		},
		resolver: &fakeResolver{profileID: "1", found: true},
		fiscal:   &fakeFiscal{result: entity.ReceiptResult{ID: "rid-1", Number: "42"}},
		notifier: &fakeNotifier{},
	}

	noon := time.Date(2025, time.March, 10, 12, 0, 0, 0, window.Location())
	opts = append([]receipt.Option{receipt.WithClock(func() time.Time { return noon })}, opts...)

	f.service = receipt.NewService(
		f.lead,
		f.resolver,
		f.fiscal,
		f.notifier,
		map[string]entity.FiscalProfile{
			"1": {ID: "1", Login: "c1", Password: "p1", LicenseKey: "l1"},
		},
		window,
		config.Checkbox{SendEmail: true, PaymentType: "CASHLESS"},
		opts...,
	)

	return f
}

func TestService_HandleLeadEvent_Success(t *testing.T) {
	f := newFixture(t)

	outcome := f.service.HandleLeadEvent(context.Background(), 555)

	require.Equal(t, receipt.OutcomeSuccess, outcome.Kind)
	require.Equal(t, int64(555), outcome.LeadID)
	require.Equal(t, "1", outcome.ProfileID)
	require.Equal(t, "rid-1", outcome.ReceiptID)
	require.Equal(t, "42", outcome.ReceiptNumber)

	require.Equal(t, 1, f.fiscal.calls)
	require.Equal(t, "c1", f.fiscal.lastProfile.Login)
	require.Len(t, f.fiscal.lastRequest.Goods, 2)
	require.Equal(t, int64(25000), f.fiscal.lastRequest.TotalMinor)
	require.Zero(t, f.fiscal.lastRequest.DiscountMinor)

	require.Equal(t, []string{"OK: 42 (id: rid-1)"}, f.lead.statuses)
	require.Len(t, f.notifier.messages, 1)
	require.Contains(t, f.notifier.messages[0], "✅")
	require.Contains(t, f.notifier.messages[0], "Магазин")
}

func TestService_HandleLeadEvent_GoodsCodesKeepSourceOrder(t *testing.T) {
	f := newFixture(t)
	f.lead.snapshot.Purchases = []entity.PurchaseLine{
		line("100.00", "1"),
		line("0", "1"), // непродаваемая строка, код 2 пропадает
		line("50.00", "1"),
	}

	outcome := f.service.HandleLeadEvent(context.Background(), 555)

	require.Equal(t, receipt.OutcomeSuccess, outcome.Kind)
	require.Len(t, f.fiscal.lastRequest.Goods, 2)
	require.Equal(t, "1", f.fiscal.lastRequest.Goods[0].Code)
	require.Equal(t, "3", f.fiscal.lastRequest.Goods[1].Code)
	require.Equal(t, int64(15000), f.fiscal.lastRequest.TotalMinor)
}

func TestService_HandleLeadEvent_DiscountClampedToTotal(t *testing.T) {
	f := newFixture(t)
	f.lead.snapshot.Discount = decimal.RequireFromString("999.99")

	outcome := f.service.HandleLeadEvent(context.Background(), 555)

	require.Equal(t, receipt.OutcomeSuccess, outcome.Kind)
	require.Equal(t, int64(25000), f.fiscal.lastRequest.DiscountMinor)
}

func TestService_HandleLeadEvent_LoadError(t *testing.T) {
	f := newFixture(t)
	f.lead.loadErr = domain.WrapError(errors.New("503"), errcodes.LeadLoadFailed, "load lead failed")

	outcome := f.service.HandleLeadEvent(context.Background(), 555)

	require.Equal(t, receipt.OutcomeServerError, outcome.Kind)
	require.True(t, domain.CodeIs(outcome.Err, errcodes.LeadLoadFailed))
	// Статус не пишется: полям сделки доверять нельзя.
	require.Empty(t, f.lead.statuses)
	require.Len(t, f.notifier.messages, 1)
	require.Contains(t, f.notifier.messages[0], "ошибка загрузки сделки")
}

func TestService_HandleLeadEvent_AlreadyProcessed(t *testing.T) {
	f := newFixture(t)
	f.lead.processed = true

	outcome := f.service.HandleLeadEvent(context.Background(), 555)

	require.Equal(t, receipt.OutcomeAlreadyProcessed, outcome.Kind)
	require.Zero(t, f.fiscal.calls)
	require.Empty(t, f.lead.statuses)
	require.Empty(t, f.notifier.messages)
}

func TestService_HandleLeadEvent_SkippedByStatus(t *testing.T) {
	f := newFixture(t)
	f.lead.target = false

	outcome := f.service.HandleLeadEvent(context.Background(), 555)

	require.Equal(t, receipt.OutcomeSkippedByStatus, outcome.Kind)
	require.Zero(t, f.fiscal.calls)
	require.Empty(t, f.lead.statuses)
}

func TestService_HandleLeadEvent_NoTTN(t *testing.T) {
	f := newFixture(t)
	f.lead.snapshot.TTN = "   "

	outcome := f.service.HandleLeadEvent(context.Background(), 555)

	require.Equal(t, receipt.OutcomeClientError, outcome.Kind)
	require.True(t, domain.CodeIs(outcome.Err, errcodes.NoTrackingNumber))
	require.Equal(t, []string{"ERROR: no TTN in deal"}, f.lead.statuses)
	require.Contains(t, f.notifier.messages[0], "нет ТТН")
	require.Zero(t, f.fiscal.calls)
}

func TestService_HandleLeadEvent_ProfileNotFound(t *testing.T) {
	f := newFixture(t)
	f.resolver.found = false

	outcome := f.service.HandleLeadEvent(context.Background(), 555)

	require.Equal(t, receipt.OutcomeClientError, outcome.Kind)
	require.True(t, domain.CodeIs(outcome.Err, errcodes.ProfileNotFound))
	require.Equal(t, []string{"ERROR: TTN does not belong to known Nova Poshta accounts"}, f.lead.statuses)
	require.Contains(t, f.notifier.messages[0], "не относится ни к одному аккаунту НП")
}

func TestService_HandleLeadEvent_MaintenanceWindow(t *testing.T) {
	kiev, err := time.LoadLocation("Europe/Kiev")
	require.NoError(t, err)

	closed := time.Date(2025, time.March, 10, 23, 50, 0, 0, kiev)
	f := newFixture(t, receipt.WithClock(func() time.Time { return closed }))

	outcome := f.service.HandleLeadEvent(context.Background(), 555)

	require.Equal(t, receipt.OutcomeMaintenanceWindow, outcome.Kind)
	require.Equal(t, "1", outcome.ProfileID)
	// Мягкий отказ: ни записи статуса, ни фискального вызова, ни уведомлений.
	require.Zero(t, f.fiscal.calls)
	require.Empty(t, f.lead.statuses)
	require.Empty(t, f.notifier.messages)
}

func TestService_HandleLeadEvent_NoSellableGoods(t *testing.T) {
	f := newFixture(t)
	f.lead.snapshot.Purchases = []entity.PurchaseLine{line("0", "5")}

	outcome := f.service.HandleLeadEvent(context.Background(), 555)

	require.Equal(t, receipt.OutcomeClientError, outcome.Kind)
	require.True(t, domain.CodeIs(outcome.Err, errcodes.NoSellableGoods))
	require.Equal(t, []string{"ERROR: no goods or zero total"}, f.lead.statuses)
	require.Zero(t, f.fiscal.calls)
}

func TestService_HandleLeadEvent_FiscalError(t *testing.T) {
	f := newFixture(t)
	f.fiscal.err = domain.WrapError(errors.New("shift blocked"), errcodes.FiscalShiftError, "open shift failed")

	outcome := f.service.HandleLeadEvent(context.Background(), 555)

	require.Equal(t, receipt.OutcomeServerError, outcome.Kind)
	require.True(t, domain.CodeIs(outcome.Err, errcodes.FiscalShiftError))
	require.Equal(t, []string{"ERROR: open shift failed"}, f.lead.statuses)
	require.Contains(t, f.notifier.messages[0], "ошибка при создании чека")
}

func TestService_HandleLeadEvent_EmptyReceiptIdentifiers(t *testing.T) {
	f := newFixture(t)
	f.fiscal.result = entity.ReceiptResult{}

	outcome := f.service.HandleLeadEvent(context.Background(), 555)

	require.Equal(t, receipt.OutcomeSuccess, outcome.Kind)
	require.Equal(t, []string{"OK: — (id: —)"}, f.lead.statuses)
}

func TestService_HandleLeadEvent_EmailForwarded(t *testing.T) {
	f := newFixture(t)
	f.lead.snapshot.Email = "buyer@example.com"

	outcome := f.service.HandleLeadEvent(context.Background(), 555)
	require.Equal(t, receipt.OutcomeSuccess, outcome.Kind)
	require.Equal(t, "buyer@example.com", f.fiscal.lastRequest.Email)
}
