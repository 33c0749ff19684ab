// Package lead собирает проекцию сделки AmoCRM: сканирует кастомные поля,
// подтягивает email контакта и разворачивает связанные элементы каталога
// покупок в плоский список позиций.
package lead

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"amo_checkbox/internal/config"
	"amo_checkbox/internal/domain"
	"amo_checkbox/internal/domain/entity"
	"amo_checkbox/internal/domain/money"
	"amo_checkbox/internal/infrastructure/amocrm"
	"amo_checkbox/pkg/contextx"
	"amo_checkbox/pkg/errcodes"
	"amo_checkbox/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type AmoClient interface {
	GetLead(ctx context.Context, leadID int64) (amocrm.Lead, error)
	GetContact(ctx context.Context, contactID int64) (amocrm.Contact, error)
	GetLeadLinks(ctx context.Context, leadID int64) ([]amocrm.Link, error)
	GetCatalogElement(ctx context.Context, catalogID, elementID int64) (amocrm.CatalogElement, error)
	UpdateLeadCustomField(ctx context.Context, leadID, fieldID int64, value string) error
}

type Service struct {
	amo AmoClient
	cfg config.AmoCRM
}

func NewService(amo AmoClient, cfg config.AmoCRM) *Service {
	return &Service{
		amo: amo,
		cfg: cfg,
	}
}

// LoadLead читает сделку со всеми деталями. Фатальна только ошибка чтения
// самой сделки: недоступный контакт или элемент каталога логируется и
// пропускается, снапшот собирается из остального.
func (s *Service) LoadLead(ctx context.Context, leadID int64) (entity.LeadSnapshot, error) {
	rawLead, err := s.amo.GetLead(ctx, leadID)
	if err != nil {
		return entity.LeadSnapshot{}, domain.WrapError(err, errcodes.LeadLoadFailed, "load lead failed")
	}

	snapshot := entity.LeadSnapshot{
		ID:          leadID,
		StatusValue: findFieldValue(rawLead.CustomFieldsValues, s.cfg.FieldStatus),
		TTN:         findFieldValue(rawLead.CustomFieldsValues, s.cfg.FieldTTN),
		Discount:    money.ParseAmount(findFieldValue(rawLead.CustomFieldsValues, s.cfg.FieldDiscount)),
	}

	if s.cfg.FieldCheckboxStatus != 0 {
		snapshot.CheckboxStatus = findFieldValue(rawLead.CustomFieldsValues, s.cfg.FieldCheckboxStatus)
	}

	snapshot.Email = s.resolveEmail(ctx, rawLead)
	snapshot.Purchases = s.resolvePurchases(ctx, leadID)

	logger(ctx).Info(
		"lead loaded",
		slog.Int64(logx.FieldLeadID, leadID),
		slog.String("status-value", snapshot.StatusValue),
		slog.String(logx.FieldTTN, snapshot.TTN),
		slog.String("discount", snapshot.Discount.String()),
		slog.Int("purchases", len(snapshot.Purchases)),
	)

	return snapshot, nil
}

// IsTargetStatus точное сравнение значения статуса (после обрезки пробелов)
// с целевым. Отсутствующий статус никогда не совпадает.
func (s *Service) IsTargetStatus(lead entity.LeadSnapshot) bool {
	if lead.StatusValue == "" {
		return false
	}

	return strings.TrimSpace(lead.StatusValue) == s.cfg.StatusTarget
}

// IsAlreadyProcessed сделка уже была обработана, если поле статуса
// фискализации начинается с "ok:" или "error:" в любом регистре.
func (s *Service) IsAlreadyProcessed(lead entity.LeadSnapshot) bool {
	if s.cfg.FieldCheckboxStatus == 0 {
		return false
	}

	value := strings.ToLower(lead.CheckboxStatus)

	return strings.HasPrefix(value, "ok:") || strings.HasPrefix(value, "error:")
}

// SetCheckboxStatus записывает итоговый статус в сделку. Запись best-effort:
// ошибка логируется и не возвращается, статус не должен заслонять исходный
// результат обработки.
func (s *Service) SetCheckboxStatus(ctx context.Context, leadID int64, text string) {
	if s.cfg.FieldCheckboxStatus == 0 {
		return
	}

	if err := s.amo.UpdateLeadCustomField(ctx, leadID, s.cfg.FieldCheckboxStatus, text); err != nil {
		logger(ctx).Error(
			"set checkbox status failed",
			slog.Int64(logx.FieldLeadID, leadID),
			slog.String("text", text),
			logx.Error(err),
		)
	}
}

func (s *Service) resolveEmail(ctx context.Context, rawLead amocrm.Lead) string {
	if rawLead.Embedded == nil || len(rawLead.Embedded.Contacts) == 0 {
		return ""
	}

	contactID := rawLead.Embedded.Contacts[0].ID
	if contactID == 0 {
		return ""
	}

	contact, err := s.amo.GetContact(ctx, contactID)
	if err != nil {
		logger(ctx).Error("get contact failed", slog.Int64("contact-id", contactID), logx.Error(err))
		return ""
	}

	return findFieldValueByCode(contact.CustomFieldsValues, "email")
}

func (s *Service) resolvePurchases(ctx context.Context, leadID int64) []entity.PurchaseLine {
	links, err := s.amo.GetLeadLinks(ctx, leadID)
	if err != nil {
		logger(ctx).Error("get lead links failed", slog.Int64(logx.FieldLeadID, leadID), logx.Error(err))
		return nil
	}

	elementIDs, quantities := collectElementRefs(links, s.cfg.PurchasesCatalogID)

	var purchases []entity.PurchaseLine

	for _, elementID := range elementIDs {
		element, err := s.amo.GetCatalogElement(ctx, s.cfg.PurchasesCatalogID, elementID)
		if err != nil {
			logger(ctx).Error(
				"get catalog element failed",
				slog.Int64("element-id", elementID),
				logx.Error(err),
			)

			continue
		}

		if items := s.extractItems(element); len(items) > 0 {
			purchases = append(purchases, items...)
			continue
		}

		purchases = append(purchases, s.fallbackLine(element, quantities[elementID]))
	}

	return purchases
}

// collectElementRefs отбирает ссылки на элементы каталога покупок, сохраняя
// порядок первого появления и суммируя количество повторов одного элемента.
func collectElementRefs(links []amocrm.Link, catalogID int64) ([]int64, map[int64]decimal.Decimal) {
	var order []int64

	quantities := make(map[int64]decimal.Decimal)

	for _, link := range links {
		if link.ToEntityType != amocrm.EntityTypeCatalogElements ||
			link.ToCatalogID != catalogID ||
			link.ToEntityID == 0 {
			continue
		}

		quantity := decimal.NewFromFloat(link.Quantity)
		if quantity.Sign() == 0 {
			quantity = decimal.NewFromInt(1)
		}

		if existing, ok := quantities[link.ToEntityID]; ok {
			quantities[link.ToEntityID] = existing.Add(quantity)
			continue
		}

		order = append(order, link.ToEntityID)
		quantities[link.ToEntityID] = quantity
	}

	return order, quantities
}

// extractItems разворачивает структурный блок "состав покупки" элемента.
// Позиции с неположительной ценой или количеством не являются товаром и
// выбрасываются целиком.
func (s *Service) extractItems(element amocrm.CatalogElement) []entity.PurchaseLine {
	if s.cfg.PurchaseItemsFieldID == 0 {
		return nil
	}

	block, ok := findFieldBlock(element.CustomFieldsValues, s.cfg.PurchaseItemsFieldID)
	if !ok {
		return nil
	}

	var items []entity.PurchaseLine

	for idx, value := range block.Values {
		var item amocrm.PurchaseItem
		if err := json.Unmarshal(value.Value, &item); err != nil {
			continue
		}

		name := item.Description.String()
		if name == "" {
			name = fmt.Sprintf("Товар %d", idx+1)
		}

		price := money.ParseAmount(item.UnitPrice.String())

		quantity := money.ParseAmount(item.Quantity.String())
		if item.Quantity.String() == "" {
			quantity = decimal.NewFromInt(1)
		}

		if price.Sign() <= 0 || quantity.Sign() <= 0 {
			continue
		}

		items = append(items, entity.PurchaseLine{
			Name:     name,
			Quantity: quantity,
			Price:    price,
		})
	}

	return items
}

// fallbackLine элемент без блока позиций продаётся как одна строка: цена из
// настроенного поля (по id, иначе по коду PRICE), количество из ссылки.
func (s *Service) fallbackLine(element amocrm.CatalogElement, quantity decimal.Decimal) entity.PurchaseLine {
	name := element.Name
	if name == "" {
		name = "Товар"
	}

	if quantity.Sign() == 0 {
		quantity = decimal.NewFromInt(1)
	}

	return entity.PurchaseLine{
		Name:     name,
		Quantity: quantity,
		Price:    s.extractPrice(element),
	}
}

func (s *Service) extractPrice(element amocrm.CatalogElement) decimal.Decimal {
	if s.cfg.PurchasePriceFieldID != 0 {
		if raw := findFieldValue(element.CustomFieldsValues, s.cfg.PurchasePriceFieldID); raw != "" {
			return money.ParseAmount(raw)
		}
	}

	if raw := findFieldValueByCode(element.CustomFieldsValues, "PRICE"); raw != "" {
		return money.ParseAmount(raw)
	}

	return decimal.Zero
}
