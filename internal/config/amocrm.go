package config

import "time"

type AmoCRM struct {
	BaseURL     string        `env:"AMO_BASE_URL,required"`
	AccessToken string        `env:"AMO_ACCESS_TOKEN,required" json:"-"`
	Timeout     time.Duration `env:"AMO_TIMEOUT" envDefault:"10s"`

	PurchasesCatalogID int64 `env:"AMO_PURCHASES_CATALOG_ID,required"`

	// Идентификаторы кастомных полей сделки. Нулевое значение означает,
	// что поле не настроено и связанная логика отключена.
	FieldStatus         int64 `env:"AMO_FIELD_STATUS" envDefault:"459279"`
	FieldDiscount       int64 `env:"AMO_FIELD_DISCOUNT" envDefault:"825281"`
	FieldCheckboxStatus int64 `env:"AMO_FIELD_CHECKBOX_STATUS" envDefault:"0"`
	FieldTTN            int64 `env:"AMO_FIELD_TTN" envDefault:"0"`

	PurchaseItemsFieldID int64 `env:"AMO_PURCHASE_ITEMS_FIELD_ID" envDefault:"0"`
	PurchasePriceFieldID int64 `env:"AMO_PURCHASE_PRICE_FIELD_ID" envDefault:"0"`

	StatusTarget string `env:"AMO_STATUS_TARGET" envDefault:"Контроль оплаты"`
}
