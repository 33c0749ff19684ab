package entity

import "github.com/shopspring/decimal"

// PurchaseLine одна позиция покупки, извлечённая из связанных элементов
// каталога сделки. Цена и количество хранятся в decimal до самого момента
// пересчёта в копейки.
type PurchaseLine struct {
	Name     string
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// LeadSnapshot проекция сделки AmoCRM на момент обработки вебхука.
// Собирается один раз, после этого не изменяется и нигде не сохраняется.
type LeadSnapshot struct {
	ID             int64
	StatusValue    string
	Discount       decimal.Decimal
	CheckboxStatus string
	TTN            string
	Email          string
	Purchases      []PurchaseLine
}
