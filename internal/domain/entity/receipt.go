package entity

// FiscalProfile учётные данные одной кассы Checkbox: одно юрлицо/терминал.
type FiscalProfile struct {
	ID         string
	Login      string
	Password   string
	LicenseKey string
}

// Good позиция чека в целочисленном представлении фискального API:
// цена в копейках, количество в тысячных долях единицы.
type Good struct {
	Code           string
	Name           string
	PriceMinor     int64
	QuantityMillis int64
}

// ReceiptRequest готовый к отправке чек. Строится заново на каждую попытку
// и после сборки не изменяется.
type ReceiptRequest struct {
	Goods         []Good
	TotalMinor    int64
	DiscountMinor int64
	PaymentType   string
	Email         string
}

// ReceiptResult идентификаторы выданного фискального чека.
type ReceiptResult struct {
	ID     string
	Number string
}
