// Package money переводит денежные и количественные значения из decimal в
// целочисленное представление фискального API: копейки и тысячные доли
// единицы товара.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// quantExp точность валютного квантования, 0.01 грн.
const quantExp = 2

var thousand = decimal.NewFromInt(1000) //nolint:gochecknoglobals

// ParseAmount разбирает денежное значение из произвольной строки,
// принимая и точку, и запятую как десятичный разделитель. Пустые и
// некорректные значения дают 0: битое поле не должно ронять весь чек.
func ParseAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return decimal.Zero
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}

	return value
}

// ToMinorUnits квантует сумму до копейки и возвращает её в копейках.
// Отрицательный результат обрезается до нуля.
func ToMinorUnits(amount decimal.Decimal) int64 {
	minor := amount.RoundBank(quantExp).Mul(decimal.NewFromInt(100)).IntPart()
	if minor < 0 {
		return 0
	}

	return minor
}

// QuantityMillis переводит количество в тысячные доли единицы, отбрасывая
// всё за третьим знаком. Так количество кодирует сам фискальный API.
func QuantityMillis(quantity decimal.Decimal) int64 {
	return quantity.Mul(thousand).IntPart()
}

// LineTotalMinor считает сумму строки чека в копейках. Порядок операций
// фиксирован: масштабирование количества, усечение, умножение на цену,
// целочисленное деление. Перестановка меняет округление дробных количеств
// на уровне копейки и разойдётся с расчётом на стороне Checkbox.
func LineTotalMinor(priceMinor int64, quantity decimal.Decimal) int64 {
	if quantity.Sign() <= 0 {
		return 0
	}

	total := priceMinor * QuantityMillis(quantity) / 1000
	if total < 0 {
		return 0
	}

	return total
}
