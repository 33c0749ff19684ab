package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"amo_checkbox/internal/domain/money"
)

func TestParseAmount(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name  string
		raw   string
		value string
	}{
		{name: "Dot separator", raw: "10.50", value: "10.5"},
		{name: "Comma separator", raw: "10,50", value: "10.5"},
		{name: "Integer", raw: "200", value: "200"},
		{name: "Spaces around", raw: " 7.25 ", value: "7.25"},
		{name: "Empty", raw: "", value: "0"},
		{name: "Garbage", raw: "десять", value: "0"},
		{name: "Negative", raw: "-3.5", value: "-3.5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.Equal(tc.value, money.ParseAmount(tc.raw).String())
		})
	}
}

func TestToMinorUnits(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name   string
		amount string
		minor  int64
	}{
		{name: "Whole", amount: "100", minor: 10000},
		{name: "Two decimals", amount: "10.50", minor: 1050},
		{name: "Rounded up", amount: "10.506", minor: 1051},
		{name: "Rounded down", amount: "10.504", minor: 1050},
		{name: "Zero", amount: "0", minor: 0},
		{name: "Negative clamps to zero", amount: "-5.25", minor: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.Equal(tc.minor, money.ToMinorUnits(decimal.RequireFromString(tc.amount)))
		})
	}

	// Для значений с не более чем двумя знаками minor == round(x*100).
	rq.Equal(int64(1), money.ToMinorUnits(decimal.RequireFromString("0.01")))
	rq.Equal(int64(99999), money.ToMinorUnits(decimal.RequireFromString("999.99")))
}

func TestQuantityMillis(t *testing.T) {
	rq := require.New(t)

	rq.Equal(int64(1000), money.QuantityMillis(decimal.NewFromInt(1)))
	rq.Equal(int64(1500), money.QuantityMillis(decimal.RequireFromString("1.5")))
	// Четвёртый знак отбрасывается, не округляется.
	rq.Equal(int64(1000), money.QuantityMillis(decimal.RequireFromString("1.0009")))
}

func TestLineTotalMinor(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name       string
		priceMinor int64
		quantity   string
		total      int64
	}{
		// 1.5 шт по 10.50: порядок масштабирование-усечение-умножение-деление.
		{name: "Fractional quantity", priceMinor: 1050, quantity: "1.5", total: 1575},
		{name: "Whole quantity", priceMinor: 10000, quantity: "2", total: 20000},
		{name: "Zero quantity", priceMinor: 1050, quantity: "0", total: 0},
		{name: "Negative quantity", priceMinor: 1050, quantity: "-1", total: 0},
		{name: "Sub-kopeck tail floors", priceMinor: 333, quantity: "0.333", total: 110},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.Equal(tc.total, money.LineTotalMinor(tc.priceMinor, decimal.RequireFromString(tc.quantity)))
		})
	}
}
