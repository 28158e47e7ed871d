// Package pricing holds the order arithmetic. Amounts are integers in the
// smallest currency unit and weights are grams.
package pricing

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	lightWeightLimit  = 500
	mediumWeightLimit = 2000

	LightShipping  int64 = 500
	MediumShipping int64 = 1000
	HeavyShipping  int64 = 2500

	// MaxAmount bounds subtotals and total weights so that subtotal + tax +
	// shipping stays within int64 for every rate in the table.
	MaxAmount int64 = math.MaxInt64 / 2
)

var taxRates = map[string]decimal.Decimal{
	"QC": decimal.RequireFromString("0.15"),
	"ON": decimal.RequireFromString("0.13"),
	"AB": decimal.RequireFromString("0.05"),
	"BC": decimal.RequireFromString("0.12"),
	"NS": decimal.RequireFromString("0.14"),
}

func normalizeProvince(province string) string {
	return strings.ToUpper(strings.TrimSpace(province))
}

// CheckedTotal multiplies a unit price (or unit weight) by a quantity. It
// reports false when the result would be negative or exceed MaxAmount.
func CheckedTotal(unit, qty int64) (int64, bool) {
	if unit < 0 || qty < 0 {
		return 0, false
	}
	if unit != 0 && qty > MaxAmount/unit {
		return 0, false
	}
	return unit * qty, true
}

func Shipping(totalWeight int64) int64 {
	switch {
	case totalWeight < lightWeightLimit:
		return LightShipping
	case totalWeight < mediumWeightLimit:
		return MediumShipping
	default:
		return HeavyShipping
	}
}

// Rate returns the provincial rate, zero for provinces outside the table.
func Rate(province string) decimal.Decimal {
	if r, ok := taxRates[normalizeProvince(province)]; ok {
		return r
	}
	return decimal.Zero
}

func KnownProvince(province string) bool {
	_, ok := taxRates[normalizeProvince(province)]
	return ok
}

// Tax is the exact tax owed on amount.
func Tax(amount int64, province string) decimal.Decimal {
	return decimal.NewFromInt(amount).Mul(Rate(province))
}

// TaxAmount is Tax rounded half away from zero to a whole unit.
func TaxAmount(amount int64, province string) int64 {
	return Tax(amount, province).Round(0).IntPart()
}

func Charge(subtotal, tax, shipping int64) int64 {
	return subtotal + tax + shipping
}
