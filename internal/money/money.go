// Package money holds the exact-decimal arithmetic rules for prices and
// order totals. All monetary values flow through shopspring/decimal; raw
// floats never enter a calculation.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RoundCents rounds an amount to 2 decimal places, half up. Amounts in this
// domain are never negative, so decimal's half-away-from-zero rounding is
// exactly half-up here.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineTotal returns the exact (unrounded) unit price times quantity.
// Totals accumulate these exact values and are rounded once at the end,
// never per line.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// ParseAmount parses a non-negative monetary amount with at most two
// decimal places, as entered on admin forms.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, errAmountNegative
	}
	if d.Exponent() < -2 {
		return decimal.Zero, errAmountPrecision
	}
	return d, nil
}

var (
	errAmountNegative  = amountError("amount must not be negative")
	errAmountPrecision = amountError("amount must have at most two decimal places")
)

type amountError string

func (e amountError) Error() string { return string(e) }
