package services

import "github.com/shopspring/decimal"

// AmountPlaces is the number of decimal places the ledger stores.
const AmountPlaces = 2

// ValidAmount reports whether a is non-negative and representable in the
// ledger without rounding.
func ValidAmount(a decimal.Decimal) bool {
	return !a.IsNegative() && a.Equal(a.Round(AmountPlaces))
}

// ValidPositiveAmount is ValidAmount for amounts that must be above zero.
func ValidPositiveAmount(a decimal.Decimal) bool {
	return a.IsPositive() && ValidAmount(a)
}
