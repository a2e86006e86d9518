// Package common holds value types shared across the book, engine, and
// facade layers: the arbitrary-precision Decimal, Side, and TradingPair.
package common

import (
	"github.com/shopspring/decimal"
)

// Decimal is the fixed-point type used for every price and quantity in the
// book. It is never binary floating point: equality and ordering are exact
// (100.0 == 100.00), as required for price-level keys and fill bookkeeping.
type Decimal = decimal.Decimal

func init() {
	// Only division (average fill price and mid price) relies on this. 16
	// places is far beyond what any reasonable tick size needs, and rounding
	// is the library's default for Div (half away from zero).
	decimal.DivisionPrecision = 16
}

// Zero is the additive identity, handy for accumulators.
var Zero = decimal.Zero

// NewDecimalFromInt builds a Decimal from a plain integer, useful in tests
// and for constants like the "2" in mid-price averaging.
func NewDecimalFromInt(i int64) Decimal {
	return decimal.NewFromInt(i)
}

// ParseDecimal parses a base-10 string into a Decimal.
func ParseDecimal(s string) (Decimal, error) {
	return decimal.NewFromString(s)
}

// Min returns the smaller of two Decimals, used on the matching hot path
// to size each fill (take = min(remaining, resting.Remaining())).
func Min(a, b Decimal) Decimal {
	return decimal.Min(a, b)
}
