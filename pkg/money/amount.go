package money

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	// ErrNegativeAmount is returned when a negative amount is scaled to base units
	ErrNegativeAmount = errors.New("amount must not be negative")
	// ErrExcessPrecision is returned when an amount has more fractional digits
	// than the asset supports
	ErrExcessPrecision = errors.New("amount has more fractional digits than the asset precision")
	// ErrInvalidDecimals is returned for a negative decimal precision
	ErrInvalidDecimals = errors.New("decimals must not be negative")
)

// ToBaseUnits converts a human-readable amount to integer base units.
// "1.5" with 6 decimals → 1500000. The conversion is exact: amounts that
// would need rounding are rejected with ErrExcessPrecision.
func ToBaseUnits(amount decimal.Decimal, decimals int) (*big.Int, error) {
	if decimals < 0 {
		return nil, ErrInvalidDecimals
	}
	if amount.IsNegative() {
		return nil, ErrNegativeAmount
	}

	scaled := amount.Shift(int32(decimals))
	if !scaled.IsInteger() {
		return nil, ErrExcessPrecision
	}

	return scaled.BigInt(), nil
}

// FromBaseUnits converts base units to a human-readable decimal: raw / 10^decimals.
// E.g., 150000000 with 8 decimals → 1.5
func FromBaseUnits(amount *big.Int, decimals int) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -int32(decimals))
}
