package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	// PrivacyUnit is the number of nano units in one PRV.
	PrivacyUnit int64 = 1e9
	// UnknownBalance marks a balance that has not been resolved yet.
	UnknownBalance int64 = -1
	// NativeToken is the token id of the native coin.
	NativeToken = ""

	unitExp = 9
)

var (
	// NanoUnit is the minimum transferable amount, 0.000000001 PRV.
	NanoUnit = decimal.New(1, -unitExp)

	maxNano = decimal.NewFromInt(math.MaxInt64)
)

// IsNanoAmount returns whether the amount converts to nano units exactly,
// without losing decimals or overflowing an int64.
func IsNanoAmount(amount decimal.Decimal) bool {
	nano := amount.Shift(unitExp)
	return nano.Equal(nano.Truncate(0)) && nano.LessThanOrEqual(maxNano)
}

// ToNano converts an amount of PRV into nano units. Decimals beyond the nano
// precision are truncated, callers must check IsNanoAmount first.
func ToNano(amount decimal.Decimal) int64 {
	return amount.Shift(unitExp).IntPart()
}

// FromNano converts an amount in nano units into PRV.
func FromNano(amount int64) decimal.Decimal {
	return decimal.New(amount, -unitExp)
}
