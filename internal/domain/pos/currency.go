package pos

import "github.com/shopspring/decimal"

// centsPerDollar is the minor-unit conversion factor
const centsPerDollar = 100

// ToCents converts a decimal currency amount to integral minor units.
// The amount is rounded half-up to two decimal places first, so 10.005
// becomes 1001 cents. This is the single decimal->cents boundary point.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Round(2).Mul(decimal.NewFromInt(centsPerDollar)).IntPart()
}

// FromCents converts integral minor units back to a decimal currency amount
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
