package ordering

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrTotalsMismatch is returned when submitted aggregate totals do not add up
var ErrTotalsMismatch = errors.New("ordering: totals mismatch")

// VerifyTotals checks the pricing invariants on submitted aggregate amounts:
//
//	tax   == round2(subtotal * taxRate)
//	total == round2(subtotal + tax)
//
// Rounding is half-up at two decimal places. The check runs before any remote
// call so a manipulated or desynchronized client can never charge a customer
// for numbers that do not add up.
func VerifyTotals(subtotal, tax, total, taxRate decimal.Decimal) error {
	if subtotal.IsNegative() || tax.IsNegative() || total.IsNegative() {
		return ErrNegativeAmount
	}
	expectedTax := subtotal.Mul(taxRate).Round(2)
	if !tax.Equal(expectedTax) {
		return fmt.Errorf("%w: tax %s, expected %s for subtotal %s at rate %s",
			ErrTotalsMismatch, tax.StringFixed(2), expectedTax.StringFixed(2),
			subtotal.StringFixed(2), taxRate.String())
	}
	expectedTotal := subtotal.Add(tax).Round(2)
	if !total.Equal(expectedTotal) {
		return fmt.Errorf("%w: total %s, expected %s",
			ErrTotalsMismatch, total.StringFixed(2), expectedTotal.StringFixed(2))
	}
	return nil
}
