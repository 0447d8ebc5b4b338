package ordering

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Order Errors
// ---------------------------------------------------------------------------

var (
	ErrNoLines           = errors.New("ordering: order has no lines")
	ErrInvalidQuantity   = errors.New("ordering: line quantity must be positive")
	ErrNegativeAmount    = errors.New("ordering: amounts cannot be negative")
	ErrMissingCustomer   = errors.New("ordering: customer name is required")
	ErrLineTotalMismatch = errors.New("ordering: line total does not match unit price plus modifiers")
)

// ---------------------------------------------------------------------------
// OrderSubmission
// ---------------------------------------------------------------------------

// ChosenModifier is a modifier selected on an order line, carrying its own
// price snapshot.
type ChosenModifier struct {
	ModifierID string          `json:"modifier_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
}

// Line is one ordered menu item with its chosen modifiers. Name and price are
// snapshots resolved at submission time, not live catalog references.
type Line struct {
	MenuItemID string           `json:"menu_item_id"`
	Name       string           `json:"name"`
	UnitPrice  decimal.Decimal  `json:"unit_price"`
	Quantity   int              `json:"quantity"`
	Modifiers  []ChosenModifier `json:"modifiers,omitempty"`
	LineTotal  decimal.Decimal  `json:"line_total"`
}

// ExpectedTotal returns the line total recomputed from unit price, modifiers
// and quantity, rounded half-up to two decimal places.
func (l Line) ExpectedTotal() decimal.Decimal {
	unit := l.UnitPrice
	for _, m := range l.Modifiers {
		unit = unit.Add(m.Price)
	}
	return unit.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2)
}

// Submission is a single customer checkout. It is created transiently per
// checkout and not persisted by this subsystem.
type Submission struct {
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	CustomerPhone string          `json:"customer_phone"`
	PickupAt      time.Time       `json:"pickup_at"`
	Instructions  string          `json:"instructions"`
	Lines         []Line          `json:"lines"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
}

// Validate checks structural validity and recomputes every line total.
// Aggregate totals are checked separately by VerifyTotals, which also needs
// the configured tax rate.
func (s *Submission) Validate() error {
	if s.CustomerName == "" {
		return ErrMissingCustomer
	}
	if len(s.Lines) == 0 {
		return ErrNoLines
	}
	if s.Subtotal.IsNegative() || s.Tax.IsNegative() || s.Total.IsNegative() {
		return ErrNegativeAmount
	}
	lineSum := decimal.Zero
	for i, l := range s.Lines {
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: line %d", ErrInvalidQuantity, i)
		}
		if l.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: line %d", ErrNegativeAmount, i)
		}
		expected := l.ExpectedTotal()
		if !l.LineTotal.Equal(expected) {
			return fmt.Errorf("%w: line %d has %s, expected %s",
				ErrLineTotalMismatch, i, l.LineTotal.StringFixed(2), expected.StringFixed(2))
		}
		lineSum = lineSum.Add(l.LineTotal)
	}
	if !s.Subtotal.Equal(lineSum.Round(2)) {
		return fmt.Errorf("%w: subtotal %s does not match line sum %s",
			ErrLineTotalMismatch, s.Subtotal.StringFixed(2), lineSum.StringFixed(2))
	}
	return nil
}

// ---------------------------------------------------------------------------
// PaymentOutcome
// ---------------------------------------------------------------------------

// PaymentConfirmationSummary is the user-facing payment confirmation
type PaymentConfirmationSummary struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
	CardBrand string `json:"card_brand"`
	Last4     string `json:"last4"`
}

// PaymentOutcome aggregates the result of one order-payment submission. All
// three parts must be present for the run to be fully successful; partial
// completion is reported explicitly.
type PaymentOutcome struct {
	OrderID    string                     `json:"order_id"`
	Payment    PaymentConfirmationSummary `json:"payment"`
	Printed    bool                       `json:"printed"`
	PrintJobID string                     `json:"print_job_id,omitempty"`
	PrintError string                     `json:"print_error,omitempty"`
}
