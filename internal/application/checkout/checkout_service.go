package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/smokestack/backend/internal/domain/ordering"
	"github.com/smokestack/backend/internal/domain/pos"
	"github.com/smokestack/backend/internal/domain/shared/valueobject"
)

// PaymentFailedError reports a payment capture that failed after the order
// was already created on the POS. It is a distinguished partial-success
// state: the caller must be able to act on an order that exists without a
// completed payment, so the order reference is never lost in the error.
type PaymentFailedError struct {
	OrderID string
	Err     error
}

// Error implements the error interface
func (e *PaymentFailedError) Error() string {
	return fmt.Sprintf("order %s created, payment failed: %v", e.OrderID, e.Err)
}

// Unwrap returns the underlying capture error
func (e *PaymentFailedError) Unwrap() error {
	return e.Err
}

// Service composes payment authorization, order creation and ticket printing
// into one user-facing outcome. Each remote step is its own failure domain.
// Dependencies are injected so tests can substitute fakes.
type Service struct {
	store   pos.MappingStore
	client  pos.Client
	taxRate decimal.Decimal
	log     *zap.Logger
}

// NewService creates a new checkout Service
func NewService(store pos.MappingStore, client pos.Client, taxRate decimal.Decimal, log *zap.Logger) *Service {
	return &Service{
		store:   store,
		client:  client,
		taxRate: taxRate,
		log:     log,
	}
}

// SubmitOrder submits one customer order with a card payment to the POS.
//
// Pricing invariants are verified before any remote call. The order is then
// created, the payment captured against it, and a kitchen print dispatched.
// A capture failure after order creation returns *PaymentFailedError carrying
// the order reference. A print failure never unwinds the completed order and
// payment; it is reported in the outcome.
func (s *Service) SubmitOrder(ctx context.Context, sub *ordering.Submission, paymentToken string) (*ordering.PaymentOutcome, error) {
	if paymentToken == "" {
		return nil, fmt.Errorf("checkout: payment token is required")
	}
	if err := sub.Validate(); err != nil {
		return nil, fmt.Errorf("checkout: invalid submission: %w", err)
	}
	if err := ordering.VerifyTotals(sub.Subtotal, sub.Tax, sub.Total, s.taxRate); err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}

	env := s.client.Environment()

	// POS item IDs are attached for POS-side reporting when mapped. A missing
	// mapping is non-fatal: the POS accepts free-form line items, so the
	// order still goes through on locally authored names and prices.
	mapping, err := s.store.Load(ctx, env)
	if err != nil {
		s.log.Warn("mapping unavailable, submitting unmapped lines",
			zap.String("environment", env.String()),
			zap.Error(err),
		)
		mapping, err = pos.NewIDMapping(env)
		if err != nil {
			return nil, fmt.Errorf("checkout: %w", err)
		}
	}

	orderReq := s.buildOrderRequest(sub, mapping)
	ref, err := s.client.CreateOrder(ctx, orderReq)
	if err != nil {
		return nil, fmt.Errorf("checkout: creating order: %w", err)
	}
	s.log.Info("POS order created",
		zap.String("order_id", ref.ID),
		zap.String("environment", env.String()),
	)

	charge := valueobject.NewMoneyUSD(sub.Total).RoundHalfUp()
	conf, err := s.client.CapturePayment(ctx, pos.CapturePaymentRequest{
		OrderID:        ref.ID,
		Token:          paymentToken,
		AmountCents:    pos.ToCents(charge.Amount()),
		Currency:       string(charge.Currency()),
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		s.log.Error("payment capture failed after order creation",
			zap.String("order_id", ref.ID),
			zap.Error(err),
		)
		return nil, &PaymentFailedError{OrderID: ref.ID, Err: err}
	}

	outcome := &ordering.PaymentOutcome{
		OrderID: ref.ID,
		Payment: ordering.PaymentConfirmationSummary{
			PaymentID: conf.PaymentID,
			Status:    conf.Status,
			CardBrand: conf.CardBrand,
			Last4:     conf.Last4,
		},
	}

	// Least-critical step: the order and payment are already final.
	ack, err := s.client.SendPrintJob(ctx, pos.PrintJobRequest{OrderID: ref.ID, Copies: 1})
	if err != nil {
		s.log.Warn("print dispatch failed",
			zap.String("order_id", ref.ID),
			zap.Error(err),
		)
		outcome.PrintError = err.Error()
		return outcome, nil
	}
	outcome.Printed = ack.Accepted
	outcome.PrintJobID = ack.JobID
	return outcome, nil
}

// buildOrderRequest converts the decimal-currency submission into the POS
// wire shape with integral minor units.
func (s *Service) buildOrderRequest(sub *ordering.Submission, mapping *pos.IDMapping) pos.CreateOrderRequest {
	lines := make([]pos.OrderLine, 0, len(sub.Lines))
	for _, l := range sub.Lines {
		posItemID, _ := mapping.ItemID(l.MenuItemID)
		mods := make([]pos.OrderLineModifier, 0, len(l.Modifiers))
		for _, m := range l.Modifiers {
			mods = append(mods, pos.OrderLineModifier{
				Name:       m.Name,
				PriceCents: pos.ToCents(m.Price),
			})
		}
		lines = append(lines, pos.OrderLine{
			ItemPOSID:      posItemID,
			Name:           l.Name,
			UnitPriceCents: pos.ToCents(l.UnitPrice),
			Quantity:       l.Quantity,
			Modifiers:      mods,
			TotalCents:     pos.ToCents(l.LineTotal),
		})
	}
	return pos.CreateOrderRequest{
		CustomerName:  sub.CustomerName,
		CustomerEmail: sub.CustomerEmail,
		CustomerPhone: sub.CustomerPhone,
		PickupAt:      sub.PickupAt,
		Instructions:  sub.Instructions,
		Lines:         lines,
		SubtotalCents: pos.ToCents(sub.Subtotal),
		TaxCents:      pos.ToCents(sub.Tax),
		TotalCents:    pos.ToCents(sub.Total),
	}
}
