package pos

import (
	"context"
	"fmt"
	"time"
)

// ---------------------------------------------------------------------------
// Remote Errors
// ---------------------------------------------------------------------------

// RemoteError represents a failed POS call with a human-readable message.
// Transport failures and POS-side validation rejections both surface as
// RemoteError so callers can record them uniformly.
type RemoteError struct {
	// Op is the remote operation that failed (e.g. "create_item")
	Op string
	// StatusCode is the HTTP status, 0 for transport-level failures
	StatusCode int
	// Code is the POS error code, if the POS returned one
	Code string
	// Message is the human-readable error description
	Message string
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("pos %s: %s (%s)", e.Op, e.Message, e.Code)
	}
	return fmt.Sprintf("pos %s: %s", e.Op, e.Message)
}

// IsDeclined reports whether the error is a payment decline rather than an
// availability problem.
func (e *RemoteError) IsDeclined() bool {
	return e.Code == "CARD_DECLINED" || e.Code == "INVALID_TOKEN"
}

// ---------------------------------------------------------------------------
// Request/Response Value Objects
//
// All monetary amounts crossing this boundary are integral minor-currency
// units (cents). Conversion from decimal currency happens at this boundary
// only (see currency.go).
// ---------------------------------------------------------------------------

// CreateCategoryRequest creates a catalog category on the POS
type CreateCategoryRequest struct {
	Name      string
	SortOrder int
}

// CreateModifierGroupRequest creates a modifier group on the POS
type CreateModifierGroupRequest struct {
	Name          string
	Required      bool
	MinSelections int
	MaxSelections *int // nil = unbounded
}

// CreateModifierRequest creates a modifier inside an existing POS group
type CreateModifierRequest struct {
	GroupPOSID string
	Name       string
	PriceCents int64
}

// CreateItemRequest creates a menu item under an existing POS category
type CreateItemRequest struct {
	CategoryPOSID string
	Name          string
	Description   string
	PriceCents    int64
	Available     bool
}

// OrderLineModifier is a chosen modifier on an order line
type OrderLineModifier struct {
	Name       string
	PriceCents int64
}

// OrderLine is one line of an order sent to the POS. ItemPOSID may be empty:
// the POS accepts free-form line items priced by name.
type OrderLine struct {
	ItemPOSID      string
	Name           string
	UnitPriceCents int64
	Quantity       int
	Modifiers      []OrderLineModifier
	TotalCents     int64
}

// CreateOrderRequest creates a pickup order on the POS
type CreateOrderRequest struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	PickupAt      time.Time
	Instructions  string
	Lines         []OrderLine
	SubtotalCents int64
	TaxCents      int64
	TotalCents    int64
}

// OrderRef references an order created on the POS
type OrderRef struct {
	ID string
}

// CapturePaymentRequest captures a card payment against a created order
type CapturePaymentRequest struct {
	OrderID        string
	Token          string
	AmountCents    int64
	Currency       string
	IdempotencyKey string
}

// PaymentConfirmation is the POS acknowledgement of a captured payment
type PaymentConfirmation struct {
	PaymentID string
	Status    string
	CardBrand string
	Last4     string
}

// PrintJobRequest dispatches a kitchen/receipt print for a created order
type PrintJobRequest struct {
	OrderID string
	Copies  int
}

// PrintAck is the POS acknowledgement of a print dispatch. Accepted means the
// job was queued; it does not block on hardware readiness.
type PrintAck struct {
	JobID    string
	Accepted bool
}

// ---------------------------------------------------------------------------
// Client Port
// ---------------------------------------------------------------------------

// Client is the port interface for the external point-of-sale system. It is
// defined in the domain layer; the HTTP adapter lives in the infrastructure
// layer. Every method returns a remote identifier/confirmation or a
// *RemoteError-wrapped failure.
type Client interface {
	// Environment returns the POS environment this client targets
	Environment() Environment

	CreateCategory(ctx context.Context, req CreateCategoryRequest) (string, error)
	CreateModifierGroup(ctx context.Context, req CreateModifierGroupRequest) (string, error)
	CreateModifier(ctx context.Context, req CreateModifierRequest) (string, error)
	CreateItem(ctx context.Context, req CreateItemRequest) (string, error)
	AttachModifierGroup(ctx context.Context, itemPOSID, groupPOSID string) error

	CreateOrder(ctx context.Context, req CreateOrderRequest) (OrderRef, error)
	CapturePayment(ctx context.Context, req CapturePaymentRequest) (PaymentConfirmation, error)
	SendPrintJob(ctx context.Context, req PrintJobRequest) (PrintAck, error)
}
