package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/smokestack/backend/internal/application/checkout"
	"github.com/smokestack/backend/internal/domain/ordering"
	"github.com/smokestack/backend/internal/domain/pos"
	"github.com/smokestack/backend/internal/interfaces/http/dto"
)

// CheckoutHandler handles order submission with payment
type CheckoutHandler struct {
	BaseHandler
	service *checkout.Service
	log     *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(service *checkout.Service, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers checkout routes
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/checkout", h.Submit)
}

// ChosenModifierRequest is one selected modifier on an order line
type ChosenModifierRequest struct {
	ModifierID string          `json:"modifier_id"`
	Name       string          `json:"name" binding:"required"`
	Price      decimal.Decimal `json:"price"`
}

// OrderLineRequest is one ordered item with its chosen modifiers
type OrderLineRequest struct {
	MenuItemID string                  `json:"menu_item_id" binding:"required"`
	Name       string                  `json:"name" binding:"required"`
	UnitPrice  decimal.Decimal         `json:"unit_price"`
	Quantity   int                     `json:"quantity" binding:"required,min=1"`
	Modifiers  []ChosenModifierRequest `json:"modifiers"`
	LineTotal  decimal.Decimal         `json:"line_total"`
}

// CheckoutRequest represents a request to submit an order with payment
type CheckoutRequest struct {
	CustomerName  string             `json:"customer_name" binding:"required,min=1,max=200"`
	CustomerEmail string             `json:"customer_email" binding:"omitempty,email"`
	CustomerPhone string             `json:"customer_phone" binding:"omitempty,max=30"`
	PickupAt      time.Time          `json:"pickup_at" binding:"required,future"`
	Instructions  string             `json:"instructions" binding:"max=500"`
	Lines         []OrderLineRequest `json:"lines" binding:"required,min=1,dive"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"tax"`
	Total         decimal.Decimal    `json:"total"`
	PaymentToken  string             `json:"payment_token" binding:"required"`
}

// toSubmission converts the request into the domain submission
func (r *CheckoutRequest) toSubmission() *ordering.Submission {
	lines := make([]ordering.Line, 0, len(r.Lines))
	for _, l := range r.Lines {
		mods := make([]ordering.ChosenModifier, 0, len(l.Modifiers))
		for _, m := range l.Modifiers {
			mods = append(mods, ordering.ChosenModifier{
				ModifierID: m.ModifierID,
				Name:       m.Name,
				Price:      m.Price,
			})
		}
		lines = append(lines, ordering.Line{
			MenuItemID: l.MenuItemID,
			Name:       l.Name,
			UnitPrice:  l.UnitPrice,
			Quantity:   l.Quantity,
			Modifiers:  mods,
			LineTotal:  l.LineTotal,
		})
	}
	return &ordering.Submission{
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		PickupAt:      r.PickupAt,
		Instructions:  r.Instructions,
		Lines:         lines,
		Subtotal:      r.Subtotal,
		Tax:           r.Tax,
		Total:         r.Total,
	}
}

// Submit validates the submission, creates a POS order, captures the payment
// and dispatches a kitchen print. A payment failure after the order exists
// returns the order reference alongside the error so the client can surface
// it instead of silently retrying.
func (h *CheckoutHandler) Submit(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	outcome, err := h.service.SubmitOrder(c.Request.Context(), req.toSubmission(), req.PaymentToken)
	if err != nil {
		h.handleSubmitError(c, err)
		return
	}
	h.Created(c, outcome)
}

// handleSubmitError maps checkout failures onto distinct client responses
func (h *CheckoutHandler) handleSubmitError(c *gin.Context, err error) {
	var paymentErr *checkout.PaymentFailedError
	if errors.As(err, &paymentErr) {
		code := dto.ErrCodePaymentFailed
		message := "payment could not be completed"
		var remoteErr *pos.RemoteError
		if errors.As(paymentErr.Err, &remoteErr) && remoteErr.IsDeclined() {
			code = dto.ErrCodePaymentDeclined
			message = "payment was declined"
		}
		c.JSON(dto.GetHTTPStatus(code), dto.NewPaymentFailedResponse(code, message, paymentErr.OrderID))
		return
	}

	if errors.Is(err, ordering.ErrTotalsMismatch) {
		h.ErrorWithCode(c, dto.ErrCodePriceMismatch, err.Error())
		return
	}

	var remoteErr *pos.RemoteError
	if errors.As(err, &remoteErr) {
		h.log.Error("POS order creation failed",
			zap.String("op", remoteErr.Op),
			zap.Int("status", remoteErr.StatusCode),
			zap.Error(remoteErr),
		)
		h.ErrorWithCode(c, dto.ErrCodePosUnavailable, "ordering is temporarily unavailable")
		return
	}

	// Remaining failures are submission validation problems.
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, err.Error())
}
