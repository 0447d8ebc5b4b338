package posclient

// Wire types for the POS HTTP API. All amounts are integral minor-currency
// units (cents), matching the remote contract.

// errorBody is the POS error envelope
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type createCategoryBody struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

type createModifierGroupBody struct {
	Name          string `json:"name"`
	Required      bool   `json:"required"`
	MinSelections int    `json:"min_selections"`
	MaxSelections *int   `json:"max_selections,omitempty"`
}

type createModifierBody struct {
	GroupID    string `json:"group_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

type createItemBody struct {
	CategoryID  string `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"price_cents"`
	Available   bool   `json:"available"`
}

type attachGroupBody struct {
	GroupID string `json:"group_id"`
}

// idResponse is returned by all catalog creation endpoints
type idResponse struct {
	ID string `json:"id"`
}

type orderLineModifierBody struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

type orderLineBody struct {
	ItemID         string                  `json:"item_id,omitempty"`
	Name           string                  `json:"name"`
	UnitPriceCents int64                   `json:"unit_price_cents"`
	Quantity       int                     `json:"quantity"`
	Modifiers      []orderLineModifierBody `json:"modifiers,omitempty"`
	TotalCents     int64                   `json:"total_cents"`
}

type createOrderBody struct {
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	PickupAt      string          `json:"pickup_at"`
	Instructions  string          `json:"instructions,omitempty"`
	Lines         []orderLineBody `json:"lines"`
	SubtotalCents int64           `json:"subtotal_cents"`
	TaxCents      int64           `json:"tax_cents"`
	TotalCents    int64           `json:"total_cents"`
}

type orderResponse struct {
	ID string `json:"id"`
}

type capturePaymentBody struct {
	OrderID        string `json:"order_id"`
	Token          string `json:"token"`
	AmountCents    int64  `json:"amount_cents"`
	Currency       string `json:"currency"`
	IdempotencyKey string `json:"idempotency_key"`
}

type paymentResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	CardBrand string `json:"card_brand"`
	Last4     string `json:"last4"`
}

type printJobBody struct {
	OrderID string `json:"order_id"`
	Copies  int    `json:"copies"`
}

type printJobResponse struct {
	ID       string `json:"id"`
	Accepted bool   `json:"accepted"`
}
