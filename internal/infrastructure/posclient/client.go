package posclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/smokestack/backend/internal/domain/pos"
)

// maxResponseSize limits the response body size to prevent memory exhaustion
const maxResponseSize = 1 * 1024 * 1024 // 1MB max response

// HTTPClient implements the pos.Client port over the POS HTTP API
type HTTPClient struct {
	config     *Config
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTPClient with the given configuration
func NewHTTPClient(config *Config) (*HTTPClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &HTTPClient{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// Environment returns the POS environment this client targets
func (c *HTTPClient) Environment() pos.Environment {
	return c.config.Environment
}

// ---------------------------------------------------------------------------
// Catalog Operations
// ---------------------------------------------------------------------------

// CreateCategory creates a catalog category and returns its POS ID
func (c *HTTPClient) CreateCategory(ctx context.Context, req pos.CreateCategoryRequest) (string, error) {
	var resp idResponse
	err := c.doRequest(ctx, "create_category", http.MethodPost, "/v1/catalog/categories", createCategoryBody{
		Name:      req.Name,
		SortOrder: req.SortOrder,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// CreateModifierGroup creates a modifier group and returns its POS ID
func (c *HTTPClient) CreateModifierGroup(ctx context.Context, req pos.CreateModifierGroupRequest) (string, error) {
	var resp idResponse
	err := c.doRequest(ctx, "create_modifier_group", http.MethodPost, "/v1/catalog/modifier-groups", createModifierGroupBody{
		Name:          req.Name,
		Required:      req.Required,
		MinSelections: req.MinSelections,
		MaxSelections: req.MaxSelections,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// CreateModifier creates a modifier inside an existing POS group
func (c *HTTPClient) CreateModifier(ctx context.Context, req pos.CreateModifierRequest) (string, error) {
	var resp idResponse
	path := fmt.Sprintf("/v1/catalog/modifier-groups/%s/modifiers", req.GroupPOSID)
	err := c.doRequest(ctx, "create_modifier", http.MethodPost, path, createModifierBody{
		GroupID:    req.GroupPOSID,
		Name:       req.Name,
		PriceCents: req.PriceCents,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// CreateItem creates a menu item under an existing POS category
func (c *HTTPClient) CreateItem(ctx context.Context, req pos.CreateItemRequest) (string, error) {
	var resp idResponse
	err := c.doRequest(ctx, "create_item", http.MethodPost, "/v1/catalog/items", createItemBody{
		CategoryID:  req.CategoryPOSID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Available:   req.Available,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// AttachModifierGroup attaches an existing POS group to an existing POS item
func (c *HTTPClient) AttachModifierGroup(ctx context.Context, itemPOSID, groupPOSID string) error {
	path := fmt.Sprintf("/v1/catalog/items/%s/modifier-groups", itemPOSID)
	return c.doRequest(ctx, "attach_modifier_group", http.MethodPost, path, attachGroupBody{
		GroupID: groupPOSID,
	}, nil)
}

// ---------------------------------------------------------------------------
// Order Operations
// ---------------------------------------------------------------------------

// CreateOrder creates a pickup order on the POS
func (c *HTTPClient) CreateOrder(ctx context.Context, req pos.CreateOrderRequest) (pos.OrderRef, error) {
	lines := make([]orderLineBody, 0, len(req.Lines))
	for _, l := range req.Lines {
		mods := make([]orderLineModifierBody, 0, len(l.Modifiers))
		for _, m := range l.Modifiers {
			mods = append(mods, orderLineModifierBody{Name: m.Name, PriceCents: m.PriceCents})
		}
		lines = append(lines, orderLineBody{
			ItemID:         l.ItemPOSID,
			Name:           l.Name,
			UnitPriceCents: l.UnitPriceCents,
			Quantity:       l.Quantity,
			Modifiers:      mods,
			TotalCents:     l.TotalCents,
		})
	}

	var resp orderResponse
	err := c.doRequest(ctx, "create_order", http.MethodPost, "/v1/orders", createOrderBody{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		PickupAt:      req.PickupAt.UTC().Format(time.RFC3339),
		Instructions:  req.Instructions,
		Lines:         lines,
		SubtotalCents: req.SubtotalCents,
		TaxCents:      req.TaxCents,
		TotalCents:    req.TotalCents,
	}, &resp)
	if err != nil {
		return pos.OrderRef{}, err
	}
	return pos.OrderRef{ID: resp.ID}, nil
}

// CapturePayment captures a card payment against a created order
func (c *HTTPClient) CapturePayment(ctx context.Context, req pos.CapturePaymentRequest) (pos.PaymentConfirmation, error) {
	var resp paymentResponse
	err := c.doRequest(ctx, "capture_payment", http.MethodPost, "/v1/payments", capturePaymentBody{
		OrderID:        req.OrderID,
		Token:          req.Token,
		AmountCents:    req.AmountCents,
		Currency:       req.Currency,
		IdempotencyKey: req.IdempotencyKey,
	}, &resp)
	if err != nil {
		return pos.PaymentConfirmation{}, err
	}
	return pos.PaymentConfirmation{
		PaymentID: resp.ID,
		Status:    resp.Status,
		CardBrand: resp.CardBrand,
		Last4:     resp.Last4,
	}, nil
}

// SendPrintJob dispatches a kitchen/receipt print for a created order
func (c *HTTPClient) SendPrintJob(ctx context.Context, req pos.PrintJobRequest) (pos.PrintAck, error) {
	copies := req.Copies
	if copies <= 0 {
		copies = 1
	}
	var resp printJobResponse
	err := c.doRequest(ctx, "send_print_job", http.MethodPost, "/v1/print-jobs", printJobBody{
		OrderID: req.OrderID,
		Copies:  copies,
	}, &resp)
	if err != nil {
		return pos.PrintAck{}, err
	}
	return pos.PrintAck{JobID: resp.ID, Accepted: resp.Accepted}, nil
}

// ---------------------------------------------------------------------------
// HTTP plumbing
// ---------------------------------------------------------------------------

// doRequest issues one JSON request and decodes the response into out (when
// non-nil). Transport failures and POS rejections both come back as
// *pos.RemoteError so the caller can record them uniformly.
func (c *HTTPClient) doRequest(ctx context.Context, op, method, path string, body, out any) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("posclient: failed to marshal request: %w", err)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("posclient: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &pos.RemoteError{Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &pos.RemoteError{Op: op, StatusCode: resp.StatusCode, Message: "failed to read response: " + err.Error()}
	}

	if resp.StatusCode >= 400 {
		var e errorBody
		if json.Unmarshal(respBody, &e) == nil && e.Message != "" {
			return &pos.RemoteError{Op: op, StatusCode: resp.StatusCode, Code: e.Code, Message: e.Message}
		}
		return &pos.RemoteError{Op: op, StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &pos.RemoteError{Op: op, StatusCode: resp.StatusCode, Message: "invalid response: " + err.Error()}
	}
	return nil
}
