package posclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokestack/backend/internal/domain/pos"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(&Config{
		Environment:    pos.EnvironmentSandbox,
		BaseURL:        srv.URL,
		AccessToken:    "test-token",
		TimeoutSeconds: 5,
	})
	require.NoError(t, err)
	return client, srv
}

func TestNewHTTPClientValidatesConfig(t *testing.T) {
	_, err := NewHTTPClient(&Config{Environment: pos.EnvironmentSandbox, BaseURL: "http://x"})
	assert.ErrorIs(t, err, ErrConfigMissingAccessToken)

	_, err = NewHTTPClient(&Config{Environment: "staging", BaseURL: "http://x", AccessToken: "t"})
	assert.ErrorIs(t, err, ErrConfigInvalidEnvironment)
}

func TestHTTPClientEnvironment(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	assert.Equal(t, pos.EnvironmentSandbox, client.Environment())
}

func TestCreateCategory(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody createCategoryBody

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(idResponse{ID: "POS-CAT-1"})
	})

	id, err := client.CreateCategory(context.Background(), pos.CreateCategoryRequest{
		Name:      "Plates",
		SortOrder: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, "POS-CAT-1", id)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "/v1/catalog/categories", gotPath)
	assert.Equal(t, "Plates", gotBody.Name)
	assert.Equal(t, 1, gotBody.SortOrder)
}

func TestCreateModifierRoutesThroughGroup(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(idResponse{ID: "POS-MOD-1"})
	})

	id, err := client.CreateModifier(context.Background(), pos.CreateModifierRequest{
		GroupPOSID: "POS-GRP-7",
		Name:       "Spicy Vinegar",
		PriceCents: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, "POS-MOD-1", id)
	assert.Equal(t, "/v1/catalog/modifier-groups/POS-GRP-7/modifiers", gotPath)
}

func TestAttachModifierGroup(t *testing.T) {
	var gotPath string
	var gotBody attachGroupBody
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.AttachModifierGroup(context.Background(), "POS-ITEM-1", "POS-GRP-1")
	require.NoError(t, err)
	assert.Equal(t, "/v1/catalog/items/POS-ITEM-1/modifier-groups", gotPath)
	assert.Equal(t, "POS-GRP-1", gotBody.GroupID)
}

func TestCreateOrder(t *testing.T) {
	var gotBody createOrderBody
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(orderResponse{ID: "ORD-1"})
	})

	pickup := time.Date(2026, 8, 29, 18, 30, 0, 0, time.UTC)
	ref, err := client.CreateOrder(context.Background(), pos.CreateOrderRequest{
		CustomerName: "Jordan Ray",
		PickupAt:     pickup,
		Lines: []pos.OrderLine{
			{
				ItemPOSID:      "POS-ITEM-1",
				Name:           "Brisket Plate",
				UnitPriceCents: 1650,
				Quantity:       1,
				Modifiers:      []pos.OrderLineModifier{{Name: "Add Burnt Ends", PriceCents: 400}},
				TotalCents:     2050,
			},
		},
		SubtotalCents: 2050,
		TaxCents:      164,
		TotalCents:    2214,
	})
	require.NoError(t, err)

	assert.Equal(t, "ORD-1", ref.ID)
	assert.Equal(t, "2026-08-29T18:30:00Z", gotBody.PickupAt)
	require.Len(t, gotBody.Lines, 1)
	assert.Equal(t, int64(2050), gotBody.Lines[0].TotalCents)
	require.Len(t, gotBody.Lines[0].Modifiers, 1)
	assert.Equal(t, int64(400), gotBody.Lines[0].Modifiers[0].PriceCents)
}

func TestCapturePayment(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body capturePaymentBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ORD-1", body.OrderID)
		assert.Equal(t, int64(2214), body.AmountCents)
		assert.NotEmpty(t, body.IdempotencyKey)
		_ = json.NewEncoder(w).Encode(paymentResponse{
			ID:        "PAY-1",
			Status:    "captured",
			CardBrand: "visa",
			Last4:     "4242",
		})
	})

	conf, err := client.CapturePayment(context.Background(), pos.CapturePaymentRequest{
		OrderID:        "ORD-1",
		Token:          "tok_visa",
		AmountCents:    2214,
		Currency:       "USD",
		IdempotencyKey: "idem-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "PAY-1", conf.PaymentID)
	assert.Equal(t, "captured", conf.Status)
	assert.Equal(t, "4242", conf.Last4)
}

func TestSendPrintJobDefaultsCopies(t *testing.T) {
	var gotBody printJobBody
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(printJobResponse{ID: "PRN-1", Accepted: true})
	})

	ack, err := client.SendPrintJob(context.Background(), pos.PrintJobRequest{OrderID: "ORD-1"})
	require.NoError(t, err)
	assert.True(t, ack.Accepted)
	assert.Equal(t, "PRN-1", ack.JobID)
	assert.Equal(t, 1, gotBody.Copies)
}

func TestRemoteErrorFromStructuredBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_ = json.NewEncoder(w).Encode(errorBody{Code: "CARD_DECLINED", Message: "card declined"})
	})

	_, err := client.CapturePayment(context.Background(), pos.CapturePaymentRequest{OrderID: "ORD-1"})
	require.Error(t, err)

	var re *pos.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "capture_payment", re.Op)
	assert.Equal(t, http.StatusPaymentRequired, re.StatusCode)
	assert.Equal(t, "CARD_DECLINED", re.Code)
	assert.True(t, re.IsDeclined())
}

func TestRemoteErrorFromOpaqueBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
	})

	_, err := client.CreateCategory(context.Background(), pos.CreateCategoryRequest{Name: "Plates"})
	require.Error(t, err)

	var re *pos.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusGatewayTimeout, re.StatusCode)
	assert.Empty(t, re.Code)
	assert.False(t, re.IsDeclined())
}

func TestRemoteErrorFromTransportFailure(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := client.CreateCategory(context.Background(), pos.CreateCategoryRequest{Name: "Plates"})
	require.Error(t, err)

	var re *pos.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "create_category", re.Op)
	assert.Zero(t, re.StatusCode)
}

func TestRemoteErrorFromMalformedResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := client.CreateCategory(context.Background(), pos.CreateCategoryRequest{Name: "Plates"})
	require.Error(t, err)

	var re *pos.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Contains(t, re.Message, "invalid response")
}
