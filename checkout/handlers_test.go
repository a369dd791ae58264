package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Prabhu6626/Glonix-Website/globals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedRequest(method, target string, body []byte, userID string) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := context.WithValue(r.Context(), globals.UserIDKey, userID)
	return r.WithContext(ctx)
}

func TestCreateOrderHandler(t *testing.T) {
	f := newFixture()
	h := NewHandlers(f.orch)

	w := httptest.NewRecorder()
	h.CreateOrder(w, authedRequest(http.MethodPost, "/api/checkout/create-order", nil, "user-1"), nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Order   struct {
			ID       string `json:"id"`
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "order_gw123", resp.Order.ID)
	assert.Equal(t, int64(5198), resp.Order.Amount)
	assert.Equal(t, "INR", resp.Order.Currency)
}

func TestCreateOrderHandlerEmptyCart(t *testing.T) {
	f := newFixture()
	f.carts.cart.Items = nil
	h := NewHandlers(f.orch)

	w := httptest.NewRecorder()
	h.CreateOrder(w, authedRequest(http.MethodPost, "/api/checkout/create-order", nil, "user-1"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderHandlerUnauthenticated(t *testing.T) {
	f := newFixture()
	h := NewHandlers(f.orch)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/checkout/create-order", nil)
	h.CreateOrder(w, r, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerifyPaymentHandler(t *testing.T) {
	f := newFixture()
	h := NewHandlers(f.orch)

	body, _ := json.Marshal(map[string]any{
		"razorpay_order_id":   "order_gw123",
		"razorpay_payment_id": "pay_abc",
		"razorpay_signature":  "valid-signature",
		"shipping_method":     "standard",
		"payment_method":      "razorpay",
	})

	w := httptest.NewRecorder()
	h.VerifyPayment(w, authedRequest(http.MethodPost, "/api/checkout/verify-payment", body, "user-1"), nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success     bool   `json:"success"`
		OrderID     string `json:"order_id"`
		OrderNumber string `json:"order_number"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.OrderID)
	assert.NotEmpty(t, resp.OrderNumber)
}

func TestVerifyPaymentHandlerBadSignature(t *testing.T) {
	f := newFixture()
	h := NewHandlers(f.orch)

	body, _ := json.Marshal(map[string]any{
		"razorpay_order_id":   "order_gw123",
		"razorpay_payment_id": "pay_abc",
		"razorpay_signature":  "tampered",
	})

	w := httptest.NewRecorder()
	h.VerifyPayment(w, authedRequest(http.MethodPost, "/api/checkout/verify-payment", body, "user-1"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, f.orders.insertCount())
}

func TestVerifyPaymentHandlerMissingIdentifiers(t *testing.T) {
	f := newFixture()
	h := NewHandlers(f.orch)

	body, _ := json.Marshal(map[string]any{
		"razorpay_order_id": "order_gw123",
	})

	w := httptest.NewRecorder()
	h.VerifyPayment(w, authedRequest(http.MethodPost, "/api/checkout/verify-payment", body, "user-1"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyPaymentHandlerDuplicateInFlight(t *testing.T) {
	f := newFixture()
	h := NewHandlers(f.orch)

	// Claim the key and leave it pending, as a crashed attempt would.
	_, _, err := f.ledger.TryBegin(context.Background(), IdempotencyKey("order_gw123", "pay_abc"), "user-1")
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]any{
		"razorpay_order_id":   "order_gw123",
		"razorpay_payment_id": "pay_abc",
		"razorpay_signature":  "valid-signature",
	})

	w := httptest.NewRecorder()
	h.VerifyPayment(w, authedRequest(http.MethodPost, "/api/checkout/verify-payment", body, "user-1"), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
