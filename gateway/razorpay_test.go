package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateIntent(t *testing.T) {
	var gotAuth string
	var gotBody createOrderRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/orders", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(createOrderResponse{
			ID:       "order_test123",
			Amount:   gotBody.Amount,
			Currency: gotBody.Currency,
			Receipt:  gotBody.Receipt,
			Status:   "created",
		})
	}))
	defer srv.Close()

	c := NewClient("key_id", "key_secret", srv.URL)
	intent, err := c.CreateIntent(context.Background(), 5198, "INR", "rcpt_1")
	require.NoError(t, err)

	assert.Equal(t, "order_test123", intent.GatewayOrderID)
	assert.Equal(t, int64(5198), intent.AmountMinor)
	assert.Equal(t, "INR", intent.Currency)
	assert.Equal(t, "rcpt_1", intent.Receipt)

	assert.Equal(t, int64(5198), gotBody.Amount)
	assert.NotEmpty(t, gotAuth, "request must carry basic auth")
}

func TestCreateIntentProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"description":"Authentication failed"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("key_id", "bad_secret", srv.URL)
	_, err := c.CreateIntent(context.Background(), 5198, "INR", "rcpt_1")
	require.Error(t, err)

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "create order", gerr.Op)
}

func TestCreateIntentMissingOrderID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"created"}`))
	}))
	defer srv.Close()

	c := NewClient("key_id", "key_secret", srv.URL)
	_, err := c.CreateIntent(context.Background(), 5198, "INR", "rcpt_1")
	assert.Error(t, err)
}

func TestVerifySignature(t *testing.T) {
	c := NewClient("key_id", "key_secret", "http://unused")

	good := sign("key_secret", "order_1", "pay_1")
	assert.True(t, c.VerifySignature("order_1", "pay_1", good))

	// Wrong secret.
	assert.False(t, c.VerifySignature("order_1", "pay_1", sign("other_secret", "order_1", "pay_1")))
	// Signature over different identifiers.
	assert.False(t, c.VerifySignature("order_1", "pay_2", good))
	// Tampered byte.
	tampered := "0" + good[1:]
	if tampered == good {
		tampered = "1" + good[1:]
	}
	assert.False(t, c.VerifySignature("order_1", "pay_1", tampered))
	// Empty signature.
	assert.False(t, c.VerifySignature("order_1", "pay_1", ""))
}
