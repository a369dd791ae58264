package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Prabhu6626/Glonix-Website/models"
)

// Client wraps the Razorpay order-creation and signature-verification
// operations. Signature verification is local; only CreateIntent touches the
// network.
type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	http      *http.Client
}

// Error marks a transport or provider-side failure. The outcome on the
// gateway is ambiguous: a timed-out create may still have created the order,
// so callers must reconcile before retrying with a different amount.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("gateway %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

func NewClient(keyID, keySecret, baseURL string) *Client {
	return &Client{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateIntent creates a gateway-side order for the given amount in minor
// units and returns it as a PaymentIntent.
func (c *Client) CreateIntent(ctx context.Context, amountMinor int64, currency, receipt string) (models.PaymentIntent, error) {
	body, err := json.Marshal(createOrderRequest{
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return models.PaymentIntent{}, &Error{Op: "create order", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return models.PaymentIntent{}, &Error{Op: "create order", Err: err}
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return models.PaymentIntent{}, &Error{Op: "create order", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return models.PaymentIntent{}, &Error{Op: "create order", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return models.PaymentIntent{}, &Error{
			Op:  "create order",
			Err: fmt.Errorf("provider returned %d: %s", resp.StatusCode, respBody),
		}
	}

	var out createOrderResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return models.PaymentIntent{}, &Error{Op: "create order", Err: err}
	}
	if out.ID == "" {
		return models.PaymentIntent{}, &Error{Op: "create order", Err: fmt.Errorf("provider response missing order id")}
	}

	return models.PaymentIntent{
		GatewayOrderID: out.ID,
		AmountMinor:    out.Amount,
		Currency:       out.Currency,
		Receipt:        receipt,
		CreatedAt:      time.Now(),
	}, nil
}

// VerifySignature checks the keyed HMAC the gateway computes over
// "orderID|paymentID". Comparison is constant-time; a short-circuiting string
// compare would leak how many prefix bytes matched.
func (c *Client) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
