package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/Prabhu6626/Glonix-Website/utils"
	"github.com/julienschmidt/httprouter"
)

// Handlers exposes the orchestrator over REST.
type Handlers struct {
	orch *Orchestrator
}

func NewHandlers(orch *Orchestrator) *Handlers {
	return &Handlers{orch: orch}
}

// CreateOrder handles POST /api/checkout/create-order. Any client-supplied
// amount in the body is ignored; the intent is priced from the server-side
// cart snapshot.
func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	intent, err := h.orch.CreatePaymentIntent(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCart):
			utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{
				"success": false, "error": "cart is empty",
			})
		case errors.Is(err, ErrProductUnavailable):
			utils.RespondWithJSON(w, http.StatusConflict, utils.M{
				"success": false, "error": "an item in your cart is no longer available",
			})
		case errors.Is(err, ErrGateway):
			log.Println("CreateOrder gateway error:", err)
			utils.RespondWithJSON(w, http.StatusBadGateway, utils.M{
				"success": false, "error": "payment provider unavailable, please try again",
			})
		default:
			log.Println("CreateOrder error:", err)
			http.Error(w, "Failed to create payment order", http.StatusInternalServerError)
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"order": utils.M{
			"id":       intent.GatewayOrderID,
			"amount":   intent.AmountMinor,
			"currency": intent.Currency,
			"receipt":  intent.Receipt,
		},
	})
}

type verifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	Payload
}

// VerifyPayment handles POST /api/checkout/verify-payment.
func (h *Handlers) VerifyPayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req verifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		http.Error(w, "Missing payment identifiers", http.StatusBadRequest)
		return
	}

	order, err := h.orch.VerifyAndFinalize(ctx, userID,
		req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, req.Payload)
	if err != nil {
		switch {
		case errors.Is(err, ErrVerificationFailed):
			utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{
				"success": false, "error": "payment verification failed",
			})
		case errors.Is(err, ErrDuplicateInFlight):
			utils.RespondWithJSON(w, http.StatusConflict, utils.M{
				"success": false, "error": "this payment is already being processed, please retry shortly",
			})
		case errors.Is(err, ErrInvalidCart):
			utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{
				"success": false, "error": "cart is empty",
			})
		case errors.Is(err, ErrOrderPersistence):
			// Money has moved but no order exists. Loud on our side,
			// ambiguous wording on the user's side.
			log.Println("ALERT VerifyPayment:", err)
			utils.RespondWithJSON(w, http.StatusInternalServerError, utils.M{
				"success": false, "error": "payment status unknown, please check your orders page",
			})
		default:
			log.Println("VerifyPayment error:", err)
			utils.RespondWithJSON(w, http.StatusInternalServerError, utils.M{
				"success": false, "error": "payment status unknown, please check your orders page",
			})
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":      true,
		"order_id":     order.OrderID,
		"order_number": order.OrderNumber,
	})
}
