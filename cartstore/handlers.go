package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/Prabhu6626/Glonix-Website/models"
	"github.com/Prabhu6626/Glonix-Website/utils"
	"github.com/julienschmidt/httprouter"
)

// FunnelTracker receives cart lifecycle events. Failures are logged, never
// surfaced to the shopper.
type FunnelTracker interface {
	OnCartNonEmpty(ctx context.Context, userID string) error
	OnCartCleared(ctx context.Context, userID string) error
}

type Handlers struct {
	store  *Store
	funnel FunnelTracker
}

func NewHandlers(store *Store, funnel FunnelTracker) *Handlers {
	return &Handlers{store: store, funnel: funnel}
}

// GetCart handles GET /api/cart.
func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cart, err := h.store.Get(ctx, userID)
	if err != nil {
		log.Println("GetCart:", err)
		http.Error(w, "Failed to fetch cart", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"cart":           cart,
		"subtotal_minor": cart.SubtotalMinor(),
	})
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// AddItem handles POST /api/cart/items.
func (h *Handlers) AddItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.ProductID == "" {
		http.Error(w, "product_id is required", http.StatusBadRequest)
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	if err := h.store.AddItem(ctx, userID, req.ProductID, req.Quantity); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		log.Println("AddItem:", err)
		http.Error(w, "Failed to update cart", http.StatusInternalServerError)
		return
	}

	if err := h.funnel.OnCartNonEmpty(ctx, userID); err != nil {
		log.Println("AddItem funnel:", err)
	}

	cart, err := h.store.Get(ctx, userID)
	if err != nil {
		log.Println("AddItem fetch:", err)
		http.Error(w, "Failed to fetch cart", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"cart":           cart,
		"subtotal_minor": cart.SubtotalMinor(),
	})
}

type setItemsRequest struct {
	Items []struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	} `json:"items"`
}

// SetItems handles PUT /api/cart. Lines with quantity <= 0 are dropped.
func (h *Handlers) SetItems(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req setItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	items := make([]models.CartItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, models.CartItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	if err := h.store.SetItems(ctx, userID, items); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		log.Println("SetItems:", err)
		http.Error(w, "Failed to update cart", http.StatusInternalServerError)
		return
	}

	cart, err := h.store.Get(ctx, userID)
	if err != nil {
		log.Println("SetItems fetch:", err)
		http.Error(w, "Failed to fetch cart", http.StatusInternalServerError)
		return
	}

	if cart.IsEmpty() {
		if err := h.funnel.OnCartCleared(ctx, userID); err != nil {
			log.Println("SetItems funnel:", err)
		}
	} else {
		if err := h.funnel.OnCartNonEmpty(ctx, userID); err != nil {
			log.Println("SetItems funnel:", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"cart":           cart,
		"subtotal_minor": cart.SubtotalMinor(),
	})
}

// ClearCart handles DELETE /api/cart.
func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.store.Clear(ctx, userID); err != nil {
		log.Println("ClearCart:", err)
		http.Error(w, "Failed to clear cart", http.StatusInternalServerError)
		return
	}
	if err := h.funnel.OnCartCleared(ctx, userID); err != nil {
		log.Println("ClearCart funnel:", err)
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}
