package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Prabhu6626/Glonix-Website/models"
	"github.com/Prabhu6626/Glonix-Website/utils"
	"github.com/julienschmidt/httprouter"
)

type Handlers struct {
	store *Store
}

func NewHandlers(store *Store) *Handlers {
	return &Handlers{store: store}
}

// MyOrders handles GET /api/orders. Newest first.
func (h *Handlers) MyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	orders, err := h.store.GetByUser(ctx, userID)
	if err != nil {
		log.Println("MyOrders:", err)
		http.Error(w, "Failed to fetch orders", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"orders": orders})
}

// GetOrder handles GET /api/orders/:orderid. Owners see their own orders,
// admins see everything.
func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	order, err := h.store.GetByID(ctx, ps.ByName("orderid"))
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		log.Println("GetOrder:", err)
		http.Error(w, "Failed to fetch order", http.StatusInternalServerError)
		return
	}
	if order.UserID != userID && utils.GetRoleFromRequest(r) != "admin" {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// AdminList handles GET /api/admin/orders with ?page=&limit=&status=.
func (h *Handlers) AdminList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	orders, total, err := h.store.List(ctx, (page-1)*limit, limit, r.URL.Query().Get("status"))
	if err != nil {
		log.Println("AdminList:", err)
		http.Error(w, "Failed to fetch orders", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

type updateOrderRequest struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number"`
	Notes          string `json:"notes"`
}

var validStatuses = map[models.OrderStatus]bool{
	models.OrderConfirmed:  true,
	models.OrderProcessing: true,
	models.OrderShipped:    true,
	models.OrderDelivered:  true,
	models.OrderCancelled:  true,
}

// AdminUpdate handles PUT /api/admin/orders/:orderid. Only the mutable fields
// (status, tracking number, notes) are accepted.
func (h *Handlers) AdminUpdate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req updateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	status := models.OrderStatus(req.Status)
	if req.Status != "" && !validStatuses[status] {
		http.Error(w, "Invalid order status", http.StatusBadRequest)
		return
	}

	err := h.store.UpdateStatus(ctx, ps.ByName("orderid"), status, req.TrackingNumber, req.Notes)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		log.Println("AdminUpdate:", err)
		http.Error(w, "Failed to update order", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}
