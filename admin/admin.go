// Package admin serves the back-office analytics endpoints: a revenue and
// volume overview plus the purchase-funnel breakdown of the user base.
package admin

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Prabhu6626/Glonix-Website/db"
	"github.com/Prabhu6626/Glonix-Website/models"
	"github.com/Prabhu6626/Glonix-Website/utils"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Handlers struct {
	store *db.Store
}

func NewHandlers(store *db.Store) *Handlers {
	return &Handlers{store: store}
}

// Overview handles GET /api/admin/analytics/overview: order counts, revenue
// (minor units, non-cancelled orders only), user and enquiry totals.
func (h *Handlers) Overview(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	totalOrders, err := h.store.Orders.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Println("Overview orders:", err)
		http.Error(w, "Failed to compute overview", http.StatusInternalServerError)
		return
	}

	pipeline := []bson.M{
		{"$match": bson.M{"status": bson.M{"$ne": models.OrderCancelled}}},
		{"$group": bson.M{
			"_id":           nil,
			"revenue_minor": bson.M{"$sum": "$total_minor"},
			"count":         bson.M{"$sum": 1},
		}},
	}
	cursor, err := h.store.Orders.Aggregate(ctx, pipeline)
	if err != nil {
		log.Println("Overview revenue:", err)
		http.Error(w, "Failed to compute overview", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var revenueMinor int64
	var settledOrders int64
	if cursor.Next(ctx) {
		var row struct {
			RevenueMinor int64 `bson:"revenue_minor"`
			Count        int64 `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			log.Println("Overview decode:", err)
			http.Error(w, "Failed to compute overview", http.StatusInternalServerError)
			return
		}
		revenueMinor = row.RevenueMinor
		settledOrders = row.Count
	}

	totalUsers, err := h.store.Users.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Println("Overview users:", err)
		http.Error(w, "Failed to compute overview", http.StatusInternalServerError)
		return
	}
	openEnquiries, err := h.store.Enquiries.CountDocuments(ctx, bson.M{
		"status": bson.M{"$in": []string{"new", "in_progress"}},
	})
	if err != nil {
		log.Println("Overview enquiries:", err)
		http.Error(w, "Failed to compute overview", http.StatusInternalServerError)
		return
	}

	totalProducts, err := h.store.Products.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Println("Overview products:", err)
		http.Error(w, "Failed to compute overview", http.StatusInternalServerError)
		return
	}
	lowStock, err := h.store.Products.CountDocuments(ctx, bson.M{
		"stock_quantity": bson.M{"$lt": 5},
	})
	if err != nil {
		log.Println("Overview low stock:", err)
		http.Error(w, "Failed to compute overview", http.StatusInternalServerError)
		return
	}
	newMessages, err := h.store.Messages.CountDocuments(ctx, bson.M{"status": "new"})
	if err != nil {
		log.Println("Overview messages:", err)
		http.Error(w, "Failed to compute overview", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"total_orders":   totalOrders,
		"settled_orders": settledOrders,
		"revenue_minor":  revenueMinor,
		"total_users":    totalUsers,
		"total_products": totalProducts,
		"low_stock":      lowStock,
		"new_messages":   newMessages,
		"open_enquiries": openEnquiries,
	})
}

// FunnelBreakdown handles GET /api/admin/analytics/funnel: how many users sit
// at each purchase-journey state.
func (h *Handlers) FunnelBreakdown(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$group": bson.M{
			"_id":   "$fabrication_status",
			"count": bson.M{"$sum": 1},
		}},
	}
	cursor, err := h.store.Users.Aggregate(ctx, pipeline)
	if err != nil {
		log.Println("FunnelBreakdown:", err)
		http.Error(w, "Failed to compute funnel breakdown", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	counts := map[models.FunnelState]int64{
		models.FunnelBrowsing: 0,
		models.FunnelEngaged:  0,
		models.FunnelActive:   0,
	}
	for cursor.Next(ctx) {
		var row struct {
			State models.FunnelState `bson:"_id"`
			Count int64              `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			log.Println("FunnelBreakdown decode:", err)
			http.Error(w, "Failed to compute funnel breakdown", http.StatusInternalServerError)
			return
		}
		counts[row.State] = row.Count
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"browsing": counts[models.FunnelBrowsing],
		"engaged":  counts[models.FunnelEngaged],
		"active":   counts[models.FunnelActive],
	})
}

// ListUsers handles GET /api/admin/users with ?page=&limit=&funnel_state=.
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	q := r.URL.Query()
	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := bson.M{}
	if fs := q.Get("funnel_state"); fs != "" {
		n, err := strconv.Atoi(fs)
		if err != nil || n < int(models.FunnelBrowsing) || n > int(models.FunnelActive) {
			http.Error(w, "funnel_state must be 0, 1 or 2", http.StatusBadRequest)
			return
		}
		filter["fabrication_status"] = models.FunnelState(n)
	}

	total, err := h.store.Users.CountDocuments(ctx, filter)
	if err != nil {
		log.Println("ListUsers:", err)
		http.Error(w, "Failed to fetch users", http.StatusInternalServerError)
		return
	}

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	cursor, err := h.store.Users.Find(ctx, filter, opts)
	if err != nil {
		log.Println("ListUsers:", err)
		http.Error(w, "Failed to fetch users", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		log.Println("ListUsers:", err)
		http.Error(w, "Failed to fetch users", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
