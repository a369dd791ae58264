// Package contact handles the public contact form. Submissions are stored and
// a notification is queued for the back office; no authentication required.
package contact

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Prabhu6626/Glonix-Website/models"
	"github.com/Prabhu6626/Glonix-Website/utils"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Notifier queues the back-office alert email.
type Notifier interface {
	NotifyContactMessage(ctx context.Context, msg models.ContactMessage)
}

type Handlers struct {
	coll     *mongo.Collection
	notifier Notifier
}

func NewHandlers(coll *mongo.Collection, notifier Notifier) *Handlers {
	return &Handlers{coll: coll, notifier: notifier}
}

type submitRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Company     string `json:"company"`
	Phone       string `json:"phone"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	ServiceType string `json:"service_type"`
}

// Submit handles POST /api/contact.
func (h *Handlers) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Message == "" {
		http.Error(w, "name, email and message are required", http.StatusBadRequest)
		return
	}
	if !strings.Contains(req.Email, "@") {
		http.Error(w, "A valid email is required", http.StatusBadRequest)
		return
	}

	msg := models.ContactMessage{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Email:       req.Email,
		Company:     req.Company,
		Phone:       req.Phone,
		Subject:     req.Subject,
		Message:     req.Message,
		ServiceType: req.ServiceType,
		Status:      "new",
		CreatedAt:   time.Now(),
	}

	if _, err := h.coll.InsertOne(ctx, msg); err != nil {
		log.Println("Submit contact:", err)
		http.Error(w, "Failed to submit message", http.StatusInternalServerError)
		return
	}

	h.notifier.NotifyContactMessage(ctx, msg)

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true})
}

// AdminList handles GET /api/admin/contact with ?page=&limit=&status=.
func (h *Handlers) AdminList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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
	if status := q.Get("status"); status != "" {
		filter["status"] = status
	}

	total, err := h.coll.CountDocuments(ctx, filter)
	if err != nil {
		log.Println("AdminList contact:", err)
		http.Error(w, "Failed to fetch messages", http.StatusInternalServerError)
		return
	}

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	cur, err := h.coll.Find(ctx, filter, opts)
	if err != nil {
		log.Println("AdminList contact:", err)
		http.Error(w, "Failed to fetch messages", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	messages := []models.ContactMessage{}
	if err := cur.All(ctx, &messages); err != nil {
		log.Println("AdminList contact:", err)
		http.Error(w, "Failed to fetch messages", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"messages": messages,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// AdminMarkReplied handles PUT /api/admin/contact/:id/replied.
func (h *Handlers) AdminMarkReplied(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		http.Error(w, "Invalid message id", http.StatusBadRequest)
		return
	}

	res, err := h.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"replied": true, "status": "replied"}},
	)
	if err != nil {
		log.Println("AdminMarkReplied:", err)
		http.Error(w, "Failed to update message", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Message not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}
