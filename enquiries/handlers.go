package enquiries

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

// FunnelTracker receives the enquiry-submitted event.
type FunnelTracker interface {
	OnEnquirySubmitted(ctx context.Context, userID string) error
}

type Handlers struct {
	store  *Store
	funnel FunnelTracker
}

func NewHandlers(store *Store, funnel FunnelTracker) *Handlers {
	return &Handlers{store: store, funnel: funnel}
}

type submitRequest struct {
	EnquiryType  string `json:"enquiry_type"`
	Title        string `json:"title"`
	Abstract     string `json:"abstract"`
	Requirements string `json:"requirements"`
	FileURL      string `json:"file_url"`
	BudgetRange  string `json:"budget_range"`
	Timeline     string `json:"timeline"`
	Priority     string `json:"priority"`
}

var enquiryTypes = map[string]bool{
	"design_enquiry":  true,
	"product_enquiry": true,
}

// Submit handles POST /api/enquiries.
func (h *Handlers) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if !enquiryTypes[req.EnquiryType] {
		http.Error(w, "enquiry_type must be design_enquiry or product_enquiry", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}
	if req.Priority == "" {
		req.Priority = "normal"
	}

	now := time.Now()
	enquiry := models.Enquiry{
		EnquiryID:    utils.GetUUID(),
		UserID:       userID,
		EnquiryType:  req.EnquiryType,
		Title:        req.Title,
		Abstract:     req.Abstract,
		Requirements: req.Requirements,
		FileURL:      req.FileURL,
		BudgetRange:  req.BudgetRange,
		Timeline:     req.Timeline,
		Priority:     req.Priority,
		Status:       "new",
		Replies:      []models.EnquiryReply{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.store.Insert(ctx, enquiry); err != nil {
		log.Println("Submit enquiry:", err)
		http.Error(w, "Failed to submit enquiry", http.StatusInternalServerError)
		return
	}

	if err := h.funnel.OnEnquirySubmitted(ctx, userID); err != nil {
		log.Println("Submit enquiry funnel:", err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success":    true,
		"enquiry_id": enquiry.EnquiryID,
	})
}

// MyEnquiries handles GET /api/enquiries.
func (h *Handlers) MyEnquiries(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	enquiries, err := h.store.GetByUser(ctx, userID)
	if err != nil {
		log.Println("MyEnquiries:", err)
		http.Error(w, "Failed to fetch enquiries", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"enquiries": enquiries})
}

// GetEnquiry handles GET /api/enquiries/:enquiryid. Owner or admin.
func (h *Handlers) GetEnquiry(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	enquiry, err := h.store.GetByID(ctx, ps.ByName("enquiryid"))
	if err != nil {
		if errors.Is(err, ErrEnquiryNotFound) {
			http.Error(w, "Enquiry not found", http.StatusNotFound)
			return
		}
		log.Println("GetEnquiry:", err)
		http.Error(w, "Failed to fetch enquiry", http.StatusInternalServerError)
		return
	}
	if enquiry.UserID != userID && utils.GetRoleFromRequest(r) != "admin" {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, enquiry)
}

// AdminList handles GET /api/admin/enquiries with ?page=&limit=&status=&type=.
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

	enquiries, total, err := h.store.List(ctx, (page-1)*limit, limit, q.Get("status"), q.Get("type"))
	if err != nil {
		log.Println("AdminList enquiries:", err)
		http.Error(w, "Failed to fetch enquiries", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"enquiries": enquiries,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}

type replyRequest struct {
	Message     string   `json:"message"`
	AdminName   string   `json:"admin_name"`
	Attachments []string `json:"attachments"`
}

// AdminReply handles POST /api/admin/enquiries/:enquiryid/reply.
func (h *Handlers) AdminReply(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	adminID := utils.GetUserIDFromRequest(r)
	if adminID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	reply := models.EnquiryReply{
		AdminID:     adminID,
		AdminName:   req.AdminName,
		Message:     req.Message,
		Attachments: req.Attachments,
		CreatedAt:   time.Now(),
	}

	if err := h.store.AddReply(ctx, ps.ByName("enquiryid"), reply); err != nil {
		if errors.Is(err, ErrEnquiryNotFound) {
			http.Error(w, "Enquiry not found", http.StatusNotFound)
			return
		}
		log.Println("AdminReply:", err)
		http.Error(w, "Failed to add reply", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

var enquiryStatuses = map[string]bool{
	"new": true, "in_progress": true, "replied": true,
	"completed": true, "closed": true,
}

// AdminUpdateStatus handles PUT /api/admin/enquiries/:enquiryid.
func (h *Handlers) AdminUpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if !enquiryStatuses[req.Status] {
		http.Error(w, "Invalid enquiry status", http.StatusBadRequest)
		return
	}

	if err := h.store.UpdateStatus(ctx, ps.ByName("enquiryid"), req.Status); err != nil {
		if errors.Is(err, ErrEnquiryNotFound) {
			http.Error(w, "Enquiry not found", http.StatusNotFound)
			return
		}
		log.Println("AdminUpdateStatus:", err)
		http.Error(w, "Failed to update enquiry", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}
