package catalog

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
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Handlers struct {
	store *Store
}

func NewHandlers(store *Store) *Handlers {
	return &Handlers{store: store}
}

// ListProducts handles GET /api/products with ?page=&limit=&category=&search=.
func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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

	products, total, err := h.store.List(ctx, (page-1)*limit, limit, q.Get("category"), q.Get("search"))
	if err != nil {
		log.Println("ListProducts:", err)
		http.Error(w, "Failed to fetch products", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"products": products,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// GetProduct handles GET /api/products/:productid.
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	product, err := h.store.GetProduct(ctx, ps.ByName("productid"))
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		log.Println("GetProduct:", err)
		http.Error(w, "Failed to fetch product", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, product)
}

// CreateProduct handles POST /api/admin/products.
func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var p models.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if p.Name == "" || p.SKU == "" || p.Price <= 0 {
		http.Error(w, "name, sku and a positive price are required", http.StatusBadRequest)
		return
	}
	p.ID = primitive.NilObjectID
	p.ProductID = utils.GetUUID()

	if err := h.store.Create(ctx, p); err != nil {
		log.Println("CreateProduct:", err)
		http.Error(w, "Failed to create product", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "productid": p.ProductID})
}

// Fields an admin may change. Everything else in the payload is ignored.
var updatableFields = map[string]bool{
	"name": true, "sku": true, "category": true, "price": true,
	"description": true, "long_description": true, "stock_quantity": true,
	"specifications": true, "features": true, "applications": true,
}

// UpdateProduct handles PUT /api/admin/products/:productid.
func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	set := bson.M{}
	for k, v := range payload {
		if !updatableFields[k] {
			continue
		}
		if k == "stock_quantity" {
			// JSON numbers decode as float64.
			if f, ok := v.(float64); ok {
				set[k] = int(f)
				continue
			}
		}
		set[k] = v
	}
	if len(set) == 0 {
		http.Error(w, "No updatable fields in payload", http.StatusBadRequest)
		return
	}

	if err := h.store.Update(ctx, ps.ByName("productid"), set); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		log.Println("UpdateProduct:", err)
		http.Error(w, "Failed to update product", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// DeleteProduct handles DELETE /api/admin/products/:productid.
func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Delete(ctx, ps.ByName("productid")); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		log.Println("DeleteProduct:", err)
		http.Error(w, "Failed to delete product", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}
