package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/waveorder/waveorder/internal/api/middleware"
	"github.com/waveorder/waveorder/internal/api/response"
	"github.com/waveorder/waveorder/internal/store"
	"github.com/waveorder/waveorder/pkg/models"
)

// tenantFor resolves which tenant's data a request addresses. Tenant keys
// are bound to their own tenant; integration keys must name one explicitly.
func tenantFor(r *http.Request) (uuid.UUID, bool) {
	identity, ok := middleware.GetIdentity(r)
	if !ok {
		return uuid.Nil, false
	}
	if identity.TenantID != nil {
		return *identity.TenantID, true
	}
	raw := r.URL.Query().Get("tenant_id")
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// NewListProductsHandler returns the handler for GET /api/v1/products.
func NewListProductsHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := tenantFor(r)
		if !ok {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "tenant_id is required", nil)
			return
		}

		products, err := s.ListProducts(r.Context(), tenantID)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list products", nil)
			return
		}
		if products == nil {
			products = []*models.Product{}
		}
		response.JSON(w, products)
	}
}

// NewCreateProductHandler returns the handler for POST /api/v1/products.
func NewCreateProductHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := tenantFor(r)
		if !ok {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "tenant_id is required", nil)
			return
		}

		var req struct {
			Name       string `json:"name"`
			PriceCents int64  `json:"price_cents"`
			Currency   string `json:"currency"`
			Available  *bool  `json:"available"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if req.Name == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "name is required", nil)
			return
		}
		if req.PriceCents < 0 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "price_cents must not be negative", nil)
			return
		}
		if req.Currency == "" {
			req.Currency = "USD"
		}
		available := true
		if req.Available != nil {
			available = *req.Available
		}

		now := time.Now().UTC()
		product := &models.Product{
			ID:         uuid.New(),
			TenantID:   tenantID,
			Name:       req.Name,
			PriceCents: req.PriceCents,
			Currency:   req.Currency,
			Available:  available,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.CreateProduct(r.Context(), product); err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create product", nil)
			return
		}
		response.Created(w, product)
	}
}
