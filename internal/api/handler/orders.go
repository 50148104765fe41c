package handler

import (
	"net/http"

	"github.com/waveorder/waveorder/internal/api/response"
	"github.com/waveorder/waveorder/internal/store"
	"github.com/waveorder/waveorder/pkg/models"
)

// NewListOrdersHandler returns the handler for GET /api/v1/orders.
func NewListOrdersHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := tenantFor(r)
		if !ok {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "tenant_id is required", nil)
			return
		}

		orders, err := s.ListOrders(r.Context(), tenantID)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list orders", nil)
			return
		}
		if orders == nil {
			orders = []*models.Order{}
		}
		response.JSON(w, orders)
	}
}
