package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/waveorder/waveorder/internal/api/middleware"
	"github.com/waveorder/waveorder/internal/api/response"
	"github.com/waveorder/waveorder/internal/store"
	"github.com/waveorder/waveorder/pkg/models"
)

// NewListAuditHandler returns the handler for GET /api/v1/admin/audit.
// Tenant callers see their own entries; integration callers see the
// platform-wide log. Entries are read-only.
func NewListAuditHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.GetIdentity(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing identity", nil)
			return
		}

		q := r.URL.Query()
		filter := store.AuditFilter{TenantID: identity.TenantID}

		if raw := q.Get("key_id"); raw != "" {
			keyID, err := uuid.Parse(raw)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "key_id must be a UUID", nil)
				return
			}
			filter.KeyID = &keyID
		}
		if raw := q.Get("since"); raw != "" {
			ts, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "since must be a valid RFC3339 timestamp", nil)
				return
			}
			filter.Since = ts
		}
		if raw := q.Get("until"); raw != "" {
			ts, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "until must be a valid RFC3339 timestamp", nil)
				return
			}
			filter.Until = ts
		}
		if raw := q.Get("page"); raw != "" {
			filter.Page, _ = strconv.Atoi(raw)
		}
		if raw := q.Get("limit"); raw != "" {
			filter.Limit, _ = strconv.Atoi(raw)
		}

		entries, total, err := s.ListAuditEntries(r.Context(), filter)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list audit entries", nil)
			return
		}
		if entries == nil {
			entries = []*models.AuditEntry{}
		}

		limit := filter.Limit
		if limit <= 0 {
			limit = 50
		}
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		response.Collection(w, entries, response.PaginationMeta{
			Page:    page,
			Limit:   limit,
			Total:   total,
			HasNext: page*limit < total,
		})
	}
}
