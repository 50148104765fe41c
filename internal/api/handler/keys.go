// Package handler contains the HTTP handlers for the management and
// resource endpoints.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/waveorder/waveorder/internal/api/middleware"
	"github.com/waveorder/waveorder/internal/api/response"
	"github.com/waveorder/waveorder/internal/config"
	"github.com/waveorder/waveorder/internal/credential"
	"github.com/waveorder/waveorder/internal/store"
	"github.com/waveorder/waveorder/pkg/models"
)

// createdKey is the one response that ever carries a plaintext key.
type createdKey struct {
	ID         uuid.UUID  `json:"id"`
	Key        string     `json:"key"`
	KeyPreview string     `json:"key_preview"`
	Kind       string     `json:"kind"`
	Name       string     `json:"name"`
	Scopes     []string   `json:"scopes"`
	TenantID   *uuid.UUID `json:"tenant_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewCreateKeyHandler returns the handler for POST /api/v1/admin/keys.
// The plaintext key appears in this response and nowhere else.
func NewCreateKeyHandler(s store.Store, keysCfg config.KeysConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.GetIdentity(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing identity", nil)
			return
		}

		var req struct {
			Name           string   `json:"name"`
			Kind           string   `json:"kind"`
			Scopes         []string `json:"scopes"`
			RateLimit      int      `json:"rate_limit"`
			RateWindowSecs int      `json:"rate_window_secs"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if req.Name == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "name is required", nil)
			return
		}
		if req.Kind == "" {
			req.Kind = models.KeyKindTenant
		}
		if req.Kind != models.KeyKindTenant && req.Kind != models.KeyKindIntegration {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "kind must be tenant or integration", nil)
			return
		}
		if len(req.Scopes) == 0 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "at least one scope is required", nil)
			return
		}
		for _, sc := range req.Scopes {
			if !models.ValidScope(sc) {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "unknown scope", map[string]string{"scope": sc})
				return
			}
		}

		var tenantID *uuid.UUID
		switch req.Kind {
		case models.KeyKindTenant:
			if identity.TenantID == nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"tenant keys can only be created from a tenant context", nil)
				return
			}
			tenantID = identity.TenantID
		case models.KeyKindIntegration:
			// Only platform operators (integration-key callers) may mint
			// integration keys.
			if identity.Kind != models.KeyKindIntegration {
				response.Error(w, http.StatusForbidden, "FORBIDDEN",
					"integration keys can only be created by platform integrations", nil)
				return
			}
			if req.RateLimit <= 0 {
				req.RateLimit = keysCfg.IntegrationRateLimit
			}
			if req.RateWindowSecs <= 0 {
				req.RateWindowSecs = int(keysCfg.IntegrationRateWindow.Seconds())
			}
		}

		gen, err := credential.Generate(credential.Kind(req.Kind))
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate key", nil)
			return
		}

		now := time.Now().UTC()
		key := &models.APIKey{
			ID:             uuid.New(),
			TenantID:       tenantID,
			Kind:           req.Kind,
			Name:           req.Name,
			KeyHash:        gen.Hash,
			KeyPreview:     gen.Preview,
			Scopes:         req.Scopes,
			RateLimit:      req.RateLimit,
			RateWindowSecs: req.RateWindowSecs,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.CreateAPIKey(r.Context(), key); err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to store key", nil)
			return
		}

		response.Created(w, createdKey{
			ID:         key.ID,
			Key:        gen.Plaintext,
			KeyPreview: key.KeyPreview,
			Kind:       key.Kind,
			Name:       key.Name,
			Scopes:     key.Scopes,
			TenantID:   key.TenantID,
			CreatedAt:  key.CreatedAt,
		})
	}
}

// NewListKeysHandler returns the handler for GET /api/v1/admin/keys.
// Responses carry previews only, never hashes or plaintext.
func NewListKeysHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.GetIdentity(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing identity", nil)
			return
		}

		keys, err := s.ListAPIKeys(r.Context(), identity.TenantID)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list keys", nil)
			return
		}
		if keys == nil {
			keys = []*models.APIKey{}
		}
		response.JSON(w, keys)
	}
}

// NewRevokeKeyHandler returns the handler for DELETE /api/v1/admin/keys/{keyID}.
func NewRevokeKeyHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.GetIdentity(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing identity", nil)
			return
		}

		keyID, err := uuid.Parse(chi.URLParam(r, "keyID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "keyID must be a UUID", nil)
			return
		}

		if err := s.RevokeAPIKey(r.Context(), keyID, identity.TenantID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Key not found", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to revoke key", nil)
			return
		}
		response.NoContent(w)
	}
}

// NewRegenerateKeyHandler returns the handler for
// POST /api/v1/admin/keys/{keyID}/regenerate. The old plaintext stops
// working the moment the stored hash is replaced; the new plaintext is
// returned once.
func NewRegenerateKeyHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.GetIdentity(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing identity", nil)
			return
		}

		keyID, err := uuid.Parse(chi.URLParam(r, "keyID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "keyID must be a UUID", nil)
			return
		}

		key, err := s.GetAPIKey(r.Context(), keyID, identity.TenantID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Key not found", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load key", nil)
			return
		}
		if key.RevokedAt != nil {
			response.Error(w, http.StatusConflict, "KEY_REVOKED", "Revoked keys cannot be regenerated", nil)
			return
		}

		gen, err := credential.Generate(credential.Kind(key.Kind))
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate key", nil)
			return
		}

		if err := s.RotateAPIKeyHash(r.Context(), keyID, identity.TenantID, gen.Hash, gen.Preview); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Key not found", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to rotate key", nil)
			return
		}

		response.JSON(w, createdKey{
			ID:         key.ID,
			Key:        gen.Plaintext,
			KeyPreview: gen.Preview,
			Kind:       key.Kind,
			Name:       key.Name,
			Scopes:     key.Scopes,
			TenantID:   key.TenantID,
			CreatedAt:  key.CreatedAt,
		})
	}
}
