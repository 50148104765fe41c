package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waveorder/waveorder/internal/api"
	"github.com/waveorder/waveorder/internal/api/middleware"
	"github.com/waveorder/waveorder/internal/api/response"
	"github.com/waveorder/waveorder/internal/auth"
	"github.com/waveorder/waveorder/internal/credential"
	"github.com/waveorder/waveorder/internal/metrics"
	"github.com/waveorder/waveorder/internal/ratelimit"
	"github.com/waveorder/waveorder/internal/store"
	"github.com/waveorder/waveorder/pkg/models"
)

// routerStore resolves keys from a fixed map and swallows everything else.
type routerStore struct {
	mu      sync.Mutex
	keys    map[string]*models.APIKey
	tenants map[uuid.UUID]*models.Tenant
}

func (s *routerStore) Ping(_ context.Context) error                           { return nil }
func (s *routerStore) CreateTenant(_ context.Context, _ *models.Tenant) error { return nil }

func (s *routerStore) GetTenant(_ context.Context, id uuid.UUID) (*models.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tenants[id]; ok {
		return t, nil
	}
	return nil, store.ErrNotFound
}

func (s *routerStore) GetTenantBySlug(_ context.Context, _ string) (*models.Tenant, error) {
	return nil, store.ErrNotFound
}

func (s *routerStore) GetAPIKeyByHash(_ context.Context, hash string) (*models.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if k, ok := s.keys[hash]; ok {
		return k, nil
	}
	return nil, store.ErrNotFound
}

func (s *routerStore) TouchAPIKey(_ context.Context, _ uuid.UUID) error           { return nil }
func (s *routerStore) CreateAPIKey(_ context.Context, _ *models.APIKey) error     { return nil }
func (s *routerStore) InsertAuditEntry(_ context.Context, _ *models.AuditEntry) error {
	return nil
}

func (s *routerStore) GetAPIKey(_ context.Context, _ uuid.UUID, _ *uuid.UUID) (*models.APIKey, error) {
	return nil, store.ErrNotFound
}

func (s *routerStore) ListAPIKeys(_ context.Context, _ *uuid.UUID) ([]*models.APIKey, error) {
	return nil, nil
}

func (s *routerStore) RevokeAPIKey(_ context.Context, _ uuid.UUID, _ *uuid.UUID) error {
	return store.ErrNotFound
}

func (s *routerStore) RotateAPIKeyHash(_ context.Context, _ uuid.UUID, _ *uuid.UUID, _, _ string) error {
	return store.ErrNotFound
}

func (s *routerStore) ListAuditEntries(_ context.Context, _ store.AuditFilter) ([]*models.AuditEntry, int, error) {
	return nil, 0, nil
}

func (s *routerStore) CreateProduct(_ context.Context, _ *models.Product) error { return nil }

func (s *routerStore) ListProducts(_ context.Context, _ uuid.UUID) ([]*models.Product, error) {
	return nil, nil
}

func (s *routerStore) ListOrders(_ context.Context, _ uuid.UUID) ([]*models.Order, error) {
	return nil, nil
}

var _ store.Store = (*routerStore)(nil)

type allowAllLimiter struct{}

func (allowAllLimiter) CheckAndConsume(_ context.Context, _ string, limit int, window time.Duration) (*ratelimit.Result, error) {
	return &ratelimit.Result{Allowed: true, Limit: limit, Remaining: limit - 1, Reset: time.Now().Add(window)}, nil
}
func (allowAllLimiter) Ping(_ context.Context) error { return nil }
func (allowAllLimiter) Close() error                 { return nil }

// newTestRouter wires a full router against the fake store and returns it
// together with a raw key carrying the given scopes.
func newTestRouter(t *testing.T, scopes []string) (http.Handler, string) {
	t.Helper()

	gen, err := credential.Generate(credential.KindTenant)
	require.NoError(t, err)

	tenantID := uuid.New()
	rs := &routerStore{
		keys: map[string]*models.APIKey{
			gen.Hash: {
				ID:         uuid.New(),
				TenantID:   &tenantID,
				Kind:       models.KeyKindTenant,
				Name:       "router-test",
				KeyHash:    gen.Hash,
				KeyPreview: gen.Preview,
				Scopes:     scopes,
			},
		},
		tenants: map[uuid.UUID]*models.Tenant{
			tenantID: {ID: tenantID, Name: "Test", Slug: "test", Plan: "pro"},
		},
	}

	authn := auth.NewAuthenticator(rs, allowAllLimiter{}, metrics.NewAuthMetricsWith(prometheus.NewRegistry()))

	ok := func(w http.ResponseWriter, _ *http.Request) { response.JSON(w, map[string]string{"status": "ok"}) }
	handler := api.NewRouter(api.Dependencies{
		Auth:          middleware.NewAuth(authn),
		HealthHandler: ok,
		ListProducts:  ok,
		CreateProduct: ok,
		ListOrders:    ok,
		CreateKey:     ok,
		ListKeys:      ok,
		RevokeKey:     ok,
		RegenerateKey: ok,
		ListAudit:     ok,
	})
	return handler, gen.Plaintext
}

func TestRouter_HealthIsPublic(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_MetricsIsPublic(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_ProtectedRoutesRejectAnonymous(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	routes := []struct{ method, path string }{
		{"GET", "/api/v1/products"},
		{"POST", "/api/v1/products"},
		{"GET", "/api/v1/orders"},
		{"POST", "/api/v1/admin/keys"},
		{"GET", "/api/v1/admin/keys"},
		{"GET", "/api/v1/admin/audit"},
	}
	for _, rt := range routes {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", rt.method, rt.path)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	}
}

func TestRouter_ScopedKeyReachesResource(t *testing.T) {
	h, key := newTestRouter(t, []string{models.ScopeProductsRead})

	req := httptest.NewRequest("GET", "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+key)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestRouter_AdminRoutesNeedAdminScope(t *testing.T) {
	h, key := newTestRouter(t, []string{models.ScopeProductsRead})

	req := httptest.NewRequest("GET", "/api/v1/admin/keys", nil)
	req.Header.Set("Authorization", "Bearer "+key)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}
