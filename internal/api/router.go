package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	mw "github.com/waveorder/waveorder/internal/api/middleware"
	"github.com/waveorder/waveorder/pkg/models"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth *mw.Auth

	HealthHandler http.HandlerFunc

	ListProducts  http.HandlerFunc
	CreateProduct http.HandlerFunc
	ListOrders    http.HandlerFunc

	CreateKey     http.HandlerFunc
	ListKeys      http.HandlerFunc
	RevokeKey     http.HandlerFunc
	RegenerateKey http.HandlerFunc
	ListAudit     http.HandlerFunc
}

// NewRouter builds the Chi router. Every protected route goes through the
// same authentication middleware with its declared scope; there are no
// per-handler auth checks.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public surface.
	r.Get("/api/v1/health", deps.HealthHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Resource endpoints, one required scope each.
	r.With(deps.Auth.Require(models.ScopeProductsRead)).
		Get("/api/v1/products", deps.ListProducts)
	r.With(deps.Auth.Require(models.ScopeProductsWrite)).
		Post("/api/v1/products", deps.CreateProduct)
	r.With(deps.Auth.Require(models.ScopeOrdersRead)).
		Get("/api/v1/orders", deps.ListOrders)

	// Key management and audit, admin scope only.
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Require(models.ScopeAdmin))

		r.Post("/api/v1/admin/keys", deps.CreateKey)
		r.Get("/api/v1/admin/keys", deps.ListKeys)
		r.Delete("/api/v1/admin/keys/{keyID}", deps.RevokeKey)
		r.Post("/api/v1/admin/keys/{keyID}/regenerate", deps.RegenerateKey)
		r.Get("/api/v1/admin/audit", deps.ListAudit)
	})

	return r
}
