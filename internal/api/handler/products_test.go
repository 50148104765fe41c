package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waveorder/waveorder/internal/api/handler"
	"github.com/waveorder/waveorder/pkg/models"
)

func TestCreateProduct(t *testing.T) {
	ms := newMemStore()
	h := handler.NewCreateProductHandler(ms)
	tenantID := uuid.New()

	body := `{"name":"Espresso","price_cents":350,"currency":"EUR"}`
	req := withIdentity(httptest.NewRequest("POST", "/api/v1/products", strings.NewReader(body)), tenantIdentity(tenantID))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decodeData(t, w)
	assert.Equal(t, "Espresso", data["name"])
	assert.Equal(t, float64(350), data["price_cents"])
	assert.Equal(t, "EUR", data["currency"])
	assert.Equal(t, true, data["available"])
	require.Len(t, ms.products[tenantID], 1)
}

func TestCreateProduct_NegativePrice(t *testing.T) {
	h := handler.NewCreateProductHandler(newMemStore())

	body := `{"name":"Espresso","price_cents":-1}`
	req := withIdentity(httptest.NewRequest("POST", "/api/v1/products", strings.NewReader(body)), tenantIdentity(uuid.New()))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListProducts_ScopedToCallerTenant(t *testing.T) {
	ms := newMemStore()
	mine := uuid.New()
	other := uuid.New()
	ms.products[mine] = []*models.Product{{ID: uuid.New(), TenantID: mine, Name: "Latte"}}
	ms.products[other] = []*models.Product{{ID: uuid.New(), TenantID: other, Name: "Mocha"}}

	h := handler.NewListProductsHandler(ms)
	req := withIdentity(httptest.NewRequest("GET", "/api/v1/products", nil), tenantIdentity(mine))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Latte")
	assert.NotContains(t, w.Body.String(), "Mocha")
}

func TestListProducts_IntegrationNeedsTenantParam(t *testing.T) {
	ms := newMemStore()
	tenantID := uuid.New()
	ms.products[tenantID] = []*models.Product{{ID: uuid.New(), TenantID: tenantID, Name: "Latte"}}

	h := handler.NewListProductsHandler(ms)

	// Without tenant_id the request is underspecified.
	req := withIdentity(httptest.NewRequest("GET", "/api/v1/products", nil), integrationIdentity())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// With tenant_id the integration caller reads that tenant's catalog.
	req = withIdentity(httptest.NewRequest("GET", "/api/v1/products?tenant_id="+tenantID.String(), nil), integrationIdentity())
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Latte")
}

func TestListOrders(t *testing.T) {
	ms := newMemStore()
	tenantID := uuid.New()
	ms.orders[tenantID] = []*models.Order{{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Status:     "placed",
		TotalCents: 700,
		CreatedAt:  time.Now().UTC(),
	}}

	h := handler.NewListOrdersHandler(ms)
	req := withIdentity(httptest.NewRequest("GET", "/api/v1/orders", nil), tenantIdentity(tenantID))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "placed")
}
