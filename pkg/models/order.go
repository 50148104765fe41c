package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is a WhatsApp order placed against a tenant's storefront. Only the
// fields the API surface needs are modeled here; order management itself
// lives in the dashboard.
type Order struct {
	ID           uuid.UUID `db:"id"            json:"id"`
	TenantID     uuid.UUID `db:"tenant_id"     json:"tenant_id"`
	CustomerName string    `db:"customer_name" json:"customer_name"`
	Status       string    `db:"status"        json:"status"`
	TotalCents   int64     `db:"total_cents"   json:"total_cents"`
	Currency     string    `db:"currency"      json:"currency"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
}
