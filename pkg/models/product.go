package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry served through the storefront and the API.
type Product struct {
	ID         uuid.UUID `db:"id"          json:"id"`
	TenantID   uuid.UUID `db:"tenant_id"   json:"tenant_id"`
	Name       string    `db:"name"        json:"name"`
	PriceCents int64     `db:"price_cents" json:"price_cents"`
	Currency   string    `db:"currency"    json:"currency"`
	Available  bool      `db:"available"   json:"available"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"  json:"updated_at"`
}
