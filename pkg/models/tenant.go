package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant represents a business on the platform. Every storefront, catalog
// entry, and tenant API key belongs to exactly one tenant.
type Tenant struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	Slug      string    `db:"slug"       json:"slug"`
	Plan      string    `db:"plan"       json:"plan"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
