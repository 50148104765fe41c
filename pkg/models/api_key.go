package models

import (
	"time"

	"github.com/google/uuid"
)

// Key kinds. Tenant keys belong to a single business; integration keys are
// platform-level credentials for partner systems and carry no tenant.
const (
	KeyKindTenant      = "tenant"
	KeyKindIntegration = "integration"
)

// APIKey is the persisted record behind a credential. The raw key is shown
// once at creation or regeneration; only the SHA-256 hash and a short
// preview are stored.
type APIKey struct {
	ID             uuid.UUID  `db:"id"               json:"id"`
	TenantID       *uuid.UUID `db:"tenant_id"        json:"tenant_id,omitempty"`
	Kind           string     `db:"kind"             json:"kind"`
	Name           string     `db:"name"             json:"name"`
	KeyHash        string     `db:"key_hash"         json:"-"`
	KeyPreview     string     `db:"key_preview"      json:"key_preview"`
	Scopes         []string   `db:"scopes"           json:"scopes"`
	Disabled       bool       `db:"disabled"         json:"disabled"`
	RateLimit      int        `db:"rate_limit"       json:"rate_limit,omitempty"`
	RateWindowSecs int        `db:"rate_window_secs" json:"rate_window_secs,omitempty"`
	LastUsedAt     *time.Time `db:"last_used_at"     json:"last_used_at,omitempty"`
	UseCount       int64      `db:"use_count"        json:"use_count"`
	RevokedAt      *time.Time `db:"revoked_at"       json:"-"`
	CreatedAt      time.Time  `db:"created_at"       json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"       json:"updated_at"`
}

// Active reports whether the key can still authenticate requests.
func (k *APIKey) Active() bool {
	return !k.Disabled && k.RevokedAt == nil
}
