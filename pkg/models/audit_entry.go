package models

import (
	"time"

	"github.com/google/uuid"
)

// Authentication outcomes recorded in the audit log.
const (
	OutcomeAdmitted        = "admitted"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeForbidden       = "forbidden"
	OutcomePlanRestricted  = "plan_restricted"
	OutcomeRateLimited     = "rate_limited"
	OutcomeTransient       = "transient"
)

// AuditEntry is an immutable record of one authentication decision.
// Entries are append-only and never updated.
type AuditEntry struct {
	ID         uuid.UUID  `db:"id"          json:"id"`
	OccurredAt time.Time  `db:"occurred_at" json:"occurred_at"`
	TenantID   *uuid.UUID `db:"tenant_id"   json:"tenant_id,omitempty"`
	KeyID      *uuid.UUID `db:"key_id"      json:"key_id,omitempty"`
	KeyPreview string     `db:"key_preview" json:"key_preview,omitempty"`
	Scope      string     `db:"scope"       json:"scope"`
	Outcome    string     `db:"outcome"     json:"outcome"`
	ClientIP   string     `db:"client_ip"   json:"client_ip,omitempty"`
	UserAgent  string     `db:"user_agent"  json:"user_agent,omitempty"`
}
