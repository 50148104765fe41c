package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/waveorder/waveorder/internal/plan"
	"github.com/waveorder/waveorder/internal/ratelimit"
)

// Reason classifies why a request was denied. The set is closed so route
// handlers can map reasons to response codes deterministically.
type Reason string

const (
	// ReasonNone means the request was admitted.
	ReasonNone Reason = ""
	// ReasonUnauthenticated: missing, malformed, or unrecognized credential.
	ReasonUnauthenticated Reason = "unauthenticated"
	// ReasonForbidden: valid credential, but disabled or lacking the scope.
	ReasonForbidden Reason = "forbidden"
	// ReasonPlanRestricted: valid credential, but the tenant's plan has no
	// API entitlement.
	ReasonPlanRestricted Reason = "plan_restricted"
	// ReasonRateLimited: valid credential over its window quota.
	ReasonRateLimited Reason = "rate_limited"
	// ReasonTransient: a backend failed; safe to retry, never an admit.
	ReasonTransient Reason = "transient"
)

// Identity is the resolved owner of an admitted request.
type Identity struct {
	KeyID      uuid.UUID
	KeyPreview string
	TenantID   *uuid.UUID
	Kind       string
	Scopes     []string
	Plan       plan.Plan
	RateLimit  int
	RateWindow time.Duration
}

// Decision is the typed result of authenticating one request. Identity is
// set whenever the credential resolved, even on denial, so audit entries
// can name the caller; handlers expose it to business logic only on allow.
type Decision struct {
	Allowed  bool
	Reason   Reason
	Identity *Identity
	Rate     *ratelimit.Result
}

// ClientMeta carries request context recorded in the audit log.
type ClientMeta struct {
	IP        string
	UserAgent string
}
