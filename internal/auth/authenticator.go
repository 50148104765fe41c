// Package auth implements the single authentication flow every protected
// route goes through: extract credential, resolve it, check scope and plan,
// consume rate-limit quota, and audit the outcome.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/waveorder/waveorder/internal/credential"
	"github.com/waveorder/waveorder/internal/metrics"
	"github.com/waveorder/waveorder/internal/plan"
	"github.com/waveorder/waveorder/internal/ratelimit"
	"github.com/waveorder/waveorder/internal/store"
	"github.com/waveorder/waveorder/pkg/models"
)

// Fallback for integration keys created before per-key limits existed.
const (
	defaultIntegrationLimit  = 120
	defaultIntegrationWindow = time.Minute
)

// Authenticator orchestrates credential resolution, authorization, and rate
// limiting into one decision per request.
type Authenticator struct {
	store   store.Store
	limiter ratelimit.Limiter
	metrics *metrics.AuthMetrics
}

// NewAuthenticator creates an Authenticator. metrics may be nil in tests.
func NewAuthenticator(s store.Store, l ratelimit.Limiter, m *metrics.AuthMetrics) *Authenticator {
	return &Authenticator{store: s, limiter: l, metrics: m}
}

// Authenticate evaluates one presented credential against a required scope.
// It never returns an error: every failure mode maps to a denial Reason,
// and every outcome is written to the audit log.
func (a *Authenticator) Authenticate(ctx context.Context, rawKey, requiredScope string, meta ClientMeta) Decision {
	dec := a.decide(ctx, rawKey, requiredScope)
	a.record(ctx, dec, requiredScope, meta)
	return dec
}

func (a *Authenticator) decide(ctx context.Context, rawKey, requiredScope string) Decision {
	if rawKey == "" {
		return Decision{Reason: ReasonUnauthenticated}
	}
	if _, ok := credential.KindOf(rawKey); !ok {
		return Decision{Reason: ReasonUnauthenticated}
	}

	key, err := a.store.GetAPIKeyByHash(ctx, credential.Hash(rawKey))
	if errors.Is(err, store.ErrNotFound) {
		return Decision{Reason: ReasonUnauthenticated}
	}
	if err != nil {
		slog.Error("resolve api key", "error", err)
		return Decision{Reason: ReasonTransient}
	}

	identity := &Identity{
		KeyID:      key.ID,
		KeyPreview: key.KeyPreview,
		TenantID:   key.TenantID,
		Kind:       key.Kind,
		Scopes:     key.Scopes,
	}

	// Usage bookkeeping must not block or fail the decision.
	go func(id uuid.UUID) {
		touchCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.store.TouchAPIKey(touchCtx, id); err != nil {
			slog.Warn("touch api key", "key_id", id, "error", err)
		}
	}(key.ID)

	if !key.Active() {
		return Decision{Reason: ReasonForbidden, Identity: identity}
	}
	if !models.HasScope(key.Scopes, requiredScope) {
		return Decision{Reason: ReasonForbidden, Identity: identity}
	}

	limit, window, dec := a.limitsFor(ctx, key, identity)
	if dec != nil {
		return *dec
	}
	identity.RateLimit = limit
	identity.RateWindow = window

	rate, err := a.limiter.CheckAndConsume(ctx, ratelimit.BucketKey(key.ID.String()), limit, window)
	if err != nil {
		slog.Error("rate limit check", "key_id", key.ID, "error", err)
		return Decision{Reason: ReasonTransient, Identity: identity}
	}
	if !rate.Allowed {
		return Decision{Reason: ReasonRateLimited, Identity: identity, Rate: rate}
	}

	return Decision{Allowed: true, Identity: identity, Rate: rate}
}

// limitsFor resolves the window parameters for a key: tenant keys inherit
// them from the tenant's plan, integration keys carry their own.
func (a *Authenticator) limitsFor(ctx context.Context, key *models.APIKey, identity *Identity) (int, time.Duration, *Decision) {
	if key.Kind == models.KeyKindIntegration {
		limit, window := key.RateLimit, time.Duration(key.RateWindowSecs)*time.Second
		if limit <= 0 || window <= 0 {
			limit, window = defaultIntegrationLimit, defaultIntegrationWindow
		}
		return limit, window, nil
	}

	if key.TenantID == nil {
		// Tenant keys always carry a tenant; a row without one is corrupt.
		slog.Error("tenant key without tenant", "key_id", key.ID)
		return 0, 0, &Decision{Reason: ReasonForbidden, Identity: identity}
	}

	tenant, err := a.store.GetTenant(ctx, *key.TenantID)
	if errors.Is(err, store.ErrNotFound) {
		return 0, 0, &Decision{Reason: ReasonForbidden, Identity: identity}
	}
	if err != nil {
		slog.Error("resolve tenant", "tenant_id", *key.TenantID, "error", err)
		return 0, 0, &Decision{Reason: ReasonTransient, Identity: identity}
	}

	identity.Plan = plan.Plan(tenant.Plan)
	limits := plan.LimitsFor(identity.Plan)
	if !limits.APIAccess {
		return 0, 0, &Decision{Reason: ReasonPlanRestricted, Identity: identity}
	}
	return limits.RateLimit, limits.RateWindow, nil
}

// record writes the audit entry and decision metric. Audit writes are best
// effort: a failed insert is logged and counted, never surfaced.
func (a *Authenticator) record(ctx context.Context, dec Decision, requiredScope string, meta ClientMeta) {
	outcome := outcomeFor(dec)
	if a.metrics != nil {
		a.metrics.DecisionsTotal.WithLabelValues(outcome).Inc()
	}

	entry := &models.AuditEntry{
		ID:         uuid.New(),
		OccurredAt: time.Now().UTC(),
		Scope:      requiredScope,
		Outcome:    outcome,
		ClientIP:   meta.IP,
		UserAgent:  meta.UserAgent,
	}
	if dec.Identity != nil {
		entry.KeyID = &dec.Identity.KeyID
		entry.KeyPreview = dec.Identity.KeyPreview
		entry.TenantID = dec.Identity.TenantID
	}

	if err := a.store.InsertAuditEntry(ctx, entry); err != nil {
		slog.Error("insert audit entry", "outcome", outcome, "error", err)
		if a.metrics != nil {
			a.metrics.AuditWriteFailures.Inc()
		}
	}
}

func outcomeFor(dec Decision) string {
	if dec.Allowed {
		return models.OutcomeAdmitted
	}
	switch dec.Reason {
	case ReasonUnauthenticated:
		return models.OutcomeUnauthenticated
	case ReasonForbidden:
		return models.OutcomeForbidden
	case ReasonPlanRestricted:
		return models.OutcomePlanRestricted
	case ReasonRateLimited:
		return models.OutcomeRateLimited
	default:
		return models.OutcomeTransient
	}
}
