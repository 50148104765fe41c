package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/waveorder/waveorder/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	CreateTenant(ctx context.Context, t *models.Tenant) error
	GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error)

	// GetAPIKeyByHash resolves a presented credential by its digest.
	// Unknown and revoked-then-purged keys are both ErrNotFound; disabled
	// keys still resolve so the gate stage can reject them.
	GetAPIKeyByHash(ctx context.Context, hash string) (*models.APIKey, error)
	// TouchAPIKey records usage (last_used_at, use_count). Best effort:
	// callers log failures and continue.
	TouchAPIKey(ctx context.Context, id uuid.UUID) error
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	GetAPIKey(ctx context.Context, id uuid.UUID, tenantID *uuid.UUID) (*models.APIKey, error)
	ListAPIKeys(ctx context.Context, tenantID *uuid.UUID) ([]*models.APIKey, error)
	RevokeAPIKey(ctx context.Context, id uuid.UUID, tenantID *uuid.UUID) error
	// RotateAPIKeyHash replaces the stored hash and preview in one update,
	// invalidating the previous plaintext immediately.
	RotateAPIKeyHash(ctx context.Context, id uuid.UUID, tenantID *uuid.UUID, newHash, newPreview string) error

	InsertAuditEntry(ctx context.Context, e *models.AuditEntry) error
	ListAuditEntries(ctx context.Context, filter AuditFilter) ([]*models.AuditEntry, int, error)

	CreateProduct(ctx context.Context, p *models.Product) error
	ListProducts(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error)

	ListOrders(ctx context.Context, tenantID uuid.UUID) ([]*models.Order, error)
}

// AuditFilter selects audit entries by owner and time range.
type AuditFilter struct {
	TenantID *uuid.UUID
	KeyID    *uuid.UUID
	Since    time.Time
	Until    time.Time
	Page     int
	Limit    int
}
