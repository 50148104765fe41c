package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/waveorder/waveorder/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Tenants ---

func (s *PostgresStore) CreateTenant(ctx context.Context, t *models.Tenant) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tenants (id, name, slug, plan, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.Name, t.Slug, t.Plan, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	var t models.Tenant
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, slug, plan, created_at, updated_at FROM tenants WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Slug, &t.Plan, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	var t models.Tenant
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, slug, plan, created_at, updated_at FROM tenants WHERE slug = $1`, slug,
	).Scan(&t.ID, &t.Name, &t.Slug, &t.Plan, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant by slug: %w", err)
	}
	return &t, nil
}

// --- API Keys ---

const apiKeyColumns = `id, tenant_id, kind, name, key_hash, key_preview, scopes, disabled,
	rate_limit, rate_window_secs, last_used_at, use_count, revoked_at, created_at, updated_at`

func scanAPIKey(row pgx.Row) (*models.APIKey, error) {
	var k models.APIKey
	err := row.Scan(&k.ID, &k.TenantID, &k.Kind, &k.Name, &k.KeyHash, &k.KeyPreview,
		&k.Scopes, &k.Disabled, &k.RateLimit, &k.RateWindowSecs,
		&k.LastUsedAt, &k.UseCount, &k.RevokedAt, &k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

func (s *PostgresStore) GetAPIKeyByHash(ctx context.Context, hash string) (*models.APIKey, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE key_hash = $1`, hash)
	k, err := scanAPIKey(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get api key by hash: %w", err)
	}
	return k, nil
}

func (s *PostgresStore) TouchAPIKey(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET last_used_at = NOW(), use_count = use_count + 1, updated_at = NOW()
		 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touch api key: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateAPIKey(ctx context.Context, key *models.APIKey) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO api_keys (id, tenant_id, kind, name, key_hash, key_preview, scopes,
		   disabled, rate_limit, rate_window_secs, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		key.ID, key.TenantID, key.Kind, key.Name, key.KeyHash, key.KeyPreview, key.Scopes,
		key.Disabled, key.RateLimit, key.RateWindowSecs, key.CreatedAt, key.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create api key: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetAPIKey(ctx context.Context, id uuid.UUID, tenantID *uuid.UUID) (*models.APIKey, error) {
	where, args := ownerClause(id, tenantID)
	row := s.pool.QueryRow(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE `+where, args...)
	k, err := scanAPIKey(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get api key: %w", err)
	}
	return k, nil
}

func (s *PostgresStore) ListAPIKeys(ctx context.Context, tenantID *uuid.UUID) ([]*models.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE revoked_at IS NULL AND `
	var rows pgx.Rows
	var err error
	if tenantID == nil {
		rows, err = s.pool.Query(ctx, query+`tenant_id IS NULL ORDER BY created_at DESC`)
	} else {
		rows, err = s.pool.Query(ctx, query+`tenant_id = $1 ORDER BY created_at DESC`, *tenantID)
	}
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		k, err := scanAPIKey(rows)
		if err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) RevokeAPIKey(ctx context.Context, id uuid.UUID, tenantID *uuid.UUID) error {
	where, args := ownerClause(id, tenantID)
	tag, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET disabled = TRUE, revoked_at = NOW(), updated_at = NOW()
		 WHERE `+where+` AND revoked_at IS NULL`, args...)
	if err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) RotateAPIKeyHash(ctx context.Context, id uuid.UUID, tenantID *uuid.UUID, newHash, newPreview string) error {
	where, args := ownerClause(id, tenantID)
	args = append(args, newHash, newPreview)
	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE api_keys SET key_hash = $%d, key_preview = $%d, updated_at = NOW()
		 WHERE %s AND revoked_at IS NULL`, len(args)-1, len(args), where), args...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("rotate api key hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ownerClause scopes a key lookup to its owner. Integration keys have no
// tenant, so a nil tenantID matches only tenant-less rows.
func ownerClause(id uuid.UUID, tenantID *uuid.UUID) (string, []any) {
	if tenantID == nil {
		return "id = $1 AND tenant_id IS NULL", []any{id}
	}
	return "id = $1 AND tenant_id = $2", []any{id, *tenantID}
}

// --- Audit Log ---

func (s *PostgresStore) InsertAuditEntry(ctx context.Context, e *models.AuditEntry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO audit_log (id, occurred_at, tenant_id, key_id, key_preview, scope, outcome, client_ip, user_agent)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.OccurredAt, e.TenantID, e.KeyID, e.KeyPreview, e.Scope, e.Outcome, e.ClientIP, e.UserAgent)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAuditEntries(ctx context.Context, filter AuditFilter) ([]*models.AuditEntry, int, error) {
	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	if filter.TenantID != nil {
		conditions = append(conditions, fmt.Sprintf("tenant_id = $%d", argIdx))
		args = append(args, *filter.TenantID)
		argIdx++
	}
	if filter.KeyID != nil {
		conditions = append(conditions, fmt.Sprintf("key_id = $%d", argIdx))
		args = append(args, *filter.KeyID)
		argIdx++
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, fmt.Sprintf("occurred_at >= $%d", argIdx))
		args = append(args, filter.Since)
		argIdx++
	}
	if !filter.Until.IsZero() {
		conditions = append(conditions, fmt.Sprintf("occurred_at <= $%d", argIdx))
		args = append(args, filter.Until)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM audit_log WHERE " + where
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	dataQuery := fmt.Sprintf(
		`SELECT id, occurred_at, tenant_id, key_id, key_preview, scope, outcome, client_ip, user_agent
		 FROM audit_log WHERE %s ORDER BY occurred_at DESC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.OccurredAt, &e.TenantID, &e.KeyID, &e.KeyPreview,
			&e.Scope, &e.Outcome, &e.ClientIP, &e.UserAgent); err != nil {
			return nil, 0, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, total, rows.Err()
}

// --- Products ---

func (s *PostgresStore) CreateProduct(ctx context.Context, p *models.Product) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO products (id, tenant_id, name, price_cents, currency, available, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.TenantID, p.Name, p.PriceCents, p.Currency, p.Available, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListProducts(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, name, price_cents, currency, available, created_at, updated_at
		 FROM products WHERE tenant_id = $1 ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.PriceCents, &p.Currency,
			&p.Available, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

// --- Orders ---

func (s *PostgresStore) ListOrders(ctx context.Context, tenantID uuid.UUID) ([]*models.Order, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, customer_name, status, total_cents, currency, created_at
		 FROM orders WHERE tenant_id = $1 ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.TenantID, &o.CustomerName, &o.Status,
			&o.TotalCents, &o.Currency, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
