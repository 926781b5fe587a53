package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/homerental/internal/domain"
)

// PostgresTenantRepository implements domain.TenantRepository using PostgreSQL
type PostgresTenantRepository struct {
	q      Querier
	logger *slog.Logger
}

// NewPostgresTenantRepository creates a new tenant repository
func NewPostgresTenantRepository(q Querier, logger *slog.Logger) *PostgresTenantRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTenantRepository{q: q, logger: logger}
}

// Create inserts a tenant. The owning user must exist; a missing user
// surfaces as an integrity failure.
func (r *PostgresTenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	query := `
		INSERT INTO tenants (name, phone, job, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.q.QueryRowContext(ctx, query, tenant.Name, tenant.Phone, tenant.Job, tenant.UserID).Scan(&tenant.ID)
	if err != nil {
		if translated := translateError(err, "user", tenant.UserID); translated != err {
			return translated
		}
		r.logger.Error("failed to create tenant",
			slog.String("name", tenant.Name),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

// GetByID retrieves a tenant by ID.
func (r *PostgresTenantRepository) GetByID(ctx context.Context, id int) (*domain.Tenant, error) {
	tenant := &domain.Tenant{}

	query := `
		SELECT id, name, phone, job, user_id
		FROM tenants
		WHERE id = $1
	`

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.Phone,
		&tenant.Job,
		&tenant.UserID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "tenant", ID: id}
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return tenant, nil
}

// List returns all tenants in insertion order.
func (r *PostgresTenantRepository) List(ctx context.Context) ([]*domain.Tenant, error) {
	return r.list(ctx, `
		SELECT id, name, phone, job, user_id
		FROM tenants
		ORDER BY id
	`)
}

// ListByHouseID returns the tenants attached to any rental of the given
// house.
func (r *PostgresTenantRepository) ListByHouseID(ctx context.Context, houseID int) ([]*domain.Tenant, error) {
	return r.list(ctx, `
		SELECT DISTINCT t.id, t.name, t.phone, t.job, t.user_id
		FROM tenants t
		JOIN rentals_tenants rt ON rt.tenant_id = t.id
		JOIN rentals re ON re.id = rt.rental_id
		WHERE re.house_id = $1
		ORDER BY t.id
	`, houseID)
}

func (r *PostgresTenantRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Tenant, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []*domain.Tenant
	for rows.Next() {
		tenant := &domain.Tenant{}
		if err := rows.Scan(&tenant.ID, &tenant.Name, &tenant.Phone, &tenant.Job, &tenant.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, tenant)
	}
	return tenants, rows.Err()
}
