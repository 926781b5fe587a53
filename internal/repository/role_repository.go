package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/homerental/internal/domain"
)

// PostgresRoleRepository implements domain.RoleRepository using PostgreSQL
type PostgresRoleRepository struct {
	q      Querier
	logger *slog.Logger
}

// NewPostgresRoleRepository creates a new role repository
func NewPostgresRoleRepository(q Querier, logger *slog.Logger) *PostgresRoleRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRoleRepository{q: q, logger: logger}
}

// Create inserts a role.
func (r *PostgresRoleRepository) Create(ctx context.Context, role *domain.Role) error {
	err := r.q.QueryRowContext(ctx,
		`INSERT INTO roles (name) VALUES ($1) RETURNING id`, role.Name).Scan(&role.ID)
	if err != nil {
		return fmt.Errorf("failed to create role: %w", err)
	}
	return nil
}

// GetByName retrieves a role by name.
func (r *PostgresRoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	role := &domain.Role{}
	err := r.q.QueryRowContext(ctx,
		`SELECT id, name FROM roles WHERE name = $1`, name).Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "role"}
		}
		return nil, fmt.Errorf("failed to get role by name: %w", err)
	}
	return role, nil
}

// List returns all roles.
func (r *PostgresRoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, name FROM roles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var roles []*domain.Role
	for rows.Next() {
		role := &domain.Role{}
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
