package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/homerental/internal/domain"
)

// PostgresUserRepository implements domain.UserRepository using PostgreSQL
type PostgresUserRepository struct {
	q      Querier
	logger *slog.Logger
}

// NewPostgresUserRepository creates a new user repository
func NewPostgresUserRepository(q Querier, logger *slog.Logger) *PostgresUserRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresUserRepository{q: q, logger: logger}
}

// Create inserts a user and its role join rows. The store assigns the
// id on success.
func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (username, age, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.q.QueryRowContext(ctx, query, user.Username, user.Age, user.PasswordHash).Scan(&user.ID)
	if err != nil {
		if translated := translateError(err, "user", 0); translated != err {
			return translated
		}
		r.logger.Error("failed to create user",
			slog.String("username", user.Username),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create user: %w", err)
	}

	for _, role := range user.Roles {
		res, err := r.q.ExecContext(ctx,
			`INSERT INTO users_roles (user_id, role_id) SELECT $1, id FROM roles WHERE name = $2`,
			user.ID, role)
		if err != nil {
			return fmt.Errorf("failed to attach role %q: %w", role, err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("role %q is not seeded", role)
		}
	}

	return nil
}

// GetByID retrieves a user with its role names.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	user := &domain.User{}

	query := `
		SELECT id, username, age, password_hash
		FROM users
		WHERE id = $1
	`

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Age,
		&user.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "user", ID: id}
		}
		r.logger.Error("failed to get user by id",
			slog.Int("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	roles, err := r.rolesForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles

	return user, nil
}

// GetByUsername retrieves a user by its unique username.
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user := &domain.User{}

	query := `
		SELECT id, username, age, password_hash
		FROM users
		WHERE username = $1
	`

	err := r.q.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Age,
		&user.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "user"}
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	roles, err := r.rolesForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles

	return user, nil
}

// CountByUsername reports how many users carry the given username.
// Used as the uniqueness pre-check before create.
func (r *PostgresUserRepository) CountByUsername(ctx context.Context, username string) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx,
		`SELECT count(*) FROM users WHERE username = $1`, username).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users by username: %w", err)
	}
	return count, nil
}

// Update merges username, age and password hash. Role assignments are
// left untouched.
func (r *PostgresUserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET username = $1, age = $2, password_hash = $3
		WHERE id = $4
	`

	res, err := r.q.ExecContext(ctx, query, user.Username, user.Age, user.PasswordHash, user.ID)
	if err != nil {
		if translated := translateError(err, "user", user.ID); translated != err {
			return translated
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return &domain.NotFoundError{Entity: "user", ID: user.ID}
	}

	return nil
}

// Delete removes a user. The users_roles join rows cascade; a user
// still owning a tenant is rejected by the tenant foreign key.
func (r *PostgresUserRepository) Delete(ctx context.Context, id int) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if translated := translateError(err, "tenant", 0); translated != err {
			return translated
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return &domain.NotFoundError{Entity: "user", ID: id}
	}

	return nil
}

// List returns all users in insertion order.
func (r *PostgresUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT id, username, age, password_hash
		FROM users
		ORDER BY id
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	byID := map[int]*domain.User{}
	for rows.Next() {
		user := &domain.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.Age, &user.PasswordHash); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
		byID[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	roleRows, err := r.q.QueryContext(ctx, `
		SELECT ur.user_id, ro.name
		FROM users_roles ur
		JOIN roles ro ON ro.id = ur.role_id
		ORDER BY ur.user_id, ro.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list user roles: %w", err)
	}
	defer roleRows.Close()

	for roleRows.Next() {
		var userID int
		var role string
		if err := roleRows.Scan(&userID, &role); err != nil {
			return nil, fmt.Errorf("failed to scan user role: %w", err)
		}
		if user, ok := byID[userID]; ok {
			user.Roles = append(user.Roles, role)
		}
	}

	return users, roleRows.Err()
}

func (r *PostgresUserRepository) rolesForUser(ctx context.Context, userID int) ([]string, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT ro.name
		FROM roles ro
		JOIN users_roles ur ON ur.role_id = ro.id
		WHERE ur.user_id = $1
		ORDER BY ro.name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, name)
	}
	return roles, rows.Err()
}
