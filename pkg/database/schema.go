package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// statements are ordered so referenced tables exist before their
// foreign keys. The unique constraint on users.username is what turns
// a duplicate-create race into a commit-time rejection.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS roles (
		id   SERIAL PRIMARY KEY,
		name VARCHAR(45) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            SERIAL PRIMARY KEY,
		username      VARCHAR(25) NOT NULL UNIQUE,
		age           INTEGER NOT NULL,
		password_hash VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users_roles (
		user_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		role_id INTEGER NOT NULL REFERENCES roles (id),
		PRIMARY KEY (user_id, role_id)
	)`,
	`CREATE TABLE IF NOT EXISTS houses (
		id              SERIAL PRIMARY KEY,
		address         VARCHAR(255) NOT NULL,
		city            VARCHAR(45) NOT NULL,
		number_of_rooms INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tenants (
		id      SERIAL PRIMARY KEY,
		name    VARCHAR(45) NOT NULL,
		phone   INTEGER NOT NULL,
		job     VARCHAR(45) NOT NULL,
		user_id INTEGER NOT NULL UNIQUE REFERENCES users (id)
	)`,
	`CREATE TABLE IF NOT EXISTS rentals (
		id             SERIAL PRIMARY KEY,
		start_date     DATE NOT NULL,
		end_date       DATE NOT NULL,
		price_annual   INTEGER NOT NULL,
		deposit        INTEGER NOT NULL,
		contact_person VARCHAR(45) NOT NULL,
		house_id       INTEGER NOT NULL REFERENCES houses (id)
	)`,
	`CREATE TABLE IF NOT EXISTS rentals_tenants (
		rental_id INTEGER NOT NULL REFERENCES rentals (id) ON DELETE CASCADE,
		tenant_id INTEGER NOT NULL REFERENCES tenants (id),
		PRIMARY KEY (rental_id, tenant_id)
	)`,
}

// EnsureSchema creates the rental schema if it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	logger.Info("database schema ensured")
	return nil
}

// SeedRoles inserts the reference roles the application expects.
func SeedRoles(ctx context.Context, db *sql.DB, roles ...string) error {
	for _, role := range roles {
		_, err := db.ExecContext(ctx,
			`INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, role)
		if err != nil {
			return fmt.Errorf("failed to seed role %q: %w", role, err)
		}
	}
	return nil
}
