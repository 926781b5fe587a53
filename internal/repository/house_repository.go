package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/homerental/internal/domain"
)

// PostgresHouseRepository implements domain.HouseRepository using PostgreSQL
type PostgresHouseRepository struct {
	q      Querier
	logger *slog.Logger
}

// NewPostgresHouseRepository creates a new house repository
func NewPostgresHouseRepository(q Querier, logger *slog.Logger) *PostgresHouseRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresHouseRepository{q: q, logger: logger}
}

// Create inserts a house. The store assigns the id on success.
func (r *PostgresHouseRepository) Create(ctx context.Context, house *domain.House) error {
	query := `
		INSERT INTO houses (address, city, number_of_rooms)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.q.QueryRowContext(ctx, query, house.Address, house.City, house.NumberOfRooms).Scan(&house.ID)
	if err != nil {
		r.logger.Error("failed to create house",
			slog.String("address", house.Address),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create house: %w", err)
	}
	return nil
}

// GetByID retrieves a house by ID.
func (r *PostgresHouseRepository) GetByID(ctx context.Context, id int) (*domain.House, error) {
	house := &domain.House{}

	query := `
		SELECT id, address, city, number_of_rooms
		FROM houses
		WHERE id = $1
	`

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&house.ID,
		&house.Address,
		&house.City,
		&house.NumberOfRooms,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "house", ID: id}
		}
		return nil, fmt.Errorf("failed to get house: %w", err)
	}

	return house, nil
}

// List returns all houses in insertion order.
func (r *PostgresHouseRepository) List(ctx context.Context) ([]*domain.House, error) {
	query := `
		SELECT id, address, city, number_of_rooms
		FROM houses
		ORDER BY id
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list houses: %w", err)
	}
	defer rows.Close()

	var houses []*domain.House
	for rows.Next() {
		house := &domain.House{}
		if err := rows.Scan(&house.ID, &house.Address, &house.City, &house.NumberOfRooms); err != nil {
			return nil, fmt.Errorf("failed to scan house: %w", err)
		}
		houses = append(houses, house)
	}
	return houses, rows.Err()
}
