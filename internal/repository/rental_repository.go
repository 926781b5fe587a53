package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yourorg/homerental/internal/domain"
)

// PostgresRentalRepository implements domain.RentalRepository using PostgreSQL.
// Rental dates travel through the domain as dd/mm/yyyy strings and are
// stored as DATE columns; conversion happens here, after validation has
// already guaranteed the strings parse.
type PostgresRentalRepository struct {
	q      Querier
	logger *slog.Logger
}

// NewPostgresRentalRepository creates a new rental repository
func NewPostgresRentalRepository(q Querier, logger *slog.Logger) *PostgresRentalRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRentalRepository{q: q, logger: logger}
}

// Create inserts a rental and its tenant join rows. A missing house or
// tenant reference surfaces as an integrity failure.
func (r *PostgresRentalRepository) Create(ctx context.Context, rental *domain.Rental) error {
	start, end, err := parseDates(rental)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO rentals (start_date, end_date, price_annual, deposit, contact_person, house_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err = r.q.QueryRowContext(ctx, query,
		start, end, rental.PriceAnnual, rental.Deposit, rental.ContactPerson, rental.HouseID,
	).Scan(&rental.ID)
	if err != nil {
		if translated := translateError(err, "house", rental.HouseID); translated != err {
			return translated
		}
		r.logger.Error("failed to create rental",
			slog.Int("house_id", rental.HouseID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create rental: %w", err)
	}

	return r.insertTenantJoins(ctx, rental.ID, rental.TenantIDs)
}

// GetByID retrieves a rental with its tenant ids.
func (r *PostgresRentalRepository) GetByID(ctx context.Context, id int) (*domain.Rental, error) {
	rental := &domain.Rental{}
	var start, end time.Time

	query := `
		SELECT id, start_date, end_date, price_annual, deposit, contact_person, house_id
		FROM rentals
		WHERE id = $1
	`

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&rental.ID, &start, &end,
		&rental.PriceAnnual, &rental.Deposit, &rental.ContactPerson, &rental.HouseID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "rental", ID: id}
		}
		return nil, fmt.Errorf("failed to get rental: %w", err)
	}
	rental.StartDate = domain.FormatDate(start)
	rental.EndDate = domain.FormatDate(end)

	tenantIDs, err := r.tenantIDsFor(ctx, rental.ID)
	if err != nil {
		return nil, err
	}
	rental.TenantIDs = tenantIDs

	return rental, nil
}

// Update merges rental fields and replaces the tenant join rows with
// the supplied set.
func (r *PostgresRentalRepository) Update(ctx context.Context, rental *domain.Rental) error {
	start, end, err := parseDates(rental)
	if err != nil {
		return err
	}

	query := `
		UPDATE rentals
		SET start_date = $1, end_date = $2, price_annual = $3, deposit = $4, contact_person = $5, house_id = $6
		WHERE id = $7
	`

	res, err := r.q.ExecContext(ctx, query,
		start, end, rental.PriceAnnual, rental.Deposit, rental.ContactPerson, rental.HouseID, rental.ID,
	)
	if err != nil {
		if translated := translateError(err, "house", rental.HouseID); translated != err {
			return translated
		}
		return fmt.Errorf("failed to update rental: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return &domain.NotFoundError{Entity: "rental", ID: rental.ID}
	}

	if _, err := r.q.ExecContext(ctx,
		`DELETE FROM rentals_tenants WHERE rental_id = $1`, rental.ID); err != nil {
		return fmt.Errorf("failed to clear rental tenants: %w", err)
	}
	return r.insertTenantJoins(ctx, rental.ID, rental.TenantIDs)
}

// Delete removes a rental and, via cascade, its tenant join rows. The
// house and the tenants themselves are untouched.
func (r *PostgresRentalRepository) Delete(ctx context.Context, id int) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM rentals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rental: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return &domain.NotFoundError{Entity: "rental", ID: id}
	}

	return nil
}

// List returns all rentals in insertion order.
func (r *PostgresRentalRepository) List(ctx context.Context) ([]*domain.Rental, error) {
	return r.list(ctx, `
		SELECT id, start_date, end_date, price_annual, deposit, contact_person, house_id
		FROM rentals
		ORDER BY id
	`)
}

// ListByUserID returns all rentals where any tenant belongs to the
// given user.
func (r *PostgresRentalRepository) ListByUserID(ctx context.Context, userID int) ([]*domain.Rental, error) {
	return r.list(ctx, `
		SELECT DISTINCT re.id, re.start_date, re.end_date, re.price_annual, re.deposit, re.contact_person, re.house_id
		FROM rentals re
		JOIN rentals_tenants rt ON rt.rental_id = re.id
		JOIN tenants t ON t.id = rt.tenant_id
		WHERE t.user_id = $1
		ORDER BY re.id
	`, userID)
}

// CountEndedBefore reports how many rentals ended strictly before the
// given dd/mm/yyyy date.
func (r *PostgresRentalRepository) CountEndedBefore(ctx context.Context, date string) (int, error) {
	cutoff, err := domain.ParseDate(date)
	if err != nil {
		return 0, &domain.ValidationError{Kind: domain.InvalidDate, Reason: fmt.Sprintf("cutoff %q is not a valid dd/mm/yyyy date", date)}
	}

	var count int
	err = r.q.QueryRowContext(ctx,
		`SELECT count(*) FROM rentals WHERE end_date < $1`, cutoff).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count ended rentals: %w", err)
	}
	return count, nil
}

func (r *PostgresRentalRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Rental, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rentals: %w", err)
	}
	defer rows.Close()

	var rentals []*domain.Rental
	for rows.Next() {
		rental := &domain.Rental{}
		var start, end time.Time
		if err := rows.Scan(
			&rental.ID, &start, &end,
			&rental.PriceAnnual, &rental.Deposit, &rental.ContactPerson, &rental.HouseID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rental: %w", err)
		}
		rental.StartDate = domain.FormatDate(start)
		rental.EndDate = domain.FormatDate(end)
		rentals = append(rentals, rental)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rentals: %w", err)
	}

	for _, rental := range rentals {
		tenantIDs, err := r.tenantIDsFor(ctx, rental.ID)
		if err != nil {
			return nil, err
		}
		rental.TenantIDs = tenantIDs
	}

	return rentals, nil
}

func (r *PostgresRentalRepository) insertTenantJoins(ctx context.Context, rentalID int, tenantIDs []int) error {
	for _, tenantID := range tenantIDs {
		_, err := r.q.ExecContext(ctx,
			`INSERT INTO rentals_tenants (rental_id, tenant_id) VALUES ($1, $2)`,
			rentalID, tenantID)
		if err != nil {
			if translated := translateError(err, "tenant", tenantID); translated != err {
				return translated
			}
			return fmt.Errorf("failed to attach tenant %d: %w", tenantID, err)
		}
	}
	return nil
}

func (r *PostgresRentalRepository) tenantIDsFor(ctx context.Context, rentalID int) ([]int, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT tenant_id FROM rentals_tenants WHERE rental_id = $1 ORDER BY tenant_id`, rentalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rental tenants: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan rental tenant: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func parseDates(rental *domain.Rental) (time.Time, time.Time, error) {
	start, err := domain.ParseDate(rental.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, &domain.ValidationError{
			Kind:   domain.InvalidDate,
			Reason: fmt.Sprintf("start date %q is not a valid dd/mm/yyyy date", rental.StartDate),
		}
	}
	end, err := domain.ParseDate(rental.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, &domain.ValidationError{
			Kind:   domain.InvalidDate,
			Reason: fmt.Sprintf("end date %q is not a valid dd/mm/yyyy date", rental.EndDate),
		}
	}
	return start, end, nil
}
