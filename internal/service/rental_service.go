package service

import (
	"context"
	"log/slog"

	"github.com/yourorg/homerental/internal/domain"
	"github.com/yourorg/homerental/internal/events"
	"github.com/yourorg/homerental/internal/observability/metrics"
	"github.com/yourorg/homerental/internal/validate"
)

// RentalService owns the rental agreement lifecycle.
type RentalService struct {
	store  domain.Store
	hub    *events.Hub
	logger *slog.Logger
}

func NewRentalService(store domain.Store, hub *events.Hub, logger *slog.Logger) *RentalService {
	return &RentalService{store: store, hub: hub, logger: logger}
}

// RentalInput carries the fields accepted when creating or replacing a
// rental agreement. Dates use the dd/mm/yyyy layout.
type RentalInput struct {
	StartDate     string
	EndDate       string
	PriceAnnual   int
	Deposit       int
	ContactPerson string
	HouseID       int
	TenantIDs     []int
}

// Create stores a new rental for an existing house and tenants. The
// referenced house and every tenant must already exist; a dangling
// reference aborts the whole unit with nothing persisted.
func (s *RentalService) Create(ctx context.Context, in RentalInput) (*domain.Rental, error) {
	if err := validate.DatePair(in.StartDate, in.EndDate); err != nil {
		metrics.ObserveEntityWrite("rental", "create", "invalid")
		return nil, err
	}

	rental := &domain.Rental{
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		PriceAnnual:   in.PriceAnnual,
		Deposit:       in.Deposit,
		ContactPerson: in.ContactPerson,
		HouseID:       in.HouseID,
		TenantIDs:     in.TenantIDs,
	}

	err := s.store.RunAtomic(ctx, func(tx domain.Store) error {
		if _, err := tx.Houses().GetByID(ctx, in.HouseID); err != nil {
			if domain.IsNotFound(err) {
				return &domain.IntegrityError{Entity: "house", ID: in.HouseID}
			}
			return err
		}
		for _, tid := range in.TenantIDs {
			if _, err := tx.Tenants().GetByID(ctx, tid); err != nil {
				if domain.IsNotFound(err) {
					return &domain.IntegrityError{Entity: "tenant", ID: tid}
				}
				return err
			}
		}
		return tx.Rentals().Create(ctx, rental)
	})
	if err != nil {
		metrics.ObserveEntityWrite("rental", "create", "error")
		return nil, err
	}

	metrics.ObserveEntityWrite("rental", "create", "ok")
	s.logger.Info("rental created",
		slog.Int("id", rental.ID),
		slog.Int("house_id", rental.HouseID),
		slog.Int("tenants", len(rental.TenantIDs)))
	s.hub.Publish(events.Event{Action: "created", Entity: "rental", ID: rental.ID})
	return rental, nil
}

// Update replaces the rental with the given id, including its tenant
// set. The same reference checks as Create apply.
func (s *RentalService) Update(ctx context.Context, id int, in RentalInput) (*domain.Rental, error) {
	if err := validate.DatePair(in.StartDate, in.EndDate); err != nil {
		metrics.ObserveEntityWrite("rental", "update", "invalid")
		return nil, err
	}

	rental := &domain.Rental{
		ID:            id,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		PriceAnnual:   in.PriceAnnual,
		Deposit:       in.Deposit,
		ContactPerson: in.ContactPerson,
		HouseID:       in.HouseID,
		TenantIDs:     in.TenantIDs,
	}

	err := s.store.RunAtomic(ctx, func(tx domain.Store) error {
		if _, err := tx.Rentals().GetByID(ctx, id); err != nil {
			return err
		}
		if _, err := tx.Houses().GetByID(ctx, in.HouseID); err != nil {
			if domain.IsNotFound(err) {
				return &domain.IntegrityError{Entity: "house", ID: in.HouseID}
			}
			return err
		}
		for _, tid := range in.TenantIDs {
			if _, err := tx.Tenants().GetByID(ctx, tid); err != nil {
				if domain.IsNotFound(err) {
					return &domain.IntegrityError{Entity: "tenant", ID: tid}
				}
				return err
			}
		}
		return tx.Rentals().Update(ctx, rental)
	})
	if err != nil {
		metrics.ObserveEntityWrite("rental", "update", "error")
		return nil, err
	}

	metrics.ObserveEntityWrite("rental", "update", "ok")
	s.hub.Publish(events.Event{Action: "updated", Entity: "rental", ID: id})
	return rental, nil
}

// GetByID returns the rental with the given id.
func (s *RentalService) GetByID(ctx context.Context, id int) (*domain.Rental, error) {
	return s.store.Rentals().GetByID(ctx, id)
}

// List returns every rental ordered by id.
func (s *RentalService) List(ctx context.Context) ([]*domain.Rental, error) {
	return s.store.Rentals().List(ctx)
}

// Delete removes a rental and its tenant links. The house and the
// tenants themselves are untouched.
func (s *RentalService) Delete(ctx context.Context, id int) error {
	err := s.store.RunAtomic(ctx, func(tx domain.Store) error {
		if _, err := tx.Rentals().GetByID(ctx, id); err != nil {
			return err
		}
		return tx.Rentals().Delete(ctx, id)
	})
	if err != nil {
		metrics.ObserveEntityWrite("rental", "delete", "error")
		return err
	}
	metrics.ObserveEntityWrite("rental", "delete", "ok")
	s.logger.Info("rental deleted", slog.Int("id", id))
	s.hub.Publish(events.Event{Action: "deleted", Entity: "rental", ID: id})
	return nil
}
