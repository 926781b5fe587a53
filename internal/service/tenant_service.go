package service

import (
	"context"
	"log/slog"

	"github.com/yourorg/homerental/internal/domain"
	"github.com/yourorg/homerental/internal/events"
	"github.com/yourorg/homerental/internal/observability/metrics"
)

// TenantService owns tenant profiles. Each tenant is backed by exactly
// one user account.
type TenantService struct {
	store  domain.Store
	hub    *events.Hub
	logger *slog.Logger
}

func NewTenantService(store domain.Store, hub *events.Hub, logger *slog.Logger) *TenantService {
	return &TenantService{store: store, hub: hub, logger: logger}
}

// TenantInput carries the fields accepted when creating a tenant.
type TenantInput struct {
	Name   string
	Phone  int
	Job    string
	UserID int
}

// Create stores a new tenant linked to an existing user account.
func (s *TenantService) Create(ctx context.Context, in TenantInput) (*domain.Tenant, error) {
	tenant := &domain.Tenant{
		Name:   in.Name,
		Phone:  in.Phone,
		Job:    in.Job,
		UserID: in.UserID,
	}
	err := s.store.RunAtomic(ctx, func(tx domain.Store) error {
		if _, err := tx.Users().GetByID(ctx, in.UserID); err != nil {
			if domain.IsNotFound(err) {
				return &domain.IntegrityError{Entity: "user", ID: in.UserID}
			}
			return err
		}
		return tx.Tenants().Create(ctx, tenant)
	})
	if err != nil {
		metrics.ObserveEntityWrite("tenant", "create", "error")
		return nil, err
	}
	metrics.ObserveEntityWrite("tenant", "create", "ok")
	s.logger.Info("tenant created", slog.Int("id", tenant.ID), slog.Int("user_id", tenant.UserID))
	s.hub.Publish(events.Event{Action: "created", Entity: "tenant", ID: tenant.ID})
	return tenant, nil
}

// GetByID returns the tenant with the given id.
func (s *TenantService) GetByID(ctx context.Context, id int) (*domain.Tenant, error) {
	return s.store.Tenants().GetByID(ctx, id)
}

// List returns every tenant ordered by id.
func (s *TenantService) List(ctx context.Context) ([]*domain.Tenant, error) {
	return s.store.Tenants().List(ctx)
}
