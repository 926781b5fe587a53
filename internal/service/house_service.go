package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/yourorg/homerental/internal/domain"
	"github.com/yourorg/homerental/internal/events"
	"github.com/yourorg/homerental/internal/observability/metrics"
	"github.com/yourorg/homerental/pkg/cache"
)

const houseListCacheKey = "houses:all"

// HouseService owns house records. The full listing is cached briefly
// since it is the hottest read and houses change rarely.
type HouseService struct {
	store  domain.Store
	hub    *events.Hub
	cache  *cache.Cache
	logger *slog.Logger
}

func NewHouseService(store domain.Store, hub *events.Hub, logger *slog.Logger) *HouseService {
	return &HouseService{
		store:  store,
		hub:    hub,
		cache:  cache.New(30 * time.Second),
		logger: logger,
	}
}

// HouseInput carries the fields accepted when creating a house.
type HouseInput struct {
	Address       string
	City          string
	NumberOfRooms int
}

// Create stores a new house.
func (s *HouseService) Create(ctx context.Context, in HouseInput) (*domain.House, error) {
	house := &domain.House{
		Address:       in.Address,
		City:          in.City,
		NumberOfRooms: in.NumberOfRooms,
	}
	if err := s.store.Houses().Create(ctx, house); err != nil {
		metrics.ObserveEntityWrite("house", "create", "error")
		return nil, err
	}
	s.cache.Delete(houseListCacheKey)
	metrics.ObserveEntityWrite("house", "create", "ok")
	s.logger.Info("house created", slog.Int("id", house.ID), slog.String("city", house.City))
	s.hub.Publish(events.Event{Action: "created", Entity: "house", ID: house.ID})
	return house, nil
}

// GetByID returns the house with the given id.
func (s *HouseService) GetByID(ctx context.Context, id int) (*domain.House, error) {
	return s.store.Houses().GetByID(ctx, id)
}

// List returns every house ordered by id, served from cache when warm.
func (s *HouseService) List(ctx context.Context) ([]*domain.House, error) {
	if v, ok := s.cache.Get(houseListCacheKey); ok {
		if houses, ok := v.([]*domain.House); ok {
			return houses, nil
		}
	}
	houses, err := s.store.Houses().List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(houseListCacheKey, houses)
	return houses, nil
}

// TenantsByHouseID returns the tenants currently renting the house. A
// house with no tenants is reported as not found.
func (s *HouseService) TenantsByHouseID(ctx context.Context, houseID int) ([]*domain.Tenant, error) {
	tenants, err := s.store.Tenants().ListByHouseID(ctx, houseID)
	if err != nil {
		return nil, err
	}
	if len(tenants) == 0 {
		return nil, &domain.NotFoundError{Entity: "house", ID: houseID}
	}
	return tenants, nil
}
