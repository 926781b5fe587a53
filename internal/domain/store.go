package domain

import "context"

// Store groups the entity repositories behind one handle. RunAtomic
// yields a transaction-scoped Store: every write inside the callback
// commits or rolls back as one unit, and reads inside the callback see
// the unit's earlier writes.
type Store interface {
	Users() UserRepository
	Roles() RoleRepository
	Houses() HouseRepository
	Tenants() TenantRepository
	Rentals() RentalRepository

	RunAtomic(ctx context.Context, fn func(Store) error) error
}
