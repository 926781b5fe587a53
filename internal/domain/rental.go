package domain

import "context"

// House is a rentable property. A house may accumulate any number of
// rentals over time; deleting a rental never touches its house.
type House struct {
	ID            int
	Address       string
	City          string
	NumberOfRooms int
}

// Tenant is a renter profile owned by exactly one user. The owning user
// is fixed at creation.
type Tenant struct {
	ID     int
	Name   string
	Phone  int
	Job    string
	UserID int
}

// Rental is a lease of one house to zero or more tenants. Dates are
// dd/mm/yyyy strings, validated before any write reaches storage.
type Rental struct {
	ID            int
	StartDate     string
	EndDate       string
	PriceAnnual   int
	Deposit       int
	ContactPerson string
	HouseID       int
	TenantIDs     []int
}

// HouseRepository defines data access for houses.
type HouseRepository interface {
	Create(ctx context.Context, house *House) error
	GetByID(ctx context.Context, id int) (*House, error)
	List(ctx context.Context) ([]*House, error)
}

// TenantRepository defines data access for tenants.
type TenantRepository interface {
	Create(ctx context.Context, tenant *Tenant) error
	GetByID(ctx context.Context, id int) (*Tenant, error)
	List(ctx context.Context) ([]*Tenant, error)
	ListByHouseID(ctx context.Context, houseID int) ([]*Tenant, error)
}

// RentalRepository defines data access for rentals and their tenant
// join rows.
type RentalRepository interface {
	Create(ctx context.Context, rental *Rental) error
	GetByID(ctx context.Context, id int) (*Rental, error)
	Update(ctx context.Context, rental *Rental) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]*Rental, error)
	ListByUserID(ctx context.Context, userID int) ([]*Rental, error)
	CountEndedBefore(ctx context.Context, date string) (int, error)
}
