package service

import (
	"context"
	"testing"

	"github.com/yourorg/homerental/internal/domain"
	"github.com/yourorg/homerental/internal/domain/domaintest"
	"github.com/yourorg/homerental/internal/events"
)

type fixture struct {
	store   *domaintest.MemStore
	users   *UserService
	tenants *TenantService
	houses  *HouseService
	rentals *RentalService
}

func newFixture() *fixture {
	store := domaintest.NewMemStore()
	hub := events.NewHub()
	log := testLogger()
	return &fixture{
		store:   store,
		users:   NewUserService(store, hub, log),
		tenants: NewTenantService(store, hub, log),
		houses:  NewHouseService(store, hub, log),
		rentals: NewRentalService(store, hub, log),
	}
}

// seedTenancy creates a user, its tenant profile and a house.
func (f *fixture) seedTenancy(t *testing.T, username string) (*domain.Tenant, *domain.House) {
	t.Helper()
	ctx := context.Background()
	user, err := f.users.Create(ctx, CreateUserInput{Username: username, Age: 30, Password: "secret"})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	tenant, err := f.tenants.Create(ctx, TenantInput{Name: username, Phone: 5550000, Job: "engineer", UserID: user.ID})
	if err != nil {
		t.Fatalf("seed tenant: %v", err)
	}
	house, err := f.houses.Create(ctx, HouseInput{Address: "1 Main St", City: "Springfield", NumberOfRooms: 3})
	if err != nil {
		t.Fatalf("seed house: %v", err)
	}
	return tenant, house
}

func TestCreateRental(t *testing.T) {
	f := newFixture()
	tenant, house := f.seedTenancy(t, "alice")
	ctx := context.Background()

	rental, err := f.rentals.Create(ctx, RentalInput{
		StartDate: "01/02/2025", EndDate: "01/02/2026",
		PriceAnnual: 14400, Deposit: 1200, ContactPerson: "Bob",
		HouseID: house.ID, TenantIDs: []int{tenant.ID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rental.ID == 0 {
		t.Fatal("expected assigned id")
	}

	got, err := f.rentals.GetByID(ctx, rental.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.StartDate != "01/02/2025" || got.EndDate != "01/02/2026" {
		t.Fatalf("dates mismatch: %+v", got)
	}
	if len(got.TenantIDs) != 1 || got.TenantIDs[0] != tenant.ID {
		t.Fatalf("tenant ids mismatch: %v", got.TenantIDs)
	}
}

func TestCreateRentalInvalidDates(t *testing.T) {
	f := newFixture()
	tenant, house := f.seedTenancy(t, "alice")
	ctx := context.Background()

	cases := []struct {
		name       string
		start, end string
	}{
		{"bad format", "2025-01-01", "2025-12-31"},
		{"rollover day", "32/01/2025", "01/03/2025"},
		{"end before start", "01/06/2025", "01/01/2025"},
		{"equal dates", "01/06/2025", "01/06/2025"},
		{"empty", "", "01/06/2025"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.rentals.Create(ctx, RentalInput{
				StartDate: tc.start, EndDate: tc.end,
				PriceAnnual: 12000, HouseID: house.ID, TenantIDs: []int{tenant.ID},
			})
			if !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if f.store.CountRentals() != 0 {
		t.Fatalf("rejected creates must not persist, have %d rentals", f.store.CountRentals())
	}
}

func TestCreateRentalMissingHouse(t *testing.T) {
	f := newFixture()
	tenant, _ := f.seedTenancy(t, "alice")

	_, err := f.rentals.Create(context.Background(), RentalInput{
		StartDate: "01/01/2025", EndDate: "31/12/2025",
		PriceAnnual: 12000, HouseID: 999, TenantIDs: []int{tenant.ID},
	})
	if !domain.IsIntegrity(err) {
		t.Fatalf("expected integrity error, got %v", err)
	}
	if f.store.CountRentals() != 0 {
		t.Fatal("failed create must leave no rental behind")
	}
}

func TestCreateRentalMissingTenant(t *testing.T) {
	f := newFixture()
	_, house := f.seedTenancy(t, "alice")

	_, err := f.rentals.Create(context.Background(), RentalInput{
		StartDate: "01/01/2025", EndDate: "31/12/2025",
		PriceAnnual: 12000, HouseID: house.ID, TenantIDs: []int{999},
	})
	if !domain.IsIntegrity(err) {
		t.Fatalf("expected integrity error, got %v", err)
	}
	if f.store.CountRentals() != 0 {
		t.Fatal("failed create must leave no rental behind")
	}
}

func TestUpdateRental(t *testing.T) {
	f := newFixture()
	tenant, house := f.seedTenancy(t, "alice")
	ctx := context.Background()

	rental, err := f.rentals.Create(ctx, RentalInput{
		StartDate: "01/01/2025", EndDate: "31/12/2025",
		PriceAnnual: 12000, Deposit: 1000, ContactPerson: "Bob",
		HouseID: house.ID, TenantIDs: []int{tenant.ID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := f.rentals.Update(ctx, rental.ID, RentalInput{
		StartDate: "01/01/2025", EndDate: "30/06/2026",
		PriceAnnual: 15000, Deposit: 1000, ContactPerson: "Carol",
		HouseID: house.ID, TenantIDs: []int{tenant.ID},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.EndDate != "30/06/2026" || updated.PriceAnnual != 15000 {
		t.Fatalf("update not applied: %+v", updated)
	}

	got, _ := f.rentals.GetByID(ctx, rental.ID)
	if got.ContactPerson != "Carol" {
		t.Fatalf("update not persisted: %+v", got)
	}
}

func TestUpdateRentalUnknownID(t *testing.T) {
	f := newFixture()
	tenant, house := f.seedTenancy(t, "alice")

	_, err := f.rentals.Update(context.Background(), 999, RentalInput{
		StartDate: "01/01/2025", EndDate: "31/12/2025",
		PriceAnnual: 12000, HouseID: house.ID, TenantIDs: []int{tenant.ID},
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteRentalLeavesHouseAndTenant(t *testing.T) {
	f := newFixture()
	tenant, house := f.seedTenancy(t, "alice")
	ctx := context.Background()

	rental, err := f.rentals.Create(ctx, RentalInput{
		StartDate: "01/01/2025", EndDate: "31/12/2025",
		PriceAnnual: 12000, HouseID: house.ID, TenantIDs: []int{tenant.ID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.rentals.Delete(ctx, rental.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.rentals.GetByID(ctx, rental.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if _, err := f.houses.GetByID(ctx, house.ID); err != nil {
		t.Fatalf("house must survive rental delete: %v", err)
	}
	if _, err := f.tenants.GetByID(ctx, tenant.ID); err != nil {
		t.Fatalf("tenant must survive rental delete: %v", err)
	}
}

func TestDeleteRentalUnknownID(t *testing.T) {
	f := newFixture()
	if err := f.rentals.Delete(context.Background(), 999); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFullScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	alice, err := f.users.Create(ctx, CreateUserInput{Username: "alice", Age: 28, Password: "secret"})
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	tenant, err := f.tenants.Create(ctx, TenantInput{Name: "Alice Smith", Phone: 5551234, Job: "engineer", UserID: alice.ID})
	if err != nil {
		t.Fatalf("create tenant: %v", err)
	}
	house, err := f.houses.Create(ctx, HouseInput{Address: "7 Oak Ave", City: "Portland", NumberOfRooms: 4})
	if err != nil {
		t.Fatalf("create house: %v", err)
	}
	rental, err := f.rentals.Create(ctx, RentalInput{
		StartDate: "15/03/2025", EndDate: "15/03/2026",
		PriceAnnual: 18000, Deposit: 1500, ContactPerson: "Bob Jones",
		HouseID: house.ID, TenantIDs: []int{tenant.ID},
	})
	if err != nil {
		t.Fatalf("create rental: %v", err)
	}

	byUser, err := f.users.RentalsByUserID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("rentals by user: %v", err)
	}
	if len(byUser) != 1 || byUser[0].ID != rental.ID {
		t.Fatalf("expected alice's rental, got %+v", byUser)
	}

	inHouse, err := f.houses.TenantsByHouseID(ctx, house.ID)
	if err != nil {
		t.Fatalf("tenants by house: %v", err)
	}
	if len(inHouse) != 1 || inHouse[0].ID != tenant.ID {
		t.Fatalf("expected alice as house tenant, got %+v", inHouse)
	}

	all, err := f.rentals.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 rental, got %d", len(all))
	}
}
