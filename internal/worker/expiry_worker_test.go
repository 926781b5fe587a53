package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/yourorg/homerental/internal/domain"
	"github.com/yourorg/homerental/internal/domain/domaintest"
)

func seedRental(t *testing.T, store *domaintest.MemStore, start, end string) {
	t.Helper()
	ctx := context.Background()
	err := store.RunAtomic(ctx, func(tx domain.Store) error {
		user := &domain.User{Username: "worker-" + end, Age: 30, PasswordHash: "x", Roles: []string{"user"}}
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		tenant := &domain.Tenant{Name: "t", Phone: 5550000, Job: "j", UserID: user.ID}
		if err := tx.Tenants().Create(ctx, tenant); err != nil {
			return err
		}
		house := &domain.House{Address: "a", City: "c", NumberOfRooms: 1}
		if err := tx.Houses().Create(ctx, house); err != nil {
			return err
		}
		return tx.Rentals().Create(ctx, &domain.Rental{
			StartDate: start, EndDate: end,
			PriceAnnual: 1000, HouseID: house.ID, TenantIDs: []int{tenant.ID},
		})
	})
	if err != nil {
		t.Fatalf("seed rental: %v", err)
	}
}

func TestSweepCountsEndedRentals(t *testing.T) {
	store := domaintest.NewMemStore()
	seedRental(t, store, "01/01/2020", "31/12/2020")
	seedRental(t, store, "01/01/2020", "31/12/2099")

	w := NewExpiryWorker(store, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Minute)
	w.sweep(context.Background())

	if store.CountRentals() != 2 {
		t.Fatalf("sweep must not mutate data, have %d rentals", store.CountRentals())
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	store := domaintest.NewMemStore()
	w := NewExpiryWorker(store, slog.New(slog.NewTextHandler(io.Discard, nil)), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on cancel")
	}
}
