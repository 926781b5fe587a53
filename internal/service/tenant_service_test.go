package service

import (
	"context"
	"testing"

	"github.com/yourorg/homerental/internal/domain"
)

func TestCreateAndGetTenant(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	user, err := f.users.Create(ctx, CreateUserInput{Username: "alice", Age: 30, Password: "secret"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	tenant, err := f.tenants.Create(ctx, TenantInput{Name: "Alice", Phone: 5551234, Job: "nurse", UserID: user.ID})
	if err != nil {
		t.Fatalf("create tenant: %v", err)
	}

	got, err := f.tenants.GetByID(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Alice" || got.UserID != user.ID {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestCreateTenantMissingUser(t *testing.T) {
	f := newFixture()

	_, err := f.tenants.Create(context.Background(), TenantInput{Name: "Ghost", Phone: 5550000, Job: "none", UserID: 999})
	if !domain.IsIntegrity(err) {
		t.Fatalf("expected integrity error, got %v", err)
	}

	all, err := f.tenants.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("failed create must not persist, have %d tenants", len(all))
	}
}

func TestGetTenantUnknownID(t *testing.T) {
	f := newFixture()
	if _, err := f.tenants.GetByID(context.Background(), 999); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListTenants(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, name := range []string{"alice", "bob"} {
		user, err := f.users.Create(ctx, CreateUserInput{Username: name, Age: 30, Password: "secret"})
		if err != nil {
			t.Fatalf("create user %s: %v", name, err)
		}
		if _, err := f.tenants.Create(ctx, TenantInput{Name: name, Phone: 5550000, Job: "engineer", UserID: user.ID}); err != nil {
			t.Fatalf("create tenant %s: %v", name, err)
		}
	}

	all, err := f.tenants.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 tenants, got %d", len(all))
	}
}
