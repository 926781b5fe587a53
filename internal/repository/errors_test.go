package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/yourorg/homerental/internal/domain"
)

func TestTranslateErrorNil(t *testing.T) {
	if got := translateError(nil, "user", 1); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestTranslateErrorPassthrough(t *testing.T) {
	base := errors.New("connection reset")
	if got := translateError(base, "user", 1); got != base {
		t.Fatalf("expected error unchanged, got %v", got)
	}
}

func TestTranslateErrorUniqueUsername(t *testing.T) {
	pqErr := &pq.Error{Code: "23505", Table: "users", Constraint: "users_username_key"}
	if got := translateError(pqErr, "", 0); !errors.Is(got, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", got)
	}
}

func TestTranslateErrorUniqueCommitTime(t *testing.T) {
	// Commit-time violations carry no table name; they must still map
	// to the username condition.
	pqErr := &pq.Error{Code: "23505"}
	if got := translateError(pqErr, "", 0); !errors.Is(got, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", got)
	}
}

func TestTranslateErrorUniqueOtherTable(t *testing.T) {
	pqErr := &pq.Error{Code: "23505", Table: "tenants", Constraint: "tenants_user_id_key"}
	got := translateError(pqErr, "", 0)
	if errors.Is(got, domain.ErrUsernameTaken) {
		t.Fatal("non-user unique violation must not map to ErrUsernameTaken")
	}
	if got == nil {
		t.Fatal("expected an error")
	}
}

func TestTranslateErrorForeignKey(t *testing.T) {
	pqErr := &pq.Error{Code: "23503", Constraint: "rentals_house_id_fkey"}
	got := translateError(pqErr, "house", 42)

	var integrity *domain.IntegrityError
	if !errors.As(got, &integrity) {
		t.Fatalf("expected IntegrityError, got %v", got)
	}
	if integrity.Entity != "house" || integrity.ID != 42 {
		t.Fatalf("unexpected reference: %+v", integrity)
	}
}

func TestTranslateErrorWrapped(t *testing.T) {
	pqErr := &pq.Error{Code: "23505", Table: "users"}
	wrapped := fmt.Errorf("insert user: %w", pqErr)
	if got := translateError(wrapped, "", 0); !errors.Is(got, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken through wrapping, got %v", got)
	}
}
