package auth

import (
	"testing"
	"time"

	"github.com/yourorg/homerental/internal/domain"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "secret1" {
		t.Fatal("hash must not equal the raw secret")
	}
	if !CheckPassword("secret1", hash) {
		t.Fatal("correct password should verify")
	}
	if CheckPassword("wrong", hash) {
		t.Fatal("wrong password should not verify")
	}
}

func TestHashPasswordTooShort(t *testing.T) {
	_, err := HashPassword("abc")
	if err == nil {
		t.Fatal("expected short password to fail")
	}
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", "homerental")

	token, err := tm.GenerateToken(7, "alice", []string{"user", "admin"}, 15*time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := tm.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if len(claims.Roles) != 2 {
		t.Fatalf("expected two roles, got %v", claims.Roles)
	}

	if _, err := NewTokenManager("other-secret", "homerental").ValidateToken(token); err == nil {
		t.Fatal("token should not validate under a different secret")
	}
}
