package auth

import (
	"errors"

	"github.com/yourorg/homerental/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any failed credential check.
// Callers get no hint whether the username or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

// HashPassword produces a salted bcrypt hash of the raw secret. Secrets
// shorter than the minimum length are rejected before hashing.
func HashPassword(password string) (string, error) {
	if len(password) < domain.MinimumPasswordLength {
		return "", &domain.ValidationError{
			Kind:   domain.InvalidPassword,
			Reason: "password is too short",
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies a raw secret against a stored bcrypt hash.
func CheckPassword(password, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}
