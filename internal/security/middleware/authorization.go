package middleware

import (
	"github.com/yourorg/homerental/internal/security/auth"
)

// Role names as seeded in the roles table.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// CanDeleteUser reports whether the caller may delete the user with
// targetID. Admins may delete anyone; other callers only themselves.
func CanDeleteUser(claims *auth.Claims, targetID int) bool {
	if claims == nil {
		return false
	}
	for _, r := range claims.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return claims.UserID == targetID
}
