package domain

import "context"

// Username and age bounds enforced on every user write.
const (
	MinimumAge = 13
	MaximumAge = 120

	MinimumUsernameLength = 3
	MaximumUsernameLength = 20

	MinimumPasswordLength = 4
)

// DefaultRole is attached to every newly created user.
const DefaultRole = "user"

// User is an account identity. PasswordHash holds a bcrypt hash and is
// never serialized to callers.
type User struct {
	ID           int
	Username     string // unique
	Age          int
	PasswordHash string
	Roles        []string
}

// HasRole reports whether the user carries the named role.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// Role is reference data attached to users via the users_roles join table.
type Role struct {
	ID   int
	Name string
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	CountByUsername(ctx context.Context, username string) (int, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]*User, error)
}

// RoleRepository defines data access for roles.
type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	GetByName(ctx context.Context, name string) (*Role, error)
	List(ctx context.Context) ([]*Role, error)
}
