package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/yourorg/homerental/internal/domain"
)

// PostgreSQL error codes, see
// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// translateError maps constraint violations onto the domain failure
// taxonomy. entity and id describe the reference being written when a
// foreign key can fire; they may be zero for commit-time translation.
func translateError(err error, entity string, id int) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case pqUniqueViolation:
		// username is the only unique constraint callers can trip
		// through the service surface; tenants.user_id is guarded by
		// the one-tenant-per-user creation path.
		if pqErr.Table == "" || pqErr.Table == "users" {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("unique constraint %q violated", pqErr.Constraint)
	case pqForeignKeyViolation:
		return &domain.IntegrityError{Entity: entity, ID: id}
	}
	return err
}
