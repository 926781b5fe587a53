package domain

import (
	"errors"
	"fmt"
)

// ErrUsernameTaken reports a violated username uniqueness constraint,
// whether caught by the pre-check or by the store at commit time.
var ErrUsernameTaken = errors.New("username already in use")

// ValidationKind discriminates validation failures.
type ValidationKind string

const (
	IllegalAge      ValidationKind = "illegal_age"
	InvalidUsername ValidationKind = "invalid_username"
	InvalidDate     ValidationKind = "invalid_date"
	InvalidPassword ValidationKind = "invalid_password"
)

// ValidationError reports input that violates a domain rule. It is
// raised before any persistence attempt.
type ValidationError struct {
	Kind   ValidationKind
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NotFoundError reports that an id has no corresponding persisted
// entity.
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d does not exist", e.Entity, e.ID)
}

// IntegrityError reports a referenced entity that does not exist at the
// time a relationship is formed.
type IntegrityError struct {
	Entity string
	ID     int
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("referenced %s with id %d does not exist", e.Entity, e.ID)
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsIntegrity reports whether err is, or wraps, an IntegrityError.
func IsIntegrity(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}
