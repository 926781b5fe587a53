// Package validate holds the pure domain rule checks. Every function is
// side-effect free and returns a typed domain.ValidationError on
// failure, so services can evaluate rules before storage is touched.
package validate

import (
	"fmt"

	"github.com/yourorg/homerental/internal/domain"
)

// Age rejects ages outside [13,120].
func Age(age int) error {
	if age < domain.MinimumAge || age > domain.MaximumAge {
		return &domain.ValidationError{
			Kind:   domain.IllegalAge,
			Reason: fmt.Sprintf("age %d is outside the allowed range %d-%d", age, domain.MinimumAge, domain.MaximumAge),
		}
	}
	return nil
}

// Username rejects empty usernames and usernames with a length outside
// [3,20].
func Username(username string) error {
	if username == "" {
		return &domain.ValidationError{
			Kind:   domain.InvalidUsername,
			Reason: "username cannot be empty",
		}
	}
	if len(username) < domain.MinimumUsernameLength || len(username) > domain.MaximumUsernameLength {
		return &domain.ValidationError{
			Kind: domain.InvalidUsername,
			Reason: fmt.Sprintf("username length should be between %d and %d characters",
				domain.MinimumUsernameLength, domain.MaximumUsernameLength),
		}
	}
	return nil
}

// Password rejects raw secrets shorter than the minimum length. The
// hash itself is produced elsewhere.
func Password(password string) error {
	if len(password) < domain.MinimumPasswordLength {
		return &domain.ValidationError{
			Kind:   domain.InvalidPassword,
			Reason: "password is too short",
		}
	}
	return nil
}

// DatePair rejects date pairs where either side fails strict dd/mm/yyyy
// parsing or where the start is not strictly before the end. A rental
// must span at least one day, so equal dates fail as well.
func DatePair(start, end string) error {
	startDate, err := domain.ParseDate(start)
	if err != nil {
		return &domain.ValidationError{
			Kind:   domain.InvalidDate,
			Reason: fmt.Sprintf("start date %q is not a valid dd/mm/yyyy date", start),
		}
	}
	endDate, err := domain.ParseDate(end)
	if err != nil {
		return &domain.ValidationError{
			Kind:   domain.InvalidDate,
			Reason: fmt.Sprintf("end date %q is not a valid dd/mm/yyyy date", end),
		}
	}
	if !startDate.Before(endDate) {
		return &domain.ValidationError{
			Kind:   domain.InvalidDate,
			Reason: "start date is equal to or after end date",
		}
	}
	return nil
}
