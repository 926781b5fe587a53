package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yourorg/homerental/internal/domain"
	"github.com/yourorg/homerental/internal/events"
	"github.com/yourorg/homerental/internal/observability/metrics"
	"github.com/yourorg/homerental/internal/security/auth"
	"github.com/yourorg/homerental/internal/validate"
)

// UserService owns the user lifecycle: registration, profile updates,
// deletion, and credential checks for login.
type UserService struct {
	store  domain.Store
	hub    *events.Hub
	logger *slog.Logger
}

func NewUserService(store domain.Store, hub *events.Hub, logger *slog.Logger) *UserService {
	return &UserService{store: store, hub: hub, logger: logger}
}

// CreateUserInput carries the fields accepted at registration.
type CreateUserInput struct {
	Username string
	Age      int
	Password string
}

// Create registers a new user with the default role. The username
// check and the insert run in one atomic unit so a failure leaves no
// partial rows behind.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	if err := validate.Age(in.Age); err != nil {
		metrics.ObserveEntityWrite("user", "create", "invalid")
		return nil, err
	}
	if err := validate.Username(in.Username); err != nil {
		metrics.ObserveEntityWrite("user", "create", "invalid")
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		metrics.ObserveEntityWrite("user", "create", "invalid")
		return nil, err
	}

	user := &domain.User{
		Username:     in.Username,
		Age:          in.Age,
		PasswordHash: hash,
		Roles:        []string{domain.DefaultRole},
	}

	err = s.store.RunAtomic(ctx, func(tx domain.Store) error {
		n, err := tx.Users().CountByUsername(ctx, in.Username)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrUsernameTaken
		}
		return tx.Users().Create(ctx, user)
	})
	if err != nil {
		metrics.ObserveEntityWrite("user", "create", "error")
		if !errors.Is(err, domain.ErrUsernameTaken) {
			s.logger.Error("user create failed", slog.String("username", in.Username), slog.Any("error", err))
		}
		return nil, err
	}

	metrics.ObserveEntityWrite("user", "create", "ok")
	s.logger.Info("user created", slog.Int("id", user.ID), slog.String("username", user.Username))
	s.hub.Publish(events.Event{Action: "created", Entity: "user", ID: user.ID})
	return user, nil
}

// UpdateUserInput carries the mutable user fields. Password is
// optional: empty means keep the current hash.
type UpdateUserInput struct {
	Username string
	Age      int
	Password string
}

// Update replaces the stored profile for id. A username change to one
// already held by another user fails with ErrUsernameTaken.
func (s *UserService) Update(ctx context.Context, id int, in UpdateUserInput) (*domain.User, error) {
	if err := validate.Age(in.Age); err != nil {
		metrics.ObserveEntityWrite("user", "update", "invalid")
		return nil, err
	}
	if err := validate.Username(in.Username); err != nil {
		metrics.ObserveEntityWrite("user", "update", "invalid")
		return nil, err
	}

	var updated *domain.User
	err := s.store.RunAtomic(ctx, func(tx domain.Store) error {
		current, err := tx.Users().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if in.Username != current.Username {
			n, err := tx.Users().CountByUsername(ctx, in.Username)
			if err != nil {
				return err
			}
			if n > 0 {
				return domain.ErrUsernameTaken
			}
		}
		current.Username = in.Username
		current.Age = in.Age
		if in.Password != "" {
			hash, err := auth.HashPassword(in.Password)
			if err != nil {
				return err
			}
			current.PasswordHash = hash
		}
		if err := tx.Users().Update(ctx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		metrics.ObserveEntityWrite("user", "update", "error")
		return nil, err
	}

	metrics.ObserveEntityWrite("user", "update", "ok")
	s.hub.Publish(events.Event{Action: "updated", Entity: "user", ID: id})
	return updated, nil
}

// GetByID returns the user with the given id.
func (s *UserService) GetByID(ctx context.Context, id int) (*domain.User, error) {
	return s.store.Users().GetByID(ctx, id)
}

// List returns every user ordered by id.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.store.Users().List(ctx)
}

// Delete removes the user. Users that still own a tenant profile
// cannot be removed; the attempt fails with an IntegrityError.
func (s *UserService) Delete(ctx context.Context, id int) error {
	err := s.store.RunAtomic(ctx, func(tx domain.Store) error {
		if _, err := tx.Users().GetByID(ctx, id); err != nil {
			return err
		}
		return tx.Users().Delete(ctx, id)
	})
	if err != nil {
		metrics.ObserveEntityWrite("user", "delete", "error")
		return err
	}
	metrics.ObserveEntityWrite("user", "delete", "ok")
	s.logger.Info("user deleted", slog.Int("id", id))
	s.hub.Publish(events.Event{Action: "deleted", Entity: "user", ID: id})
	return nil
}

// RentalsByUserID returns the rentals whose tenants belong to the
// user. A user with no rentals is reported as not found, matching the
// lookup behavior of the other by-id reads.
func (s *UserService) RentalsByUserID(ctx context.Context, userID int) ([]*domain.Rental, error) {
	rentals, err := s.store.Rentals().ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(rentals) == 0 {
		return nil, &domain.NotFoundError{Entity: "user", ID: userID}
	}
	return rentals, nil
}

// Verify checks a username/password pair and returns the user on
// success. Unknown usernames and bad passwords both come back as
// ErrInvalidCredentials so callers cannot probe for accounts.
func (s *UserService) Verify(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, auth.ErrInvalidCredentials
	}
	return user, nil
}
