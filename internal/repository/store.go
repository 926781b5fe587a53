package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/homerental/internal/domain"
)

// Querier is the query surface shared by *sql.DB and *sql.Tx, so the
// same repository code serves snapshot reads and atomic units alike.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements domain.Store on PostgreSQL. Reads outside RunAtomic
// are snapshot reads against the pool; all writes go through RunAtomic.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	repos  repoSet
}

type repoSet struct {
	users   *PostgresUserRepository
	roles   *PostgresRoleRepository
	houses  *PostgresHouseRepository
	tenants *PostgresTenantRepository
	rentals *PostgresRentalRepository
}

func newRepoSet(q Querier, logger *slog.Logger) repoSet {
	return repoSet{
		users:   NewPostgresUserRepository(q, logger),
		roles:   NewPostgresRoleRepository(q, logger),
		houses:  NewPostgresHouseRepository(q, logger),
		tenants: NewPostgresTenantRepository(q, logger),
		rentals: NewPostgresRentalRepository(q, logger),
	}
}

// NewStore creates a store over an open connection pool.
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:     db,
		logger: logger,
		repos:  newRepoSet(db, logger),
	}
}

func (s *Store) Users() domain.UserRepository     { return s.repos.users }
func (s *Store) Roles() domain.RoleRepository     { return s.repos.roles }
func (s *Store) Houses() domain.HouseRepository   { return s.repos.houses }
func (s *Store) Tenants() domain.TenantRepository { return s.repos.tenants }
func (s *Store) Rentals() domain.RentalRepository { return s.repos.rentals }

// RunAtomic runs fn against a transaction-scoped store. An error from
// fn rolls back every change made in the unit; otherwise the unit
// commits. Constraint violations surfacing at commit time are
// translated like statement-time ones, so a duplicate-create race past
// the pre-check still fails with the username-taken condition.
func (s *Store) RunAtomic(ctx context.Context, fn func(domain.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txStore := &atomicStore{repos: newRepoSet(tx, s.logger)}
	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.logger.Error("rollback failed", slog.String("error", rbErr.Error()))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return translateError(err, "", 0)
	}
	return nil
}

// atomicStore is the transaction-scoped view handed to RunAtomic
// callbacks. Nesting atomic units is not supported.
type atomicStore struct {
	repos repoSet
}

func (s *atomicStore) Users() domain.UserRepository     { return s.repos.users }
func (s *atomicStore) Roles() domain.RoleRepository     { return s.repos.roles }
func (s *atomicStore) Houses() domain.HouseRepository   { return s.repos.houses }
func (s *atomicStore) Tenants() domain.TenantRepository { return s.repos.tenants }
func (s *atomicStore) Rentals() domain.RentalRepository { return s.repos.rentals }

func (s *atomicStore) RunAtomic(ctx context.Context, fn func(domain.Store) error) error {
	return errors.New("nested atomic units are not supported")
}
