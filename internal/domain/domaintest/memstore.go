// Package domaintest provides an in-memory domain.Store for tests. It
// mirrors the storage semantics the services rely on: id assignment on
// first commit, username uniqueness, foreign-key checks on tenant and
// rental references, and all-or-nothing atomic units.
package domaintest

import (
	"context"
	"errors"
	"sync"

	"github.com/yourorg/homerental/internal/domain"
)

// MemStore implements domain.Store over maps. RunAtomic applies the
// callback to a deep copy and swaps it in only on success, so a failed
// unit leaves no trace, like a rolled-back transaction.
type MemStore struct {
	mu   sync.Mutex
	data *snapshot
}

type snapshot struct {
	nextID  int
	users   []*domain.User
	roles   []*domain.Role
	houses  []*domain.House
	tenants []*domain.Tenant
	rentals []*domain.Rental
}

// NewMemStore creates an empty store with the reference roles seeded.
func NewMemStore() *MemStore {
	s := &MemStore{data: &snapshot{nextID: 1}}
	s.data.roles = []*domain.Role{
		{ID: s.data.allocID(), Name: "user"},
		{ID: s.data.allocID(), Name: "admin"},
	}
	return s
}

func (d *snapshot) allocID() int {
	id := d.nextID
	d.nextID++
	return id
}

func (d *snapshot) clone() *snapshot {
	c := &snapshot{nextID: d.nextID}
	for _, u := range d.users {
		cp := *u
		cp.Roles = append([]string(nil), u.Roles...)
		c.users = append(c.users, &cp)
	}
	for _, r := range d.roles {
		cp := *r
		c.roles = append(c.roles, &cp)
	}
	for _, h := range d.houses {
		cp := *h
		c.houses = append(c.houses, &cp)
	}
	for _, t := range d.tenants {
		cp := *t
		c.tenants = append(c.tenants, &cp)
	}
	for _, r := range d.rentals {
		cp := *r
		cp.TenantIDs = append([]int(nil), r.TenantIDs...)
		c.rentals = append(c.rentals, &cp)
	}
	return c
}

func (s *MemStore) Users() domain.UserRepository     { return &memUsers{s} }
func (s *MemStore) Roles() domain.RoleRepository     { return &memRoles{s} }
func (s *MemStore) Houses() domain.HouseRepository   { return &memHouses{s} }
func (s *MemStore) Tenants() domain.TenantRepository { return &memTenants{s} }
func (s *MemStore) Rentals() domain.RentalRepository { return &memRentals{s} }

// RunAtomic runs fn against a copy of the store and commits the copy
// only when fn returns nil.
func (s *MemStore) RunAtomic(ctx context.Context, fn func(domain.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := &MemStore{data: s.data.clone()}
	if err := fn(work); err != nil {
		return err
	}
	s.data = work.data
	return nil
}

// CountUsers reports the number of stored users; used by tests to
// verify rollback left nothing behind.
func (s *MemStore) CountUsers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.users)
}

// CountRentals reports the number of stored rentals.
func (s *MemStore) CountRentals() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.rentals)
}

type memUsers struct{ s *MemStore }

func (m *memUsers) Create(ctx context.Context, user *domain.User) error {
	d := m.s.data
	for _, u := range d.users {
		if u.Username == user.Username {
			return domain.ErrUsernameTaken
		}
	}
	user.ID = d.allocID()
	cp := *user
	cp.Roles = append([]string(nil), user.Roles...)
	d.users = append(d.users, &cp)
	return nil
}

func (m *memUsers) GetByID(ctx context.Context, id int) (*domain.User, error) {
	for _, u := range m.s.data.users {
		if u.ID == id {
			cp := *u
			cp.Roles = append([]string(nil), u.Roles...)
			return &cp, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "user", ID: id}
}

func (m *memUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range m.s.data.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "user"}
}

func (m *memUsers) CountByUsername(ctx context.Context, username string) (int, error) {
	count := 0
	for _, u := range m.s.data.users {
		if u.Username == username {
			count++
		}
	}
	return count, nil
}

func (m *memUsers) Update(ctx context.Context, user *domain.User) error {
	d := m.s.data
	for _, u := range d.users {
		if u.Username == user.Username && u.ID != user.ID {
			return domain.ErrUsernameTaken
		}
	}
	for i, u := range d.users {
		if u.ID == user.ID {
			cp := *user
			cp.Roles = append([]string(nil), u.Roles...)
			d.users[i] = &cp
			return nil
		}
	}
	return &domain.NotFoundError{Entity: "user", ID: user.ID}
}

func (m *memUsers) Delete(ctx context.Context, id int) error {
	d := m.s.data
	for _, t := range d.tenants {
		if t.UserID == id {
			return &domain.IntegrityError{Entity: "tenant", ID: t.ID}
		}
	}
	for i, u := range d.users {
		if u.ID == id {
			d.users = append(d.users[:i], d.users[i+1:]...)
			return nil
		}
	}
	return &domain.NotFoundError{Entity: "user", ID: id}
}

func (m *memUsers) List(ctx context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(m.s.data.users))
	for _, u := range m.s.data.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

type memRoles struct{ s *MemStore }

func (m *memRoles) Create(ctx context.Context, role *domain.Role) error {
	role.ID = m.s.data.allocID()
	cp := *role
	m.s.data.roles = append(m.s.data.roles, &cp)
	return nil
}

func (m *memRoles) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	for _, r := range m.s.data.roles {
		if r.Name == name {
			cp := *r
			return &cp, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "role"}
}

func (m *memRoles) List(ctx context.Context) ([]*domain.Role, error) {
	out := make([]*domain.Role, 0, len(m.s.data.roles))
	for _, r := range m.s.data.roles {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

type memHouses struct{ s *MemStore }

func (m *memHouses) Create(ctx context.Context, house *domain.House) error {
	house.ID = m.s.data.allocID()
	cp := *house
	m.s.data.houses = append(m.s.data.houses, &cp)
	return nil
}

func (m *memHouses) GetByID(ctx context.Context, id int) (*domain.House, error) {
	for _, h := range m.s.data.houses {
		if h.ID == id {
			cp := *h
			return &cp, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "house", ID: id}
}

func (m *memHouses) List(ctx context.Context) ([]*domain.House, error) {
	out := make([]*domain.House, 0, len(m.s.data.houses))
	for _, h := range m.s.data.houses {
		cp := *h
		out = append(out, &cp)
	}
	return out, nil
}

type memTenants struct{ s *MemStore }

func (m *memTenants) Create(ctx context.Context, tenant *domain.Tenant) error {
	d := m.s.data
	userExists := false
	for _, u := range d.users {
		if u.ID == tenant.UserID {
			userExists = true
			break
		}
	}
	if !userExists {
		return &domain.IntegrityError{Entity: "user", ID: tenant.UserID}
	}
	for _, t := range d.tenants {
		if t.UserID == tenant.UserID {
			return errors.New("user already owns a tenant")
		}
	}
	tenant.ID = d.allocID()
	cp := *tenant
	d.tenants = append(d.tenants, &cp)
	return nil
}

func (m *memTenants) GetByID(ctx context.Context, id int) (*domain.Tenant, error) {
	for _, t := range m.s.data.tenants {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "tenant", ID: id}
}

func (m *memTenants) List(ctx context.Context) ([]*domain.Tenant, error) {
	out := make([]*domain.Tenant, 0, len(m.s.data.tenants))
	for _, t := range m.s.data.tenants {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memTenants) ListByHouseID(ctx context.Context, houseID int) ([]*domain.Tenant, error) {
	seen := map[int]bool{}
	var out []*domain.Tenant
	for _, r := range m.s.data.rentals {
		if r.HouseID != houseID {
			continue
		}
		for _, tid := range r.TenantIDs {
			if seen[tid] {
				continue
			}
			seen[tid] = true
			if t, err := (&memTenants{m.s}).GetByID(ctx, tid); err == nil {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

type memRentals struct{ s *MemStore }

func (m *memRentals) Create(ctx context.Context, rental *domain.Rental) error {
	d := m.s.data
	if _, err := (&memHouses{m.s}).GetByID(ctx, rental.HouseID); err != nil {
		return &domain.IntegrityError{Entity: "house", ID: rental.HouseID}
	}
	for _, tid := range rental.TenantIDs {
		if _, err := (&memTenants{m.s}).GetByID(ctx, tid); err != nil {
			return &domain.IntegrityError{Entity: "tenant", ID: tid}
		}
	}
	rental.ID = d.allocID()
	cp := *rental
	cp.TenantIDs = append([]int(nil), rental.TenantIDs...)
	d.rentals = append(d.rentals, &cp)
	return nil
}

func (m *memRentals) GetByID(ctx context.Context, id int) (*domain.Rental, error) {
	for _, r := range m.s.data.rentals {
		if r.ID == id {
			cp := *r
			cp.TenantIDs = append([]int(nil), r.TenantIDs...)
			return &cp, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "rental", ID: id}
}

func (m *memRentals) Update(ctx context.Context, rental *domain.Rental) error {
	d := m.s.data
	if _, err := (&memHouses{m.s}).GetByID(ctx, rental.HouseID); err != nil {
		return &domain.IntegrityError{Entity: "house", ID: rental.HouseID}
	}
	for _, tid := range rental.TenantIDs {
		if _, err := (&memTenants{m.s}).GetByID(ctx, tid); err != nil {
			return &domain.IntegrityError{Entity: "tenant", ID: tid}
		}
	}
	for i, r := range d.rentals {
		if r.ID == rental.ID {
			cp := *rental
			cp.TenantIDs = append([]int(nil), rental.TenantIDs...)
			d.rentals[i] = &cp
			return nil
		}
	}
	return &domain.NotFoundError{Entity: "rental", ID: rental.ID}
}

func (m *memRentals) Delete(ctx context.Context, id int) error {
	d := m.s.data
	for i, r := range d.rentals {
		if r.ID == id {
			d.rentals = append(d.rentals[:i], d.rentals[i+1:]...)
			return nil
		}
	}
	return &domain.NotFoundError{Entity: "rental", ID: id}
}

func (m *memRentals) List(ctx context.Context) ([]*domain.Rental, error) {
	out := make([]*domain.Rental, 0, len(m.s.data.rentals))
	for _, r := range m.s.data.rentals {
		cp := *r
		cp.TenantIDs = append([]int(nil), r.TenantIDs...)
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memRentals) ListByUserID(ctx context.Context, userID int) ([]*domain.Rental, error) {
	tenantIDs := map[int]bool{}
	for _, t := range m.s.data.tenants {
		if t.UserID == userID {
			tenantIDs[t.ID] = true
		}
	}
	var out []*domain.Rental
	for _, r := range m.s.data.rentals {
		for _, tid := range r.TenantIDs {
			if tenantIDs[tid] {
				cp := *r
				cp.TenantIDs = append([]int(nil), r.TenantIDs...)
				out = append(out, &cp)
				break
			}
		}
	}
	return out, nil
}

func (m *memRentals) CountEndedBefore(ctx context.Context, date string) (int, error) {
	cutoff, err := domain.ParseDate(date)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, r := range m.s.data.rentals {
		end, err := domain.ParseDate(r.EndDate)
		if err != nil {
			continue
		}
		if end.Before(cutoff) {
			count++
		}
	}
	return count, nil
}
