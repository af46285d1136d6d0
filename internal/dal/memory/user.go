package memory

import (
	"context"
	"fmt"

	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/user"
	"github.com/google/uuid"
)

var errAdminExists = errs.New(errs.ErrConflict, "ADMIN_EXISTS", "Admin already exists")

// UserRepository stores users in memory.
type UserRepository struct {
	store *Store
	work  *UnitOfWork
}

func (r *UserRepository) Insert(_ context.Context, u user.User) (user.User, error) {
	defer r.work.serialize()()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.data.users {
		if existing.Email == u.Email {
			return user.User{}, fmt.Errorf("userrepo.Insert: %w",
				errs.New(errs.ErrConflict, "EMAIL_TAKEN", "duplicate email"))
		}
	}
	if u.Role == user.RoleAdmin && r.adminExcept(u.ID) {
		return user.User{}, fmt.Errorf("userrepo.Insert: %w", errAdminExists)
	}

	r.store.data.users[u.ID] = u

	return u, nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.data.users[id]
	if !ok {
		return user.User{}, fmt.Errorf("userrepo.GetByID: %w", errs.ErrNotFound)
	}

	return u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.data.users {
		if u.Email == email {
			return u, nil
		}
	}

	return user.User{}, fmt.Errorf("userrepo.GetByEmail: %w", errs.ErrNotFound)
}

func (r *UserRepository) Update(_ context.Context, u user.User) (user.User, error) {
	defer r.work.serialize()()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.data.users[u.ID]
	if !ok {
		return user.User{}, fmt.Errorf("userrepo.Update: %w", errs.ErrNotFound)
	}
	if u.Role == user.RoleAdmin && r.adminExcept(u.ID) {
		return user.User{}, fmt.Errorf("userrepo.Update: %w", errAdminExists)
	}

	existing.Name = u.Name
	existing.Phone = u.Phone
	existing.Address = u.Address
	existing.Role = u.Role
	existing.UpdatedAt = u.UpdatedAt
	r.store.data.users[u.ID] = existing

	return existing, nil
}

func (r *UserRepository) ExistsByRole(_ context.Context, role user.Role) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.data.users {
		if u.Role == role {
			return true, nil
		}
	}

	return false, nil
}

// adminExcept reports whether an admin other than id exists. The caller holds mu.
func (r *UserRepository) adminExcept(id uuid.UUID) bool {
	for _, u := range r.store.data.users {
		if u.Role == user.RoleAdmin && u.ID != id {
			return true
		}
	}

	return false
}
