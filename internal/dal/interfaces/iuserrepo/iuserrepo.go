package iuserrepo

import (
	"context"

	"github.com/corray333/backend-labs/meatshop/internal/service/models/user"
	"github.com/google/uuid"
)

// IUserRepository is an interface for user repository.
// Missing users are reported with errs.ErrNotFound, duplicate emails with errs.ErrConflict.
type IUserRepository interface {
	Insert(ctx context.Context, u user.User) (user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Update(ctx context.Context, u user.User) (user.User, error)
	ExistsByRole(ctx context.Context, role user.Role) (bool, error)
}
