package memory

import (
	"context"

	"github.com/corray333/backend-labs/meatshop/internal/dal/interfaces/iorderitemrepo"
	"github.com/corray333/backend-labs/meatshop/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/meatshop/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/backend-labs/meatshop/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/meatshop/internal/dal/interfaces/iuserrepo"
)

// UnitOfWork is the in-memory counterpart of uow.UnitOfWork.
// Reads outside Begin see uncommitted writes of a concurrent transaction.
type UnitOfWork struct {
	store  *Store
	active bool
	saved  tables
}

// NewUnitOfWork creates a unit of work over store.
func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

func (u *UnitOfWork) ProductRepository() iproductrepo.IProductRepository {
	return &ProductRepository{store: u.store, work: u}
}

func (u *UnitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return &OrderRepository{store: u.store, work: u}
}

func (u *UnitOfWork) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return &OrderItemRepository{store: u.store, work: u}
}

func (u *UnitOfWork) UserRepository() iuserrepo.IUserRepository {
	return &UserRepository{store: u.store, work: u}
}

func (u *UnitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return &OutboxRepository{store: u.store, work: u}
}

// serialize makes a write issued outside a transaction wait for the running one.
// Rollback restores a snapshot, so it must never race with foreign writes.
func (u *UnitOfWork) serialize() func() {
	if u.active {
		return func() {}
	}

	u.store.txMu.Lock()

	return u.store.txMu.Unlock
}

// Begin takes the store-wide transaction lock.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	u.store.txMu.Lock()
	u.saved = u.store.snapshot()
	u.active = true

	return nil
}

func (u *UnitOfWork) Commit(context.Context) error {
	if !u.active {
		return nil
	}

	u.active = false
	u.saved = tables{}
	u.store.txMu.Unlock()

	return nil
}

// Rollback restores the state captured by Begin. It is a no-op after Commit.
func (u *UnitOfWork) Rollback(context.Context) error {
	if !u.active {
		return nil
	}

	u.store.restore(u.saved)
	u.active = false
	u.saved = tables{}
	u.store.txMu.Unlock()

	return nil
}
