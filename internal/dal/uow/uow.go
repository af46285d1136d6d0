package uow

import (
	"context"
	"errors"

	"github.com/corray333/backend-labs/meatshop/internal/dal/interfaces/iorderitemrepo"
	"github.com/corray333/backend-labs/meatshop/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/meatshop/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/backend-labs/meatshop/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/meatshop/internal/dal/interfaces/iuserrepo"
	"github.com/corray333/backend-labs/meatshop/internal/dal/postgres"
	orderrepo "github.com/corray333/backend-labs/meatshop/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/corray333/backend-labs/meatshop/internal/dal/repositories/orderitem/postgres"
	outboxrepo "github.com/corray333/backend-labs/meatshop/internal/dal/repositories/outbox/postgres"
	productrepo "github.com/corray333/backend-labs/meatshop/internal/dal/repositories/product/postgres"
	userrepo "github.com/corray333/backend-labs/meatshop/internal/dal/repositories/user/postgres"
	"github.com/jackc/pgx/v5"
)

// UnitOfWork hands out repositories bound to the pool, or to one transaction after Begin.
type UnitOfWork struct {
	client *postgres.Client
	tx     pgx.Tx

	productRepo   iproductrepo.IProductRepository
	orderRepo     iorderrepo.IOrderRepository
	orderItemRepo iorderitemrepo.IOrderItemRepository
	userRepo      iuserrepo.IUserRepository
	outboxRepo    ioutboxrepo.IOutboxRepository
}

// NewUnitOfWork creates a unit of work whose repositories run on the pool until Begin is called.
func NewUnitOfWork(client *postgres.Client) *UnitOfWork {
	u := &UnitOfWork{client: client}
	u.bind(client.Pool())

	return u
}

func (u *UnitOfWork) bind(conn postgres.GenericConn) {
	u.productRepo = productrepo.NewPostgresProductRepository(conn)
	u.orderRepo = orderrepo.NewPostgresOrderRepository(conn)
	u.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(conn)
	u.userRepo = userrepo.NewPostgresUserRepository(conn)
	u.outboxRepo = outboxrepo.NewOutboxRepository(conn)
}

func (u *UnitOfWork) ProductRepository() iproductrepo.IProductRepository {
	return u.productRepo
}

func (u *UnitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *UnitOfWork) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return u.orderItemRepo
}

func (u *UnitOfWork) UserRepository() iuserrepo.IUserRepository {
	return u.userRepo
}

func (u *UnitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return u.outboxRepo
}

// Begin opens a transaction and rebinds every repository to it.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	tx, err := u.client.Pool().Begin(ctx)
	if err != nil {
		return postgres.WrapError("uow.Begin", err)
	}

	u.tx = tx
	u.bind(tx)

	return nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return postgres.WrapError("uow.Commit", u.tx.Commit(ctx))
}

// Rollback is safe to call after Commit.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	if err := u.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return postgres.WrapError("uow.Rollback", err)
	}

	return nil
}
