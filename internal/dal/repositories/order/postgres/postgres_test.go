package postgresrepo_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/corray333/backend-labs/meatshop/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/meatshop/internal/dal/postgres"
	"github.com/corray333/backend-labs/meatshop/internal/dal/postgres/pgtest"
	postgresrepo "github.com/corray333/backend-labs/meatshop/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/corray333/backend-labs/meatshop/internal/dal/repositories/orderitem/postgres"
	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/order"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/orderitem"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"go.uber.org/goleak"
)

type orderRepositorySuite struct {
	suite.Suite

	client    *postgres.Client
	repo      *postgresrepo.PostgresOrderRepository
	itemRepo  *orderitemrepo.PostgresOrderItemRepository
	container testcontainers.Container
}

// entry point to run the tests in the suite
func TestOrderRepositorySuite(t *testing.T) {
	// Verifies no leaks after all tests in the suite run.
	defer goleak.VerifyNone(t)

	suite.Run(t, new(orderRepositorySuite))
}

// before all tests in the suite
func (suite *orderRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var err error
	suite.container, suite.client, err = pgtest.Start(ctx)
	suite.Require().NoError(err)

	suite.repo = postgresrepo.NewPostgresOrderRepository(suite.client.Pool())
	suite.itemRepo = orderitemrepo.NewPostgresOrderItemRepository(suite.client.Pool())
}

// after all tests in the suite
func (suite *orderRepositorySuite) TearDownSuite() {
	ctx := suite.T().Context()

	if suite.client != nil {
		suite.client.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(ctx))
	}
}

func (suite *orderRepositorySuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.T().Context(), suite.client))
}

func (suite *orderRepositorySuite) TestInsertWithItems() {
	t := suite.T()
	ctx := t.Context()

	o, err := suite.repo.Insert(ctx, fakeOrder(time.Now()))
	require.NoError(t, err)
	require.NotZero(t, o.ID)

	items := []orderitem.OrderItem{
		{OrderID: o.ID, Position: 0, ProductID: uuid.New(), ProductName: "Beef Curry Cut", Weight: "500g", Price: decimal.NewFromInt(350), Quantity: 2},
		{OrderID: o.ID, Position: 1, ProductID: uuid.New(), ProductName: "Beef Mince", Weight: "250g", Price: decimal.NewFromInt(200), Quantity: 1},
	}
	inserted, err := suite.itemRepo.BulkInsert(ctx, items)
	require.NoError(t, err)
	require.Len(t, inserted, 2)
	assert.NotZero(t, inserted[0].ID)

	got, err := suite.itemRepo.Query(ctx, &orderitem.QueryOrderItemsModel{OrderIds: []int64{o.ID}})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Beef Curry Cut", got[0].ProductName)
	assert.True(t, decimal.NewFromInt(350).Equal(got[0].Price))
	assert.Equal(t, 1, got[1].Position)

	fetched, err := suite.repo.GetByCode(ctx, o.Code)
	require.NoError(t, err)
	assert.Equal(t, o.ID, fetched.ID)
	assert.True(t, o.TotalAmount.Equal(fetched.TotalAmount))
	assert.Equal(t, order.StatusPending, fetched.Status)
}

func (suite *orderRepositorySuite) TestDuplicateCodeKeepsTransaction() {
	t := suite.T()
	ctx := t.Context()

	first, err := suite.repo.Insert(ctx, fakeOrder(time.Now()))
	require.NoError(t, err)

	tx, err := suite.client.Pool().Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	txRepo := postgresrepo.NewPostgresOrderRepository(tx)

	dup := fakeOrder(time.Now())
	dup.Code = first.Code
	_, err = txRepo.Insert(ctx, dup)
	require.ErrorIs(t, err, iorderrepo.ErrCodeTaken)

	dup.Code = first.Code[:len(first.Code)-4] + "9999"
	if dup.Code == first.Code {
		dup.Code = first.Code[:len(first.Code)-4] + "9998"
	}
	_, err = txRepo.Insert(ctx, dup)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))
}

func (suite *orderRepositorySuite) TestUpdateStatusAndStats() {
	t := suite.T()
	ctx := t.Context()

	now := time.Now()
	a, err := suite.repo.Insert(ctx, fakeOrder(now))
	require.NoError(t, err)
	b, err := suite.repo.Insert(ctx, fakeOrder(now.Add(time.Second)))
	require.NoError(t, err)

	require.NoError(t, suite.repo.UpdateStatus(ctx, b.ID, order.StatusCancelled, time.Now()))
	require.ErrorIs(t, suite.repo.UpdateStatus(ctx, b.ID+100, order.StatusCutting, time.Now()), errs.ErrNotFound)

	stats, err := suite.repo.StatsByStatus(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	byStatus := map[order.Status]order.StatusStats{}
	for _, s := range stats {
		byStatus[s.Status] = s
	}
	assert.Equal(t, 1, byStatus[order.StatusPending].Count)
	assert.True(t, a.TotalAmount.Equal(byStatus[order.StatusPending].TotalAmount))
	assert.True(t, b.TotalAmount.Equal(byStatus[order.StatusCancelled].TotalAmount))

	total, err := suite.repo.Count(ctx, &order.QueryOrdersModel{Statuses: []order.Status{order.StatusCancelled}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func (suite *orderRepositorySuite) TestQueryByPhoneNewestFirst() {
	t := suite.T()
	ctx := t.Context()

	base := time.Now().Add(-time.Hour)
	var codes []string
	for i := range 3 {
		o := fakeOrder(base.Add(time.Duration(i) * time.Minute))
		o.Phone = "9876543210"
		inserted, err := suite.repo.Insert(ctx, o)
		require.NoError(t, err)
		codes = append(codes, inserted.Code)
	}

	got, err := suite.repo.Query(ctx, &order.QueryOrdersModel{Phone: "9876543210", Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, codes[2], got[0].Code)
	assert.Equal(t, codes[1], got[1].Code)

	_, err = suite.repo.GetByCode(ctx, "MS0000000000")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func fakeOrder(createdAt time.Time) order.Order {
	createdAt = createdAt.UTC().Truncate(time.Microsecond)

	return order.Order{
		Code:          order.NewCode(createdAt),
		CustomerName:  gofakeit.Name(),
		Phone:         gofakeit.Phone(),
		Address:       gofakeit.Street(),
		TotalAmount:   decimal.NewFromFloat(gofakeit.Price(100, 2000)).Round(2),
		Status:        order.StatusPending,
		PaymentMethod: order.PaymentCashOnDelivery,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}
