package postgresrepo_test

import (
	"testing"
	"time"

	"github.com/corray333/backend-labs/meatshop/internal/dal/postgres"
	"github.com/corray333/backend-labs/meatshop/internal/dal/postgres/pgtest"
	postgresrepo "github.com/corray333/backend-labs/meatshop/internal/dal/repositories/outbox/postgres"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/outbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"go.uber.org/goleak"
)

type outboxRepositorySuite struct {
	suite.Suite

	client    *postgres.Client
	repo      *postgresrepo.OutboxRepository
	container testcontainers.Container
}

// entry point to run the tests in the suite
func TestOutboxRepositorySuite(t *testing.T) {
	// Verifies no leaks after all tests in the suite run.
	defer goleak.VerifyNone(t)

	suite.Run(t, new(outboxRepositorySuite))
}

// before all tests in the suite
func (suite *outboxRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var err error
	suite.container, suite.client, err = pgtest.Start(ctx)
	suite.Require().NoError(err)

	suite.repo = postgresrepo.NewOutboxRepository(suite.client.Pool())
}

// after all tests in the suite
func (suite *outboxRepositorySuite) TearDownSuite() {
	ctx := suite.T().Context()

	if suite.client != nil {
		suite.client.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(ctx))
	}
}

func (suite *outboxRepositorySuite) TestPendingRetryDelete() {
	t := suite.T()
	ctx := t.Context()
	now := time.Now()

	for _, key := range []string{"order.placed", "order.status_changed"} {
		require.NoError(t, suite.repo.Insert(ctx, outbox.OutboxMessage{
			ExchangeName: "meatshop.orders",
			RoutingKey:   key,
			Payload:      []byte(`{"orderId":"MS2610190001"}`),
			ContentType:  "application/json",
			MaxRetries:   3,
			CreatedAt:    now,
			UpdatedAt:    now,
			NextRetryAt:  now.Add(-time.Second),
		}))
	}

	pending, err := suite.repo.GetPendingMessages(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "order.placed", pending[0].RoutingKey)

	require.NoError(t, suite.repo.UpdateRetry(ctx, pending[0].ID, 1, "channel closed", now.Add(time.Minute)))
	require.NoError(t, suite.repo.Delete(ctx, pending[1].ID))

	pending, err = suite.repo.GetPendingMessages(ctx, now, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	pending, err = suite.repo.GetPendingMessages(ctx, now.Add(2*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].RetryCount)
	assert.Equal(t, "channel closed", pending[0].LastError)
}
