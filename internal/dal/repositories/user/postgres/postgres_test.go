package postgresrepo_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/corray333/backend-labs/meatshop/internal/dal/postgres"
	"github.com/corray333/backend-labs/meatshop/internal/dal/postgres/pgtest"
	postgresrepo "github.com/corray333/backend-labs/meatshop/internal/dal/repositories/user/postgres"
	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/user"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"go.uber.org/goleak"
)

type userRepositorySuite struct {
	suite.Suite

	client    *postgres.Client
	repo      *postgresrepo.PostgresUserRepository
	container testcontainers.Container
}

// entry point to run the tests in the suite
func TestUserRepositorySuite(t *testing.T) {
	// Verifies no leaks after all tests in the suite run.
	defer goleak.VerifyNone(t)

	suite.Run(t, new(userRepositorySuite))
}

// before all tests in the suite
func (suite *userRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var err error
	suite.container, suite.client, err = pgtest.Start(ctx)
	suite.Require().NoError(err)

	suite.repo = postgresrepo.NewPostgresUserRepository(suite.client.Pool())
}

// after all tests in the suite
func (suite *userRepositorySuite) TearDownSuite() {
	ctx := suite.T().Context()

	if suite.client != nil {
		suite.client.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(ctx))
	}
}

func (suite *userRepositorySuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.T().Context(), suite.client))
}

func (suite *userRepositorySuite) TestLifecycle() {
	t := suite.T()
	ctx := t.Context()

	u := fakeUser(user.RoleUser)
	_, err := suite.repo.Insert(ctx, u)
	require.NoError(t, err)

	dup := fakeUser(user.RoleUser)
	dup.Email = u.Email
	_, err = suite.repo.Insert(ctx, dup)
	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, "EMAIL_TAKEN", errs.CodeOf(err))

	got, err := suite.repo.GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.PasswordHash, got.PasswordHash)

	exists, err := suite.repo.ExistsByRole(ctx, user.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, exists)

	u.Role = user.RoleAdmin
	u.Address = "12 Market Road"
	_, err = suite.repo.Update(ctx, u)
	require.NoError(t, err)

	exists, err = suite.repo.ExistsByRole(ctx, user.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, exists)

	got, err = suite.repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "12 Market Road", got.Address)

	_, err = suite.repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func (suite *userRepositorySuite) TestSingleAdmin() {
	t := suite.T()
	ctx := t.Context()

	_, err := suite.repo.Insert(ctx, fakeUser(user.RoleAdmin))
	require.NoError(t, err)

	_, err = suite.repo.Insert(ctx, fakeUser(user.RoleAdmin))
	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, "ADMIN_EXISTS", errs.CodeOf(err))
	assert.Equal(t, "Admin already exists", errs.MessageOf(err))

	promoted := fakeUser(user.RoleUser)
	_, err = suite.repo.Insert(ctx, promoted)
	require.NoError(t, err)

	promoted.Role = user.RoleAdmin
	_, err = suite.repo.Update(ctx, promoted)
	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, "ADMIN_EXISTS", errs.CodeOf(err))

	got, err := suite.repo.GetByID(ctx, promoted.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleUser, got.Role)
}

func fakeUser(role user.Role) user.User {
	now := time.Now().UTC().Truncate(time.Microsecond)

	return user.User{
		ID:           uuid.New(),
		Name:         gofakeit.Name(),
		Email:        user.NormalizeEmail(gofakeit.Email()),
		PasswordHash: gofakeit.Password(true, true, true, false, false, 60),
		Phone:        gofakeit.Phone(),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
