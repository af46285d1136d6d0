package identitysvc_test

import (
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/corray333/backend-labs/meatshop/internal/dal/memory"
	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/user"
	"github.com/corray333/backend-labs/meatshop/internal/service/services/identitysvc"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const secret = "test-secret"

func newService(t *testing.T) (*identitysvc.IdentityService, *identitysvc.TokenIssuer) {
	t.Helper()

	tokens := identitysvc.NewTokenIssuer(secret, time.Hour)
	svc := identitysvc.MustNewIdentityService(
		identitysvc.WithUserRepository(memory.NewUnitOfWork(memory.NewStore()).UserRepository()),
		identitysvc.WithTokenIssuer(tokens),
		identitysvc.WithBcryptCost(bcrypt.MinCost),
	)

	return svc, tokens
}

func registration() user.Registration {
	return user.Registration{
		Name:     gofakeit.Name(),
		Email:    "  " + gofakeit.Email() + " ",
		Password: "secret123",
		Phone:    "9876543210",
		Address:  gofakeit.Street(),
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, tokens := newService(t)
	ctx := t.Context()

	in := registration()
	in.Email = "Jane.Doe@Example.COM"

	session, err := svc.Register(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", session.Email)
	assert.Equal(t, user.RoleUser, session.Role)
	assert.NotEqual(t, "secret123", session.PasswordHash)
	require.NotEmpty(t, session.Token)

	claims, err := tokens.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, claims.UserID)
	assert.Equal(t, user.RoleUser, claims.Role)

	loggedIn, err := svc.Login(ctx, " JANE.DOE@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, session.ID, loggedIn.ID)

	_, err = svc.Register(ctx, in)
	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, "User already exists with this email", errs.MessageOf(err))
}

func TestLoginFailures(t *testing.T) {
	svc, _ := newService(t)
	ctx := t.Context()

	in := registration()
	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		kind     error
		message  string
	}{
		{name: "login: wrong password", email: in.Email, password: "nope", kind: errs.ErrUnauthorized, message: "Invalid email or password"},
		{name: "login: unknown email", email: "ghost@example.com", password: "secret123", kind: errs.ErrUnauthorized, message: "Invalid email or password"},
		{name: "login: missing email", email: " ", password: "secret123", kind: errs.ErrValidation, message: "Email is required"},
		{name: "login: missing password", email: in.Email, password: "", kind: errs.ErrValidation, message: "Password is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.email, tt.password)
			require.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.message, errs.MessageOf(err))
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newService(t)

	tests := []struct {
		name    string
		mutate  func(r *user.Registration)
		message string
	}{
		{name: "register: short password", mutate: func(r *user.Registration) { r.Password = "12345" }, message: "Password must be at least 6 characters"},
		{name: "register: bad phone", mutate: func(r *user.Registration) { r.Phone = "12345" }, message: "Please enter a valid 10-digit phone number"},
		{name: "register: bad email", mutate: func(r *user.Registration) { r.Email = "not-an-email" }, message: "Please enter a valid email"},
		{name: "register: no name", mutate: func(r *user.Registration) { r.Name = "  " }, message: "Name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := registration()
			tt.mutate(&in)

			_, err := svc.Register(t.Context(), in)
			require.ErrorIs(t, err, errs.ErrValidation)
			assert.Contains(t, errs.MessageOf(err), tt.message)
		})
	}
}

func TestCreateAdminOnlyOnce(t *testing.T) {
	svc, _ := newService(t)
	ctx := t.Context()

	admin, err := svc.CreateAdmin(ctx, registration())
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, admin.Role)
	assert.True(t, admin.IsAdmin())

	_, err = svc.CreateAdmin(ctx, registration())
	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, "Admin already exists", errs.MessageOf(err))
}

func TestConcurrentCreateAdmin(t *testing.T) {
	svc, _ := newService(t)
	ctx := t.Context()

	const callers = 8

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		codes   []string
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := svc.CreateAdmin(ctx, registration())

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++

				return
			}
			codes = append(codes, errs.CodeOf(err))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, lo.Times(callers-1, func(int) string { return "ADMIN_EXISTS" }), codes)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newService(t)
	ctx := t.Context()

	session, err := svc.Register(ctx, registration())
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, session.ID, user.ProfileUpdate{
		Name:    lo.ToPtr("  New Name "),
		Address: lo.ToPtr("221B Baker Street"),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "221B Baker Street", updated.Address)
	assert.Equal(t, session.Phone, updated.Phone)

	me, err := svc.Me(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", me.Name)

	_, err = svc.UpdateProfile(ctx, session.ID, user.ProfileUpdate{Phone: lo.ToPtr("123")})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = svc.UpdateProfile(ctx, uuid.New(), user.ProfileUpdate{Name: lo.ToPtr("x")})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestAuthenticate(t *testing.T) {
	svc, tokens := newService(t)
	ctx := t.Context()

	session, err := svc.Register(ctx, registration())
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, u.ID)

	expired, err := tokens.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).
		Issue(session.ID, session.Role)
	require.NoError(t, err)

	ghost, err := tokens.Issue(uuid.New(), user.RoleAdmin)
	require.NoError(t, err)

	forged, err := identitysvc.NewTokenIssuer("other-secret", time.Hour).Issue(session.ID, user.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		code  string
	}{
		{name: "auth: expired", token: expired, code: "TOKEN_EXPIRED"},
		{name: "auth: garbage", token: "not.a.token", code: "INVALID_TOKEN"},
		{name: "auth: wrong secret", token: forged, code: "INVALID_TOKEN"},
		{name: "auth: deleted user", token: ghost, code: "USER_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Authenticate(ctx, tt.token)
			require.ErrorIs(t, err, errs.ErrUnauthorized)
			assert.Equal(t, tt.code, errs.CodeOf(err))
		})
	}
}

func TestParseExpiry(t *testing.T) {
	tests := []struct {
		in       string
		expected time.Duration
	}{
		{in: "30s", expected: 30 * time.Second},
		{in: "15m", expected: 15 * time.Minute},
		{in: "12h", expected: 12 * time.Hour},
		{in: "7d", expected: 7 * 24 * time.Hour},
		{in: "", expected: identitysvc.DefaultTokenTTL},
		{in: "1w", expected: identitysvc.DefaultTokenTTL},
		{in: "10", expected: identitysvc.DefaultTokenTTL},
		{in: "365d", expected: identitysvc.MaxTokenTTL},
		{in: "400d", expected: identitysvc.MaxTokenTTL},
		{in: "9999999999d", expected: identitysvc.MaxTokenTTL},
		{in: "99999999999999999999s", expected: identitysvc.MaxTokenTTL},
	}

	for _, tt := range tests {
		t.Run("expiry: "+tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, identitysvc.ParseExpiry(tt.in))
		})
	}
}
