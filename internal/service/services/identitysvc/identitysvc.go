package identitysvc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/meatshop/internal/dal/interfaces/iuserrepo"
	"github.com/corray333/backend-labs/meatshop/internal/dal/postgres"
	"github.com/corray333/backend-labs/meatshop/internal/dal/uow"
	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/user"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultQueryTimeout = 5 * time.Second
	defaultBcryptCost   = 12
)

type unitOfWork interface {
	UserRepository() iuserrepo.IUserRepository
}

// IdentityService registers users, checks credentials and resolves bearer tokens.
type IdentityService struct {
	newUOW       func() unitOfWork
	tokens       *TokenIssuer
	now          func() time.Time
	bcryptCost   int
	queryTimeout time.Duration
	tracer       trace.Tracer
}

// option is a function that configures the IdentityService.
type option func(*IdentityService)

// MustNewIdentityService creates a new IdentityService.
func MustNewIdentityService(opts ...option) *IdentityService {
	s := &IdentityService{
		now:          time.Now,
		bcryptCost:   defaultBcryptCost,
		queryTimeout: defaultQueryTimeout,
		tracer:       otel.Tracer("meatshop/identitysvc"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.newUOW == nil {
		panic("identitysvc: no unit of work configured")
	}
	if s.tokens == nil {
		panic("identitysvc: no token issuer configured")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the IdentityService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *IdentityService) {
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
		s.queryTimeout = pgClient.QueryTimeout()
	}
}

// WithUserRepository serves users from repo directly.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUserRepository(repo iuserrepo.IUserRepository) option {
	return func(s *IdentityService) {
		s.newUOW = func() unitOfWork {
			return repoUOW{repo: repo}
		}
	}
}

// WithTokenIssuer sets how bearer tokens are signed and verified.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithTokenIssuer(tokens *TokenIssuer) option {
	return func(s *IdentityService) {
		s.tokens = tokens
	}
}

// WithBcryptCost overrides the password hashing cost.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithBcryptCost(cost int) option {
	return func(s *IdentityService) {
		s.bcryptCost = cost
	}
}

// WithClock overrides the time source.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *IdentityService) {
		s.now = now
	}
}

type repoUOW struct {
	repo iuserrepo.IUserRepository
}

func (u repoUOW) UserRepository() iuserrepo.IUserRepository {
	return u.repo
}

// Session is a user together with a freshly issued bearer token.
type Session struct {
	user.User
	Token string `json:"token"`
}

func errUserNotFound() error {
	return errs.New(errs.ErrNotFound, "USER_NOT_FOUND", "User not found")
}

// Register creates a customer account and signs it in.
func (s *IdentityService) Register(ctx context.Context, in user.Registration) (Session, error) {
	ctx, span := s.tracer.Start(ctx, "IdentityService.Register")
	defer span.End()

	return s.create(ctx, in, user.RoleUser)
}

// CreateAdmin bootstraps the first administrator. It fails once any admin exists.
// The storage layer enforces a single admin, so concurrent calls create at most one.
func (s *IdentityService) CreateAdmin(ctx context.Context, in user.Registration) (Session, error) {
	ctx, span := s.tracer.Start(ctx, "IdentityService.CreateAdmin")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	exists, err := s.newUOW().UserRepository().ExistsByRole(ctx, user.RoleAdmin)
	if err != nil {
		return Session{}, err
	}
	if exists {
		return Session{}, errs.New(errs.ErrConflict, "ADMIN_EXISTS", "Admin already exists")
	}

	return s.create(ctx, in, user.RoleAdmin)
}

func (s *IdentityService) create(ctx context.Context, in user.Registration, role user.Role) (Session, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return Session{}, err
	}

	now := s.now()
	u := user.User{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Phone:        in.Phone,
		Address:      in.Address,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	created, err := s.newUOW().UserRepository().Insert(ctx, u)
	if err != nil {
		if errs.CodeOf(err) == "ADMIN_EXISTS" {
			return Session{}, err
		}
		if errors.Is(err, errs.ErrConflict) {
			return Session{}, errs.New(errs.ErrConflict, "EMAIL_TAKEN", "User already exists with this email")
		}

		return Session{}, err
	}

	slog.Info("User registered", "user_id", created.ID, "role", created.Role)

	return s.session(created)
}

// Login checks the credentials and issues a new token.
func (s *IdentityService) Login(ctx context.Context, email, password string) (Session, error) {
	ctx, span := s.tracer.Start(ctx, "IdentityService.Login")
	defer span.End()

	email = user.NormalizeEmail(email)
	if email == "" {
		return Session{}, errs.Validation("Email is required")
	}
	if password == "" {
		return Session{}, errs.Validation("Password is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	invalid := errs.New(errs.ErrUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")

	u, err := s.newUOW().UserRepository().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return Session{}, invalid
		}

		return Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Session{}, invalid
	}

	return s.session(u)
}

func (s *IdentityService) session(u user.User) (Session, error) {
	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return Session{}, err
	}

	return Session{User: u, Token: token}, nil
}

// Me returns the user with the given id.
func (s *IdentityService) Me(ctx context.Context, id uuid.UUID) (user.User, error) {
	ctx, span := s.tracer.Start(ctx, "IdentityService.Me")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	u, err := s.newUOW().UserRepository().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return user.User{}, errUserNotFound()
		}

		return user.User{}, err
	}

	return u, nil
}

// UpdateProfile changes the provided profile fields of a user.
func (s *IdentityService) UpdateProfile(ctx context.Context, id uuid.UUID, in user.ProfileUpdate) (user.User, error) {
	ctx, span := s.tracer.Start(ctx, "IdentityService.UpdateProfile")
	defer span.End()

	in.Normalize()
	if err := in.Validate(); err != nil {
		return user.User{}, err
	}

	u, err := s.Me(ctx, id)
	if err != nil {
		return user.User{}, err
	}

	in.Apply(&u)
	u.UpdatedAt = s.now()

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	updated, err := s.newUOW().UserRepository().Update(ctx, u)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return user.User{}, errUserNotFound()
		}

		return user.User{}, err
	}

	return updated, nil
}

// Authenticate resolves a bearer token to its user.
// Failures are unauthorized errors coded TOKEN_EXPIRED, INVALID_TOKEN or USER_NOT_FOUND.
func (s *IdentityService) Authenticate(ctx context.Context, token string) (user.User, error) {
	ctx, span := s.tracer.Start(ctx, "IdentityService.Authenticate")
	defer span.End()

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return user.User{}, err
	}

	u, err := s.Me(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return user.User{}, errs.New(errs.ErrUnauthorized, "USER_NOT_FOUND", "User not found")
		}

		return user.User{}, err
	}

	return u, nil
}
