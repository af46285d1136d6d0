package identitysvc

import (
	"errors"
	"regexp"
	"strconv"
	"time"

	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is used when the configured expiry cannot be parsed.
const DefaultTokenTTL = 7 * 24 * time.Hour

// MaxTokenTTL caps configured expiries.
const MaxTokenTTL = 365 * 24 * time.Hour

var expiryPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseExpiry reads durations like "30m", "12h" or "7d". Anything else yields DefaultTokenTTL.
// Values above MaxTokenTTL are clamped to it.
func ParseExpiry(s string) time.Duration {
	match := expiryPattern.FindStringSubmatch(s)
	if match == nil {
		return DefaultTokenTTL
	}

	value, err := strconv.ParseInt(match[1], 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return MaxTokenTTL
	}
	if err != nil {
		return DefaultTokenTTL
	}

	unit := map[string]time.Duration{
		"s": time.Second,
		"m": time.Minute,
		"h": time.Hour,
		"d": 24 * time.Hour,
	}[match[2]]

	if value > int64(MaxTokenTTL/unit) {
		return MaxTokenTTL
	}

	return time.Duration(value) * unit
}

// Claims is the payload of a bearer token.
type Claims struct {
	UserID string    `json:"id"`
	Role   user.Role `json:"role"`
	jwt.RegisteredClaims
}

// VerifiedClaims is what a valid token asserts.
type VerifiedClaims struct {
	UserID uuid.UUID
	Role   user.Role
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer. A zero ttl means DefaultTokenTTL.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock returns a copy of the issuer using now as its time source.
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	c := *t
	c.now = now

	return &c
}

// Issue signs a token for the given user.
func (t *TokenIssuer) Issue(id uuid.UUID, role user.Role) (string, error) {
	now := t.now()
	claims := Claims{
		UserID: id.String(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify checks the signature and expiry of a token.
func (t *TokenIssuer) Verify(token string) (VerifiedClaims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return VerifiedClaims{}, errs.New(errs.ErrUnauthorized, "TOKEN_EXPIRED", "Token expired, please login again")
		}

		return VerifiedClaims{}, errs.New(errs.ErrUnauthorized, "INVALID_TOKEN", "Invalid token")
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return VerifiedClaims{}, errs.New(errs.ErrUnauthorized, "INVALID_TOKEN", "Invalid token")
	}

	return VerifiedClaims{UserID: id, Role: claims.Role}, nil
}
