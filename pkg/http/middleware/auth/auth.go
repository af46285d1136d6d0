// Package auth resolves bearer tokens to users and guards routes by role.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/user"
	"github.com/corray333/backend-labs/meatshop/pkg/http/response"
)

type authenticator interface {
	Authenticate(ctx context.Context, token string) (user.User, error)
}

type ctxKey struct{}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, u user.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (user.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(user.User)

	return u, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer") {
		return ""
	}

	fields := strings.Fields(header)
	if len(fields) < 2 {
		return ""
	}

	return fields[1]
}

// Protect rejects requests without a valid bearer token.
func Protect(a authenticator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				response.Error(w, errs.New(errs.ErrUnauthorized, "NO_TOKEN", "Not authorized, no token provided"))

				return
			}

			u, err := a.Authenticate(r.Context(), token)
			if err != nil {
				response.Error(w, err)

				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// AdminOnly rejects requests whose user is not an admin. It must run after Protect.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok || !u.IsAdmin() {
			response.Error(w, errs.New(errs.ErrForbidden, "ADMIN_ONLY", "Access denied. Admin only."))

			return
		}

		next.ServeHTTP(w, r)
	})
}

// Optional attaches the user when a valid token is present and never rejects.
func Optional(a authenticator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" {
				if u, err := a.Authenticate(r.Context(), token); err == nil {
					r = r.WithContext(WithUser(r.Context(), u))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
