package me

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/user"
	"github.com/corray333/backend-labs/meatshop/pkg/http/middleware/auth"
	"github.com/corray333/backend-labs/meatshop/pkg/http/response"
	"github.com/google/uuid"
)

type service interface {
	Me(ctx context.Context, id uuid.UUID) (user.User, error)
}

// Me returns the profile of the signed-in user.
func Me(w http.ResponseWriter, r *http.Request, service service) {
	principal, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Error(w, errs.New(errs.ErrUnauthorized, "NO_TOKEN", "Not authorized, no token provided"))

		return
	}

	u, err := service.Me(r.Context(), principal.ID)
	if err != nil {
		response.Error(w, err)

		return
	}

	response.OK(w, u)
}
