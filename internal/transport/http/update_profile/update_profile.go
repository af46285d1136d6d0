package updateprofile

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/user"
	"github.com/corray333/backend-labs/meatshop/pkg/http/middleware/auth"
	"github.com/corray333/backend-labs/meatshop/pkg/http/response"
	"github.com/google/uuid"
)

type service interface {
	UpdateProfile(ctx context.Context, id uuid.UUID, in user.ProfileUpdate) (user.User, error)
}

// UpdateProfile changes the name, phone or address of the signed-in user.
func UpdateProfile(w http.ResponseWriter, r *http.Request, service service) {
	principal, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Error(w, errs.New(errs.ErrUnauthorized, "NO_TOKEN", "Not authorized, no token provided"))

		return
	}

	in := user.ProfileUpdate{}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		slog.Error("Error decoding request body for update profile", "error", err)
		response.BadRequest(w, "Invalid request body")

		return
	}

	updated, err := service.UpdateProfile(r.Context(), principal.ID, in)
	if err != nil {
		response.Error(w, err)

		return
	}

	response.OK(w, updated)
}
