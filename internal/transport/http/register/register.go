package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/meatshop/internal/service/models/user"
	"github.com/corray333/backend-labs/meatshop/internal/service/services/identitysvc"
	"github.com/corray333/backend-labs/meatshop/pkg/http/response"
)

type service interface {
	Register(ctx context.Context, in user.Registration) (identitysvc.Session, error)
}

// Register creates a customer account and returns it with a token.
func Register(w http.ResponseWriter, r *http.Request, service service) {
	in := user.Registration{}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		slog.Error("Error decoding request body for register", "error", err)
		response.BadRequest(w, "Invalid request body")

		return
	}

	session, err := service.Register(r.Context(), in)
	if err != nil {
		response.Error(w, err)

		return
	}

	response.Created(w, session)
}
