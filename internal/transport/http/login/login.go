package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/meatshop/internal/service/services/identitysvc"
	"github.com/corray333/backend-labs/meatshop/pkg/http/response"
)

type service interface {
	Login(ctx context.Context, email, password string) (identitysvc.Session, error)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(w http.ResponseWriter, r *http.Request, service service) {
	req := loginRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Error decoding request body for login", "error", err)
		response.BadRequest(w, "Invalid request body")

		return
	}

	session, err := service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, err)

		return
	}

	response.OK(w, session)
}
