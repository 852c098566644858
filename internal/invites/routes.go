package invites

import (
	"net/http"

	"github.com/EmpoweredVote/registrar/internal/accounts"
	"github.com/EmpoweredVote/registrar/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes serves the invite endpoints. All of them require an elevated
// session.
func SetupRoutes(h *Handler, authz middleware.Authorizer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RoleMiddleware(authz, accounts.RoleElevated))

	r.Post("/", h.CreateInvite)
	r.Get("/", h.ListInvites)

	return r
}
