package students

import (
	"net/http"

	"github.com/EmpoweredVote/registrar/internal/accounts"
	"github.com/EmpoweredVote/registrar/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// Gatekeeper is what the student routes need from the auth gateway.
type Gatekeeper interface {
	middleware.Authenticator
	middleware.Authorizer
}

func SetupRoutes(h *Handler, gk Gatekeeper) http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(gk))
		r.Get("/", h.ListStudents)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RoleMiddleware(gk, accounts.RoleElevated))
		r.Post("/", h.CreateStudent)
		r.Post("/link", h.LinkStudent)
	})

	return r
}
