package auth

import (
	"net/http"

	"github.com/EmpoweredVote/registrar/internal/accounts"
	"github.com/EmpoweredVote/registrar/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// RateLimit bounds credential-guessing traffic on register and login.
// RPS <= 0 disables it.
type RateLimit struct {
	RPS   float64
	Burst int
}

func SetupRoutes(h *Handler, limit RateLimit) http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(limit.RPS, limit.Burst))
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})
	r.Post("/logout", h.Logout)
	r.Get("/me", h.Me)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(h.gw))
		r.Get("/secret", h.Secret)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RoleMiddleware(h.gw, accounts.RoleElevated))
		r.Get("/users", h.ListUsers)
	})

	return r
}
