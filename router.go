package main

import (
	"net/http"

	"github.com/EmpoweredVote/registrar/internal/accounts"
	"github.com/EmpoweredVote/registrar/internal/apperr"
	"github.com/EmpoweredVote/registrar/internal/auth"
	"github.com/EmpoweredVote/registrar/internal/config"
	"github.com/EmpoweredVote/registrar/internal/invites"
	"github.com/EmpoweredVote/registrar/internal/middleware"
	"github.com/EmpoweredVote/registrar/internal/profiles"
	"github.com/EmpoweredVote/registrar/internal/spa"
	"github.com/EmpoweredVote/registrar/internal/students"
	"github.com/EmpoweredVote/registrar/internal/utils"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

// routerDeps are the constructed stores and gateway the HTTP surface serves.
type routerDeps struct {
	DB       *gorm.DB
	Accounts *accounts.Store
	Profiles *profiles.Store
	Invites  *invites.Ledger
	Linker   *profiles.Linker
	Gateway  *auth.Gateway
}

func healthHandler(gdb *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := gdb.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func apiNotFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, r, apperr.NotFound("no such endpoint"))
}

// newRouter builds the whole HTTP surface: /healthz, the JSON API under
// /api, and the front-end for every other path.
func newRouter(cfg config.Config, d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	// Without a trusted proxy in front, forwarding headers are client input
	// and must not pick the rate-limit bucket.
	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.Get("/healthz", healthHandler(d.DB))

	r.Route("/api", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
		// Set before the mounts below so the sub-routers inherit it.
		r.NotFound(apiNotFound)

		authHandler := auth.NewHandler(d.Gateway, d.Accounts, cfg.Production(), cfg.TokenTTL)
		r.Mount("/", auth.SetupRoutes(authHandler, auth.RateLimit{
			RPS:   cfg.AuthRateLimit,
			Burst: cfg.AuthRateBurst,
		}))
		r.Mount("/invites", invites.SetupRoutes(invites.NewHandler(d.Invites), d.Gateway))
		r.Mount("/students", students.SetupRoutes(students.NewHandler(d.Profiles, d.Linker), d.Gateway))
	})

	r.Handle("/*", spa.Handler(cfg.StaticDir))

	return r
}
