package middleware

import (
	"context"
	"net/http"

	"github.com/EmpoweredVote/registrar/internal/accounts"
	"github.com/EmpoweredVote/registrar/internal/apperr"
	"github.com/EmpoweredVote/registrar/internal/utils"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "token"

// Authenticator resolves a session token to its current account.
type Authenticator interface {
	CurrentUser(ctx context.Context, token string) (*accounts.Account, error)
}

// Authorizer resolves a session token and checks the account's role.
type Authorizer interface {
	RequireRole(ctx context.Context, token string, role accounts.Role) (*accounts.Account, error)
}

// SessionToken returns the token from the session cookie, or "".
func SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SessionMiddleware admits requests carrying a valid session and puts the
// freshly loaded account in the request context. A token whose account was
// deleted is treated as unauthenticated.
func SessionMiddleware(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			acct, err := authn.CurrentUser(r.Context(), SessionToken(r))
			if err != nil {
				if apperr.KindOf(err) == apperr.KindNotFound {
					err = apperr.Unauthenticated("account no longer exists")
				}
				utils.WriteError(w, r, err)
				return
			}

			ctx := utils.WithAccount(r.Context(), acct)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RoleMiddleware admits only sessions whose account currently holds role:
// 401 without a valid session, 403 with the wrong role.
func RoleMiddleware(authz Authorizer, role accounts.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			acct, err := authz.RequireRole(r.Context(), SessionToken(r), role)
			if err != nil {
				utils.WriteError(w, r, err)
				return
			}

			ctx := utils.WithAccount(r.Context(), acct)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CORSMiddleware echoes the Origin back only when it is on the allow-list.
func CORSMiddleware(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods",
					"GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers",
					"Content-Type, Authorization")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
