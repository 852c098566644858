package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/EmpoweredVote/registrar/internal/accounts"
	"github.com/EmpoweredVote/registrar/internal/apperr"
	"github.com/EmpoweredVote/registrar/internal/middleware"
	"github.com/EmpoweredVote/registrar/internal/utils"
)

// AccountLister backs the elevated user listing.
type AccountLister interface {
	List(ctx context.Context) ([]accounts.Account, error)
}

// Handler is the HTTP face of the gateway.
type Handler struct {
	gw           *Gateway
	users        AccountLister
	secureCookie bool
	cookieTTL    time.Duration
}

func NewHandler(gw *Gateway, users AccountLister, secureCookie bool, cookieTTL time.Duration) *Handler {
	return &Handler{gw: gw, users: users, secureCookie: secureCookie, cookieTTL: cookieTTL}
}

type registerRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	Role             string `json:"role"`
	StudentProfileID string `json:"student_profile_id"`
	InviteCode       string `json:"invite_code"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User      *accounts.Account `json:"user"`
	ExpiresAt time.Time         `json:"expires_at"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	sess, err := h.gw.Register(r.Context(), RegisterInput{
		Email:            req.Email,
		Password:         req.Password,
		Role:             accounts.Role(req.Role),
		StudentProfileID: req.StudentProfileID,
		InviteCode:       req.InviteCode,
	})
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	h.setSessionCookie(w, sess.Token)
	utils.WriteJSON(w, http.StatusOK, sessionResponse{User: sess.Account, ExpiresAt: sess.ExpiresAt})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	sess, err := h.gw.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	h.setSessionCookie(w, sess.Token)
	utils.WriteJSON(w, http.StatusOK, sessionResponse{User: sess.Account, ExpiresAt: sess.ExpiresAt})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.gw.Logout()
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookie,
	})
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me reports the session's account. Unlike the session middleware it lets a
// deleted account surface as 404.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	acct, err := h.gw.CurrentUser(r.Context(), middleware.SessionToken(r))
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{"user": acct})
}

func (h *Handler) Secret(w http.ResponseWriter, r *http.Request) {
	acct, ok := utils.GetAccountFromContext(r.Context())
	if !ok {
		utils.WriteError(w, r, apperr.Unauthenticated("not authenticated"))
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "hello " + acct.Email + ", this is protected data",
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.List(r.Context())
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{"users": list})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookieTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookie,
	})
}
