// Package students serves student profiles over HTTP: a role-scoped listing,
// profile creation and account linking for elevated staff.
package students

import (
	"net/http"
	"strings"

	"github.com/EmpoweredVote/registrar/internal/accounts"
	"github.com/EmpoweredVote/registrar/internal/apperr"
	"github.com/EmpoweredVote/registrar/internal/profiles"
	"github.com/EmpoweredVote/registrar/internal/utils"
)

type Handler struct {
	profiles *profiles.Store
	linker   *profiles.Linker
}

func NewHandler(store *profiles.Store, linker *profiles.Linker) *Handler {
	return &Handler{profiles: store, linker: linker}
}

type createRequest struct {
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone"`
	StreetAddr string  `json:"street_addr"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	Country    string  `json:"country"`
}

type linkRequest struct {
	ProfileID string `json:"profile_id"`
	AccountID string `json:"account_id"`
}

// ListStudents returns every profile to elevated accounts and only the
// caller's own linked profile to standard ones.
func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	acct, ok := utils.GetAccountFromContext(r.Context())
	if !ok {
		utils.WriteError(w, r, apperr.Unauthenticated("not authenticated"))
		return
	}

	if acct.Role == accounts.RoleElevated {
		list, err := h.profiles.List(r.Context())
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]any{"students": list})
		return
	}

	own := []profiles.Profile{}
	p, err := h.profiles.FindByAccount(r.Context(), acct.ID)
	switch {
	case err == nil:
		own = append(own, *p)
	case apperr.KindOf(err) != apperr.KindNotFound:
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{"students": own})
}

func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" || strings.TrimSpace(req.Email) == "" {
		utils.WriteError(w, r, apperr.InvalidInput("first_name, last_name and email required"))
		return
	}

	p := &profiles.Profile{
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		Email:      req.Email,
		Phone:      req.Phone,
		StreetAddr: req.StreetAddr,
		City:       req.City,
		State:      req.State,
		Country:    req.Country,
	}
	if err := h.profiles.Create(r.Context(), p); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]any{"student": p})
}

func (h *Handler) LinkStudent(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	p, err := h.linker.Link(r.Context(), strings.TrimSpace(req.ProfileID), strings.TrimSpace(req.AccountID))
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{"student": p})
}
