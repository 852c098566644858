package invites

import (
	"net/http"

	"github.com/EmpoweredVote/registrar/internal/apperr"
	"github.com/EmpoweredVote/registrar/internal/utils"
)

type Handler struct {
	ledger *Ledger
}

func NewHandler(ledger *Ledger) *Handler {
	return &Handler{ledger: ledger}
}

// CreateInvite mints a code attributed to the calling elevated account.
func (h *Handler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	acct, ok := utils.GetAccountFromContext(r.Context())
	if !ok {
		utils.WriteError(w, r, apperr.Unauthenticated("not authenticated"))
		return
	}

	issuer := acct.ID
	code, err := h.ledger.Create(r.Context(), &issuer)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]string{"code": code})
}

func (h *Handler) ListInvites(w http.ResponseWriter, r *http.Request) {
	list, err := h.ledger.List(r.Context())
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{"invites": list})
}
