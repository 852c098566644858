package utils

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/EmpoweredVote/registrar/internal/apperr"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type errorBody struct {
	Kind    apperr.Kind `json:"kind"`
	Message string      `json:"message"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to its status and writes {"error": {"kind", "message"}}.
// Server-side failures are logged with their cause; the cause never reaches
// the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := apperr.Status(kind)

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimiddleware.GetReqID(r.Context()),
			"kind", kind,
			"error", err,
		)
	}

	WriteJSON(w, status, map[string]errorBody{
		"error": {Kind: kind, Message: apperr.Message(err)},
	})
}

// DecodeJSON reads a JSON body into dst, capped at 1 MiB.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.InvalidInput("invalid request body")
	}
	return nil
}
