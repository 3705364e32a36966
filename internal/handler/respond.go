package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/BenjaminKobjolke/beaverprime/internal/ctxkeys"
	"github.com/BenjaminKobjolke/beaverprime/internal/i18n"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

// writeLocalizedError resolves the message key against the request
// locale before responding.
func writeLocalizedError(w http.ResponseWriter, r *http.Request, t *i18n.Translator, status int, key, code string) {
	writeError(w, status, t.T(ctxkeys.Locale(r.Context()), key, nil), code)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return false
	}
	return true
}

// isNotFound folds the repository not-found sentinels so handlers can
// map them to 404 uniformly.
func isNotFound(err error, sentinels ...error) bool {
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
