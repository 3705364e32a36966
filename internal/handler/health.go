package handler

import (
	"net/http"

	"github.com/jmoiron/sqlx"
)

type HealthHandler struct {
	db *sqlx.DB
}

func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	err := h.db.PingContext(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable", "unhealthy")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
