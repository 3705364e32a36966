package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/BenjaminKobjolke/beaverprime/internal/ctxkeys"
	"github.com/BenjaminKobjolke/beaverprime/internal/i18n"
	"github.com/BenjaminKobjolke/beaverprime/internal/model"
	"github.com/BenjaminKobjolke/beaverprime/internal/repository"
	"github.com/BenjaminKobjolke/beaverprime/internal/service"
)

type CompletionHandler struct {
	completionService *service.CompletionService
	translator        *i18n.Translator
}

func NewCompletionHandler(completionService *service.CompletionService, translator *i18n.Translator) *CompletionHandler {
	return &CompletionHandler{
		completionService: completionService,
		translator:        translator,
	}
}

// wireDone encodes a completion state for the batch response:
// true is checked, false is unset, null is skipped.
func wireDone(state model.CompletionState) *bool {
	switch state {
	case model.StateChecked:
		v := true
		return &v
	case model.StateUnset:
		v := false
		return &v
	default:
		return nil
	}
}

// Toggle advances the tri-state completion for one day.
// POST /api/v1/habits/{id}/completions?date=2026-08-30
func (h *CompletionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	habitID := r.PathValue("id")
	day := r.URL.Query().Get("date")

	state, err := h.completionService.Toggle(user.ID, habitID, day)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDate):
			writeLocalizedError(w, r, h.translator, http.StatusBadRequest, "completions.invalid_date", "invalid_date")
		case isNotFound(err, repository.ErrHabitNotFound):
			writeLocalizedError(w, r, h.translator, http.StatusNotFound, "habits.not_found", "not_found")
		default:
			slog.Error("failed to toggle completion", "error", err, "user_id", user.ID, "habit_id", habitID, "day", day)
			writeError(w, http.StatusInternalServerError, "internal error", "internal")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"habit_id": habitID,
		"date":     day,
		"state":    state,
	})
}

type completionRecordResponse struct {
	Date string  `json:"date"`
	Done bool    `json:"done"`
	Note *string `json:"note,omitempty"`
}

// Records returns the stored completion rows for a habit, optionally
// bounded by ?start= and ?end=.
func (h *CompletionHandler) Records(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	habitID := r.PathValue("id")

	records, err := h.completionService.Records(user.ID, habitID, r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDate):
			writeLocalizedError(w, r, h.translator, http.StatusBadRequest, "completions.invalid_date", "invalid_date")
		case isNotFound(err, repository.ErrHabitNotFound):
			writeLocalizedError(w, r, h.translator, http.StatusNotFound, "habits.not_found", "not_found")
		default:
			slog.Error("failed to get records", "error", err, "user_id", user.ID, "habit_id", habitID)
			writeError(w, http.StatusInternalServerError, "internal error", "internal")
		}
		return
	}

	out := make([]completionRecordResponse, 0, len(records))
	for _, record := range records {
		out = append(out, completionRecordResponse{
			Date: record.Day,
			Done: record.Done,
			Note: record.Note,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type batchCompletionsRequest struct {
	HabitID string   `json:"habit_id"`
	Dates   []string `json:"dates"`
}

type batchEntryResponse struct {
	Date  string `json:"date"`
	Done  *bool  `json:"done"`
	Error string `json:"error,omitempty"`
}

// Batch toggles several dates for one habit in a single request.
// A bad date yields a per-entry error without failing the batch.
func (h *CompletionHandler) Batch(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req batchCompletionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	results, err := h.completionService.ToggleMany(user.ID, req.HabitID, req.Dates)
	if err != nil {
		if isNotFound(err, repository.ErrHabitNotFound) {
			writeLocalizedError(w, r, h.translator, http.StatusNotFound, "habits.not_found", "not_found")
			return
		}
		slog.Error("batch toggle failed", "error", err, "user_id", user.ID, "habit_id", req.HabitID)
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}

	updated := make([]batchEntryResponse, 0, len(results))
	for _, result := range results {
		entry := batchEntryResponse{Date: result.Day, Error: result.Err}
		if result.Err == "" {
			entry.Done = wireDone(result.State)
		}
		updated = append(updated, entry)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"habit_id": req.HabitID,
		"updated":  updated,
	})
}
