package handler

import (
	"log/slog"
	"net/http"

	"github.com/BenjaminKobjolke/beaverprime/internal/ctxkeys"
	"github.com/BenjaminKobjolke/beaverprime/internal/i18n"
	"github.com/BenjaminKobjolke/beaverprime/internal/model"
	"github.com/BenjaminKobjolke/beaverprime/internal/repository"
	"github.com/BenjaminKobjolke/beaverprime/internal/service"
)

type HabitHandler struct {
	habitService *service.HabitService
	translator   *i18n.Translator
}

func NewHabitHandler(habitService *service.HabitService, translator *i18n.Translator) *HabitHandler {
	return &HabitHandler{
		habitService: habitService,
		translator:   translator,
	}
}

type habitResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	NameSegments []string `json:"name_segments"`
	ListID       *string  `json:"list_id"`
	Order        int      `json:"order"`
	WeeklyGoal   int      `json:"weekly_goal"`
	Star         bool     `json:"star"`
}

func toHabitResponse(habit *model.Habit) habitResponse {
	return habitResponse{
		ID:           habit.ID,
		Name:         habit.Name,
		NameSegments: habit.NameSegments(),
		ListID:       habit.ListID,
		Order:        habit.Order,
		WeeklyGoal:   habit.WeeklyGoal,
		Star:         habit.Star,
	}
}

type habitCreateRequest struct {
	Name       string  `json:"name"`
	ListID     *string `json:"list_id"`
	Order      int     `json:"order"`
	WeeklyGoal int     `json:"weekly_goal"`
}

func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req habitCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// When created through a list route the path wins over the body.
	if listID := r.PathValue("id"); listID != "" {
		req.ListID = &listID
	}

	habit, err := h.habitService.Create(user.ID, req.Name, req.ListID, req.Order, req.WeeklyGoal)
	if err != nil {
		if isNotFound(err, repository.ErrListNotFound) {
			writeLocalizedError(w, r, h.translator, http.StatusNotFound, "lists.not_found", "not_found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}

	writeJSON(w, http.StatusCreated, toHabitResponse(habit))
}

// Habits lists the user's habits. ?list=<id> filters by list,
// ?list=none selects habits not assigned to any list.
func (h *HabitHandler) Habits(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	filter := repository.HabitFilter{}
	if listID := r.PathValue("id"); listID != "" {
		filter.ListID = &listID
	} else if list := r.URL.Query().Get("list"); list != "" {
		if list == "none" {
			filter.Unassigned = true
		} else {
			filter.ListID = &list
		}
	}

	habits, err := h.habitService.Habits(user.ID, filter)
	if err != nil {
		slog.Error("failed to get habits", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}

	out := make([]habitResponse, 0, len(habits))
	for _, habit := range habits {
		out = append(out, toHabitResponse(habit))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HabitHandler) ByID(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	habitID := r.PathValue("id")

	habit, err := h.habitService.ByID(user.ID, habitID)
	if err != nil {
		if isNotFound(err, repository.ErrHabitNotFound) {
			writeLocalizedError(w, r, h.translator, http.StatusNotFound, "habits.not_found", "not_found")
			return
		}
		slog.Error("failed to get habit", "error", err, "user_id", user.ID, "habit_id", habitID)
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}

	writeJSON(w, http.StatusOK, toHabitResponse(habit))
}

type habitUpdateRequest struct {
	Name       *string `json:"name"`
	ListID     *string `json:"list_id"`
	ClearList  bool    `json:"clear_list"`
	Order      *int    `json:"order"`
	WeeklyGoal *int    `json:"weekly_goal"`
	Star       *bool   `json:"star"`
}

func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	habitID := r.PathValue("id")

	var req habitUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	habit, err := h.habitService.Update(user.ID, habitID, service.HabitUpdate{
		Name:       req.Name,
		ListID:     req.ListID,
		ClearList:  req.ClearList,
		Order:      req.Order,
		WeeklyGoal: req.WeeklyGoal,
		Star:       req.Star,
	})
	if err != nil {
		if isNotFound(err, repository.ErrHabitNotFound) {
			writeLocalizedError(w, r, h.translator, http.StatusNotFound, "habits.not_found", "not_found")
			return
		}
		if isNotFound(err, repository.ErrListNotFound) {
			writeLocalizedError(w, r, h.translator, http.StatusNotFound, "lists.not_found", "not_found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}

	writeJSON(w, http.StatusOK, toHabitResponse(habit))
}

func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	habitID := r.PathValue("id")

	err := h.habitService.Delete(user.ID, habitID)
	if err != nil {
		if isNotFound(err, repository.ErrHabitNotFound) {
			writeLocalizedError(w, r, h.translator, http.StatusNotFound, "habits.not_found", "not_found")
			return
		}
		slog.Error("failed to delete habit", "error", err, "user_id", user.ID, "habit_id", habitID)
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type streakResponse struct {
	ConsecutiveWeeks int  `json:"consecutive_weeks"`
	WeekTicks        int  `json:"week_ticks"`
	TotalTicks       int  `json:"total_ticks"`
	LastWeekMet      bool `json:"last_week_met"`
}

func (h *HabitHandler) Streak(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	habitID := r.PathValue("id")

	stats, err := h.habitService.Streak(user.ID, habitID)
	if err != nil {
		if isNotFound(err, repository.ErrHabitNotFound) {
			writeLocalizedError(w, r, h.translator, http.StatusNotFound, "habits.not_found", "not_found")
			return
		}
		slog.Error("failed to compute streak", "error", err, "user_id", user.ID, "habit_id", habitID)
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}

	writeJSON(w, http.StatusOK, streakResponse{
		ConsecutiveWeeks: stats.ConsecutiveWeeks,
		WeekTicks:        stats.WeekTicks,
		TotalTicks:       stats.TotalTicks,
		LastWeekMet:      stats.LastWeekMet,
	})
}
