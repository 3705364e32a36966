package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/BenjaminKobjolke/beaverprime/internal/model"
	"github.com/BenjaminKobjolke/beaverprime/internal/repository"
	"github.com/BenjaminKobjolke/beaverprime/internal/validation"
)

var (
	ErrInvalidDate = errors.New("invalid date")
)

// CompletionService applies the tri-state completion cycle to the sparse
// record store: a missing row is unset, done=true is checked, done=false
// is skipped. Cycling back to unset deletes the row.
type CompletionService struct {
	habitRepo  repository.HabitRepository
	recordRepo repository.RecordRepository
}

func NewCompletionService(habitRepo repository.HabitRepository, recordRepo repository.RecordRepository) *CompletionService {
	return &CompletionService{
		habitRepo:  habitRepo,
		recordRepo: recordRepo,
	}
}

// Toggle advances the completion state of one (habit, day) cell and
// returns the new state. Exactly one record is mutated; no other day or
// habit is touched.
func (s *CompletionService) Toggle(userID, habitID, day string) (model.CompletionState, error) {
	_, err := validation.ValidateDay(day)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidDate, day)
	}

	// Verify ownership
	_, err = s.habitRepo.ByID(userID, habitID)
	if err != nil {
		return "", err
	}

	return s.toggle(habitID, day)
}

func (s *CompletionService) toggle(habitID, day string) (model.CompletionState, error) {
	record, err := s.recordRepo.ByHabitAndDay(habitID, day)
	if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		return "", err
	}

	next := model.NextState(record.State())

	switch next {
	case model.StateChecked, model.StateSkipped:
		if record == nil {
			record = &model.CheckedRecord{HabitID: habitID, Day: day}
		}
		record.Done = next == model.StateChecked
		err = s.recordRepo.Upsert(record)
	default:
		err = s.recordRepo.Delete(habitID, day)
		if errors.Is(err, repository.ErrRecordNotFound) {
			err = nil
		}
	}

	if err != nil {
		return "", err
	}

	slog.Debug("completion toggled", "habit_id", habitID, "day", day, "state", next)
	return next, nil
}

// BatchResult is the outcome for one date of a batch toggle. Either
// State is set, or Err explains why this date was skipped.
type BatchResult struct {
	Day   string
	State model.CompletionState
	Err   string
}

// ToggleMany applies the completion cycle independently per date. A date
// that fails to parse is reported in its result entry and never aborts
// the other dates.
func (s *CompletionService) ToggleMany(userID, habitID string, days []string) ([]BatchResult, error) {
	// Verify ownership once for the whole batch
	_, err := s.habitRepo.ByID(userID, habitID)
	if err != nil {
		return nil, err
	}

	results := make([]BatchResult, 0, len(days))
	for _, day := range days {
		_, err := validation.ValidateDay(day)
		if err != nil {
			results = append(results, BatchResult{Day: day, Err: err.Error()})
			continue
		}

		state, err := s.toggle(habitID, day)
		if err != nil {
			slog.Error("batch toggle failed for date", "error", err, "habit_id", habitID, "day", day)
			results = append(results, BatchResult{Day: day, Err: "failed to update completion"})
			continue
		}

		results = append(results, BatchResult{Day: day, State: state})
	}

	return results, nil
}

// Records returns completion records for a habit within [start, end].
// Empty bounds default to the last year, matching the heatmap view.
func (s *CompletionService) Records(userID, habitID, start, end string) ([]*model.CheckedRecord, error) {
	habit, err := s.habitRepo.ByID(userID, habitID)
	if err != nil {
		return nil, err
	}

	if end == "" {
		end = todayFunc().Format(model.DayFormat)
	}
	if start == "" {
		endDay, err := validation.ValidateDay(end)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDate, end)
		}
		start = endDay.AddDate(-1, 0, 0).Format(model.DayFormat)
	}

	if _, err := validation.ValidateDay(start); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, start)
	}
	if _, err := validation.ValidateDay(end); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, end)
	}

	return s.recordRepo.ByHabitRange(habit.ID, start, end)
}
