package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/BenjaminKobjolke/beaverprime/internal/model"
	"github.com/BenjaminKobjolke/beaverprime/internal/repository"
	"github.com/BenjaminKobjolke/beaverprime/internal/validation"
)

var (
	ErrInvalidWeeklyGoal = errors.New("weekly goal must not be negative")
)

// todayFunc is swapped in tests to pin the clock.
var todayFunc = time.Now

type HabitService struct {
	repo             repository.HabitRepository
	listRepo         repository.ListRepository
	recordRepo       repository.RecordRepository
	maxLookbackWeeks int
}

func NewHabitService(
	repo repository.HabitRepository,
	listRepo repository.ListRepository,
	recordRepo repository.RecordRepository,
	maxLookbackWeeks int,
) *HabitService {
	return &HabitService{
		repo:             repo,
		listRepo:         listRepo,
		recordRepo:       recordRepo,
		maxLookbackWeeks: maxLookbackWeeks,
	}
}

func (s *HabitService) Create(userID, name string, listID *string, order, weeklyGoal int) (*model.Habit, error) {
	err := validation.ValidateName(name)
	if err != nil {
		return nil, err
	}

	if weeklyGoal < 0 {
		return nil, ErrInvalidWeeklyGoal
	}

	if listID != nil {
		// Verify list ownership
		_, err := s.listRepo.ByID(userID, *listID)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	habit := &model.Habit{
		ID:         uuid.New().String(),
		UserID:     userID,
		ListID:     listID,
		Name:       name,
		Order:      order,
		WeeklyGoal: weeklyGoal,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.repo.Create(habit)
	if err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	slog.Info("habit created", "habit_id", habit.ID, "user_id", userID)
	return habit, nil
}

func (s *HabitService) ByID(userID, habitID string) (*model.Habit, error) {
	return s.repo.ByID(userID, habitID)
}

func (s *HabitService) Habits(userID string, filter repository.HabitFilter) ([]*model.Habit, error) {
	return s.repo.Habits(userID, filter)
}

// HabitUpdate carries partial updates; nil fields are left unchanged.
// ClearList detaches the habit from its list.
type HabitUpdate struct {
	Name       *string
	ListID     *string
	ClearList  bool
	Order      *int
	WeeklyGoal *int
	Star       *bool
}

func (s *HabitService) Update(userID, habitID string, update HabitUpdate) (*model.Habit, error) {
	habit, err := s.repo.ByID(userID, habitID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		err = validation.ValidateName(*update.Name)
		if err != nil {
			return nil, err
		}
		habit.Name = *update.Name
	}
	if update.WeeklyGoal != nil {
		if *update.WeeklyGoal < 0 {
			return nil, ErrInvalidWeeklyGoal
		}
		habit.WeeklyGoal = *update.WeeklyGoal
	}
	if update.Order != nil {
		habit.Order = *update.Order
	}
	if update.Star != nil {
		habit.Star = *update.Star
	}
	if update.ClearList {
		habit.ListID = nil
	} else if update.ListID != nil {
		// Verify new list ownership
		_, err := s.listRepo.ByID(userID, *update.ListID)
		if err != nil {
			return nil, err
		}
		habit.ListID = update.ListID
	}

	habit.UpdatedAt = time.Now()
	err = s.repo.Update(habit)
	if err != nil {
		return nil, err
	}

	return habit, nil
}

// Delete removes the habit and, through the schema, all of its
// completion records.
func (s *HabitService) Delete(userID, habitID string) error {
	err := s.repo.Delete(userID, habitID)
	if err != nil {
		return err
	}

	slog.Info("habit deleted", "habit_id", habitID, "user_id", userID)
	return nil
}

// StreakStats is the progress summary for one habit.
type StreakStats struct {
	ConsecutiveWeeks int
	WeekTicks        int
	TotalTicks       int
	LastWeekMet      bool
}

// Streak computes the habit's weekly-goal streak as of today.
func (s *HabitService) Streak(userID, habitID string) (*StreakStats, error) {
	habit, err := s.repo.ByID(userID, habitID)
	if err != nil {
		return nil, err
	}

	records, err := s.recordRepo.ByHabit(habit.ID)
	if err != nil {
		return nil, err
	}

	today := todayFunc()
	weekTicks, totalTicks := WeekTicks(records, today)

	return &StreakStats{
		ConsecutiveWeeks: ConsecutiveWeeks(habit, records, today, s.maxLookbackWeeks),
		WeekTicks:        weekTicks,
		TotalTicks:       totalTicks,
		LastWeekMet:      LastWeekMet(habit, records, today),
	}, nil
}
