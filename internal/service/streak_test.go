package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BenjaminKobjolke/beaverprime/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func checked(days ...string) []*model.CheckedRecord {
	records := make([]*model.CheckedRecord, 0, len(days))
	for _, d := range days {
		records = append(records, &model.CheckedRecord{Day: d, Done: true})
	}
	return records
}

func TestNextStateCycle(t *testing.T) {
	assert.Equal(t, model.StateChecked, model.NextState(model.StateUnset))
	assert.Equal(t, model.StateSkipped, model.NextState(model.StateChecked))
	assert.Equal(t, model.StateUnset, model.NextState(model.StateSkipped))

	// Three toggles return to the starting state
	state := model.StateUnset
	for i := 0; i < 3; i++ {
		state = model.NextState(state)
	}
	assert.Equal(t, model.StateUnset, state)
}

func TestWeekStart(t *testing.T) {
	monday := day(2026, time.January, 12)

	assert.Equal(t, monday, WeekStart(monday), "Monday floors to itself")
	assert.Equal(t, monday, WeekStart(day(2026, time.January, 14)), "Wednesday")
	assert.Equal(t, monday, WeekStart(day(2026, time.January, 18)), "Sunday belongs to the week of the preceding Monday")
	assert.Equal(t, day(2026, time.January, 19), WeekStart(day(2026, time.January, 19)), "next Monday starts a new week")
}

func TestWeekMeetsGoal(t *testing.T) {
	weekStart := day(2026, time.January, 12)

	records := checked("2026-01-12", "2026-01-14")

	assert.True(t, WeekMeetsGoal(records, weekStart, 2))
	assert.False(t, WeekMeetsGoal(records, weekStart, 3))
	assert.True(t, WeekMeetsGoal(nil, weekStart, 0), "a goal of zero always meets")

	// Skipped records never count toward the goal
	withSkip := append(records, &model.CheckedRecord{Day: "2026-01-15", Done: false})
	assert.False(t, WeekMeetsGoal(withSkip, weekStart, 3))
}

func TestWeekTicks(t *testing.T) {
	today := day(2026, time.January, 14)

	records := checked("2026-01-12", "2026-01-13", "2026-01-05", "2025-12-29")
	records = append(records, &model.CheckedRecord{Day: "2026-01-14", Done: false})

	weekTicks, totalTicks := WeekTicks(records, today)
	assert.Equal(t, 2, weekTicks, "only this week's checked days")
	assert.Equal(t, 4, totalTicks, "all checked days, skips excluded")
}

func TestLastWeekMet(t *testing.T) {
	today := day(2026, time.January, 14)

	habit := &model.Habit{WeeklyGoal: 2, CreatedAt: day(2025, time.December, 1)}

	assert.True(t, LastWeekMet(habit, checked("2026-01-05", "2026-01-07"), today))
	assert.False(t, LastWeekMet(habit, checked("2026-01-05"), today))

	// A habit created after last week began has no week to fail yet
	young := &model.Habit{WeeklyGoal: 2, CreatedAt: day(2026, time.January, 13)}
	assert.True(t, LastWeekMet(young, nil, today))
}

func TestConsecutiveWeeks(t *testing.T) {
	today := day(2026, time.January, 14) // Wednesday, week of Jan 12
	habit := &model.Habit{WeeklyGoal: 2, CreatedAt: day(2025, time.December, 1)}

	t.Run("no goal means no streak", func(t *testing.T) {
		noGoal := &model.Habit{WeeklyGoal: 0, CreatedAt: day(2025, time.December, 1)}
		records := checked("2026-01-05", "2026-01-07")
		assert.Equal(t, 0, ConsecutiveWeeks(noGoal, records, today, 520))
	})

	t.Run("counts back from previous week", func(t *testing.T) {
		records := checked(
			"2026-01-05", "2026-01-07", // week of Jan 5: met
			"2025-12-29", "2025-12-31", // week of Dec 29: met
		)
		assert.Equal(t, 2, ConsecutiveWeeks(habit, records, today, 520))
	})

	t.Run("current week adds a bonus when already met", func(t *testing.T) {
		records := checked(
			"2026-01-12", "2026-01-13", // current week: met
			"2026-01-05", "2026-01-07",
			"2025-12-29", "2025-12-31",
		)
		assert.Equal(t, 3, ConsecutiveWeeks(habit, records, today, 520))
	})

	t.Run("a failed week breaks the run", func(t *testing.T) {
		records := checked(
			"2026-01-05", "2026-01-07",
			"2025-12-29", // week of Dec 29: only 1 check
			"2025-12-22", "2025-12-24",
		)
		assert.Equal(t, 1, ConsecutiveWeeks(habit, records, today, 520))
	})

	t.Run("creation week bounds the walk", func(t *testing.T) {
		young := &model.Habit{WeeklyGoal: 2, CreatedAt: day(2026, time.January, 6)}
		records := checked(
			"2026-01-07", "2026-01-09",
			"2025-12-29", "2025-12-31", // before creation, never counts
		)
		assert.Equal(t, 1, ConsecutiveWeeks(young, records, today, 520))
	})

	t.Run("lookback cap bounds the walk", func(t *testing.T) {
		var days []string
		weekStart := day(2026, time.January, 5)
		for i := 0; i < 10; i++ {
			start := weekStart.AddDate(0, 0, -7*i)
			days = append(days,
				start.Format(model.DayFormat),
				start.AddDate(0, 0, 2).Format(model.DayFormat),
			)
		}
		old := &model.Habit{WeeklyGoal: 2, CreatedAt: day(2025, time.January, 1)}
		assert.Equal(t, 3, ConsecutiveWeeks(old, checked(days...), today, 3))
	})

	t.Run("adding a check never shrinks the streak", func(t *testing.T) {
		records := checked("2026-01-05", "2026-01-07", "2025-12-29")
		prev := ConsecutiveWeeks(habit, records, today, 520)

		additions := []string{"2025-12-31", "2026-01-12", "2026-01-13", "2025-12-22"}
		for _, add := range additions {
			records = append(records, &model.CheckedRecord{Day: add, Done: true})
			current := ConsecutiveWeeks(habit, records, today, 520)
			assert.GreaterOrEqual(t, current, prev, "after adding %s", add)
			prev = current
		}
	})
}
