package service

import (
	"time"

	"github.com/BenjaminKobjolke/beaverprime/internal/model"
)

// Weeks start on Monday everywhere: the grid UI, the weekly goal and the
// streak all use the same boundary.

// WeekStart floors a date to the Monday of its week.
func WeekStart(day time.Time) time.Time {
	day = dateOnly(day)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0 ... Sunday = 6
	return day.AddDate(0, 0, -offset)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// doneDaySet collects the days with a checked record. Skipped records
// (done=false) do not count toward goals.
func doneDaySet(records []*model.CheckedRecord) map[string]struct{} {
	days := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.Done {
			days[r.Day] = struct{}{}
		}
	}
	return days
}

func countWeek(done map[string]struct{}, weekStart time.Time) int {
	count := 0
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i).Format(model.DayFormat)
		if _, ok := done[day]; ok {
			count++
		}
	}
	return count
}

// WeekMeetsGoal reports whether the 7-day window starting at weekStart
// contains at least goal checked records. A goal of 0 always meets.
// Adding a checked record can never turn a met week into an unmet one.
func WeekMeetsGoal(records []*model.CheckedRecord, weekStart time.Time, goal int) bool {
	if goal <= 0 {
		return true
	}
	return countWeek(doneDaySet(records), WeekStart(weekStart)) >= goal
}

// WeekTicks returns the checked count for the week containing today and
// the all-time checked total.
func WeekTicks(records []*model.CheckedRecord, today time.Time) (weekTicks, totalTicks int) {
	done := doneDaySet(records)
	return countWeek(done, WeekStart(today)), len(done)
}

// LastWeekMet reports whether the previous week's goal was met. Habits
// created after the previous week started are treated as met so a brand
// new habit does not immediately count as failing.
func LastWeekMet(habit *model.Habit, records []*model.CheckedRecord, today time.Time) bool {
	lastWeekStart := WeekStart(today).AddDate(0, 0, -7)
	if dateOnly(habit.CreatedAt).After(lastWeekStart) {
		return true
	}
	return WeekMeetsGoal(records, lastWeekStart, habit.WeeklyGoal)
}

// ConsecutiveWeeks counts the unbroken run of weeks meeting the habit's
// weekly goal. The walk starts at the previous week (the current,
// possibly incomplete week would under-count) and moves backward until a
// week fails, the habit's creation week is passed, or maxLookbackWeeks
// weeks have been examined. If the current week already meets the goal it
// adds one: the only case where the in-progress week counts.
//
// A habit without a weekly goal has no streak.
func ConsecutiveWeeks(habit *model.Habit, records []*model.CheckedRecord, today time.Time, maxLookbackWeeks int) int {
	if habit.WeeklyGoal <= 0 {
		return 0
	}

	done := doneDaySet(records)
	created := dateOnly(habit.CreatedAt)

	currentWeekStart := WeekStart(today)
	currentWeekMet := countWeek(done, currentWeekStart) >= habit.WeeklyGoal

	streak := 0
	weekStart := currentWeekStart.AddDate(0, 0, -7)
	for weeks := 0; weeks < maxLookbackWeeks; weeks++ {
		weekEnd := weekStart.AddDate(0, 0, 6)

		// The creation week itself still counts; anything earlier never can.
		if weekStart.Before(created) && weekEnd.Before(created) {
			break
		}

		if countWeek(done, weekStart) < habit.WeeklyGoal {
			break
		}

		streak++
		weekStart = weekStart.AddDate(0, 0, -7)
	}

	if currentWeekMet {
		streak++
	}
	return streak
}
