package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenjaminKobjolke/beaverprime/internal/model"
	"github.com/BenjaminKobjolke/beaverprime/internal/repository"
)

func TestCompletionToggleCycle(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database)
	habit := createTestHabit(t, database, user.ID, 3)

	habitRepo := repository.NewHabitRepository(database)
	recordRepo := repository.NewRecordRepository(database)
	svc := NewCompletionService(habitRepo, recordRepo)

	const day = "2026-03-02"

	// unset -> checked
	state, err := svc.Toggle(user.ID, habit.ID, day)
	require.NoError(t, err)
	assert.Equal(t, model.StateChecked, state)

	record, err := recordRepo.ByHabitAndDay(habit.ID, day)
	require.NoError(t, err)
	assert.True(t, record.Done)

	// checked -> skipped
	state, err = svc.Toggle(user.ID, habit.ID, day)
	require.NoError(t, err)
	assert.Equal(t, model.StateSkipped, state)

	record, err = recordRepo.ByHabitAndDay(habit.ID, day)
	require.NoError(t, err)
	assert.False(t, record.Done)

	// skipped -> unset deletes the row
	state, err = svc.Toggle(user.ID, habit.ID, day)
	require.NoError(t, err)
	assert.Equal(t, model.StateUnset, state)

	_, err = recordRepo.ByHabitAndDay(habit.ID, day)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
}

func TestCompletionToggleValidation(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database)
	habit := createTestHabit(t, database, user.ID, 0)

	svc := NewCompletionService(
		repository.NewHabitRepository(database),
		repository.NewRecordRepository(database),
	)

	_, err := svc.Toggle(user.ID, habit.ID, "02.03.2026")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = svc.Toggle(user.ID, "no-such-habit", "2026-03-02")
	assert.ErrorIs(t, err, repository.ErrHabitNotFound)

	// Another user's habit is invisible
	stranger := createTestUser(t, database)
	_, err = svc.Toggle(stranger.ID, habit.ID, "2026-03-02")
	assert.ErrorIs(t, err, repository.ErrHabitNotFound)
}

func TestCompletionToggleMany(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database)
	habit := createTestHabit(t, database, user.ID, 3)

	recordRepo := repository.NewRecordRepository(database)
	svc := NewCompletionService(repository.NewHabitRepository(database), recordRepo)

	results, err := svc.ToggleMany(user.ID, habit.ID, []string{
		"2026-03-02",
		"not-a-date",
		"2026-03-04",
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, model.StateChecked, results[0].State)
	assert.Empty(t, results[0].Err)

	assert.NotEmpty(t, results[1].Err, "bad date reports an error without aborting the batch")

	assert.Equal(t, model.StateChecked, results[2].State)

	// The valid days were persisted
	records, err := recordRepo.ByHabit(habit.ID)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestCompletionRecordsRange(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database)
	habit := createTestHabit(t, database, user.ID, 3)

	recordRepo := repository.NewRecordRepository(database)
	svc := NewCompletionService(repository.NewHabitRepository(database), recordRepo)

	for _, d := range []string{"2026-02-01", "2026-02-15", "2026-03-01"} {
		require.NoError(t, recordRepo.Upsert(&model.CheckedRecord{HabitID: habit.ID, Day: d, Done: true}))
	}

	records, err := svc.Records(user.ID, habit.ID, "2026-02-10", "2026-02-28")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2026-02-15", records[0].Day)
}

func TestHabitDeleteCascadesRecords(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database)
	habit := createTestHabit(t, database, user.ID, 3)

	habitRepo := repository.NewHabitRepository(database)
	recordRepo := repository.NewRecordRepository(database)

	require.NoError(t, recordRepo.Upsert(&model.CheckedRecord{HabitID: habit.ID, Day: "2026-03-02", Done: true}))

	require.NoError(t, habitRepo.Delete(user.ID, habit.ID))

	records, err := recordRepo.ByHabit(habit.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}
