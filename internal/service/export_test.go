package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenjaminKobjolke/beaverprime/internal/repository"
)

func TestExportImportRoundTrip(t *testing.T) {
	database := setupTestDB(t)
	habitRepo := repository.NewHabitRepository(database)
	listRepo := repository.NewListRepository(database)
	recordRepo := repository.NewRecordRepository(database)

	listSvc := NewListService(listRepo)
	habitSvc := NewHabitService(habitRepo, listRepo, recordRepo, 520)
	completionSvc := NewCompletionService(habitRepo, recordRepo)
	exportSvc := NewExportService(database, habitRepo, listRepo, recordRepo)

	source := createTestUser(t, database)

	list, err := listSvc.Create(source.ID, "Health", 1)
	require.NoError(t, err)

	habit, err := habitSvc.Create(source.ID, "Morning run", &list.ID, 0, 3)
	require.NoError(t, err)

	_, err = completionSvc.Toggle(source.ID, habit.ID, "2026-03-02")
	require.NoError(t, err)
	// Toggle twice more to land on skipped for a second day
	_, err = completionSvc.Toggle(source.ID, habit.ID, "2026-03-03")
	require.NoError(t, err)
	_, err = completionSvc.Toggle(source.ID, habit.ID, "2026-03-03")
	require.NoError(t, err)

	snapshot, err := exportSvc.Export(source.ID)
	require.NoError(t, err)
	assert.Equal(t, SnapshotVersion, snapshot.Version)
	require.Len(t, snapshot.Lists, 1)
	require.Len(t, snapshot.Habits, 1)
	require.Len(t, snapshot.Habits[0].Completions, 2)

	// Import the snapshot into a fresh account
	target := createTestUser(t, database)
	err = exportSvc.Import(target.ID, snapshot, ImportModeMerge)
	require.NoError(t, err)

	lists, err := listRepo.Lists(target.ID)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "Health", lists[0].Name)

	habits, err := habitRepo.Habits(target.ID, repository.HabitFilter{})
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "Morning run", habits[0].Name)
	assert.Equal(t, 3, habits[0].WeeklyGoal)
	require.NotNil(t, habits[0].ListID)
	assert.Equal(t, lists[0].ID, *habits[0].ListID)

	records, err := recordRepo.ByHabit(habits[0].ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].Done)
	assert.False(t, records[1].Done, "skipped day survives the round trip")
}

func TestImportReplaceClearsExistingData(t *testing.T) {
	database := setupTestDB(t)
	habitRepo := repository.NewHabitRepository(database)
	listRepo := repository.NewListRepository(database)
	recordRepo := repository.NewRecordRepository(database)

	habitSvc := NewHabitService(habitRepo, listRepo, recordRepo, 520)
	exportSvc := NewExportService(database, habitRepo, listRepo, recordRepo)

	user := createTestUser(t, database)

	_, err := habitSvc.Create(user.ID, "Old habit", nil, 0, 1)
	require.NoError(t, err)

	snapshot := &Snapshot{
		Version: SnapshotVersion,
		Habits: []SnapshotHabit{
			{ID: "h1", Name: "New habit", WeeklyGoal: 2, Completions: []SnapshotRecord{
				{Date: "2026-03-02", Done: true},
			}},
		},
	}

	err = exportSvc.Import(user.ID, snapshot, ImportModeReplace)
	require.NoError(t, err)

	habits, err := habitRepo.Habits(user.ID, repository.HabitFilter{})
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "New habit", habits[0].Name)
}

func TestImportMergeUpsertsByName(t *testing.T) {
	database := setupTestDB(t)
	habitRepo := repository.NewHabitRepository(database)
	listRepo := repository.NewListRepository(database)
	recordRepo := repository.NewRecordRepository(database)

	habitSvc := NewHabitService(habitRepo, listRepo, recordRepo, 520)
	exportSvc := NewExportService(database, habitRepo, listRepo, recordRepo)

	user := createTestUser(t, database)

	existing, err := habitSvc.Create(user.ID, "Meditate", nil, 0, 1)
	require.NoError(t, err)

	snapshot := &Snapshot{
		Version: SnapshotVersion,
		Habits: []SnapshotHabit{
			{ID: "h1", Name: "Meditate", WeeklyGoal: 5},
			{ID: "h2", Name: "Read", WeeklyGoal: 2},
		},
	}

	err = exportSvc.Import(user.ID, snapshot, ImportModeMerge)
	require.NoError(t, err)

	habits, err := habitRepo.Habits(user.ID, repository.HabitFilter{})
	require.NoError(t, err)
	require.Len(t, habits, 2)

	merged, err := habitRepo.ByID(user.ID, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, merged.WeeklyGoal, "matching habit is updated in place")
}

func TestImportRejectsMalformedSnapshot(t *testing.T) {
	database := setupTestDB(t)
	habitRepo := repository.NewHabitRepository(database)
	listRepo := repository.NewListRepository(database)
	recordRepo := repository.NewRecordRepository(database)
	exportSvc := NewExportService(database, habitRepo, listRepo, recordRepo)

	user := createTestUser(t, database)

	cases := []struct {
		name     string
		snapshot *Snapshot
	}{
		{"unsupported version", &Snapshot{Version: 99}},
		{"habit without name", &Snapshot{Version: 1, Habits: []SnapshotHabit{{ID: "h1"}}}},
		{"unparseable date", &Snapshot{Version: 1, Habits: []SnapshotHabit{
			{ID: "h1", Name: "Run", Completions: []SnapshotRecord{{Date: "03/02/2026", Done: true}}},
		}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := exportSvc.Import(user.ID, tc.snapshot, ImportModeMerge)
			assert.ErrorIs(t, err, ErrInvalidSnapshot)

			// Nothing was written
			habits, err := habitRepo.Habits(user.ID, repository.HabitFilter{})
			require.NoError(t, err)
			assert.Empty(t, habits)
		})
	}
}
