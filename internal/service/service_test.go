package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/BenjaminKobjolke/beaverprime/internal/db"
	"github.com/BenjaminKobjolke/beaverprime/internal/model"
	"github.com/BenjaminKobjolke/beaverprime/internal/repository"
)

// setupTestDB opens an in-memory SQLite database with the full schema
// applied through the regular migrations.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	// Migrations run on a single connection; in-memory SQLite loses the
	// schema if the pool opens a second one.
	database.SetMaxOpenConns(1)

	err = db.RunMigrations(database.DB, "sqlite")
	require.NoError(t, err)

	return database
}

func createTestUser(t *testing.T, database *sqlx.DB) *model.User {
	t.Helper()

	user := &model.User{
		ID:        uuid.New().String(),
		Email:     uuid.New().String() + "@example.com",
		CreatedAt: time.Now(),
	}
	err := repository.NewUserRepository(database).Create(user)
	require.NoError(t, err)

	return user
}

func createTestHabit(t *testing.T, database *sqlx.DB, userID string, weeklyGoal int) *model.Habit {
	t.Helper()

	now := time.Now()
	habit := &model.Habit{
		ID:         uuid.New().String(),
		UserID:     userID,
		Name:       "Morning run",
		WeeklyGoal: weeklyGoal,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := repository.NewHabitRepository(database).Create(habit)
	require.NoError(t, err)

	return habit
}
