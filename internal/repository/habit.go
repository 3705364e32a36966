package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/BenjaminKobjolke/beaverprime/internal/model"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
)

// HabitFilter narrows Habits queries. The zero value selects every habit
// of the user; Unassigned selects habits without a list.
type HabitFilter struct {
	ListID     *string
	Unassigned bool
}

type HabitRepository interface {
	Create(habit *model.Habit) error
	ByID(userID, habitID string) (*model.Habit, error)
	Habits(userID string, filter HabitFilter) ([]*model.Habit, error)
	Update(habit *model.Habit) error
	Delete(userID, habitID string) error
}

type habitRepository struct {
	db *sqlx.DB
}

func NewHabitRepository(db *sqlx.DB) HabitRepository {
	return &habitRepository{db: db}
}

func (r *habitRepository) Create(habit *model.Habit) error {
	query := `INSERT INTO habits (id, user_id, list_id, name, sort_order, weekly_goal, star, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(query,
		habit.ID,
		habit.UserID,
		habit.ListID,
		habit.Name,
		habit.Order,
		habit.WeeklyGoal,
		habit.Star,
		habit.CreatedAt,
		habit.UpdatedAt,
	)

	return err
}

func (r *habitRepository) ByID(userID, habitID string) (*model.Habit, error) {
	habit := &model.Habit{}
	query := `SELECT * FROM habits WHERE id = $1 AND user_id = $2`

	err := r.db.Get(habit, query, habitID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrHabitNotFound
	}

	return habit, err
}

func (r *habitRepository) Habits(userID string, filter HabitFilter) ([]*model.Habit, error) {
	var habits []*model.Habit

	query := `SELECT * FROM habits WHERE user_id = $1`
	args := []any{userID}

	switch {
	case filter.Unassigned:
		query += ` AND list_id IS NULL`
	case filter.ListID != nil:
		query += ` AND list_id = $2`
		args = append(args, *filter.ListID)
	}

	query += ` ORDER BY sort_order ASC, created_at ASC`

	err := r.db.Select(&habits, query, args...)
	if err != nil {
		return nil, err
	}

	return habits, nil
}

func (r *habitRepository) Update(habit *model.Habit) error {
	query := `UPDATE habits
	          SET name = $1, list_id = $2, sort_order = $3, weekly_goal = $4, star = $5, updated_at = $6
	          WHERE id = $7 AND user_id = $8`

	result, err := r.db.Exec(query,
		habit.Name,
		habit.ListID,
		habit.Order,
		habit.WeeklyGoal,
		habit.Star,
		time.Now(),
		habit.ID,
		habit.UserID,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrHabitNotFound
	}

	return nil
}

// Delete removes the habit; its completion records go with it
// (checked_records.habit_id is ON DELETE CASCADE).
func (r *habitRepository) Delete(userID, habitID string) error {
	query := `DELETE FROM habits WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, habitID, userID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrHabitNotFound
	}

	return nil
}
