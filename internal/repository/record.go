package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/BenjaminKobjolke/beaverprime/internal/model"
)

var (
	ErrRecordNotFound = errors.New("completion record not found")
)

type RecordRepository interface {
	ByHabitAndDay(habitID, day string) (*model.CheckedRecord, error)
	ByHabit(habitID string) ([]*model.CheckedRecord, error)
	ByHabitRange(habitID, start, end string) ([]*model.CheckedRecord, error)
	Upsert(record *model.CheckedRecord) error
	Delete(habitID, day string) error
}

type recordRepository struct {
	db *sqlx.DB
}

func NewRecordRepository(db *sqlx.DB) RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) ByHabitAndDay(habitID, day string) (*model.CheckedRecord, error) {
	record := &model.CheckedRecord{}
	query := `SELECT * FROM checked_records WHERE habit_id = $1 AND day = $2`

	err := r.db.Get(record, query, habitID, day)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (r *recordRepository) ByHabit(habitID string) ([]*model.CheckedRecord, error) {
	var records []*model.CheckedRecord
	query := `SELECT * FROM checked_records WHERE habit_id = $1 ORDER BY day ASC`

	err := r.db.Select(&records, query, habitID)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// ByHabitRange returns records with start <= day <= end. Days are ISO
// dates, so lexicographic comparison matches chronological order.
func (r *recordRepository) ByHabitRange(habitID, start, end string) ([]*model.CheckedRecord, error) {
	var records []*model.CheckedRecord
	query := `SELECT * FROM checked_records WHERE habit_id = $1 AND day >= $2 AND day <= $3 ORDER BY day ASC`

	err := r.db.Select(&records, query, habitID, start, end)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// Upsert inserts or updates the single record for (habit, day). The unique
// index on (habit_id, day) guarantees at most one row per cell.
func (r *recordRepository) Upsert(record *model.CheckedRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	query := `INSERT INTO checked_records (id, habit_id, day, done, note, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (habit_id, day) DO UPDATE
	          SET done = excluded.done,
	              note = COALESCE(excluded.note, checked_records.note),
	              updated_at = excluded.updated_at`

	_, err := r.db.Exec(query,
		record.ID,
		record.HabitID,
		record.Day,
		record.Done,
		record.Note,
		record.CreatedAt,
		record.UpdatedAt,
	)

	return err
}

func (r *recordRepository) Delete(habitID, day string) error {
	query := `DELETE FROM checked_records WHERE habit_id = $1 AND day = $2`
	result, err := r.db.Exec(query, habitID, day)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrRecordNotFound
	}

	return nil
}
