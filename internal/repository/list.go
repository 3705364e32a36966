package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/BenjaminKobjolke/beaverprime/internal/model"
)

var (
	ErrListNotFound = errors.New("list not found")
)

type ListRepository interface {
	Create(list *model.List) error
	ByID(userID, listID string) (*model.List, error)
	Lists(userID string) ([]*model.List, error)
	Update(list *model.List) error
	Delete(userID, listID string) error
}

type listRepository struct {
	db *sqlx.DB
}

func NewListRepository(db *sqlx.DB) ListRepository {
	return &listRepository{db: db}
}

func (r *listRepository) Create(list *model.List) error {
	query := `INSERT INTO lists (id, user_id, name, sort_order, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		list.ID,
		list.UserID,
		list.Name,
		list.Order,
		list.CreatedAt,
		list.UpdatedAt,
	)

	return err
}

func (r *listRepository) ByID(userID, listID string) (*model.List, error) {
	list := &model.List{}
	query := `SELECT * FROM lists WHERE id = $1 AND user_id = $2`

	err := r.db.Get(list, query, listID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrListNotFound
	}

	return list, err
}

func (r *listRepository) Lists(userID string) ([]*model.List, error) {
	var lists []*model.List
	query := `SELECT * FROM lists WHERE user_id = $1 ORDER BY sort_order ASC, created_at ASC`

	err := r.db.Select(&lists, query, userID)
	if err != nil {
		return nil, err
	}

	return lists, nil
}

func (r *listRepository) Update(list *model.List) error {
	query := `UPDATE lists SET name = $1, sort_order = $2, updated_at = $3
	          WHERE id = $4 AND user_id = $5`

	result, err := r.db.Exec(query,
		list.Name,
		list.Order,
		time.Now(),
		list.ID,
		list.UserID,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrListNotFound
	}

	return nil
}

// Delete removes the list. Habits keep existing and become unassigned
// (habits.list_id is ON DELETE SET NULL).
func (r *listRepository) Delete(userID, listID string) error {
	query := `DELETE FROM lists WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, listID, userID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrListNotFound
	}

	return nil
}
