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
	ErrTokenNotFound = errors.New("token not found")
)

type TokenRepository interface {
	Create(token *model.Token) error
	ConsumeToken(token string) (*model.Token, error)
	DeleteByUserAndType(userID, tokenType string) error
}

type tokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(token *model.Token) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO tokens (id, user_id, type, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(query,
		token.ID,
		token.UserID,
		token.Type,
		token.Token,
		token.ExpiresAt,
		token.CreatedAt,
	)
	return err
}

// ConsumeToken atomically marks the token as used and returns it.
// Concurrent requests with the same token race on a single UPDATE;
// only one of them gets the row back, the rest see ErrTokenNotFound.
func (r *tokenRepository) ConsumeToken(token string) (*model.Token, error) {
	var t model.Token
	now := time.Now()

	query := `
		UPDATE tokens
		SET used_at = $1
		WHERE token = $2
		AND used_at IS NULL
		AND expires_at > $3
		RETURNING *
	`

	err := r.db.Get(&t, query, now, token, now)
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *tokenRepository) DeleteByUserAndType(userID, tokenType string) error {
	query := `DELETE FROM tokens WHERE user_id = $1 AND type = $2 AND used_at IS NULL`
	_, err := r.db.Exec(query, userID, tokenType)
	return err
}
