package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/campusfind/campusfind/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrTokenNotFound = errors.New("token not found")
)

type TokenRepository interface {
	Create(token *model.Token) error
	Consume(digest string) (*model.Token, error)
	DeleteByUserAndType(userID, tokenType string) error
}

type tokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(token *model.Token) error {
	query := `INSERT INTO tokens (id, user_id, type, digest, expires_at, used_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		token.ID,
		token.UserID,
		token.Type,
		token.Digest,
		token.ExpiresAt,
		token.UsedAt,
		token.CreatedAt,
	)

	return err
}

// Consume atomically marks the token used and returns it. The single
// UPDATE ... RETURNING statement means only one request can ever redeem a
// given token; a concurrent second request sees ErrTokenNotFound. Expired
// and already-used tokens are indistinguishable from unknown ones.
func (r *tokenRepository) Consume(digest string) (*model.Token, error) {
	token := &model.Token{}
	now := time.Now().UTC()

	query := `UPDATE tokens
	          SET used_at = $1
	          WHERE digest = $2 AND used_at IS NULL AND expires_at > $3
	          RETURNING *`

	err := r.db.Get(token, query, now, digest, now)
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	return token, nil
}

// DeleteByUserAndType revokes the user's outstanding (unused) tokens of
// one type, so issuing a new reset token invalidates any earlier one.
func (r *tokenRepository) DeleteByUserAndType(userID, tokenType string) error {
	query := `DELETE FROM tokens WHERE user_id = $1 AND type = $2 AND used_at IS NULL`
	_, err := r.db.Exec(query, userID, tokenType)
	return err
}
