package repository

import (
	"testing"
	"time"

	"github.com/campusfind/campusfind/internal/db"
	"github.com/campusfind/campusfind/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertToken(t *testing.T, repo TokenRepository, userID, digest string, expiresAt time.Time) *model.Token {
	t.Helper()

	token := &model.Token{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      model.TokenTypePasswordReset,
		Digest:    digest,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(token))
	return token
}

func TestTokenConsumeOnce(t *testing.T) {
	database := db.NewTestDB(t)
	repo := NewTokenRepository(database)
	user := createTestUser(t, database, "Ali", "ali@nu.edu.pk")

	insertToken(t, repo, user.ID, "digest-1", time.Now().UTC().Add(time.Hour))

	token, err := repo.Consume("digest-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, token.UserID)
	assert.True(t, token.IsUsed())

	// second redemption fails
	_, err = repo.Consume("digest-1")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTokenConsumeExpired(t *testing.T) {
	database := db.NewTestDB(t)
	repo := NewTokenRepository(database)
	user := createTestUser(t, database, "Ali", "ali@nu.edu.pk")

	insertToken(t, repo, user.ID, "digest-expired", time.Now().UTC().Add(-time.Minute))

	_, err := repo.Consume("digest-expired")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTokenConsumeUnknown(t *testing.T) {
	database := db.NewTestDB(t)
	repo := NewTokenRepository(database)

	_, err := repo.Consume("never-issued")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTokenDeleteByUserAndType(t *testing.T) {
	database := db.NewTestDB(t)
	repo := NewTokenRepository(database)
	ali := createTestUser(t, database, "Ali", "ali@nu.edu.pk")
	sara := createTestUser(t, database, "Sara", "sara@nu.edu.pk")

	insertToken(t, repo, ali.ID, "digest-ali", time.Now().UTC().Add(time.Hour))
	insertToken(t, repo, sara.ID, "digest-sara", time.Now().UTC().Add(time.Hour))

	require.NoError(t, repo.DeleteByUserAndType(ali.ID, model.TokenTypePasswordReset))

	_, err := repo.Consume("digest-ali")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	// other users' tokens are untouched
	_, err = repo.Consume("digest-sara")
	assert.NoError(t, err)
}
