package repository

import (
	"testing"
	"time"

	"github.com/steadyapp/steady/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRepository_ConsumeToken_OnlyOnce(t *testing.T) {
	d := newTestDB(t)
	repo := NewTokenRepository(d)
	user := createTestUser(t, d)

	token := &model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypePasswordReset,
		Token:     "reset-abc",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.Create(token))

	consumed, err := repo.ConsumeToken("reset-abc")
	require.NoError(t, err)
	assert.Equal(t, user.ID, consumed.UserID)
	assert.NotNil(t, consumed.UsedAt)

	_, err = repo.ConsumeToken("reset-abc")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTokenRepository_ConsumeToken_Expired(t *testing.T) {
	d := newTestDB(t)
	repo := NewTokenRepository(d)
	user := createTestUser(t, d)

	token := &model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypePasswordReset,
		Token:     "reset-old",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, repo.Create(token))

	_, err := repo.ConsumeToken("reset-old")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	d := newTestDB(t)
	repo := NewUserRepository(d)
	user := createTestUser(t, d)

	dup := &model.User{
		ID:        "another-id",
		Email:     user.Email,
		CreatedAt: time.Now(),
	}
	assert.ErrorIs(t, repo.Create(dup), ErrDuplicateEmail)
}
