package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/steadyapp/steady/internal/db"
	"github.com/steadyapp/steady/internal/model"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// newTestDB opens an in-memory SQLite database with migrations applied.
// A single connection keeps every query on the same :memory: instance.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	d, err := sqlx.Connect("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	d.SetMaxOpenConns(1)

	require.NoError(t, db.RunMigrations(d.DB, "sqlite"))

	t.Cleanup(func() {
		_ = d.Close()
	})
	return d
}

func createTestUser(t *testing.T, d *sqlx.DB) *model.User {
	t.Helper()

	user := &model.User{
		ID:        uuid.New().String(),
		Email:     uuid.New().String() + "@example.com",
		CreatedAt: time.Now(),
	}
	require.NoError(t, NewUserRepository(d).Create(user))
	return user
}

func createTestGoal(t *testing.T, d *sqlx.DB, userID, title string, orderIndex int) *model.Goal {
	t.Helper()

	goal := &model.Goal{
		ID:         uuid.New().String(),
		UserID:     userID,
		Title:      title,
		IsActive:   true,
		OrderIndex: orderIndex,
		CreatedAt:  time.Now(),
	}
	require.NoError(t, NewGoalRepository(d).Create(goal))
	return goal
}
