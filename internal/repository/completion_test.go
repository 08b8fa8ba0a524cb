package repository

import (
	"testing"

	"github.com/steadyapp/steady/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionRepository_ByDay_ScopedToUserAndDay(t *testing.T) {
	d := newTestDB(t)
	repo := NewCompletionRepository(d)
	alice := createTestUser(t, d)
	bob := createTestUser(t, d)

	aliceGoal := createTestGoal(t, d, alice.ID, "run", 0)
	bobGoal := createTestGoal(t, d, bob.ID, "read", 0)

	require.NoError(t, repo.Create(&model.Completion{GoalID: aliceGoal.ID, CompletedAt: "2026-08-30"}))
	require.NoError(t, repo.Create(&model.Completion{GoalID: aliceGoal.ID, CompletedAt: "2026-08-31"}))
	require.NoError(t, repo.Create(&model.Completion{GoalID: bobGoal.ID, CompletedAt: "2026-08-31"}))

	completions, err := repo.ByDay(alice.ID, "2026-08-31")
	require.NoError(t, err)
	require.Len(t, completions, 1)
	assert.Equal(t, aliceGoal.ID, completions[0].GoalID)
	assert.Equal(t, "2026-08-31", completions[0].CompletedAt)
}

func TestCompletionRepository_Since(t *testing.T) {
	d := newTestDB(t)
	repo := NewCompletionRepository(d)
	user := createTestUser(t, d)
	goal := createTestGoal(t, d, user.ID, "run", 0)

	for _, day := range []string{"2026-08-01", "2026-08-15", "2026-08-31"} {
		require.NoError(t, repo.Create(&model.Completion{GoalID: goal.ID, CompletedAt: day}))
	}

	completions, err := repo.Since(user.ID, "2026-08-10")
	require.NoError(t, err)
	require.Len(t, completions, 2)
	assert.Equal(t, "2026-08-15", completions[0].CompletedAt)
	assert.Equal(t, "2026-08-31", completions[1].CompletedAt)
}

func TestCompletionRepository_UniquePerGoalAndDay(t *testing.T) {
	d := newTestDB(t)
	repo := NewCompletionRepository(d)
	user := createTestUser(t, d)
	goal := createTestGoal(t, d, user.ID, "run", 0)

	require.NoError(t, repo.Create(&model.Completion{GoalID: goal.ID, CompletedAt: "2026-08-31"}))
	err := repo.Create(&model.Completion{GoalID: goal.ID, CompletedAt: "2026-08-31"})
	assert.Error(t, err)
}

func TestCompletionRepository_CascadeOnGoalDelete(t *testing.T) {
	d := newTestDB(t)
	repo := NewCompletionRepository(d)
	goalRepo := NewGoalRepository(d)
	user := createTestUser(t, d)
	goal := createTestGoal(t, d, user.ID, "run", 0)

	require.NoError(t, repo.Create(&model.Completion{GoalID: goal.ID, CompletedAt: "2026-08-31"}))
	require.NoError(t, goalRepo.Delete(user.ID, goal.ID))

	completions, err := repo.ByDay(user.ID, "2026-08-31")
	require.NoError(t, err)
	assert.Empty(t, completions)
}

func TestCompletionRepository_Delete(t *testing.T) {
	d := newTestDB(t)
	repo := NewCompletionRepository(d)
	user := createTestUser(t, d)
	goal := createTestGoal(t, d, user.ID, "run", 0)

	c := &model.Completion{GoalID: goal.ID, CompletedAt: "2026-08-31"}
	require.NoError(t, repo.Create(c))
	require.NoError(t, repo.Delete(c.ID))

	assert.ErrorIs(t, repo.Delete(c.ID), ErrCompletionNotFound)
}
