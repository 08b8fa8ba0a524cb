package service

import (
	"testing"
	"time"

	"github.com/steadyapp/steady/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatsFixture(t *testing.T) (*StatsService, *GoalService, *CompletionService) {
	t.Helper()
	goalRepo := &stubGoalRepo{}
	completionRepo := &stubCompletionRepo{goals: goalRepo}
	return NewStatsService(completionRepo), NewGoalService(goalRepo), NewCompletionService(goalRepo, completionRepo)
}

// A Monday, so weekly labels are deterministic in assertions below.
var statsToday = time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)

func toggleOn(t *testing.T, completions *CompletionService, goalID string, daysAgo int) {
	t.Helper()
	day := model.Day(statsToday.AddDate(0, 0, -daysAgo))
	require.NoError(t, completions.Toggle("u1", day, goalID))
}

func TestStatsService_Streak_ConsecutiveRun(t *testing.T) {
	stats, goals, completions := newStatsFixture(t)
	goal, err := goals.Create("u1", "run", "")
	require.NoError(t, err)

	// Today, yesterday, the day before; a gap at D-3
	toggleOn(t, completions, goal.ID, 0)
	toggleOn(t, completions, goal.ID, 1)
	toggleOn(t, completions, goal.ID, 2)
	toggleOn(t, completions, goal.ID, 4)

	streak, err := stats.Streak("u1", statsToday)
	require.NoError(t, err)
	assert.Equal(t, 3, streak)
}

func TestStatsService_Streak_ZeroWhenTodayEmpty(t *testing.T) {
	stats, goals, completions := newStatsFixture(t)
	goal, err := goals.Create("u1", "run", "")
	require.NoError(t, err)

	// A solid run through yesterday counts for nothing until today is done
	toggleOn(t, completions, goal.ID, 1)
	toggleOn(t, completions, goal.ID, 2)
	toggleOn(t, completions, goal.ID, 3)

	streak, err := stats.Streak("u1", statsToday)
	require.NoError(t, err)
	assert.Equal(t, 0, streak)
}

func TestStatsService_Streak_AnyGoalKeepsTheChain(t *testing.T) {
	stats, goals, completions := newStatsFixture(t)
	run, err := goals.Create("u1", "run", "")
	require.NoError(t, err)
	read, err := goals.Create("u1", "read", "")
	require.NoError(t, err)

	// Alternating goals still form one unbroken chain
	toggleOn(t, completions, run.ID, 0)
	toggleOn(t, completions, read.ID, 1)

	streak, err := stats.Streak("u1", statsToday)
	require.NoError(t, err)
	assert.Equal(t, 2, streak)
}

func TestStatsService_Streak_CappedAtWindow(t *testing.T) {
	stats, goals, completions := newStatsFixture(t)
	goal, err := goals.Create("u1", "run", "")
	require.NoError(t, err)

	// Completions on every day for well past the window
	for i := 0; i < streakWindowDays+10; i++ {
		toggleOn(t, completions, goal.ID, i)
	}

	streak, err := stats.Streak("u1", statsToday)
	require.NoError(t, err)
	assert.Equal(t, streakWindowDays, streak)
}

func TestStatsService_Weekly_BucketsOldestFirst(t *testing.T) {
	stats, goals, completions := newStatsFixture(t)
	run, err := goals.Create("u1", "run", "")
	require.NoError(t, err)
	read, err := goals.Create("u1", "read", "")
	require.NoError(t, err)

	toggleOn(t, completions, run.ID, 0)
	toggleOn(t, completions, run.ID, 2)
	toggleOn(t, completions, read.ID, 2)
	toggleOn(t, completions, run.ID, 10) // outside the window

	weekly, err := stats.Weekly("u1", statsToday)
	require.NoError(t, err)
	require.Len(t, weekly, weeklyDays)

	// statsToday is a Monday; oldest bucket is the previous Tuesday
	assert.Equal(t, "Tue", weekly[0].Label)
	assert.Equal(t, "Mon", weekly[6].Label)

	assert.Equal(t, []int{0, 0, 0, 2, 0, 0, 1}, []int{
		weekly[0].Count, weekly[1].Count, weekly[2].Count, weekly[3].Count,
		weekly[4].Count, weekly[5].Count, weekly[6].Count,
	})
}

func TestStatsService_StatsFor(t *testing.T) {
	stats, goals, completions := newStatsFixture(t)
	goal, err := goals.Create("u1", "run", "")
	require.NoError(t, err)
	toggleOn(t, completions, goal.ID, 0)

	got, err := stats.StatsFor("u1", statsToday)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Streak)
	require.Len(t, got.Weekly, weeklyDays)
	assert.Equal(t, 1, got.Weekly[6].Count)
}

func TestStatsService_RequiresIdentity(t *testing.T) {
	stats, _, _ := newStatsFixture(t)

	_, err := stats.Streak("", statsToday)
	assert.ErrorIs(t, err, ErrAuthRequired)

	_, err = stats.Weekly("", statsToday)
	assert.ErrorIs(t, err, ErrAuthRequired)
}
