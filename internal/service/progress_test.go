package service

import (
	"testing"

	"github.com/steadyapp/steady/internal/model"
	"github.com/stretchr/testify/assert"
)

func activeGoal(id string) *model.Goal {
	return &model.Goal{ID: id, UserID: "u1", Title: id, IsActive: true}
}

func pausedGoal(id string) *model.Goal {
	return &model.Goal{ID: id, UserID: "u1", Title: id}
}

func done(goalID string) *model.Completion {
	return &model.Completion{ID: "c-" + goalID, GoalID: goalID, CompletedAt: "2026-08-31"}
}

func TestProgress_NoGoals(t *testing.T) {
	assert.Equal(t, 0.0, Progress(nil, nil))
}

func TestProgress_AllPausedNoneDone(t *testing.T) {
	goals := []*model.Goal{pausedGoal("a"), pausedGoal("b")}
	assert.Equal(t, 0.0, Progress(goals, nil))
}

func TestProgress_PartialAndComplete(t *testing.T) {
	goals := []*model.Goal{activeGoal("a"), activeGoal("b"), activeGoal("c"), activeGoal("d")}

	assert.InDelta(t, 25.0, Progress(goals, []*model.Completion{done("a")}), 0.001)
	assert.InDelta(t, 100.0, Progress(goals, []*model.Completion{
		done("a"), done("b"), done("c"), done("d"),
	}), 0.001)
}

func TestProgress_PausedGoalsExcluded(t *testing.T) {
	goals := []*model.Goal{activeGoal("a"), pausedGoal("b")}

	// One actionable goal, one completion: 100, not 50
	assert.InDelta(t, 100.0, Progress(goals, []*model.Completion{done("a")}), 0.001)
}

func TestProgress_CompletedThenPausedStillCounts(t *testing.T) {
	// A goal paused after being checked off stays in the denominator, so
	// progress does not drop retroactively.
	goals := []*model.Goal{activeGoal("a"), pausedGoal("b")}
	completions := []*model.Completion{done("b")}

	assert.InDelta(t, 50.0, Progress(goals, completions), 0.001)

	// Without its completion the paused goal vanishes from the denominator
	assert.InDelta(t, 0.0, Progress(goals, nil), 0.001)
}
