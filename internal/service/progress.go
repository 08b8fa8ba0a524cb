package service

import (
	"github.com/steadyapp/steady/internal/model"
)

// Progress returns the percent of a day's actionable goals that are done,
// as a pure function of the day's goals and completions.
//
// The actionable set is every active goal plus any goal already completed
// that day. Counting completed-but-paused goals keeps progress from dropping
// retroactively when a goal is paused after being checked off.
func Progress(goals []*model.Goal, completions []*model.Completion) float64 {
	completed := make(map[string]bool, len(completions))
	for _, c := range completions {
		completed[c.GoalID] = true
	}

	actionable := 0
	for _, g := range goals {
		if g.IsActive || completed[g.ID] {
			actionable++
		}
	}

	if actionable == 0 {
		return 0
	}

	return float64(len(completions)) / float64(actionable) * 100
}
