package model

import (
	"time"
)

// DayFormat is the calendar-day layout used for Completion.CompletedAt.
// Days are stored as plain "YYYY-MM-DD" strings with no time component, so
// equality and lexicographic range scans line up with calendar days.
const DayFormat = "2006-01-02"

// Day formats t as a calendar day in t's location.
func Day(t time.Time) string {
	return t.Format(DayFormat)
}

// ParseDay parses a "YYYY-MM-DD" string.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayFormat, s)
}

// Completion records that a goal was marked done on one calendar day.
// At most one row exists per (GoalID, CompletedAt) pair; toggling a goal on a
// day is modeled as presence or absence of this row, never an update.
type Completion struct {
	ID          string    `db:"id" json:"id"`
	GoalID      string    `db:"goal_id" json:"goalId"`
	CompletedAt string    `db:"completed_at" json:"completedAt"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
