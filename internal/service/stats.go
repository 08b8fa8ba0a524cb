package service

import (
	"fmt"
	"time"

	"github.com/steadyapp/steady/internal/model"
	"github.com/steadyapp/steady/internal/repository"
)

// streakWindowDays bounds the streak lookback. The walk never scans past the
// fetched window, so history older than this can't extend a streak.
const streakWindowDays = 30

// weeklyDays is the size of the chart window, today inclusive.
const weeklyDays = 7

// WeekdayCount is one bucket of the weekly chart: a short weekday label and
// how many completions landed on that day.
type WeekdayCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Stats is the payload for the stats endpoint.
type Stats struct {
	Streak int            `json:"streak"`
	Weekly []WeekdayCount `json:"weekly"`
}

// StatsService derives streak and weekly analytics from completion history.
type StatsService struct {
	completionRepo repository.CompletionRepository
}

func NewStatsService(completionRepo repository.CompletionRepository) *StatsService {
	return &StatsService{completionRepo: completionRepo}
}

// Streak counts consecutive days ending today with at least one completion
// on any goal. The walk steps backward from today and stops at the first
// gap, or after the 30-day window is exhausted.
//
// When today itself has no completion the result is 0, even if yesterday
// closed out a long run. That truncation matches the shipped behavior of the
// stats screen; see DESIGN.md before changing it.
func (s *StatsService) Streak(userID string, today time.Time) (int, error) {
	if userID == "" {
		return 0, ErrAuthRequired
	}

	windowStart := model.Day(today.AddDate(0, 0, -(streakWindowDays - 1)))
	completions, err := s.completionRepo.Since(userID, windowStart)
	if err != nil {
		return 0, fmt.Errorf("failed to load completions: %w", err)
	}

	days := make(map[string]bool, len(completions))
	for _, c := range completions {
		days[c.CompletedAt] = true
	}

	streak := 0
	cursor := today
	for i := 0; i < streakWindowDays; i++ {
		if !days[model.Day(cursor)] {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}

	return streak, nil
}

// Weekly buckets the trailing 7 days of completions, oldest first, into
// {label, count} pairs for the chart. Pure grouping: every completion counts
// one, with no normalization by goal count.
func (s *StatsService) Weekly(userID string, today time.Time) ([]WeekdayCount, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}

	windowStart := today.AddDate(0, 0, -(weeklyDays - 1))
	completions, err := s.completionRepo.Since(userID, model.Day(windowStart))
	if err != nil {
		return nil, fmt.Errorf("failed to load completions: %w", err)
	}

	counts := make(map[string]int, len(completions))
	for _, c := range completions {
		counts[c.CompletedAt]++
	}

	weekly := make([]WeekdayCount, 0, weeklyDays)
	for i := 0; i < weeklyDays; i++ {
		day := windowStart.AddDate(0, 0, i)
		weekly = append(weekly, WeekdayCount{
			Label: day.Format("Mon"),
			Count: counts[model.Day(day)],
		})
	}

	return weekly, nil
}

// StatsFor combines streak and weekly data for the stats endpoint.
func (s *StatsService) StatsFor(userID string, today time.Time) (*Stats, error) {
	streak, err := s.Streak(userID, today)
	if err != nil {
		return nil, err
	}

	weekly, err := s.Weekly(userID, today)
	if err != nil {
		return nil, err
	}

	return &Stats{Streak: streak, Weekly: weekly}, nil
}
