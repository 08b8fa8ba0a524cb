package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/steadyapp/steady/internal/model"
	"github.com/steadyapp/steady/internal/repository"
	"github.com/steadyapp/steady/internal/validation"
)

// CompletionService tracks which goals are done on a single calendar day.
// Every call is scoped to one (user, day) pair and starts from a fresh fetch;
// there is no cross-day state to go stale.
type CompletionService struct {
	goalRepo       repository.GoalRepository
	completionRepo repository.CompletionRepository
}

func NewCompletionService(goalRepo repository.GoalRepository, completionRepo repository.CompletionRepository) *CompletionService {
	return &CompletionService{
		goalRepo:       goalRepo,
		completionRepo: completionRepo,
	}
}

// ByDay returns the user's completions for one calendar day.
func (s *CompletionService) ByDay(userID, day string) ([]*model.Completion, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}

	err := validation.ValidateDay(day)
	if err != nil {
		return nil, err
	}

	return s.completionRepo.ByDay(userID, day)
}

// Toggle flips a goal's completion for the day: delete the row if present,
// insert one if not. This is deliberately a read-then-branch rather than an
// upsert, since the two branches persist different identities (delete by
// completion ID vs insert a new row). Two concurrent toggles on the same goal
// race; last write wins.
func (s *CompletionService) Toggle(userID, day, goalID string) error {
	if userID == "" {
		return ErrAuthRequired
	}

	err := validation.ValidateDay(day)
	if err != nil {
		return err
	}

	// Ownership check before any write.
	_, err = s.goalRepo.ByID(userID, goalID)
	if err != nil {
		return err
	}

	completions, err := s.completionRepo.ByDay(userID, day)
	if err != nil {
		return fmt.Errorf("failed to load completions: %w", err)
	}

	for _, c := range completions {
		if c.GoalID == goalID {
			return s.completionRepo.Delete(c.ID)
		}
	}

	return s.completionRepo.Create(&model.Completion{
		ID:          uuid.New().String(),
		GoalID:      goalID,
		CompletedAt: day,
	})
}
