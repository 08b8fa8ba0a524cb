package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/steadyapp/steady/internal/model"
	"github.com/steadyapp/steady/internal/repository"
	"github.com/steadyapp/steady/internal/validation"
)

var (
	ErrAuthRequired = errors.New("authentication required")
	ErrInvalidOrder = errors.New("order must be a permutation of the user's goals")
)

// GoalService owns a user's goal list: CRUD, the active/paused flag, and
// manual ordering. It keeps a per-user ordered view in memory, synchronized
// with the repository. Reorder applies the new sequence to the view first and
// persists afterwards; when persistence fails, the view is discarded and
// reloaded from the repository rather than patched piecemeal.
type GoalService struct {
	repo repository.GoalRepository

	mu    sync.Mutex
	cache map[string][]*model.Goal
}

func NewGoalService(repo repository.GoalRepository) *GoalService {
	return &GoalService{
		repo:  repo,
		cache: make(map[string][]*model.Goal),
	}
}

// Goals returns the user's goals in manual order.
func (s *GoalService) Goals(userID string) ([]*model.Goal, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}

	s.mu.Lock()
	cached, ok := s.cache[userID]
	s.mu.Unlock()
	if ok {
		return append([]*model.Goal(nil), cached...), nil
	}

	return s.reload(userID)
}

// reload fetches the authoritative list and replaces the cached view.
func (s *GoalService) reload(userID string) ([]*model.Goal, error) {
	goals, err := s.repo.Goals(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}

	s.mu.Lock()
	s.cache[userID] = goals
	s.mu.Unlock()

	return append([]*model.Goal(nil), goals...), nil
}

// Create appends a new goal at the end of the user's list. The new goal's
// order index is one past the current maximum, or 0 for an empty list.
func (s *GoalService) Create(userID, title, description string) (*model.Goal, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}

	err := validation.ValidateTitle(title)
	if err != nil {
		return nil, err
	}

	max, err := s.repo.MaxOrderIndex(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order index: %w", err)
	}

	goal := &model.Goal{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: description,
		IsActive:    true,
		OrderIndex:  max + 1,
		CreatedAt:   time.Now(),
	}

	err = s.repo.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	s.mu.Lock()
	if cached, ok := s.cache[userID]; ok {
		s.cache[userID] = append(cached, goal)
	}
	s.mu.Unlock()

	return goal, nil
}

// Update changes title and description only; the active flag and order index
// are untouched.
func (s *GoalService) Update(userID, goalID, title, description string) (*model.Goal, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}

	err := validation.ValidateTitle(title)
	if err != nil {
		return nil, err
	}

	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	goal.Title = title
	goal.Description = description

	err = s.repo.Update(goal)
	if err != nil {
		return nil, err
	}

	s.replaceCached(userID, goal)
	return goal, nil
}

// SetActive flips the active flag. Paused goals keep their order index.
func (s *GoalService) SetActive(userID, goalID string, isActive bool) error {
	if userID == "" {
		return ErrAuthRequired
	}

	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return err
	}

	goal.IsActive = isActive

	err = s.repo.Update(goal)
	if err != nil {
		return err
	}

	s.replaceCached(userID, goal)
	return nil
}

// Reorder applies a full permutation of the user's goal set. The cached view
// is updated optimistically, then every goal's order index is persisted as a
// single all-or-nothing batch. On failure the optimistic view is thrown away
// and the authoritative list re-fetched before the error is returned.
func (s *GoalService) Reorder(userID string, goalIDs []string) error {
	if userID == "" {
		return ErrAuthRequired
	}

	goals, err := s.Goals(userID)
	if err != nil {
		return err
	}

	ordered, err := permute(goals, goalIDs)
	if err != nil {
		return err
	}

	// Phase one: optimistic local apply.
	s.mu.Lock()
	s.cache[userID] = ordered
	s.mu.Unlock()

	// Phase two: durable commit.
	err = s.repo.UpdateOrder(userID, goalIDs)
	if err != nil {
		s.mu.Lock()
		delete(s.cache, userID)
		s.mu.Unlock()

		if _, reloadErr := s.reload(userID); reloadErr != nil {
			slog.Warn("failed to reload goals after reorder failure", "error", reloadErr, "user_id", userID)
		}
		return fmt.Errorf("failed to persist order: %w", err)
	}

	return nil
}

// Delete removes the goal; its completions go with it via the repository's
// cascade contract.
func (s *GoalService) Delete(userID, goalID string) error {
	if userID == "" {
		return ErrAuthRequired
	}

	err := s.repo.Delete(userID, goalID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if cached, ok := s.cache[userID]; ok {
		kept := cached[:0:0]
		for _, g := range cached {
			if g.ID != goalID {
				kept = append(kept, g)
			}
		}
		s.cache[userID] = kept
	}
	s.mu.Unlock()

	return nil
}

// Evict drops the cached view for a user. Wired to identity-change events so
// a sign-out or account switch never serves a stale list.
func (s *GoalService) Evict(userID string) {
	s.mu.Lock()
	delete(s.cache, userID)
	s.mu.Unlock()
}

func (s *GoalService) replaceCached(userID string, goal *model.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cached, ok := s.cache[userID]
	if !ok {
		return
	}
	for i, g := range cached {
		if g.ID == goal.ID {
			cached[i] = goal
			return
		}
	}
}

// permute arranges goals in the order given by goalIDs and stamps dense,
// zero-based order indexes. The IDs must be a bijection on the goal set: no
// goal added, dropped, or duplicated.
func permute(goals []*model.Goal, goalIDs []string) ([]*model.Goal, error) {
	if len(goalIDs) != len(goals) {
		return nil, ErrInvalidOrder
	}

	byID := make(map[string]*model.Goal, len(goals))
	for _, g := range goals {
		byID[g.ID] = g
	}

	ordered := make([]*model.Goal, 0, len(goalIDs))
	for i, id := range goalIDs {
		g, ok := byID[id]
		if !ok {
			return nil, ErrInvalidOrder
		}
		delete(byID, id)

		g.OrderIndex = i
		ordered = append(ordered, g)
	}

	return ordered, nil
}
