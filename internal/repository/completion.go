package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/steadyapp/steady/internal/model"
)

var (
	ErrCompletionNotFound = errors.New("completion not found")
)

type CompletionRepository interface {
	ByDay(userID, day string) ([]*model.Completion, error)
	Since(userID, day string) ([]*model.Completion, error)
	Create(completion *model.Completion) error
	Delete(completionID string) error
}

type completionRepository struct {
	db *sqlx.DB
}

func NewCompletionRepository(db *sqlx.DB) CompletionRepository {
	return &completionRepository{db: db}
}

// ByDay returns the user's completions for a single calendar day. Ownership
// is not stored on the row, so the scope filter joins through goals.
func (r *completionRepository) ByDay(userID, day string) ([]*model.Completion, error) {
	var completions []*model.Completion
	query := `SELECT gc.* FROM goal_completions gc
	          JOIN goals g ON g.id = gc.goal_id
	          WHERE g.user_id = $1 AND gc.completed_at = $2`

	err := r.db.Select(&completions, query, userID, day)
	if err != nil {
		return nil, err
	}

	return completions, nil
}

// Since returns the user's completions on or after the given day. Day strings
// are ISO dates, so the range scan is a plain lexicographic comparison.
func (r *completionRepository) Since(userID, day string) ([]*model.Completion, error) {
	var completions []*model.Completion
	query := `SELECT gc.* FROM goal_completions gc
	          JOIN goals g ON g.id = gc.goal_id
	          WHERE g.user_id = $1 AND gc.completed_at >= $2
	          ORDER BY gc.completed_at ASC`

	err := r.db.Select(&completions, query, userID, day)
	if err != nil {
		return nil, err
	}

	return completions, nil
}

func (r *completionRepository) Create(completion *model.Completion) error {
	if completion.ID == "" {
		completion.ID = uuid.New().String()
	}
	if completion.CreatedAt.IsZero() {
		completion.CreatedAt = time.Now()
	}

	query := `INSERT INTO goal_completions (id, goal_id, completed_at, created_at)
	          VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(query,
		completion.ID,
		completion.GoalID,
		completion.CompletedAt,
		completion.CreatedAt,
	)

	return err
}

func (r *completionRepository) Delete(completionID string) error {
	query := `DELETE FROM goal_completions WHERE id = $1`
	result, err := r.db.Exec(query, completionID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrCompletionNotFound
	}

	return nil
}
