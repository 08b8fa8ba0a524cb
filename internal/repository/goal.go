package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/steadyapp/steady/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	Create(goal *model.Goal) error
	ByID(userID, goalID string) (*model.Goal, error)
	Goals(userID string) ([]*model.Goal, error)
	MaxOrderIndex(userID string) (int, error)
	Update(goal *model.Goal) error
	UpdateOrder(userID string, goalIDs []string) error
	Delete(userID, goalID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(goal *model.Goal) error {
	query := `INSERT INTO goals (id, user_id, title, description, is_active, order_index, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.Description,
		goal.IsActive,
		goal.OrderIndex,
		goal.CreatedAt,
	)

	return err
}

func (r *goalRepository) ByID(userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1 AND user_id = $2`

	err := r.db.Get(goal, query, goalID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}

	return goal, err
}

func (r *goalRepository) Goals(userID string) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals WHERE user_id = $1 ORDER BY order_index ASC, created_at ASC`

	err := r.db.Select(&goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

// MaxOrderIndex returns the highest order_index among the user's goals, or -1
// when the user has none.
func (r *goalRepository) MaxOrderIndex(userID string) (int, error) {
	var max int
	query := `SELECT COALESCE(MAX(order_index), -1) FROM goals WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&max)
	return max, err
}

func (r *goalRepository) Update(goal *model.Goal) error {
	query := `UPDATE goals
	          SET title = $1, description = $2, is_active = $3
	          WHERE id = $4 AND user_id = $5`

	result, err := r.db.Exec(query,
		goal.Title,
		goal.Description,
		goal.IsActive,
		goal.ID,
		goal.UserID,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}

// UpdateOrder assigns order_index = position for every goal ID, in one
// transaction. Only order_index is written, so a concurrent title edit can
// never be clobbered by a reorder. Any missing goal aborts the whole batch.
func (r *goalRepository) UpdateOrder(userID string, goalIDs []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE goals SET order_index = $1 WHERE id = $2 AND user_id = $3`

	for i, goalID := range goalIDs {
		result, err := tx.Exec(query, i, goalID, userID)
		if err != nil {
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrGoalNotFound
		}
	}

	return tx.Commit()
}

func (r *goalRepository) Delete(userID, goalID string) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, goalID, userID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}
