package model

import (
	"time"
)

// Goal is a recurring daily goal owned by exactly one user. OrderIndex is the
// manual sort key within the owner's list: dense and zero-based when written
// by a reorder, but treated purely as a sort key on read so gaps or
// duplicates left by concurrent writers never break listing.
type Goal struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	OrderIndex  int       `db:"order_index" json:"orderIndex"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
