package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Email       string    `db:"email"`
	Password    string    `db:"password"`
	Points      int       `db:"points"`
	TotalEarned int       `db:"total_earned"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Balance is a user's point counters after a write.
type Balance struct {
	Points      int `db:"points"`
	TotalEarned int `db:"total_earned"`
}
