package models

import "time"

type Reward struct {
	ID          int       `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Points      int       `db:"points"`
	Image       string    `db:"image"`
	Category    string    `db:"category"`
	Active      bool      `db:"active"`
	CreatedAt   time.Time `db:"created_at"`
}
