package models

import (
	"time"

	"github.com/google/uuid"
)

type RedemptionStatus string

const (
	RedemptionPending   RedemptionStatus = "PENDING"
	RedemptionShipped   RedemptionStatus = "SHIPPED"
	RedemptionCancelled RedemptionStatus = "CANCELLED"
)

type DeliveryInfo struct {
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	Province     string `json:"province"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country,omitempty"`
}

type Order struct {
	ID          uuid.UUID        `db:"id"`
	UserID      uuid.UUID        `db:"user_id"`
	TotalPoints int              `db:"total_points"`
	Status      RedemptionStatus `db:"status"`
	Delivery    DeliveryInfo     `db:"delivery"` // jsonb
	Redemptions []Redemption     `db:"-"`
	CreatedAt   time.Time        `db:"created_at"`
}

type Redemption struct {
	ID         uuid.UUID        `db:"id"`
	OrderID    uuid.UUID        `db:"order_id"`
	UserID     uuid.UUID        `db:"user_id"`
	RewardID   int              `db:"reward_id"`
	Quantity   int              `db:"quantity"`
	PointsUsed int              `db:"points_used"`
	Status     RedemptionStatus `db:"status"`
	CreatedAt  time.Time        `db:"created_at"`
}
