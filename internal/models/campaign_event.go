package models

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventReceiptUploaded EventType = "RECEIPT_UPLOADED"
	EventOrderPlaced     EventType = "ORDER_PLACED"
)

// CampaignEvent is an analytics record written alongside the change it
// describes. Metadata is stored as jsonb.
type CampaignEvent struct {
	ID        uuid.UUID      `db:"id"`
	UserID    uuid.UUID      `db:"user_id"`
	EventType EventType      `db:"event_type"`
	Metadata  map[string]any `db:"metadata"`
	CreatedAt time.Time      `db:"created_at"`
}
