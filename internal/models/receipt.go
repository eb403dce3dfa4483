package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FileKind string

const (
	FileKindImage FileKind = "image"
	FileKindPDF   FileKind = "pdf"
	FileKindText  FileKind = "text"
)

// Receipt is an accepted receipt. Rejected submissions are never stored.
type Receipt struct {
	ID            uuid.UUID           `db:"id"`
	UserID        uuid.UUID           `db:"user_id"`
	FileName      string              `db:"file_name"`
	FileKind      FileKind            `db:"file_kind"`
	ImagePath     string              `db:"image_path"`
	OCRText       string              `db:"ocr_text"`
	TextSource    string              `db:"text_source"`
	StoreName     string              `db:"store_name"`
	TotalAmount   decimal.NullDecimal `db:"total_amount"`
	Bottles       int                 `db:"bottles"`
	Packs         int                 `db:"packs"`
	DetectedItems []string            `db:"detected_items"`
	PointsEarned  int                 `db:"points_earned"`
	Confidence    int                 `db:"confidence"`
	Fingerprint   string              `db:"fingerprint"`
	IsVerified    bool                `db:"is_verified"`
	VerifiedAt    time.Time           `db:"verified_at"`
	CreatedAt     time.Time           `db:"created_at"`
}
