package dto

import "receipt-rewards/internal/receipt"

type ReceiptResponse struct {
	ID            string   `json:"id"`
	FileName      string   `json:"file_name"`
	FileKind      string   `json:"file_kind"`
	TextSource    string   `json:"text_source"`
	StoreName     string   `json:"store_name,omitempty"`
	TotalAmount   string   `json:"total_amount,omitempty"`
	DetectedItems []string `json:"detected_items"`
	PointsEarned  int      `json:"points_earned"`
	Confidence    int      `json:"confidence"`
	IsVerified    bool     `json:"is_verified"`
	CreatedAt     string   `json:"created_at"`
}

type SubmitReceiptResponse struct {
	Receipt          ReceiptResponse `json:"receipt"`
	PointsEarned     int             `json:"points_earned"`
	NewPointsBalance int             `json:"new_points_balance"`
	TotalEarned      int             `json:"total_earned"`
	Bottles          int             `json:"bottles"`
	Packs            int             `json:"packs"`
	DetectedItems    []string        `json:"detected_items"`
}

type AnalyzeReceiptRequest struct {
	Text string `json:"text" validate:"required,max=200000"`
}

type AnalyzeReceiptResponse struct {
	Usable          bool             `json:"usable"`
	CorruptionKind  string           `json:"corruption_kind,omitempty"`
	CorruptionRatio float64          `json:"corruption_ratio"`
	ReadableWords   int              `json:"readable_words"`
	NormalizedText  string           `json:"normalized_text"`
	Analysis        receipt.Analysis `json:"analysis"`
	PointsWouldEarn int              `json:"points_would_earn"`
	Fingerprint     string           `json:"fingerprint,omitempty"`
}

type ReceiptListResponse struct {
	Receipts []ReceiptResponse `json:"receipts"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// SubmissionErrorResponse is returned for every rejected submission.
type SubmissionErrorResponse struct {
	Error           string `json:"error"`
	ErrorKind       string `json:"error_kind"`
	Details         string `json:"details"`
	RemediationHint string `json:"remediation_hint"`
}
