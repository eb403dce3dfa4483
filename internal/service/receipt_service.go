package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"receipt-rewards/internal/dto"
	"receipt-rewards/internal/metrics"
	"receipt-rewards/internal/models"
	"receipt-rewards/internal/receipt"
	"receipt-rewards/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrEmptyFile    = errors.New("uploaded file is empty")
	ErrFileTooLarge = errors.New("uploaded file is too large")
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type ReceiptStore interface {
	CreateWithAward(ctx context.Context, rec *models.Receipt, ev *models.CampaignEvent) (models.Balance, error)
	FingerprintOwner(ctx context.Context, fingerprint string) (uuid.UUID, bool, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Receipt, error)
}

type TextExtractor interface {
	Extract(ctx context.Context, kind models.FileKind, data []byte) (receipt.ExtractedText, error)
}

type FingerprintClaimer interface {
	Claim(ctx context.Context, fingerprint, owner string) (bool, string, error)
	Release(ctx context.Context, fingerprint string) error
}

type ReceiptService struct {
	receipts  ReceiptStore
	extractor TextExtractor
	claimer   FingerprintClaimer
	engine    *receipt.Engine
	metrics   *metrics.Metrics
	uploadDir string
	maxBytes  int64
	logger    *zap.Logger
}

func NewReceiptService(
	receipts ReceiptStore,
	extractor TextExtractor,
	claimer FingerprintClaimer,
	engine *receipt.Engine,
	m *metrics.Metrics,
	uploadDir string,
	maxBytes int64,
	logger *zap.Logger,
) *ReceiptService {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		logger.Warn("Failed to create upload directory", zap.Error(err))
	}

	return &ReceiptService{
		receipts:  receipts,
		extractor: extractor,
		claimer:   claimer,
		engine:    engine,
		metrics:   m,
		uploadDir: uploadDir,
		maxBytes:  maxBytes,
		logger:    logger,
	}
}

// Submit runs one uploaded receipt through extraction, detection and the
// duplicate guard, and credits its points. Rejections are returned as
// *receipt.SubmissionError; nothing is stored and no points move.
func (s *ReceiptService) Submit(ctx context.Context, userID uuid.UUID, fileName string, file io.Reader) (*dto.SubmitReceiptResponse, error) {
	data, err := s.readUpload(file)
	if err != nil {
		return nil, err
	}

	log := s.logger.With(zap.String("user_id", userID.String()), zap.String("file_name", fileName))

	kind, err := DetectKind(fileName, data)
	if err != nil {
		return nil, s.reject(log, receipt.ExtractionFailed("unsupported file type, upload a JPG, PNG, PDF or TXT file", err))
	}

	path, err := s.saveUpload(fileName, data)
	if err != nil {
		return nil, err
	}
	accepted := false
	defer func() {
		if !accepted {
			os.Remove(path)
		}
	}()

	extracted, err := s.extractor.Extract(ctx, kind, data)
	if err != nil {
		return nil, s.reject(log, err)
	}

	ev, err := s.engine.Evaluate(extracted)
	s.metrics.ObserveConfidence(ev.Analysis.Confidence)
	if err != nil {
		return nil, s.reject(log, err)
	}

	// Cheap early answer for resubmissions; the transaction below decides.
	owner, found, err := s.receipts.FingerprintOwner(ctx, ev.Fingerprint)
	if err != nil {
		log.Warn("Fingerprint lookup failed", zap.Error(err))
	} else if found {
		return nil, s.reject(log, receipt.DuplicateDetected(owner == userID))
	}

	claimed, holder, err := s.claimer.Claim(ctx, ev.Fingerprint, userID.String())
	switch {
	case err != nil:
		log.Warn("Fingerprint claim unavailable", zap.Error(err))
	case !claimed && holder == "":
		log.Warn("Fingerprint claim contended; relying on the transaction")
	case !claimed:
		return nil, s.reject(log, receipt.DuplicateDetected(holder == userID.String()))
	default:
		defer func() {
			if err := s.claimer.Release(context.WithoutCancel(ctx), ev.Fingerprint); err != nil {
				log.Warn("Failed to release fingerprint claim", zap.Error(err))
			}
		}()
	}

	rec := s.newReceipt(userID, fileName, kind, path, extracted, ev)
	balance, err := s.receipts.CreateWithAward(ctx, rec, receiptEvent(rec))
	if err != nil {
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return nil, s.reject(log, receipt.DuplicateDetected(dup.OwnerID == userID))
		}
		return nil, fmt.Errorf("failed to save receipt: %w", err)
	}
	accepted = true

	s.metrics.ObserveSubmission(metrics.OutcomeAccepted, rec.PointsEarned)
	log.Info("Receipt accepted",
		zap.String("receipt_id", rec.ID.String()),
		zap.String("source", rec.TextSource),
		zap.Int("confidence", rec.Confidence),
		zap.Int("points", rec.PointsEarned),
		zap.String("fingerprint", rec.Fingerprint[:12]),
		zap.Int("new_balance", balance.Points),
	)

	return &dto.SubmitReceiptResponse{
		Receipt:          toReceiptResponse(rec),
		PointsEarned:     rec.PointsEarned,
		NewPointsBalance: balance.Points,
		TotalEarned:      balance.TotalEarned,
		Bottles:          rec.Bottles,
		Packs:            rec.Packs,
		DetectedItems:    rec.DetectedItems,
	}, nil
}

// Analyze scores pasted receipt text without storing anything.
func (s *ReceiptService) Analyze(text string) *dto.AnalyzeReceiptResponse {
	ev := s.engine.Analyze(sanitizeText(text))

	return &dto.AnalyzeReceiptResponse{
		Usable:          ev.Verdict.Usable,
		CorruptionKind:  string(ev.Verdict.Kind),
		CorruptionRatio: ev.Verdict.CorruptionRatio,
		ReadableWords:   ev.Verdict.ReadableWords,
		NormalizedText:  ev.Normalized.Text,
		Analysis:        ev.Analysis,
		PointsWouldEarn: ev.Points,
		Fingerprint:     ev.Fingerprint,
	}
}

func (s *ReceiptService) List(ctx context.Context, userID uuid.UUID, limit, offset int) (*dto.ReceiptListResponse, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)
	offset = max(offset, 0)

	receipts, err := s.receipts.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}

	out := make([]dto.ReceiptResponse, len(receipts))
	for i, rec := range receipts {
		out[i] = toReceiptResponse(rec)
	}
	return &dto.ReceiptListResponse{Receipts: out, Limit: limit, Offset: offset}, nil
}

func (s *ReceiptService) readUpload(file io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(file, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrFileTooLarge
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}
	return data, nil
}

func (s *ReceiptService) saveUpload(fileName string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	path := filepath.Join(s.uploadDir, uuid.New().String()+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return path, nil
}

func (s *ReceiptService) reject(log *zap.Logger, err error) error {
	se, ok := receipt.AsSubmissionError(err)
	if !ok {
		return err
	}
	s.metrics.ObserveSubmission(string(se.Kind), 0)
	log.Info("Receipt rejected",
		zap.String("error_kind", string(se.Kind)),
		zap.String("details", se.Details),
	)
	return se
}

func (s *ReceiptService) newReceipt(userID uuid.UUID, fileName string, kind models.FileKind, path string, in receipt.ExtractedText, ev receipt.Evaluation) *models.Receipt {
	now := time.Now()
	rec := &models.Receipt{
		ID:            uuid.New(),
		UserID:        userID,
		FileName:      filepath.Base(fileName),
		FileKind:      kind,
		ImagePath:     path,
		OCRText:       ev.Normalized.Text,
		TextSource:    string(in.Source),
		StoreName:     ev.Analysis.StoreName,
		Bottles:       ev.Analysis.TotalBottles,
		Packs:         ev.Analysis.TotalPacks,
		DetectedItems: ev.Analysis.ProductNames(),
		PointsEarned:  ev.Points,
		Confidence:    ev.Analysis.Confidence,
		Fingerprint:   ev.Fingerprint,
		IsVerified:    true,
		VerifiedAt:    now,
		CreatedAt:     now,
	}
	if amount, err := decimal.NewFromString(ev.Analysis.TotalAmount); err == nil {
		rec.TotalAmount = decimal.NewNullDecimal(amount)
	}
	return rec
}

func receiptEvent(rec *models.Receipt) *models.CampaignEvent {
	return &models.CampaignEvent{
		ID:        uuid.New(),
		UserID:    rec.UserID,
		EventType: models.EventReceiptUploaded,
		Metadata: map[string]any{
			"receipt_id":     rec.ID.String(),
			"points_earned":  rec.PointsEarned,
			"store_name":     rec.StoreName,
			"detected_items": rec.DetectedItems,
		},
		CreatedAt: rec.CreatedAt,
	}
}

func toReceiptResponse(rec *models.Receipt) dto.ReceiptResponse {
	resp := dto.ReceiptResponse{
		ID:            rec.ID.String(),
		FileName:      rec.FileName,
		FileKind:      string(rec.FileKind),
		TextSource:    rec.TextSource,
		StoreName:     rec.StoreName,
		DetectedItems: rec.DetectedItems,
		PointsEarned:  rec.PointsEarned,
		Confidence:    rec.Confidence,
		IsVerified:    rec.IsVerified,
		CreatedAt:     rec.CreatedAt.Format(time.RFC3339),
	}
	if rec.TotalAmount.Valid {
		resp.TotalAmount = rec.TotalAmount.Decimal.StringFixed(2)
	}
	if resp.DetectedItems == nil {
		resp.DetectedItems = []string{}
	}
	return resp
}
