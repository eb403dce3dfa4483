package repository

import (
	"context"
	"errors"
	"fmt"

	"receipt-rewards/internal/models"
	"receipt-rewards/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// DuplicateError reports that an accepted receipt already carries the
// fingerprint. OwnerID is uuid.Nil when the owner could not be read back.
type DuplicateError struct {
	OwnerID uuid.UUID
}

func (e *DuplicateError) Error() string {
	return "receipt fingerprint already claimed"
}

var receiptColumns = []string{
	"id", "user_id", "file_name", "file_kind", "image_path", "ocr_text", "text_source", "store_name",
	"total_amount", "bottles", "packs", "detected_items", "points_earned", "confidence", "fingerprint",
	"is_verified", "verified_at", "created_at",
}

type ReceiptRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewReceiptRepository(db *pgxpool.Pool, logger *zap.Logger) *ReceiptRepository {
	return &ReceiptRepository{
		db:     db,
		logger: logger,
	}
}

// CreateWithAward stores an accepted receipt, credits its points to the
// owner and records the upload event in one serializable transaction. The
// fingerprint is checked inside the same transaction, so two concurrent
// submissions of one receipt cannot both succeed.
func (r *ReceiptRepository) CreateWithAward(ctx context.Context, rec *models.Receipt, ev *models.CampaignEvent) (models.Balance, error) {
	var balance models.Balance
	err := postgres.RunSerializable(ctx, r.db, postgres.DefaultTxAttempts, func(tx pgx.Tx) error {
		owner, found, err := fingerprintOwner(ctx, tx, rec.Fingerprint)
		if err != nil {
			return err
		}
		if found {
			return &DuplicateError{OwnerID: owner}
		}

		if err := insertReceipt(ctx, tx, rec); err != nil {
			return err
		}

		balance, err = addPoints(ctx, tx, rec.UserID, rec.PointsEarned)
		if err != nil {
			return err
		}

		return insertEvent(ctx, tx, ev)
	})
	if err == nil {
		return balance, nil
	}

	// A conflicting transaction that committed after our check surfaces as a
	// unique violation on receipts.fingerprint.
	if postgres.IsUniqueViolation(err) {
		owner, found, lookupErr := fingerprintOwner(ctx, r.db, rec.Fingerprint)
		if lookupErr != nil || !found {
			r.logger.Warn("Duplicate fingerprint owner not readable",
				zap.String("fingerprint", rec.Fingerprint), zap.Error(lookupErr))
			return models.Balance{}, &DuplicateError{}
		}
		return models.Balance{}, &DuplicateError{OwnerID: owner}
	}

	var dup *DuplicateError
	if errors.As(err, &dup) {
		return models.Balance{}, dup
	}
	return models.Balance{}, fmt.Errorf("failed to persist receipt: %w", err)
}

// FingerprintOwner returns the user who owns an accepted receipt with the
// given fingerprint.
func (r *ReceiptRepository) FingerprintOwner(ctx context.Context, fingerprint string) (uuid.UUID, bool, error) {
	return fingerprintOwner(ctx, r.db, fingerprint)
}

func (r *ReceiptRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Receipt, error) {
	query := squirrel.Select(receiptColumns...).
		From("receipts").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	receipts := make([]*models.Receipt, 0, limit)
	for rows.Next() {
		var rec models.Receipt
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.FileName, &rec.FileKind, &rec.ImagePath, &rec.OCRText, &rec.TextSource, &rec.StoreName,
			&rec.TotalAmount, &rec.Bottles, &rec.Packs, &rec.DetectedItems, &rec.PointsEarned, &rec.Confidence, &rec.Fingerprint,
			&rec.IsVerified, &rec.VerifiedAt, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		receipts = append(receipts, &rec)
	}

	return receipts, rows.Err()
}

func fingerprintOwner(ctx context.Context, q querier, fingerprint string) (uuid.UUID, bool, error) {
	query := squirrel.Select("user_id").
		From("receipts").
		Where(squirrel.Eq{"fingerprint": fingerprint}).
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return uuid.Nil, false, err
	}

	var owner uuid.UUID
	err = q.QueryRow(ctx, sql, args...).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to look up fingerprint: %w", err)
	}
	return owner, true, nil
}

func insertReceipt(ctx context.Context, q querier, rec *models.Receipt) error {
	query := squirrel.Insert("receipts").
		Columns(receiptColumns...).
		Values(
			rec.ID, rec.UserID, rec.FileName, rec.FileKind, rec.ImagePath, rec.OCRText, rec.TextSource, rec.StoreName,
			rec.TotalAmount, rec.Bottles, rec.Packs, rec.DetectedItems, rec.PointsEarned, rec.Confidence, rec.Fingerprint,
			rec.IsVerified, rec.VerifiedAt, rec.CreatedAt,
		).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}
	return nil
}

func addPoints(ctx context.Context, q querier, userID uuid.UUID, points int) (models.Balance, error) {
	query := squirrel.Update("users").
		Set("points", squirrel.Expr("points + ?", points)).
		Set("total_earned", squirrel.Expr("total_earned + ?", points)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID}).
		Suffix("RETURNING points, total_earned").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return models.Balance{}, err
	}

	var b models.Balance
	err = q.QueryRow(ctx, sql, args...).Scan(&b.Points, &b.TotalEarned)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Balance{}, ErrNotFound
	}
	if err != nil {
		return models.Balance{}, fmt.Errorf("failed to credit points: %w", err)
	}
	return b, nil
}
