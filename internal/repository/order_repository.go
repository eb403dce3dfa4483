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

var ErrInsufficientPoints = errors.New("insufficient points")

// InsufficientPointsError carries the balance that failed the check.
type InsufficientPointsError struct {
	Balance  int
	Required int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient points: have %d, need %d", e.Balance, e.Required)
}

func (e *InsufficientPointsError) Is(target error) bool {
	return target == ErrInsufficientPoints
}

type OrderRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewOrderRepository(db *pgxpool.Pool, logger *zap.Logger) *OrderRepository {
	return &OrderRepository{
		db:     db,
		logger: logger,
	}
}

// Create places an order: it locks the user row, checks the balance,
// stores the order with its redemptions, deducts the points and records the
// event. It returns the remaining balance.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order, ev *models.CampaignEvent) (int, error) {
	var remaining int
	err := postgres.RunSerializable(ctx, r.db, postgres.DefaultTxAttempts, func(tx pgx.Tx) error {
		balance, err := lockBalance(ctx, tx, order.UserID)
		if err != nil {
			return err
		}
		if balance < order.TotalPoints {
			return &InsufficientPointsError{Balance: balance, Required: order.TotalPoints}
		}

		if err := insertOrder(ctx, tx, order); err != nil {
			return err
		}
		if err := insertRedemptions(ctx, tx, order.Redemptions); err != nil {
			return err
		}

		remaining, err = deductPoints(ctx, tx, order.UserID, order.TotalPoints)
		if err != nil {
			return err
		}

		return insertEvent(ctx, tx, ev)
	})
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

func lockBalance(ctx context.Context, q querier, userID uuid.UUID) (int, error) {
	query := squirrel.Select("points").
		From("users").
		Where(squirrel.Eq{"id": userID}).
		Suffix("FOR UPDATE").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var points int
	err = q.QueryRow(ctx, sql, args...).Scan(&points)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to lock user balance: %w", err)
	}
	return points, nil
}

func insertOrder(ctx context.Context, q querier, order *models.Order) error {
	query := squirrel.Insert("orders").
		Columns("id", "user_id", "total_points", "status", "delivery", "created_at").
		Values(order.ID, order.UserID, order.TotalPoints, order.Status, order.Delivery, order.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func insertRedemptions(ctx context.Context, q querier, redemptions []models.Redemption) error {
	if len(redemptions) == 0 {
		return nil
	}

	builder := squirrel.Insert("redemptions").
		Columns("id", "order_id", "user_id", "reward_id", "quantity", "points_used", "status", "created_at").
		PlaceholderFormat(squirrel.Dollar)

	for _, rd := range redemptions {
		builder = builder.Values(rd.ID, rd.OrderID, rd.UserID, rd.RewardID, rd.Quantity, rd.PointsUsed, rd.Status, rd.CreatedAt)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to insert redemptions: %w", err)
	}
	return nil
}

func deductPoints(ctx context.Context, q querier, userID uuid.UUID, points int) (int, error) {
	query := squirrel.Update("users").
		Set("points", squirrel.Expr("points - ?", points)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID}).
		Suffix("RETURNING points").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var remaining int
	if err := q.QueryRow(ctx, sql, args...).Scan(&remaining); err != nil {
		return 0, fmt.Errorf("failed to deduct points: %w", err)
	}
	return remaining, nil
}
