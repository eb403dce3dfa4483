package repository

import (
	"context"
	"fmt"

	"receipt-rewards/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var rewardColumns = []string{"id", "name", "description", "points", "image", "category", "active", "created_at"}

type RewardRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewRewardRepository(db *pgxpool.Pool, logger *zap.Logger) *RewardRepository {
	return &RewardRepository{
		db:     db,
		logger: logger,
	}
}

// ListActive returns the redeemable catalog ordered by price.
func (r *RewardRepository) ListActive(ctx context.Context) ([]*models.Reward, error) {
	return r.list(ctx, squirrel.Eq{"active": true})
}

// GetByIDs returns the active rewards among ids, keyed by id.
func (r *RewardRepository) GetByIDs(ctx context.Context, ids []int) (map[int]*models.Reward, error) {
	rewards, err := r.list(ctx, squirrel.Eq{"id": ids, "active": true})
	if err != nil {
		return nil, err
	}

	byID := make(map[int]*models.Reward, len(rewards))
	for _, rw := range rewards {
		byID[rw.ID] = rw
	}
	return byID, nil
}

// Upsert inserts a catalog entry or overwrites the one with the same id.
func (r *RewardRepository) Upsert(ctx context.Context, rw *models.Reward) error {
	query := squirrel.Insert("rewards").
		Columns(rewardColumns...).
		Values(rw.ID, rw.Name, rw.Description, rw.Points, rw.Image, rw.Category, rw.Active, rw.CreatedAt).
		Suffix("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description, " +
			"points = EXCLUDED.points, image = EXCLUDED.image, category = EXCLUDED.category, active = EXCLUDED.active").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to upsert reward %d: %w", rw.ID, err)
	}
	return nil
}

func (r *RewardRepository) list(ctx context.Context, where squirrel.Eq) ([]*models.Reward, error) {
	query := squirrel.Select(rewardColumns...).
		From("rewards").
		Where(where).
		OrderBy("points ASC", "id ASC").
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

	var rewards []*models.Reward
	for rows.Next() {
		var rw models.Reward
		if err := rows.Scan(
			&rw.ID, &rw.Name, &rw.Description, &rw.Points, &rw.Image, &rw.Category, &rw.Active, &rw.CreatedAt,
		); err != nil {
			return nil, err
		}
		rewards = append(rewards, &rw)
	}

	return rewards, rows.Err()
}
