package repository

import (
	"context"
	"fmt"

	"receipt-rewards/internal/models"

	"github.com/Masterminds/squirrel"
)

// insertEvent writes a campaign event through q, usually the transaction
// that performs the change the event describes.
func insertEvent(ctx context.Context, q querier, ev *models.CampaignEvent) error {
	query := squirrel.Insert("campaign_events").
		Columns("id", "user_id", "event_type", "metadata", "created_at").
		Values(ev.ID, ev.UserID, ev.EventType, ev.Metadata, ev.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to insert campaign event: %w", err)
	}
	return nil
}
