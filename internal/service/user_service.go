package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"receipt-rewards/internal/dto"
	"receipt-rewards/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const recentActivityLimit = 10

type UserService struct {
	users    UserStore
	receipts ReceiptStore
	logger   *zap.Logger
}

func NewUserService(users UserStore, receipts ReceiptStore, logger *zap.Logger) *UserService {
	return &UserService{
		users:    users,
		receipts: receipts,
		logger:   logger,
	}
}

// Dashboard returns the user's balance and their latest receipts.
func (s *UserService) Dashboard(ctx context.Context, userID uuid.UUID) (*dto.DashboardResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	receipts, err := s.receipts.ListByUserID(ctx, userID, recentActivityLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent receipts: %w", err)
	}

	activity := make([]dto.ActivityResponse, len(receipts))
	for i, rec := range receipts {
		store := rec.StoreName
		if store == "" {
			store = "Unknown Store"
		}
		items := rec.DetectedItems
		if items == nil {
			items = []string{}
		}
		activity[i] = dto.ActivityResponse{
			ID:          rec.ID.String(),
			Type:        "receipt_upload",
			Description: "Receipt from " + store,
			Points:      rec.PointsEarned,
			Items:       items,
			Verified:    rec.IsVerified,
			Date:        rec.CreatedAt.Format(time.RFC3339),
		}
	}

	return &dto.DashboardResponse{
		User:           toUserResponse(user),
		RecentActivity: activity,
	}, nil
}
