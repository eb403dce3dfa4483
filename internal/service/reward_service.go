package service

import (
	"context"
	"fmt"

	"receipt-rewards/internal/dto"
	"receipt-rewards/internal/models"

	"go.uber.org/zap"
)

type RewardStore interface {
	ListActive(ctx context.Context) ([]*models.Reward, error)
	GetByIDs(ctx context.Context, ids []int) (map[int]*models.Reward, error)
}

type RewardService struct {
	rewards RewardStore
	logger  *zap.Logger
}

func NewRewardService(rewards RewardStore, logger *zap.Logger) *RewardService {
	return &RewardService{
		rewards: rewards,
		logger:  logger,
	}
}

func (s *RewardService) List(ctx context.Context) ([]dto.RewardResponse, error) {
	rewards, err := s.rewards.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}

	out := make([]dto.RewardResponse, len(rewards))
	for i, rw := range rewards {
		out[i] = dto.RewardResponse{
			ID:          rw.ID,
			Name:        rw.Name,
			Description: rw.Description,
			Points:      rw.Points,
			Image:       rw.Image,
			Category:    rw.Category,
		}
	}
	return out, nil
}
