package handlers

import (
	"context"

	"receipt-rewards/internal/dto"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RewardService interface {
	List(ctx context.Context) ([]dto.RewardResponse, error)
}

type RewardHandler struct {
	rewardService RewardService
	logger        *zap.Logger
}

func NewRewardHandler(rewardService RewardService, logger *zap.Logger) *RewardHandler {
	return &RewardHandler{
		rewardService: rewardService,
		logger:        logger,
	}
}

// ListRewards godoc
// @Summary List rewards
// @Description The redeemable reward catalog
// @Tags rewards
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.RewardResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/rewards [get]
func (h *RewardHandler) ListRewards(c *fiber.Ctx) error {
	rewards, err := h.rewardService.List(c.Context())
	if err != nil {
		h.logger.Error("Failed to list rewards", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list rewards",
		})
	}

	return c.JSON(rewards)
}
