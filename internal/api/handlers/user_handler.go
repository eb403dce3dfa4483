package handlers

import (
	"context"
	"errors"

	"receipt-rewards/internal/dto"
	"receipt-rewards/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	Dashboard(ctx context.Context, userID uuid.UUID) (*dto.DashboardResponse, error)
}

type UserHandler struct {
	userService UserService
	logger      *zap.Logger
}

func NewUserHandler(userService UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// GetUserData godoc
// @Summary Get dashboard data
// @Description Points balance, lifetime earnings and the latest receipts of the current user
// @Tags user
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.DashboardResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/user/data [get]
func (h *UserHandler) GetUserData(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	resp, err := h.userService.Dashboard(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		h.logger.Error("Failed to load dashboard", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch user data",
		})
	}

	return c.JSON(resp)
}
