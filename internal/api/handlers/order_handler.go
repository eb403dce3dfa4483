package handlers

import (
	"context"
	"errors"

	"receipt-rewards/internal/dto"
	"receipt-rewards/internal/repository"
	"receipt-rewards/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, req *dto.PlaceOrderRequest) (*dto.OrderResponse, error)
}

type OrderHandler struct {
	orderService OrderService
	logger       *zap.Logger
}

func NewOrderHandler(orderService OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// PlaceOrder godoc
// @Summary Redeem rewards
// @Description Spend points on catalog rewards. Redemptions start as PENDING.
// @Tags orders
// @Accept json
// @Produce json
// @Param request body dto.PlaceOrderRequest true "Order"
// @Security Bearer
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 422 {object} dto.InsufficientPointsResponse
// @Router /api/v1/orders [post]
func (h *OrderHandler) PlaceOrder(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.PlaceOrderRequest
	if body, ok := bindJSON(c, &req); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(body)
	}

	resp, err := h.orderService.PlaceOrder(c.Context(), userID, &req)
	if err != nil {
		var short *repository.InsufficientPointsError
		switch {
		case errors.As(err, &short):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.InsufficientPointsResponse{
				Error:          "Insufficient points",
				UserPoints:     short.Balance,
				RequiredPoints: short.Required,
			})
		case errors.Is(err, service.ErrUnknownReward):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown reward",
			})
		case errors.Is(err, service.ErrEmptyOrder):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Order has no items",
			})
		case errors.Is(err, service.ErrUserNotFound):
			return unauthorized(c)
		}
		h.logger.Error("Failed to place order", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to place order",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}
