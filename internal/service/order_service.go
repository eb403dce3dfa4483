package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"receipt-rewards/internal/dto"
	"receipt-rewards/internal/metrics"
	"receipt-rewards/internal/models"
	"receipt-rewards/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUnknownReward      = errors.New("unknown reward")
	ErrEmptyOrder         = errors.New("order has no items")
	ErrInsufficientPoints = repository.ErrInsufficientPoints
)

type OrderStore interface {
	Create(ctx context.Context, order *models.Order, ev *models.CampaignEvent) (int, error)
}

type OrderService struct {
	orders  OrderStore
	rewards RewardStore
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewOrderService(orders OrderStore, rewards RewardStore, m *metrics.Metrics, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders:  orders,
		rewards: rewards,
		metrics: m,
		logger:  logger,
	}
}

// PlaceOrder redeems catalog rewards for points. Prices come from the
// catalog, never from the request. A short balance is reported as a
// *repository.InsufficientPointsError matching ErrInsufficientPoints.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, req *dto.PlaceOrderRequest) (*dto.OrderResponse, error) {
	ids, quantities := mergeItems(req.Items)
	if len(ids) == 0 {
		return nil, ErrEmptyOrder
	}

	rewards, err := s.rewards.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load rewards: %w", err)
	}

	now := time.Now()
	order := &models.Order{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    models.RedemptionPending,
		Delivery:  toDeliveryInfo(req.DeliveryInfo),
		CreatedAt: now,
	}
	for _, id := range ids {
		rw, ok := rewards[id]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownReward, id)
		}
		used := rw.Points * quantities[id]
		order.TotalPoints += used
		order.Redemptions = append(order.Redemptions, models.Redemption{
			ID:         uuid.New(),
			OrderID:    order.ID,
			UserID:     userID,
			RewardID:   id,
			Quantity:   quantities[id],
			PointsUsed: used,
			Status:     models.RedemptionPending,
			CreatedAt:  now,
		})
	}

	remaining, err := s.orders.Create(ctx, order, orderEvent(order))
	if err != nil {
		if errors.Is(err, ErrInsufficientPoints) {
			return nil, err
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.metrics.ObserveOrder(order.TotalPoints)
	s.logger.Info("Order placed",
		zap.String("user_id", userID.String()),
		zap.String("order_id", order.ID.String()),
		zap.Int("total_points", order.TotalPoints),
		zap.Int("remaining_points", remaining),
	)

	resp := &dto.OrderResponse{
		ID:              order.ID.String(),
		TotalPoints:     order.TotalPoints,
		Status:          string(order.Status),
		RemainingPoints: remaining,
		CreatedAt:       order.CreatedAt.Format(time.RFC3339),
	}
	for _, rd := range order.Redemptions {
		resp.Redemptions = append(resp.Redemptions, dto.RedemptionResponse{
			ID:         rd.ID.String(),
			RewardID:   rd.RewardID,
			Quantity:   rd.Quantity,
			PointsUsed: rd.PointsUsed,
			Status:     string(rd.Status),
		})
	}
	return resp, nil
}

// mergeItems sums quantities of repeated rewards, keeping first-seen order.
func mergeItems(items []dto.OrderItemRequest) ([]int, map[int]int) {
	var ids []int
	quantities := make(map[int]int, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		if _, seen := quantities[it.RewardID]; !seen {
			ids = append(ids, it.RewardID)
		}
		quantities[it.RewardID] += it.Quantity
	}
	return ids, quantities
}

func toDeliveryInfo(d dto.DeliveryInfoRequest) models.DeliveryInfo {
	return models.DeliveryInfo{
		Name:         strings.TrimSpace(d.Name),
		Email:        normalizeEmail(d.Email),
		Phone:        strings.TrimSpace(d.Phone),
		AddressLine1: strings.TrimSpace(d.AddressLine1),
		AddressLine2: strings.TrimSpace(d.AddressLine2),
		City:         strings.TrimSpace(d.City),
		Province:     strings.TrimSpace(d.Province),
		PostalCode:   strings.TrimSpace(d.PostalCode),
		Country:      strings.TrimSpace(d.Country),
	}
}

func orderEvent(order *models.Order) *models.CampaignEvent {
	items := make([]map[string]int, len(order.Redemptions))
	for i, rd := range order.Redemptions {
		items[i] = map[string]int{"reward_id": rd.RewardID, "quantity": rd.Quantity}
	}
	return &models.CampaignEvent{
		ID:        uuid.New(),
		UserID:    order.UserID,
		EventType: models.EventOrderPlaced,
		Metadata: map[string]any{
			"order_id":     order.ID.String(),
			"total_points": order.TotalPoints,
			"items":        items,
		},
		CreatedAt: order.CreatedAt,
	}
}
