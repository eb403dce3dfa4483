package service

import (
	"context"
	"testing"
	"time"

	"receipt-rewards/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDashboard(t *testing.T) {
	user := &models.User{ID: uuid.New(), Name: "Thandi", Email: "t@example.com", Points: 350, TotalEarned: 600, CreatedAt: time.Now()}
	receipts := &fakeReceiptStore{listed: []*models.Receipt{
		{ID: uuid.New(), StoreName: "SPAR", PointsEarned: 250, DetectedItems: []string{"gin", "tonic"}, IsVerified: true, CreatedAt: time.Now()},
		{ID: uuid.New(), PointsEarned: 100, IsVerified: true, CreatedAt: time.Now()},
	}}
	s := NewUserService(newFakeUserStore(user), receipts, zap.NewNop())

	resp, err := s.Dashboard(context.Background(), user.ID)

	require.NoError(t, err)
	assert.Equal(t, 350, resp.User.Points)
	assert.Equal(t, 600, resp.User.TotalEarned)
	assert.Equal(t, recentActivityLimit, receipts.listLimit)
	require.Len(t, resp.RecentActivity, 2)
	assert.Equal(t, "Receipt from SPAR", resp.RecentActivity[0].Description)
	assert.Equal(t, "receipt_upload", resp.RecentActivity[0].Type)
	assert.Equal(t, "Receipt from Unknown Store", resp.RecentActivity[1].Description)
	assert.NotNil(t, resp.RecentActivity[1].Items)
}

func TestDashboard_UnknownUser(t *testing.T) {
	s := NewUserService(newFakeUserStore(), &fakeReceiptStore{}, zap.NewNop())

	_, err := s.Dashboard(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrUserNotFound)
}
