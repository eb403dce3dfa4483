package service

import (
	"context"
	"testing"
	"time"

	"receipt-rewards/internal/dto"
	"receipt-rewards/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAuth() (*AuthService, *fakeUserStore) {
	users := newFakeUserStore()
	jwt := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	return NewAuthService(users, jwt, zap.NewNop()), users
}

func TestRegister(t *testing.T) {
	s, users := newTestAuth()

	resp, err := s.Register(context.Background(), &dto.RegisterRequest{
		Name:     " Thandi ",
		Email:    "Thandi@Example.COM",
		Password: "secret1",
	})

	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "thandi@example.com", resp.User.Email)
	assert.Equal(t, "Thandi", resp.User.Name)
	assert.Zero(t, resp.User.Points)

	stored, err := users.GetByEmail(context.Background(), "thandi@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.Password)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s, _ := newTestAuth()
	req := &dto.RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret1"}
	_, err := s.Register(context.Background(), req)
	require.NoError(t, err)

	req.Email = "A@EXAMPLE.com"
	_, err = s.Register(context.Background(), req)

	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLogin(t *testing.T) {
	s, _ := newTestAuth()
	_, err := s.Register(context.Background(), &dto.RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	resp, err := s.Login(context.Background(), &dto.LoginRequest{Email: "A@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = s.Login(context.Background(), &dto.LoginRequest{Email: "a@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshToken(t *testing.T) {
	s, _ := newTestAuth()
	reg, err := s.Register(context.Background(), &dto.RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	resp, err := s.RefreshToken(context.Background(), reg.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, resp.User.ID)

	_, err = s.RefreshToken(context.Background(), reg.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
