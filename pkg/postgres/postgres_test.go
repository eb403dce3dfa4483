package postgres

import (
	"testing"
	"time"

	"receipt-rewards/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolConfig(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:            "db.internal",
		Port:            "5433",
		User:            "rewards",
		Password:        "secret",
		DBName:          "receipt_rewards",
		SSLMode:         "disable",
		MaxConns:        12,
		MinConns:        3,
		MaxConnLifetime: 15 * time.Minute,
	}

	pc, err := poolConfig(cfg)

	require.NoError(t, err)
	assert.Equal(t, "db.internal", pc.ConnConfig.Host)
	assert.Equal(t, uint16(5433), pc.ConnConfig.Port)
	assert.Equal(t, "receipt_rewards", pc.ConnConfig.Database)
	assert.Equal(t, int32(12), pc.MaxConns)
	assert.Equal(t, int32(3), pc.MinConns)
	assert.Equal(t, 15*time.Minute, pc.MaxConnLifetime)
}

func TestPoolConfig_ZeroKeepsDefaults(t *testing.T) {
	cfg := &config.DatabaseConfig{Host: "localhost", Port: "5432", User: "u", Password: "p", DBName: "d", SSLMode: "disable"}

	pc, err := poolConfig(cfg)

	require.NoError(t, err)
	assert.Positive(t, pc.MaxConns)
	assert.Zero(t, pc.MinConns)
}

func TestPoolConfig_MinAboveMaxIgnored(t *testing.T) {
	cfg := &config.DatabaseConfig{Host: "localhost", Port: "5432", User: "u", Password: "p", DBName: "d", SSLMode: "disable", MaxConns: 2, MinConns: 5}

	pc, err := poolConfig(cfg)

	require.NoError(t, err)
	assert.Equal(t, int32(2), pc.MaxConns)
	assert.Zero(t, pc.MinConns)
}
