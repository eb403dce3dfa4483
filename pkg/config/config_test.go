package config

import (
	"testing"
	"time"

	"receipt-rewards/internal/receipt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("BUNDLE_MODE", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("CAMPAIGN_MIN_CONFIDENCE", "")
	t.Setenv("MAX_UPLOAD_MB", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, int64(10*1024*1024), cfg.Extraction.MaxUploadBytes)
	assert.Equal(t, receipt.DefaultPolicy(), cfg.Campaign.ToPolicy())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CAMPAIGN_MIN_CONFIDENCE", "55")
	t.Setenv("CAMPAIGN_POINTS_PER_BOTTLE", "120")
	t.Setenv("BUNDLE_MODE", "COMBINED")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("EXTRACTION_TIMEOUT_SECONDS", "15")

	cfg, err := Load()
	require.NoError(t, err)

	policy := cfg.Campaign.ToPolicy()
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 55, policy.MinConfidence)
	assert.Equal(t, 120, policy.PointsPerBottle)
	assert.Equal(t, receipt.BundleCombined, policy.BundleMode)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 15*time.Second, cfg.Extraction.Timeout)
}

func TestToPolicy_UnknownBundleMode(t *testing.T) {
	c := CampaignConfig{BundleMode: "merged"}

	assert.Equal(t, receipt.BundleSplit, c.ToPolicy().BundleMode)
}

func TestGetEnvInt_Malformed(t *testing.T) {
	t.Setenv("CAMPAIGN_DATE_WEIGHT", "ten")

	assert.Equal(t, 10, getEnvInt("CAMPAIGN_DATE_WEIGHT", 10))
}
