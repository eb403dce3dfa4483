package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveSubmission(t *testing.T) {
	m := New()

	m.ObserveSubmission(OutcomeAccepted, 250)
	m.ObserveSubmission(OutcomeAccepted, 100)
	m.ObserveSubmission("validation-failed", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues(OutcomeAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("validation-failed")))
	assert.Equal(t, 350.0, testutil.ToFloat64(m.pointsAwarded))
}

func TestExtractionStarted(t *testing.T) {
	m := New()

	done := m.ExtractionStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.extractionsActive))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.extractionsActive))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveExtraction("image", "ok", 300*time.Millisecond)
	m.ObserveOrder(350)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "receipt_rewards_extraction_duration_seconds_count")
	assert.Contains(t, body, "receipt_rewards_points_redeemed_total 350")
	assert.Contains(t, body, "go_goroutines")
}
