// Package metrics exposes Prometheus instruments for the receipt pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "receipt_rewards"

// OutcomeAccepted labels submissions that earned points. Rejections are
// labelled with their error kind.
const OutcomeAccepted = "accepted"

type Metrics struct {
	registry *prometheus.Registry

	submissions        *prometheus.CounterVec
	pointsAwarded      prometheus.Counter
	confidence         prometheus.Histogram
	extractionDuration *prometheus.HistogramVec
	extractionsActive  prometheus.Gauge
	ordersPlaced       prometheus.Counter
	pointsRedeemed     prometheus.Counter
}

// New registers all instruments on a private registry together with the
// Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Receipt submissions by outcome.",
		}, []string{"outcome"}),
		pointsAwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_awarded_total",
			Help:      "Points credited for accepted receipts.",
		}),
		confidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "receipt_confidence",
			Help:      "Confidence score of analyzed receipts.",
			Buckets:   prometheus.LinearBuckets(0, 20, 10),
		}),
		extractionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Time spent acquiring receipt text.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"file_kind", "status"}),
		extractionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "extractions_in_flight",
			Help:      "Extractions currently holding a worker slot.",
		}),
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Reward orders placed.",
		}),
		pointsRedeemed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_redeemed_total",
			Help:      "Points spent on reward orders.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.submissions,
		m.pointsAwarded,
		m.confidence,
		m.extractionDuration,
		m.extractionsActive,
		m.ordersPlaced,
		m.pointsRedeemed,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveSubmission(outcome string, points int) {
	m.submissions.WithLabelValues(outcome).Inc()
	if points > 0 {
		m.pointsAwarded.Add(float64(points))
	}
}

func (m *Metrics) ObserveConfidence(confidence int) {
	m.confidence.Observe(float64(confidence))
}

func (m *Metrics) ObserveExtraction(fileKind, status string, elapsed time.Duration) {
	m.extractionDuration.WithLabelValues(fileKind, status).Observe(elapsed.Seconds())
}

// ExtractionStarted marks a worker slot as busy and returns the func that
// frees it.
func (m *Metrics) ExtractionStarted() func() {
	m.extractionsActive.Inc()
	return m.extractionsActive.Dec
}

func (m *Metrics) ObserveOrder(points int) {
	m.ordersPlaced.Inc()
	m.pointsRedeemed.Add(float64(points))
}
