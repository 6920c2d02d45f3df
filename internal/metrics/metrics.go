package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/weathernow/internal/weather"
)

// Outcome labels for weathernow_fetches_total.
const (
	OutcomeSuccess          = "success"
	OutcomeEmptyQuery       = "empty_query"
	OutcomeLocationNotFound = "location_not_found"
	OutcomeStale            = "stale"
)

// Metrics holds the service's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	fetches       *prometheus.CounterVec
	fetchDuration prometheus.Histogram
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weathernow_fetches_total",
				Help: "Weather fetch attempts by outcome.",
			},
			[]string{"outcome"},
		),
		fetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "weathernow_fetch_duration_seconds",
				Help:    "Time spent resolving a weather fetch.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	m.registry.MustRegister(m.fetches, m.fetchDuration)
	return m
}

// ObserveFetch implements weather.FetchObserver.
func (m *Metrics) ObserveFetch(err error, elapsed time.Duration) {
	m.fetches.WithLabelValues(outcome(err)).Inc()
	m.fetchDuration.Observe(elapsed.Seconds())
}

// TrackSessions exports count as the active-session gauge. count is
// evaluated on every scrape.
func (m *Metrics) TrackSessions(count func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "weathernow_active_sessions",
			Help: "Widget sessions currently held in memory.",
		},
		func() float64 { return float64(count()) },
	))
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, weather.ErrEmptyQuery):
		return OutcomeEmptyQuery
	case errors.Is(err, weather.ErrStaleResponse):
		return OutcomeStale
	default:
		return OutcomeLocationNotFound
	}
}
