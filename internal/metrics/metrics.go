package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the survey server
type Metrics struct {
	// Session metrics
	SessionsStarted *prometheus.CounterVec
	ActiveSessions  prometheus.Gauge
	Answers         *prometheus.CounterVec

	// Progression metrics
	Advances        *prometheus.CounterVec
	PersistDuration *prometheus.HistogramVec

	// Cache metrics
	Rehydrations *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		SessionsStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "surveyflow_sessions_started_total",
				Help: "Total number of survey sessions started",
			},
			[]string{"catalog"},
		),
		ActiveSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "surveyflow_active_sessions",
				Help: "Number of sessions held in memory",
			},
		),
		Answers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "surveyflow_answers_total",
				Help: "Total number of answer updates",
			},
			[]string{"catalog"},
		),
		Advances: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "surveyflow_advances_total",
				Help: "Progression attempts by outcome",
			},
			[]string{"outcome"},
		),
		PersistDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "surveyflow_persist_duration_seconds",
				Help:    "Duration of progress saves in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend", "success"},
		),
		Rehydrations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "surveyflow_session_rehydrations_total",
				Help: "Sessions restored from the session cache",
			},
			[]string{"result"},
		),
	}
}

// NewRegistry creates a new Prometheus registry with metrics
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	return reg, m
}

// Handler serves the metrics gathered by reg
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// ObservePersist records the duration of one save against backend
func (m *Metrics) ObservePersist(backend string, start time.Time, err error) {
	success := "true"
	if err != nil {
		success = "false"
	}
	m.PersistDuration.WithLabelValues(backend, success).Observe(time.Since(start).Seconds())
}
