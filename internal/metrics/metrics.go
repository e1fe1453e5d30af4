// Package metrics provides Prometheus metrics for the proposal engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	FlowCalls         *prometheus.CounterVec
	InferenceDuration *prometheus.HistogramVec
	TokensTotal       *prometheus.CounterVec
	ErrorsTotal       *prometheus.CounterVec
	SessionsActive    prometheus.Gauge
	ChallengeTurns    prometheus.Counter
	ConfigUpdates     prometheus.Counter

	registry *prometheus.Registry
}

// New creates and registers all metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		FlowCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proposal_flow_calls_total",
				Help: "Total flow invocations by flow name and status.",
			},
			[]string{"flow", "status"},
		),
		InferenceDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "proposal_inference_duration_seconds",
				Help:    "Inference round-trip duration by flow name.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"flow"},
		),
		TokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proposal_inference_tokens_total",
				Help: "Model tokens consumed by direction (input/output).",
			},
			[]string{"direction"},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proposal_errors_total",
				Help: "Total errors by component and type.",
			},
			[]string{"component", "type"},
		),
		SessionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "proposal_sessions_active",
				Help: "Number of resident proposal sessions.",
			},
		),
		ChallengeTurns: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "proposal_challenge_turns_total",
				Help: "Total completed challenge turns.",
			},
		),
		ConfigUpdates: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "proposal_config_updates_total",
				Help: "Total cost-config updates applied via challenge turns.",
			},
		),
		registry: reg,
	}

	reg.MustRegister(m.FlowCalls)
	reg.MustRegister(m.InferenceDuration)
	reg.MustRegister(m.TokensTotal)
	reg.MustRegister(m.ErrorsTotal)
	reg.MustRegister(m.SessionsActive)
	reg.MustRegister(m.ChallengeTurns)
	reg.MustRegister(m.ConfigUpdates)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordFlow increments the flow invocation counter.
func (m *Metrics) RecordFlow(flow, status string) {
	m.FlowCalls.WithLabelValues(flow, status).Inc()
}

// RecordError increments the error counter.
func (m *Metrics) RecordError(component, errType string) {
	m.ErrorsTotal.WithLabelValues(component, errType).Inc()
}

// ObserveInference records inference round-trip duration.
func (m *Metrics) ObserveInference(flow string, seconds float64) {
	m.InferenceDuration.WithLabelValues(flow).Observe(seconds)
}

// RecordTokens adds token usage for one inference call.
func (m *Metrics) RecordTokens(input, output int) {
	m.TokensTotal.WithLabelValues("input").Add(float64(input))
	m.TokensTotal.WithLabelValues("output").Add(float64(output))
}

// SetSessions sets the resident session gauge.
func (m *Metrics) SetSessions(count float64) {
	m.SessionsActive.Set(count)
}
