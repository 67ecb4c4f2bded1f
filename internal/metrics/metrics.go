// Package metrics exposes Prometheus instruments for the search pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	StepDuration  *prometheus.HistogramVec
	ProviderCalls *prometheus.CounterVec
	Turns         *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the instruments on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		StepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tripassistant_step_duration_seconds",
				Help:    "Duration of each pipeline step.",
				Buckets: prometheus.ExponentialBuckets(0.005, 4, 8),
			},
			[]string{"step"},
		),
		ProviderCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripassistant_provider_calls_total",
				Help: "Provider calls by operation and outcome.",
			},
			[]string{"op", "outcome"},
		),
		Turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripassistant_turns_total",
				Help: "Conversation turns by routing decision.",
			},
			[]string{"route"},
		),
		gatherer: reg,
	}

	reg.MustRegister(m.StepDuration, m.ProviderCalls, m.Turns)
	return m
}

// ObserveStep records a step duration. Safe on a nil receiver.
func (m *Metrics) ObserveStep(step string, d time.Duration) {
	if m == nil {
		return
	}
	m.StepDuration.WithLabelValues(step).Observe(d.Seconds())
}

func (m *Metrics) ProviderCall(op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ProviderCalls.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) Turn(route string) {
	if m == nil {
		return
	}
	m.Turns.WithLabelValues(route).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
