package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Status labels for calls that never produced an outcome.
const (
	statusUnknownTool = "unknown_tool"
	statusInvalidArgs = "invalid_arguments"
)

// Metrics counts tool calls on a private registry so tests and embedders do
// not collide with the global one.
type Metrics struct {
	registry *prometheus.Registry
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the tool call collectors plus Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hotspot",
			Name:      "tool_calls_total",
			Help:      "Tool calls by tool and result status.",
		}, []string{"tool", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hotspot",
			Name:      "tool_call_duration_seconds",
			Help:      "Time spent loading and ranking one document.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"tool"}),
	}
	m.registry.MustRegister(
		m.calls,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) observe(tool, status string, elapsed time.Duration) {
	m.calls.WithLabelValues(tool, status).Inc()
	m.duration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
