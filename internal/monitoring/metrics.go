// Package monitoring exposes Prometheus metrics for the store and shell.
package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors. It implements vfs.Observer and
// shell.Observer.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	CommandsTotal  *prometheus.CounterVec
	MutationsTotal *prometheus.CounterVec
	CorruptionFlag prometheus.Gauge
}

// NewMetrics creates and registers the metric set on reg (the default
// registerer when nil).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mirage_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mirage_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"method", "path"},
		),
		CommandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mirage_shell_commands_total",
				Help: "Shell builtin invocations by command name",
			},
			[]string{"command"},
		),
		MutationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mirage_vfs_mutations_total",
				Help: "Tree store mutations by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		CorruptionFlag: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "mirage_vfs_corrupted",
				Help: "1 when the corruption flag is raised",
			},
		),
	}
}

// RecordMutation implements vfs.Observer.
func (m *Metrics) RecordMutation(op string, ok bool) {
	outcome := "rejected"
	if ok {
		outcome = "applied"
	}
	m.MutationsTotal.WithLabelValues(op, outcome).Inc()
}

// SetCorrupted implements vfs.Observer.
func (m *Metrics) SetCorrupted(corrupted bool) {
	if corrupted {
		m.CorruptionFlag.Set(1)
	} else {
		m.CorruptionFlag.Set(0)
	}
}

// RecordCommand implements shell.Observer.
func (m *Metrics) RecordCommand(name string) {
	m.CommandsTotal.WithLabelValues(name).Inc()
}

// RecordRequest records one finished HTTP request.
func (m *Metrics) RecordRequest(method, path string, status int, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}
