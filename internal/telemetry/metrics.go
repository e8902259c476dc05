// Package telemetry exports Prometheus metrics about reported accesses.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"inputweaver/internal/instrumented"
)

// Report kinds used as the "kind" label.
const (
	KindEnv      = "env"
	KindProperty = "property"
	KindProcess  = "process"
	KindFile     = "file"
)

// Metrics holds the access report counters.
type Metrics struct {
	reports *prometheus.CounterVec
	missing *prometheus.CounterVec
}

// NewMetrics registers the counters with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		reports: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inputweaver",
			Name:      "reports_total",
			Help:      "Total number of access reports by kind",
		}, []string{"kind"}),
		missing: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inputweaver",
			Name:      "missing_keys_total",
			Help:      "Reads of environment variables or properties that were not set",
		}, []string{"kind"}),
	}
}

// Listener returns a listener that counts into m and forwards to next. A nil
// next discards reports after counting them.
func (m *Metrics) Listener(next instrumented.Listener) *MetricsListener {
	if next == nil {
		next = instrumented.NopListener{}
	}
	return &MetricsListener{Metrics: m, next: next}
}

// MetricsListener counts reports and forwards them to the next listener.
type MetricsListener struct {
	*Metrics
	next instrumented.Listener
}

// NewMetricsListener registers fresh counters with reg and decorates next.
func NewMetricsListener(reg prometheus.Registerer, next instrumented.Listener) *MetricsListener {
	return NewMetrics(reg).Listener(next)
}

func (m *MetricsListener) EnvVariableQueried(key, value string, found bool, consumer string) {
	m.count(KindEnv, found)
	m.next.EnvVariableQueried(key, value, found, consumer)
}

func (m *MetricsListener) SystemPropertyQueried(key, value string, found bool, consumer string) {
	m.count(KindProperty, found)
	m.next.SystemPropertyQueried(key, value, found, consumer)
}

func (m *MetricsListener) ExternalProcessStarted(command, consumer string) {
	m.reports.WithLabelValues(KindProcess).Inc()
	m.next.ExternalProcessStarted(command, consumer)
}

func (m *MetricsListener) FileOpened(path, consumer string) {
	m.reports.WithLabelValues(KindFile).Inc()
	m.next.FileOpened(path, consumer)
}

func (m *MetricsListener) count(kind string, found bool) {
	m.reports.WithLabelValues(kind).Inc()
	if !found {
		m.missing.WithLabelValues(kind).Inc()
	}
}
