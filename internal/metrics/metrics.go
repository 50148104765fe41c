// Package metrics registers the Prometheus instruments for the API access
// layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AuthMetrics holds the counters recorded around authentication decisions.
type AuthMetrics struct {
	DecisionsTotal     *prometheus.CounterVec
	AuditWriteFailures prometheus.Counter
}

// NewAuthMetrics initializes and registers the metrics with the default
// registerer.
func NewAuthMetrics() *AuthMetrics {
	return newAuthMetrics(prometheus.DefaultRegisterer)
}

// NewAuthMetricsWith registers against a caller-supplied registry. Used by
// tests to avoid duplicate registration panics.
func NewAuthMetricsWith(reg prometheus.Registerer) *AuthMetrics {
	return newAuthMetrics(reg)
}

func newAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	factory := promauto.With(reg)
	return &AuthMetrics{
		DecisionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "waveorder",
			Subsystem: "auth",
			Name:      "decisions_total",
			Help:      "Authentication decisions by outcome.",
		}, []string{"outcome"}),
		AuditWriteFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "waveorder",
			Subsystem: "auth",
			Name:      "audit_write_failures_total",
			Help:      "Audit log writes that failed and were dropped.",
		}),
	}
}
