package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RateLimitChecksTotal *prometheus.CounterVec
	RateLimitErrorsTotal prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		RateLimitChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "threecs_ratelimit_checks_total",
			Help: "Total number of rate limit checks by endpoint class and outcome",
		}, []string{"class", "outcome"}),
		RateLimitErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "threecs_ratelimit_errors_total",
			Help: "Total number of rate limit checks that failed and were let through",
		}),
	}
}

func (m *Metrics) RecordCheck(class string, allowed bool) {
	if m == nil {
		return
	}
	outcome := "allowed"
	if !allowed {
		outcome = "denied"
	}
	m.RateLimitChecksTotal.WithLabelValues(class, outcome).Inc()
}

func (m *Metrics) IncrementErrors() {
	if m == nil {
		return
	}
	m.RateLimitErrorsTotal.Inc()
}
