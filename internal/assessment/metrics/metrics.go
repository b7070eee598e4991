package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for assessment submission and retrieval.
type Metrics struct {
	SubmissionsTotal prometheus.Counter

	// People assessed by grade and archetype
	PeopleAssessed *prometheus.CounterVec

	// Per-person report failures by stage: "render", "upload", "record"
	ReportFailures *prometheus.CounterVec

	EmailOutcomes *prometheus.CounterVec

	SubmitLatency prometheus.Histogram
	RenderLatency prometheus.Histogram

	GuidanceCache *prometheus.CounterVec
}

// New creates a Metrics instance with all assessment metrics registered.
func New() *Metrics {
	return &Metrics{
		SubmissionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "threecs_assessment_submissions_total",
			Help: "Total number of saved assessment submissions",
		}),

		PeopleAssessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "threecs_assessment_people_total",
			Help: "Total people assessed by grade and archetype",
		}, []string{"grade", "archetype"}),

		ReportFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "threecs_assessment_report_failures_total",
			Help: "Per-person report failures by stage",
		}, []string{"stage"}),

		EmailOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "threecs_assessment_emails_total",
			Help: "Results email deliveries by outcome",
		}, []string{"outcome"}),

		SubmitLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "threecs_assessment_submit_duration_seconds",
			Help:    "Duration of a full submission including reports and email",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		RenderLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "threecs_assessment_render_duration_seconds",
			Help:    "Duration of rendering one person's PDF",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		GuidanceCache: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "threecs_guidance_cache_lookups_total",
			Help: "Guidance cache lookups by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) IncrementSubmissions() {
	if m != nil {
		m.SubmissionsTotal.Inc()
	}
}

func (m *Metrics) IncrementPeopleAssessed(grade, archetype string) {
	if m != nil {
		m.PeopleAssessed.WithLabelValues(grade, archetype).Inc()
	}
}

func (m *Metrics) IncrementReportFailure(stage string) {
	if m != nil {
		m.ReportFailures.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) IncrementEmail(sent bool) {
	if m == nil {
		return
	}
	outcome := "sent"
	if !sent {
		outcome = "failed"
	}
	m.EmailOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveSubmitLatency(d time.Duration) {
	if m != nil {
		m.SubmitLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveRenderLatency(d time.Duration) {
	if m != nil {
		m.RenderLatency.Observe(d.Seconds())
	}
}

// IncrementCacheHit and IncrementCacheMiss satisfy guidance.CacheObserver.
func (m *Metrics) IncrementCacheHit() {
	if m != nil {
		m.GuidanceCache.WithLabelValues("hit").Inc()
	}
}

func (m *Metrics) IncrementCacheMiss() {
	if m != nil {
		m.GuidanceCache.WithLabelValues("miss").Inc()
	}
}
