package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.SummaryVec
	requestCount    *prometheus.CounterVec
	analyses        *prometheus.CounterVec
	analysisTime    prometheus.Histogram
	matchScores     prometheus.Histogram
	narratives      *prometheus.CounterVec
}

// NewMetrics registers the collectors on a fresh registry, together with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestDuration: factory.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request duration in seconds",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.95: 0.005,
					0.99: 0.001,
				},
			},
			[]string{"method", "path", "status_code"},
		),
		requestCount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		analyses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resume_analyses_total",
				Help: "Resume analyses by outcome",
			},
			[]string{"outcome"},
		),
		analysisTime: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "resume_analysis_duration_seconds",
			Help:    "Time spent analyzing one resume, narrative included",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		matchScores: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "resume_match_score",
			Help:    "Distribution of composite match scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}),
		narratives: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resume_narratives_total",
				Help: "Narrative generation results by outcome",
			},
			[]string{"result"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRequest records one served HTTP request. path should be the route
// pattern, not the raw URL, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
	m.requestCount.WithLabelValues(method, path, code).Inc()
}

// ObserveAnalysis records a finished analysis.
func (m *Metrics) ObserveAnalysis(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(outcome).Inc()
	m.analysisTime.Observe(elapsed.Seconds())
}

// ObserveScore records a composite match score.
func (m *Metrics) ObserveScore(score int) {
	if m == nil {
		return
	}
	m.matchScores.Observe(float64(score))
}

// ObserveNarrative records how a narrative request ended.
func (m *Metrics) ObserveNarrative(result string) {
	if m == nil {
		return
	}
	m.narratives.WithLabelValues(result).Inc()
}
