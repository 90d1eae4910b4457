package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusCollector implements Collector on its own registry.
type PrometheusCollector struct {
	registry *prometheus.Registry

	assessments *prometheus.CounterVec
	fallbacks   *prometheus.CounterVec
	duration    prometheus.Histogram
	rows        prometheus.Histogram
}

// NewPrometheusCollector creates the collectors and registers them, together
// with the Go runtime and process collectors, on a fresh registry.
func NewPrometheusCollector(namespace string) (*PrometheusCollector, error) {
	pc := &PrometheusCollector{
		registry: prometheus.NewRegistry(),
		assessments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "assessments_total",
				Help:      "Scored statements by decision status and scoring source",
			},
			[]string{"status", "source"},
		),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scoring_fallbacks_total",
				Help:      "Requests scored by the rule-based fallback, by reason",
			},
			[]string{"reason"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assessment_duration_seconds",
			Help:      "End-to-end pipeline latency per statement",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		}),
		rows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "statement_rows",
			Help:      "Number of transaction rows per scored statement",
			Buckets:   prometheus.ExponentialBuckets(10, 2, 10),
		}),
	}

	collectors := []prometheus.Collector{
		pc.assessments,
		pc.fallbacks,
		pc.duration,
		pc.rows,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	}
	for _, c := range collectors {
		if err := pc.registry.Register(c); err != nil {
			return nil, err
		}
	}
	return pc, nil
}

func (pc *PrometheusCollector) RecordAssessment(status, source string, duration time.Duration, rows int) {
	pc.assessments.WithLabelValues(status, source).Inc()
	pc.duration.Observe(duration.Seconds())
	pc.rows.Observe(float64(rows))
}

func (pc *PrometheusCollector) RecordFallback(reason string) {
	pc.fallbacks.WithLabelValues(reason).Inc()
}

func (pc *PrometheusCollector) Registry() *prometheus.Registry {
	return pc.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (pc *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(pc.registry, promhttp.HandlerOpts{})
}
