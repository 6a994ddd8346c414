package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "repovet"

// Status labels for completed analyses
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Recorder collects analysis metrics on its own registry so that several
// recorders (one per test, for example) never conflict.
type Recorder struct {
	registry         *prometheus.Registry
	analyses         *prometheus.CounterVec
	analyzerFailures *prometheus.CounterVec
	duration         prometheus.Histogram
	scores           *prometheus.HistogramVec
}

// NewRecorder creates a recorder with a fresh registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Repository analyses by outcome.",
		}, []string{"status"}),
		analyzerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyzer_failures_total",
			Help:      "Analyzer sections replaced by an error stub.",
		}, []string{"analyzer"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of one repository analysis.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		scores: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "innovation_score",
			Help:      "Distribution of innovation scores.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}, []string{"strategy"}),
	}
	r.registry.MustRegister(r.analyses, r.analyzerFailures, r.duration, r.scores)
	return r
}

// ObserveAnalysis records the outcome of one unit
func (r *Recorder) ObserveAnalysis(status string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.analyses.WithLabelValues(status).Inc()
	r.duration.Observe(elapsed.Seconds())
}

// ObserveAnalyzerFailure counts a failed analyzer section
func (r *Recorder) ObserveAnalyzerFailure(analyzer string) {
	if r == nil {
		return
	}
	r.analyzerFailures.WithLabelValues(analyzer).Inc()
}

// ObserveScore records a final innovation score
func (r *Recorder) ObserveScore(strategy string, score int) {
	if r == nil {
		return
	}
	r.scores.WithLabelValues(strategy).Observe(float64(score))
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
