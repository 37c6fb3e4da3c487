package metricsvc

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Failure reasons recorded against submissions.
const (
	ReasonValidation   = "validation"
	ReasonBudget       = "budget"
	ReasonRejectedFile = "rejected_file"
	ReasonOther        = "other"
)

// Metrics collects submission traffic for the documents editor API.
type Metrics struct {
	registry *prometheus.Registry

	SubmissionsTotal   prometheus.Counter
	SubmissionFailures *prometheus.CounterVec
	SubmissionBytes    prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SubmissionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "schooldocs",
			Name:      "submissions_total",
			Help:      "Number of document submissions applied successfully.",
		}),
		SubmissionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "schooldocs",
			Name:      "submission_failures_total",
			Help:      "Number of rejected document submissions by reason.",
		}, []string{"reason"}),
		SubmissionBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "schooldocs",
			Name:      "submission_bytes",
			Help:      "Size in bytes of uploaded files per submission.",
			Buckets:   prometheus.ExponentialBuckets(1<<10, 4, 10), // 1 KiB .. ~256 MiB
		}),
	}
	m.registry.MustRegister(m.SubmissionsTotal, m.SubmissionFailures, m.SubmissionBytes)
	return m
}

// Failure records one rejected submission.
func (m *Metrics) Failure(reason string) {
	m.SubmissionFailures.WithLabelValues(reason).Inc()
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
