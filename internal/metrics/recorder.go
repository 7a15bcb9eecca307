// Package metrics instruments compiler builds for the preview server's
// Prometheus endpoint.
package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// Recorder observes build activity. A nil *Recorder is a valid no-op, so
// batch builds run uninstrumented without nil checks at call sites.
type Recorder struct {
	once          sync.Once
	buildDuration prom.Histogram
	stageDuration *prom.HistogramVec
	buildOutcome  *prom.CounterVec
	documents     *prom.CounterVec
}

// ResultLabel classifies a build outcome.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailure ResultLabel = "failure"
)

// NewRecorder constructs and registers the compiler metrics (idempotent).
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{}
	r.once.Do(func() {
		r.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docs",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		r.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docs",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		r.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docs",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		r.documents = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docs",
			Name:      "documents_total",
			Help:      "Documents processed by result (built, skipped, failed)",
		}, []string{"result"})
		reg.MustRegister(r.buildDuration, r.stageDuration, r.buildOutcome, r.documents)
	})
	return r
}

// ObserveBuildDuration records a completed build's wall time.
func (r *Recorder) ObserveBuildDuration(d time.Duration) {
	if r == nil || r.buildDuration == nil {
		return
	}
	r.buildDuration.Observe(d.Seconds())
}

// ObserveStageDuration records one pipeline stage's wall time.
func (r *Recorder) ObserveStageDuration(stage string, d time.Duration) {
	if r == nil || r.stageDuration == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// IncBuildOutcome counts a finished build by outcome.
func (r *Recorder) IncBuildOutcome(outcome ResultLabel) {
	if r == nil || r.buildOutcome == nil {
		return
	}
	r.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

// IncDocuments counts processed documents by result label.
func (r *Recorder) IncDocuments(result string, n int) {
	if r == nil || r.documents == nil {
		return
	}
	r.documents.WithLabelValues(result).Add(float64(n))
}
