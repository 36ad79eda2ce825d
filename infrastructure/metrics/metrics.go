// Package metrics provides Prometheus metrics for the match analysis service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/u759/AllanAI-sub001/domain/match"
)

// Pipeline collects processing pipeline observations.
type Pipeline struct {
	processed          *prometheus.CounterVec
	failed             prometheus.Counter
	processingDuration prometheus.Histogram
	queueDepth         prometheus.Gauge
}

// NewPipeline registers the pipeline collectors on the given registerer.
func NewPipeline(reg prometheus.Registerer) *Pipeline {
	factory := promauto.With(reg)
	return &Pipeline{
		processed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "allanai",
			Subsystem: "pipeline",
			Name:      "matches_processed_total",
			Help:      "Completed matches by primary analysis source.",
		}, []string{"source"}),
		failed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "allanai",
			Subsystem: "pipeline",
			Name:      "matches_failed_total",
			Help:      "Matches that terminated in FAILED status.",
		}),
		processingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "allanai",
			Subsystem: "pipeline",
			Name:      "processing_duration_seconds",
			Help:      "Wall-clock time spent processing one match.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "allanai",
			Subsystem: "pipeline",
			Name:      "queue_depth",
			Help:      "Matches waiting in the bounded worker queue.",
		}),
	}
}

// MatchProcessed records one completed match.
func (p *Pipeline) MatchProcessed(source match.Source, seconds float64) {
	p.processed.WithLabelValues(string(source)).Inc()
	p.processingDuration.Observe(seconds)
}

// MatchFailed records one failed match.
func (p *Pipeline) MatchFailed() {
	p.failed.Inc()
}

// QueueDepth records the current queue length.
func (p *Pipeline) QueueDepth(depth int) {
	p.queueDepth.Set(float64(depth))
}
