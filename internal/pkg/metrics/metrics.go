// Package metrics exports Prometheus counters and histograms for box state
// transitions and catalog merges.
package metrics

import (
	"net/http"
	"time"

	"heblo/internal/core/domain/model/transportbox"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "heblo"

// Metrics owns a private registry so tests and multiple instances in one
// process do not collide on the global one.
type Metrics struct {
	registry      *prometheus.Registry
	transitions   *prometheus.CounterVec
	merges        *prometheus.CounterVec
	mergeDuration *prometheus.HistogramVec
	skippedMerges *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transport_box",
			Name:      "transitions_total",
			Help:      "Committed transport box state transitions.",
		}, []string{"from", "to"}),
		merges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "merges_total",
			Help:      "Catalog merges by trigger and result.",
		}, []string{"trigger", "result"}),
		mergeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "merge_duration_seconds",
			Help:      "Duration of catalog merges.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"trigger"}),
		skippedMerges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "skipped_merges_total",
			Help:      "Timer firings skipped because a merge was already running.",
		}, []string{"trigger"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.transitions,
		m.merges,
		m.mergeDuration,
		m.skippedMerges,
	)
	return m
}

// RecordTransition implements commands.TransitionRecorder.
func (m *Metrics) RecordTransition(from, to transportbox.State) {
	m.transitions.WithLabelValues(from.String(), to.String()).Inc()
}

// ObserveMerge implements catalog.MergeObserver.
func (m *Metrics) ObserveMerge(trigger string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.merges.WithLabelValues(trigger, result).Inc()
	m.mergeDuration.WithLabelValues(trigger).Observe(duration.Seconds())
}

// ObserveSkippedMerge implements catalog.MergeObserver.
func (m *Metrics) ObserveSkippedMerge(trigger string) {
	m.skippedMerges.WithLabelValues(trigger).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
