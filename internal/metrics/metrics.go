// Package metrics exposes Prometheus instruments for learning runs.
//
// Every recording method is safe on a nil *Metrics, so components can take
// an optional instance without guarding each call site.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the instruments registered for one registry
type Metrics struct {
	ExamplesTotal         *prometheus.CounterVec
	RefinementsTotal      *prometheus.CounterVec
	FailuresTotal         *prometheus.CounterVec
	RefinementCandidates  prometheus.Histogram
	SurvivingConjunctions prometheus.Gauge
	VersionSpaceSize      prometheus.Gauge
	EnumeratedConjunction prometheus.Histogram
	CacheLookupsTotal     *prometheus.CounterVec
	RunDuration           *prometheus.HistogramVec
}

// New registers the instruments with reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		// Labels: algorithm, outcome ("consistent", "false_positive", "false_negative")
		ExamplesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "induct_examples_total",
			Help: "Examples processed by outcome",
		}, []string{"algorithm", "outcome"}),

		RefinementsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "induct_refinements_total",
			Help: "Current-best refinements applied by phase",
		}, []string{"phase"}),

		FailuresTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "induct_failures_total",
			Help: "Learning runs that ended in an error",
		}, []string{"algorithm", "reason"}),

		RefinementCandidates: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "induct_refinement_candidates",
			Help:    "Candidates produced by the phase that supplied a refinement",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		}),

		SurvivingConjunctions: f.NewGauge(prometheus.GaugeOpts{
			Name: "induct_versionspace_surviving_conjunctions",
			Help: "Conjunctions still allowed after the last processed example",
		}),

		VersionSpaceSize: f.NewGauge(prometheus.GaugeOpts{
			Name: "induct_versionspace_size",
			Help: "Hypotheses in the last materialised version space",
		}),

		EnumeratedConjunction: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "induct_space_conjunctions",
			Help:    "Conjunctions enumerated per hypothesis space",
			Buckets: []float64{2, 4, 8, 16, 24, 32, 48, 62},
		}),

		CacheLookupsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "induct_space_cache_lookups_total",
			Help: "Conjunction cache lookups by result",
		}, []string{"result"}),

		RunDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "induct_run_duration_seconds",
			Help:    "Wall time of a learning run",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1, 10},
		}, []string{"algorithm"}),
	}
}

// Example records one processed example
func (m *Metrics) Example(algorithm, outcome string) {
	if m == nil {
		return
	}
	m.ExamplesTotal.WithLabelValues(algorithm, outcome).Inc()
}

// Refinement records an applied refinement and the size of its candidate pool
func (m *Metrics) Refinement(phase string, candidates int) {
	if m == nil {
		return
	}
	m.RefinementsTotal.WithLabelValues(phase).Inc()
	m.RefinementCandidates.Observe(float64(candidates))
}

// Failure records a run ending in an error
func (m *Metrics) Failure(algorithm, reason string) {
	if m == nil {
		return
	}
	m.FailuresTotal.WithLabelValues(algorithm, reason).Inc()
}

// Surviving sets the allowed-conjunction gauge
func (m *Metrics) Surviving(n int) {
	if m == nil {
		return
	}
	m.SurvivingConjunctions.Set(float64(n))
}

// SpaceSize sets the version space size gauge
func (m *Metrics) SpaceSize(n int) {
	if m == nil {
		return
	}
	m.VersionSpaceSize.Set(float64(n))
}

// Enumerated records the size of an enumerated conjunction list
func (m *Metrics) Enumerated(n int) {
	if m == nil {
		return
	}
	m.EnumeratedConjunction.Observe(float64(n))
}

// CacheLookup records a cache hit or miss
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookupsTotal.WithLabelValues(result).Inc()
}

// Run records the duration of a learning run
func (m *Metrics) Run(algorithm string, d time.Duration) {
	if m == nil {
		return
	}
	m.RunDuration.WithLabelValues(algorithm).Observe(d.Seconds())
}

// WriteTextfile dumps the gatherer in Prometheus text format
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
