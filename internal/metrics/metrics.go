// Package metrics exposes Prometheus instrumentation for the resource
// stores: mutation outcomes, cache effectiveness, and refresh fan-out.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Mutation outcome label values.
const (
	OutcomeConfirmed  = "confirmed"
	OutcomeRolledBack = "rolled_back"
	OutcomeSkipped    = "skipped"
)

// Config configures the metrics set.
type Config struct {
	// Namespace is the metrics namespace (default: "coachkit").
	Namespace string

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer

	// Buckets are the histogram buckets for mutation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64
}

// Option configures the metrics set.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) { c.Namespace = namespace }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) { c.Registry = registry }
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) { c.Buckets = buckets }
}

// Set holds the collectors shared by every resource store. A nil *Set is
// valid and records nothing, so instrumentation stays optional.
type Set struct {
	mutations        *prometheus.CounterVec
	mutationDuration *prometheus.HistogramVec
	cacheReads       *prometheus.CounterVec
	refreshes        *prometheus.CounterVec
}

// New creates and registers the collector set.
func New(opts ...Option) *Set {
	cfg := Config{
		Namespace: "coachkit",
		Registry:  prometheus.DefaultRegisterer,
		Buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Set{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "store_mutations_total",
			Help:      "Optimistic mutations by resource, operation, and outcome.",
		}, []string{"resource", "op", "outcome"}),
		mutationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "store_mutation_duration_seconds",
			Help:      "Wall time of a mutation cycle including the remote call.",
			Buckets:   cfg.Buckets,
		}, []string{"resource", "op"}),
		cacheReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "cache_reads_total",
			Help:      "Entity cache reads by resource and result.",
		}, []string{"resource", "result"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "refresh_broadcasts_total",
			Help:      "Refresh triggers received by store instances.",
		}, []string{"resource"}),
	}

	cfg.Registry.MustRegister(s.mutations, s.mutationDuration, s.cacheReads, s.refreshes)
	return s
}

// Mutation records one mutation outcome and its duration.
func (s *Set) Mutation(resource, op, outcome string, elapsed time.Duration) {
	if s == nil {
		return
	}
	s.mutations.WithLabelValues(resource, op, outcome).Inc()
	s.mutationDuration.WithLabelValues(resource, op).Observe(elapsed.Seconds())
}

// CacheRead records a cache hit or miss.
func (s *Set) CacheRead(resource string, hit bool) {
	if s == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	s.cacheReads.WithLabelValues(resource, result).Inc()
}

// Refresh records a broadcast trigger received by a store instance.
func (s *Set) Refresh(resource string) {
	if s == nil {
		return
	}
	s.refreshes.WithLabelValues(resource).Inc()
}
