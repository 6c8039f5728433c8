package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "squadfolio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "squadfolio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Privacy engine metrics
	PrivacyResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "squadfolio_privacy_resolutions_total",
			Help: "Privacy resolutions performed, by effective source",
		},
		[]string{"source"},
	)

	AggregationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "squadfolio_aggregations_total",
			Help: "Cross-member aggregations computed, by period",
		},
		[]string{"period"},
	)

	HiddenMembersObserved = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "squadfolio_aggregation_hidden_members",
			Help:    "Hidden member count per aggregation",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
		},
	)

	SampleCoverage = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "squadfolio_sample_coverage_percent",
			Help:    "Coverage of sampled series, percent of points backed by real snapshots",
			Buckets: []float64{0, 10, 25, 50, 75, 90, 100},
		},
	)

	// Snapshot sync metrics
	SnapshotSyncRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "squadfolio_snapshot_sync_runs_total",
			Help: "Snapshot sync runs started",
		},
	)

	SnapshotsUpsertedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "squadfolio_snapshots_upserted_total",
			Help: "Daily snapshots written by the sync worker",
		},
	)

	BrokerageRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "squadfolio_brokerage_request_duration_seconds",
			Help:    "Upstream brokerage API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "squadfolio_cache_hits_total",
			Help: "Cache lookups, by outcome",
		},
		[]string{"outcome"},
	)
)
