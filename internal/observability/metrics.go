package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for ingestion and lookups.
type Metrics struct {
	RowsRead      *prometheus.CounterVec // labels: dataset={impact,yield}
	RowsDiscarded *prometheus.CounterVec // labels: dataset={impact,yield}
	IndexBuilds   prometheus.Counter
	IngestErrors  *prometheus.CounterVec // labels: stage={impact,yield,publish}
	IngestRunning prometheus.Gauge

	IngestDuration prometheus.Histogram
	IndexedKeys    prometheus.Gauge
	LastBuild      prometheus.Gauge

	// Bounds lookup metrics.
	BoundsLookups *prometheus.CounterVec // labels: outcome={found,missing,error}
	BoundsCache   *prometheus.CounterVec // labels: result={hit,miss}

	SnapshotsPublished prometheus.Counter
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "impact_yield",
			Name:      "rows_read_total",
			Help:      "Raw rows read from each source dataset.",
		}, []string{"dataset"}),
		RowsDiscarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "impact_yield",
			Name:      "rows_discarded_total",
			Help:      "Raw rows dropped during normalization.",
		}, []string{"dataset"}),
		IndexBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "impact_yield",
			Name:      "index_builds_total",
			Help:      "Indexes built and swapped in.",
		}),
		IngestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "impact_yield",
			Name:      "ingest_errors_total",
			Help:      "Ingestion failures by stage.",
		}, []string{"stage"}),
		IngestRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "impact_yield",
			Name:      "ingest_running",
			Help:      "1 while an ingestion pass is in progress.",
		}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "impact_yield",
			Name:      "ingest_duration_seconds",
			Help:      "Duration of a full two-stage ingestion pass.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		IndexedKeys: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "impact_yield",
			Name:      "indexed_keys",
			Help:      "Distinct keys in the current index.",
		}),
		LastBuild: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "impact_yield",
			Name:      "last_build_timestamp_seconds",
			Help:      "Unix time of the current index build.",
		}),
		BoundsLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "impact_yield",
			Name:      "bounds_lookups_total",
			Help:      "Country bounds lookups by outcome.",
		}, []string{"outcome"}),
		BoundsCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "impact_yield",
			Name:      "bounds_cache_total",
			Help:      "Country bounds cache lookups by result.",
		}, []string{"result"}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "impact_yield",
			Name:      "snapshots_published_total",
			Help:      "Per-key snapshots written to Kafka.",
		}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsRead,
		m.RowsDiscarded,
		m.IndexBuilds,
		m.IngestErrors,
		m.IngestRunning,
		m.IngestDuration,
		m.IndexedKeys,
		m.LastBuild,
		m.BoundsLookups,
		m.BoundsCache,
		m.SnapshotsPublished,
	)
	return m
}

// NewUnregisteredMetrics creates Metrics that are never exported, for
// one-shot tools that ingest once and exit.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
