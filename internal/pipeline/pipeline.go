package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/impact-yield-explorer/internal/domain"
	"github.com/couchcryptid/impact-yield-explorer/internal/index"
	"github.com/couchcryptid/impact-yield-explorer/internal/observability"
	"github.com/couchcryptid/impact-yield-explorer/internal/query"
)

const (
	stageImpact  = "impact"
	stageYield   = "yield"
	stagePublish = "publish"

	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// RowSource yields every raw row of one dataset.
type RowSource interface {
	ReadRows(ctx context.Context) ([]domain.RawRow, error)
}

// SnapshotPublisher receives per-key digests after each successful build.
type SnapshotPublisher interface {
	PublishSnapshots(ctx context.Context, snapshots []query.KeySnapshot) error
}

// Pipeline runs the two-stage ingestion and swaps each new index into the store.
type Pipeline struct {
	impacts   RowSource
	yields    RowSource
	store     *index.Store
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	publisher SnapshotPublisher

	impactCols     domain.ImpactColumns
	yieldCols      domain.YieldColumns
	reloadInterval time.Duration

	// mu keeps a single writer: ingestions never overlap.
	mu sync.Mutex
}

// New creates a Pipeline reading impacts and yields into store.
func New(impacts, yields RowSource, store *index.Store, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		impacts:    impacts,
		yields:     yields,
		store:      store,
		logger:     logger,
		metrics:    metrics,
		clock:      clockwork.NewRealClock(),
		impactCols: domain.DefaultImpactColumns(),
		yieldCols:  domain.DefaultYieldColumns(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once an index has been built and swapped in.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.store.Built() {
		return errors.New("index has not been built yet")
	}
	return nil
}

// Run performs the initial ingestion, retrying with backoff until it succeeds,
// then re-ingests on every reload interval. It returns when ctx is cancelled,
// or right after the first build when no reload interval is set.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "reload_interval", p.reloadInterval)

	backoff := initialBackoff
	for {
		err := p.Ingest(ctx)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		}
		p.logger.Error("initial ingestion failed", "error", err, "retry_in", backoff)
		if !p.sleepWithContext(ctx, backoff) {
			return nil
		}
		backoff = nextBackoff(backoff, maxBackoff)
	}

	if p.reloadInterval <= 0 {
		return nil
	}

	ticker := p.clock.NewTicker(p.reloadInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			if err := p.Ingest(ctx); err != nil {
				p.logger.Error("reload failed, keeping previous index", "error", err)
			}
		}
	}
}

// Ingest reads and normalizes the impact dataset, then the yield dataset,
// builds a fresh index and swaps it in. The yield stage never starts before
// the impact stage has finished. On error the current index is left untouched.
func (p *Pipeline) Ingest(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.metrics.IngestRunning.Set(1)
	defer p.metrics.IngestRunning.Set(0)
	start := p.clock.Now()

	impactRows, err := p.impacts.ReadRows(ctx)
	if err != nil {
		p.metrics.IngestErrors.WithLabelValues(stageImpact).Inc()
		return fmt.Errorf("read impact rows: %w", err)
	}
	impacts, impactDropped := normalizeImpacts(impactRows, p.impactCols)
	p.recordRows(stageImpact, len(impactRows), impactDropped)

	yieldRows, err := p.yields.ReadRows(ctx)
	if err != nil {
		p.metrics.IngestErrors.WithLabelValues(stageYield).Inc()
		return fmt.Errorf("read yield rows: %w", err)
	}
	yields, yieldDropped := normalizeYields(yieldRows, p.yieldCols)
	p.recordRows(stageYield, len(yieldRows), yieldDropped)

	idx := index.Build(impacts, yields)
	p.store.Swap(idx)

	keys := len(idx.AllKeys())
	elapsed := p.clock.Since(start)
	p.metrics.IndexBuilds.Inc()
	p.metrics.IngestDuration.Observe(elapsed.Seconds())
	p.metrics.IndexedKeys.Set(float64(keys))
	p.metrics.LastBuild.Set(float64(idx.BuiltAt().Unix()))
	p.logger.Info("index built",
		"impacts", len(impacts),
		"impacts_discarded", impactDropped,
		"yields", len(yields),
		"yields_discarded", yieldDropped,
		"keys", keys,
		"duration", elapsed,
	)

	p.publish(ctx, idx)
	return nil
}

func (p *Pipeline) recordRows(dataset string, read, dropped int) {
	p.metrics.RowsRead.WithLabelValues(dataset).Add(float64(read))
	p.metrics.RowsDiscarded.WithLabelValues(dataset).Add(float64(dropped))
	if dropped > 0 {
		p.logger.Debug("rows discarded during normalization", "dataset", dataset, "discarded", dropped, "read", read)
	}
}

// publish hands snapshots to the publisher. Failures are logged only.
func (p *Pipeline) publish(ctx context.Context, idx *index.Index) {
	if p.publisher == nil {
		return
	}
	snapshots := query.Snapshots(idx)
	if err := p.publisher.PublishSnapshots(ctx, snapshots); err != nil {
		p.metrics.IngestErrors.WithLabelValues(stagePublish).Inc()
		p.logger.Warn("publish snapshots failed", "error", err, "snapshots", len(snapshots))
		return
	}
	p.metrics.SnapshotsPublished.Add(float64(len(snapshots)))
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func (p *Pipeline) sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := p.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
