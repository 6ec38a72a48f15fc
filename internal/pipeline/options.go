package pipeline

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/impact-yield-explorer/internal/domain"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithColumns overrides the source column names.
func WithColumns(impact domain.ImpactColumns, yield domain.YieldColumns) Option {
	return func(p *Pipeline) {
		p.impactCols = impact
		p.yieldCols = yield
	}
}

// WithPublisher publishes per-key snapshots after every build.
func WithPublisher(pub SnapshotPublisher) Option {
	return func(p *Pipeline) {
		p.publisher = pub
	}
}

// WithReloadInterval re-ingests both datasets every d. Zero disables reloads.
func WithReloadInterval(d time.Duration) Option {
	return func(p *Pipeline) {
		p.reloadInterval = d
	}
}

// WithClock replaces the clock used for backoff, reload ticks and durations.
func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) {
		p.clock = c
	}
}
