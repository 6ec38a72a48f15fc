// Command genmock reads the impact and yield CSVs and writes the per-key
// snapshot fixture that downstream consumers of the snapshot topic test
// against. It runs one pipeline ingestion under the service configuration
// (sources and COLUMNS_FILE) so the fixture matches what the service publishes.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -impacts data/meteorite-landings.csv \
//	  -yields data/wheat-yield.csv \
//	  -out data/mock/snapshots.json
//
// -impacts and -yields default to IMPACT_SOURCE and YIELD_SOURCE.
// With -check the fixture is regenerated in memory and compared against -out.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/impact-yield-explorer/internal/adapter/csvsource"
	"github.com/couchcryptid/impact-yield-explorer/internal/config"
	"github.com/couchcryptid/impact-yield-explorer/internal/index"
	"github.com/couchcryptid/impact-yield-explorer/internal/observability"
	"github.com/couchcryptid/impact-yield-explorer/internal/pipeline"
	"github.com/couchcryptid/impact-yield-explorer/internal/query"
)

// buildTime stamps every fixture so regenerating it is reproducible.
var buildTime = time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	impacts := flag.String("impacts", "", "impact CSV path or URL (default: IMPACT_SOURCE)")
	yields := flag.String("yields", "", "yield CSV path or URL (default: YIELD_SOURCE)")
	out := flag.String("out", "", "output path for the snapshot fixture")
	check := flag.Bool("check", false, "compare against -out instead of writing it")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *impacts != "" {
		cfg.ImpactSource = *impacts
	}
	if *yields != "" {
		cfg.YieldSource = *yields
	}

	snapshots, err := generate(context.Background(), cfg)
	if err != nil {
		return err
	}
	log.Printf("generated %d snapshots", len(snapshots))

	if *check {
		return compare(*out, snapshots)
	}
	return writeJSON(*out, snapshots)
}

// generate ingests both datasets once with a frozen build clock and digests
// every key of the resulting index.
func generate(ctx context.Context, cfg *config.Config) ([]query.KeySnapshot, error) {
	logger := observability.NewLoggerTo(io.Discard, cfg)
	metrics := observability.NewUnregisteredMetrics()

	index.SetClock(clockwork.NewFakeClockAt(buildTime))
	defer index.SetClock(nil)

	store := index.NewStore()
	p := pipeline.New(
		csvsource.New(cfg.ImpactSource, cfg.SourceTimeout, logger),
		csvsource.New(cfg.YieldSource, cfg.SourceTimeout, logger),
		store, logger, metrics,
		pipeline.WithColumns(cfg.ImpactColumns, cfg.YieldColumns),
	)
	if err := p.Ingest(ctx); err != nil {
		return nil, err
	}
	log.Printf("indexed %d impacts and %d yield rows", store.Current().ImpactTotal(), store.Current().YieldTotal())

	return query.Snapshots(store.Current()), nil
}

func compare(path string, want []query.KeySnapshot) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixture: %w", err)
	}
	var got []query.KeySnapshot
	if err := json.Unmarshal(data, &got); err != nil {
		return fmt.Errorf("decode fixture: %w", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		return fmt.Errorf("fixture %s is stale (-generated +fixture):\n%s", path, diff)
	}
	log.Printf("%s is up to date", path)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	log.Printf("wrote %s", path)
	return nil
}
