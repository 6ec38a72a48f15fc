// Package index builds the (key, year) aggregates that every query reads.
//
// An Index is built in one pass from already-normalized records and is never
// mutated afterwards. Re-ingestion builds a fresh Index and swaps it into a
// Store; readers holding the old one keep a consistent view.
package index

import (
	"slices"
	"sort"
	"time"

	"github.com/couchcryptid/impact-yield-explorer/internal/domain"
)

// Index holds impact counts and yield values keyed by grouping key and year.
// All accessors are safe on a nil *Index and return zero values.
type Index struct {
	impactCounts  map[string]map[int]int
	yields        map[string]map[int]float64
	impactsByYear map[int][]domain.ImpactEvent
	keys          []string
	impactTotal   int
	yieldTotal    int
	builtAt       time.Time
}

// Build indexes impacts by [category][year] count and yields by
// [country][year] value. For duplicate yield rows the last one wins.
func Build(impacts []domain.ImpactEvent, yields []domain.YieldRecord) *Index {
	idx := &Index{
		impactCounts:  make(map[string]map[int]int),
		yields:        make(map[string]map[int]float64),
		impactsByYear: make(map[int][]domain.ImpactEvent),
		impactTotal:   len(impacts),
		yieldTotal:    len(yields),
		builtAt:       clock.Now(),
	}

	for _, e := range impacts {
		byYear, ok := idx.impactCounts[e.Category]
		if !ok {
			byYear = make(map[int]int)
			idx.impactCounts[e.Category] = byYear
		}
		byYear[e.Year]++
		idx.impactsByYear[e.Year] = append(idx.impactsByYear[e.Year], e)
	}

	for _, r := range yields {
		byYear, ok := idx.yields[r.Country]
		if !ok {
			byYear = make(map[int]float64)
			idx.yields[r.Country] = byYear
		}
		byYear[r.Year] = r.Value
	}

	idx.keys = sortedKeys(idx.yields)
	return idx
}

// ImpactCount returns the number of impacts for key in year, or 0.
func (idx *Index) ImpactCount(key string, year int) int {
	if idx == nil {
		return 0
	}
	return idx.impactCounts[key][year]
}

// Yield returns the yield for key in year, or 0.
func (idx *Index) Yield(key string, year int) float64 {
	if idx == nil {
		return 0
	}
	return idx.yields[key][year]
}

// YieldYears returns every year with a yield entry for key, ascending.
func (idx *Index) YieldYears(key string) []int {
	if idx == nil {
		return nil
	}
	return sortedYears(idx.yields[key])
}

// YieldValues returns every yield value recorded for key in year order.
func (idx *Index) YieldValues(key string) []float64 {
	if idx == nil {
		return nil
	}
	byYear := idx.yields[key]
	years := sortedYears(byYear)
	values := make([]float64, len(years))
	for i, y := range years {
		values[i] = byYear[y]
	}
	return values
}

// ImpactCounts returns every per-year impact count recorded for key in year order.
func (idx *Index) ImpactCounts(key string) []int {
	if idx == nil {
		return nil
	}
	byYear := idx.impactCounts[key]
	years := sortedYears(byYear)
	counts := make([]int, len(years))
	for i, y := range years {
		counts[i] = byYear[y]
	}
	return counts
}

// Keys returns the selectable keys: every yield country, sorted.
func (idx *Index) Keys() []string {
	if idx == nil {
		return nil
	}
	return slices.Clone(idx.keys)
}

// AllKeys returns the sorted union of yield countries and impact categories.
func (idx *Index) AllKeys() []string {
	if idx == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(idx.yields)+len(idx.impactCounts))
	for k := range idx.yields {
		seen[k] = struct{}{}
	}
	for k := range idx.impactCounts {
		seen[k] = struct{}{}
	}
	return sortedKeys(seen)
}

// ImpactsInYear returns the impact events that fell in year, in ingestion order.
func (idx *Index) ImpactsInYear(year int) []domain.ImpactEvent {
	if idx == nil {
		return nil
	}
	return slices.Clone(idx.impactsByYear[year])
}

// ImpactTotal is the number of impact events indexed.
func (idx *Index) ImpactTotal() int {
	if idx == nil {
		return 0
	}
	return idx.impactTotal
}

// YieldTotal is the number of yield records consumed, duplicates included.
func (idx *Index) YieldTotal() int {
	if idx == nil {
		return 0
	}
	return idx.yieldTotal
}

// BuiltAt reports when the index was built; zero for a nil index.
func (idx *Index) BuiltAt() time.Time {
	if idx == nil {
		return time.Time{}
	}
	return idx.builtAt
}

func sortedYears[V any](m map[int]V) []int {
	years := make([]int, 0, len(m))
	for y := range m {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
