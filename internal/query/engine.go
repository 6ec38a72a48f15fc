// Package query derives the views rendered by the explorer from a built
// index. Every function is a pure read: results are recomputed on each call
// and hold no reference into the index.
package query

import (
	"math"

	"github.com/couchcryptid/impact-yield-explorer/internal/index"
)

// WindowedSeries returns exactly WindowSize points for years endYear-10
// through endYear, ascending. Years with no data are zero-filled.
func WindowedSeries(idx *index.Index, key string, endYear int) []SeriesPoint {
	points := make([]SeriesPoint, 0, WindowSize)
	start := endYear - (WindowSize - 1)
	for i := 0; i < WindowSize; i++ {
		year := start + i
		points = append(points, SeriesPoint{
			Year:    year,
			Yield:   idx.Yield(key, year),
			Impacts: idx.ImpactCount(key, year),
		})
	}
	return points
}

// CorrelationPoints pairs yield with impact count for every yield year of
// key, ascending. Years whose yield is zero are skipped even when impacts
// were recorded.
func CorrelationPoints(idx *index.Index, key string) []CorrelationPoint {
	years := idx.YieldYears(key)
	points := make([]CorrelationPoint, 0, len(years))
	for _, year := range years {
		yield := idx.Yield(key, year)
		if yield == 0 {
			continue
		}
		points = append(points, CorrelationPoint{
			Year:    year,
			Yield:   yield,
			Impacts: idx.ImpactCount(key, year),
		})
	}
	return points
}

// SummaryStats computes min, max and mean of every recorded yield and every
// recorded per-year impact count for key. Empty metrics report all zeros.
func SummaryStats(idx *index.Index, key string) Summary {
	counts := idx.ImpactCounts(key)
	impacts := make([]float64, len(counts))
	for i, c := range counts {
		impacts[i] = float64(c)
	}
	return Summary{
		Key:     key,
		Yield:   computeStats(idx.YieldValues(key)),
		Impacts: computeStats(impacts),
	}
}

// MapMarkers lists the impacts that fell in year for the map layer.
func MapMarkers(idx *index.Index, year int) []Marker {
	events := idx.ImpactsInYear(year)
	markers := make([]Marker, len(events))
	for i, e := range events {
		markers[i] = Marker{
			Lat:      e.Lat,
			Lon:      e.Lon,
			Label:    e.Label,
			Category: e.Category,
			Year:     e.Year,
		}
	}
	return markers
}

// BuildView runs the three key queries for one key and window end year.
func BuildView(idx *index.Index, key string, year int) View {
	return View{
		Key:         key,
		Year:        year,
		Series:      WindowedSeries(idx, key, year),
		Correlation: CorrelationPoints(idx, key),
		Summary:     SummaryStats(idx, key),
	}
}

// Snapshots digests every key known to idx, impact-only keys included.
func Snapshots(idx *index.Index) []KeySnapshot {
	keys := idx.AllKeys()
	out := make([]KeySnapshot, len(keys))
	for i, key := range keys {
		out[i] = KeySnapshot{
			Key:        key,
			YieldYears: len(idx.YieldYears(key)),
			Summary:    SummaryStats(idx, key),
			BuiltAt:    idx.BuiltAt(),
		}
	}
	return out
}

func computeStats(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	s := Stats{Min: values[0], Max: values[0]}
	var sum float64
	for _, v := range values {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		sum += v
	}
	s.Avg = sum / float64(len(values))
	if math.IsInf(s.Avg, 0) {
		s.Avg = scaledMean(values)
	}
	return s
}

// scaledMean sums v/n instead of v. Every partial sum stays within the
// largest magnitude in values, so finite inputs give a finite mean.
func scaledMean(values []float64) float64 {
	n := float64(len(values))
	var avg float64
	for _, v := range values {
		avg += v / n
	}
	return avg
}
