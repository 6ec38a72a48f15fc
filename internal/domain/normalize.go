package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order when the impact date is not a bare year.
var dateLayouts = []string{
	"01/02/2006 03:04:05 PM",
	"01/02/2006",
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NormalizeImpact converts a raw impact row into an ImpactEvent.
// It reports false when latitude, longitude or date is blank or not numeric;
// such rows are dropped without error.
func NormalizeImpact(row RawRow, cols ImpactColumns) (ImpactEvent, bool) {
	lat, ok := parseFloat(row[cols.Lat])
	if !ok {
		return ImpactEvent{}, false
	}
	lon, ok := parseFloat(row[cols.Lon])
	if !ok {
		return ImpactEvent{}, false
	}
	year, ok := parseYear(row[cols.Date])
	if !ok {
		return ImpactEvent{}, false
	}

	category := strings.TrimSpace(row[cols.Category])
	if category == "" {
		category = UnknownCategory
	}

	return ImpactEvent{
		Category: category,
		Year:     year,
		Lat:      lat,
		Lon:      lon,
		Label:    strings.TrimSpace(row[cols.Label]),
	}, true
}

// NormalizeYield converts a raw yield row into a YieldRecord.
// It reports false when the country is blank or the year cannot be parsed.
// A blank or non-numeric yield value is coerced to 0.
func NormalizeYield(row RawRow, cols YieldColumns) (YieldRecord, bool) {
	country := strings.TrimSpace(row[cols.Country])
	if country == "" {
		return YieldRecord{}, false
	}
	year, ok := parseWholeNumber(row[cols.Year])
	if !ok {
		return YieldRecord{}, false
	}

	return YieldRecord{
		Country: country,
		Year:    year,
		Value:   parseFloatOrZero(row[cols.Value]),
	}, true
}

// parseFloat parses a finite float. NaN and infinities are rejected.
func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	v, _ := parseFloat(s)
	return v
}

// parseWholeNumber accepts "1990" as well as "1990.0". Values outside
// [MinYear, MaxYear] are rejected.
func parseWholeNumber(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		if !ValidYear(n) {
			return 0, false
		}
		return n, true
	}
	v, ok := parseFloat(s)
	if !ok || v != math.Trunc(v) || v < MinYear || v > MaxYear {
		return 0, false
	}
	return int(v), true
}

// parseYear extracts the calendar year from a bare year or a date/time string.
func parseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if year, ok := parseWholeNumber(s); ok {
		return year, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year(), true
		}
	}
	return 0, false
}
