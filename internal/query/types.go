package query

import "time"

// WindowSize is the number of years in a windowed series: endYear-10..endYear.
const WindowSize = 11

// SeriesPoint is one year of the windowed dual series.
type SeriesPoint struct {
	Year    int     `json:"year"`
	Yield   float64 `json:"yield"`
	Impacts int     `json:"impacts"`
}

// CorrelationPoint pairs a non-zero yield with the impact count of the same year.
type CorrelationPoint struct {
	Year    int     `json:"year"`
	Yield   float64 `json:"yield"`
	Impacts int     `json:"impacts"`
}

// Stats is min/max/mean over one metric. All zero when there is no data.
type Stats struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// Summary holds yield and impact statistics for a key across all years.
type Summary struct {
	Key     string `json:"key"`
	Yield   Stats  `json:"yield"`
	Impacts Stats  `json:"impacts"`
}

// Marker is one impact rendered on the map layer.
type Marker struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Label    string  `json:"label"`
	Category string  `json:"category"`
	Year     int     `json:"year"`
}

// View answers a key-selected or year-changed event in one response.
type View struct {
	Key         string             `json:"key"`
	Year        int                `json:"year"`
	Series      []SeriesPoint      `json:"series"`
	Correlation []CorrelationPoint `json:"correlation"`
	Summary     Summary            `json:"summary"`
}

// KeySnapshot is the per-key digest published after each index build.
type KeySnapshot struct {
	Key        string    `json:"key"`
	YieldYears int       `json:"yield_years"`
	Summary    Summary   `json:"summary"`
	BuiltAt    time.Time `json:"built_at"`
}
