package domain

// UnknownCategory is the grouping key for impact rows with no classification.
const UnknownCategory = "Unknown"

// Years outside [MinYear, MaxYear] are rejected at every input boundary.
const (
	MinYear = -1_000_000
	MaxYear = 1_000_000
)

// ValidYear reports whether year lies within [MinYear, MaxYear].
func ValidYear(year int) bool {
	return year >= MinYear && year <= MaxYear
}

// RawRow is one parsed CSV row: column name to raw field text.
type RawRow map[string]string

// ImpactEvent is a single normalized impact observation.
type ImpactEvent struct {
	Category string  `json:"category"`
	Year     int     `json:"year"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Label    string  `json:"label,omitempty"`
}

// YieldRecord is a single normalized country-year yield observation.
// Value is 0 when the source row carried no usable measurement.
type YieldRecord struct {
	Country string  `json:"country"`
	Year    int     `json:"year"`
	Value   float64 `json:"value"`
}

// ImpactColumns names the impact dataset columns read by NormalizeImpact.
type ImpactColumns struct {
	Category string `yaml:"category"`
	Lat      string `yaml:"lat"`
	Lon      string `yaml:"lon"`
	Date     string `yaml:"date"`
	Label    string `yaml:"label"`
}

// YieldColumns names the yield dataset columns read by NormalizeYield.
type YieldColumns struct {
	Country string `yaml:"country"`
	Year    string `yaml:"year"`
	Value   string `yaml:"value"`
}

// DefaultImpactColumns matches the NASA meteorite landings export.
func DefaultImpactColumns() ImpactColumns {
	return ImpactColumns{
		Category: "recclass",
		Lat:      "reclat",
		Lon:      "reclong",
		Date:     "year",
		Label:    "name",
	}
}

// DefaultYieldColumns matches the Our World in Data wheat yield export.
func DefaultYieldColumns() YieldColumns {
	return YieldColumns{
		Country: "Entity",
		Year:    "Year",
		Value:   "Wheat yield",
	}
}
