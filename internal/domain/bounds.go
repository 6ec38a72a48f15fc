package domain

import "context"

// Bounds is a geographic bounding box in decimal degrees.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// BoundsLookup resolves a country name to its bounding box so a map can zoom
// to the selected key. Lookups are best-effort: found is false when the
// provider has no match, which is expected for impact classifications.
type BoundsLookup interface {
	CountryBounds(ctx context.Context, country string) (bounds Bounds, found bool, err error)
}
