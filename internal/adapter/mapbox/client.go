package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/impact-yield-explorer/internal/domain"
	"github.com/couchcryptid/impact-yield-explorer/internal/observability"
)

// Client implements domain.BoundsLookup using the Mapbox Geocoding API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox country bounds client.
func NewClient(token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.mapbox.com/geocoding/v5/mapbox.places",
		metrics: metrics,
		logger:  logger,
	}
}

// CountryBounds forward-geocodes a country name and returns its bounding box.
// found is false when Mapbox has no country feature with a bbox for the name.
func (c *Client) CountryBounds(ctx context.Context, country string) (domain.Bounds, bool, error) {
	country = strings.TrimSpace(country)
	if country == "" {
		return domain.Bounds{}, false, nil
	}

	u := fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(country))
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
		"types":        {"country"},
	}

	bounds, found, err := c.doRequest(ctx, u+"?"+params.Encode())
	switch {
	case err != nil:
		c.metrics.BoundsLookups.WithLabelValues("error").Inc()
		c.logger.Warn("country bounds lookup failed", "country", country, "error", err)
	case found:
		c.metrics.BoundsLookups.WithLabelValues("found").Inc()
	default:
		c.metrics.BoundsLookups.WithLabelValues("missing").Inc()
	}
	return bounds, found, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.Bounds, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.Bounds{}, false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Bounds{}, false, fmt.Errorf("country geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.Bounds{}, false, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var mapboxResp response
	if err := json.NewDecoder(resp.Body).Decode(&mapboxResp); err != nil {
		return domain.Bounds{}, false, fmt.Errorf("decode response: %w", err)
	}

	if len(mapboxResp.Features) == 0 || len(mapboxResp.Features[0].BBox) != 4 {
		return domain.Bounds{}, false, nil
	}

	// bbox is [minLon, minLat, maxLon, maxLat].
	b := mapboxResp.Features[0].BBox
	return domain.Bounds{West: b[0], South: b[1], East: b[2], North: b[3]}, true, nil
}

// Mapbox API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	BBox      []float64 `json:"bbox"`
	Center    []float64 `json:"center"` // [lon, lat]
	PlaceName string    `json:"place_name"`
	Text      string    `json:"text"`
}
