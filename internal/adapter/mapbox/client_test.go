package mapbox

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/impact-yield-explorer/internal/domain"
	"github.com/couchcryptid/impact-yield-explorer/internal/observability"
)

const (
	testToken         = "test-token"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		token:      testToken,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_CountryBounds_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "France")
		assert.Equal(t, "country", r.URL.Query().Get("types"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, testToken, r.URL.Query().Get("access_token"))

		resp := response{
			Features: []feature{{
				BBox:      []float64{-5.14, 41.33, 9.56, 51.09},
				Center:    []float64{2.2, 46.2},
				PlaceName: "France",
				Text:      "France",
			}},
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	bounds, found, err := c.CountryBounds(context.Background(), "France")
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, domain.Bounds{South: 41.33, West: -5.14, North: 51.09, East: 9.56}, bounds)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.BoundsLookups.WithLabelValues("found")))
}

func TestClient_CountryBounds_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(response{Features: []feature{}}))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	_, found, err := c.CountryBounds(context.Background(), "L6")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.BoundsLookups.WithLabelValues("missing")))
}

func TestClient_CountryBounds_FeatureWithoutBBox(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(response{Features: []feature{{Text: "Monaco"}}}))
	}))
	defer srv.Close()

	_, found, err := testClient(srv.URL, 5*time.Second).CountryBounds(context.Background(), "Monaco")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClient_CountryBounds_BlankCountrySkipsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, found, err := testClient(srv.URL, 5*time.Second).CountryBounds(context.Background(), "  ")
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, called)
}

func TestClient_CountryBounds_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not Authorized"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	_, _, err := c.CountryBounds(context.Background(), "France")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.BoundsLookups.WithLabelValues("error")))
}

func TestClient_CountryBounds_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, _, err := testClient(srv.URL, 50*time.Millisecond).CountryBounds(context.Background(), "France")
	require.Error(t, err)
}
