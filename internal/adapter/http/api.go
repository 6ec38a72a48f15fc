package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/impact-yield-explorer/internal/domain"
	"github.com/couchcryptid/impact-yield-explorer/internal/index"
	"github.com/couchcryptid/impact-yield-explorer/internal/query"
)

const boundsTimeout = 5 * time.Second

// Reloader rebuilds the index on demand.
type Reloader interface {
	Ingest(ctx context.Context) error
}

// API serves query results from the current index. Every handler reads the
// store once so a request never mixes two builds.
type API struct {
	store       *index.Store
	reloader    Reloader
	bounds      domain.BoundsLookup
	defaultYear int
	logger      *slog.Logger
}

// NewAPI creates the query handlers. bounds may be nil, in which case
// /api/bounds always answers 404.
func NewAPI(store *index.Store, reloader Reloader, bounds domain.BoundsLookup, defaultYear int, logger *slog.Logger) *API {
	return &API{
		store:       store,
		reloader:    reloader,
		bounds:      bounds,
		defaultYear: defaultYear,
		logger:      logger,
	}
}

type keysResponse struct {
	Keys       []string  `json:"keys"`
	Categories []string  `json:"categories"`
	BuiltAt    time.Time `json:"built_at"`
}

type markersResponse struct {
	Year    int            `json:"year"`
	Markers []query.Marker `json:"markers"`
}

type boundsResponse struct {
	Country string        `json:"country"`
	Bounds  domain.Bounds `json:"bounds"`
}

func (a *API) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/keys", a.handleKeys)
	mux.HandleFunc("GET /api/series", a.handleSeries)
	mux.HandleFunc("GET /api/correlation", a.handleCorrelation)
	mux.HandleFunc("GET /api/stats", a.handleStats)
	mux.HandleFunc("GET /api/view", a.handleView)
	mux.HandleFunc("GET /api/markers", a.handleMarkers)
	mux.HandleFunc("GET /api/bounds", a.handleBounds)
	mux.HandleFunc("POST /api/reload", a.handleReload)
}

func (a *API) handleKeys(w http.ResponseWriter, _ *http.Request) {
	idx := a.store.Current()
	writeJSON(w, http.StatusOK, keysResponse{
		Keys:       idx.Keys(),
		Categories: idx.AllKeys(),
		BuiltAt:    idx.BuiltAt(),
	})
}

func (a *API) handleSeries(w http.ResponseWriter, r *http.Request) {
	year, err := a.year(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, query.WindowedSeries(a.store.Current(), key(r), year))
}

func (a *API) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, query.CorrelationPoints(a.store.Current(), key(r)))
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, query.SummaryStats(a.store.Current(), key(r)))
}

func (a *API) handleView(w http.ResponseWriter, r *http.Request) {
	year, err := a.year(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, query.BuildView(a.store.Current(), key(r), year))
}

func (a *API) handleMarkers(w http.ResponseWriter, r *http.Request) {
	year, err := a.year(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, markersResponse{
		Year:    year,
		Markers: query.MapMarkers(a.store.Current(), year),
	})
}

func (a *API) handleBounds(w http.ResponseWriter, r *http.Request) {
	country := strings.TrimSpace(r.URL.Query().Get("country"))
	if country == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("country is required"))
		return
	}
	if a.bounds == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("bounds lookup is disabled"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), boundsTimeout)
	defer cancel()

	b, found, err := a.bounds.CountryBounds(ctx, country)
	if err != nil {
		a.logger.Warn("bounds lookup failed", "country", country, "error", err)
		writeError(w, http.StatusBadGateway, fmt.Errorf("bounds lookup failed"))
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, fmt.Errorf("no bounds for %q", country))
		return
	}
	writeJSON(w, http.StatusOK, boundsResponse{Country: country, Bounds: b})
}

func (a *API) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := a.reloader.Ingest(r.Context()); err != nil {
		a.logger.Error("reload failed, keeping previous index", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	idx := a.store.Current()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "reloaded",
		"keys":     len(idx.AllKeys()),
		"built_at": idx.BuiltAt(),
	})
}

// year parses the year query parameter, falling back to the default year.
func (a *API) year(r *http.Request) (int, error) {
	s := strings.TrimSpace(r.URL.Query().Get("year"))
	if s == "" {
		return a.defaultYear, nil
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	if !domain.ValidYear(y) {
		return 0, fmt.Errorf("year %d out of range [%d, %d]", y, domain.MinYear, domain.MaxYear)
	}
	return y, nil
}

func key(r *http.Request) string {
	return r.URL.Query().Get("key")
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeJSON encodes v before writing the header so an encoding failure
// becomes a 500 instead of a truncated 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		buf.Reset()
		status = http.StatusInternalServerError
		json.NewEncoder(&buf).Encode(map[string]string{"error": "encode response: " + err.Error()}) //nolint:errcheck // plain string map
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes()) //nolint:errcheck // client may have gone away
}
