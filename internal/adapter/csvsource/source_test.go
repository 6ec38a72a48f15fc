package csvsource

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/impact-yield-explorer/internal/domain"
)

const meteoriteCSV = `name,id,nametype,recclass,mass (g),fall,year,reclat,reclong,GeoLocation
Aachen,1,Valid,L5,21,Fell,01/01/1880 12:00:00 AM,50.775000,6.083330,"(50.775, 6.08333)"
Aarhus,2,Valid,H6,720,Fell,01/01/1951 12:00:00 AM,56.183330,10.233330,"(56.18333, 10.23333)"
Abee,6,Valid,EH4,107000,Fell,,,,
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParse_MeteoriteExport(t *testing.T) {
	rows, err := Parse(strings.NewReader(meteoriteCSV))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Aachen", rows[0]["name"])
	assert.Equal(t, "L5", rows[0]["recclass"])
	assert.Equal(t, "01/01/1880 12:00:00 AM", rows[0]["year"])
	assert.Equal(t, "50.775000", rows[0]["reclat"])
	assert.Equal(t, "(50.775, 6.08333)", rows[0]["GeoLocation"])
	assert.Equal(t, "", rows[2]["reclat"])

	event, ok := domain.NormalizeImpact(rows[1], domain.DefaultImpactColumns())
	require.True(t, ok)
	assert.Equal(t, 1951, event.Year)
	_, ok = domain.NormalizeImpact(rows[2], domain.DefaultImpactColumns())
	assert.False(t, ok)
}

func TestParse_ShortRowsAndBlankLines(t *testing.T) {
	data := "\ufeffEntity , Year,Wheat yield\nFrance,1990,6.6\n\n,,\nSpain,1991\n"
	rows, err := Parse(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, domain.RawRow{"Entity": "France", "Year": "1990", "Wheat yield": "6.6"}, rows[0])
	assert.Equal(t, domain.RawRow{"Entity": "Spain", "Year": "1991", "Wheat yield": ""}, rows[1])
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header")
}

func TestParse_HeaderOnly(t *testing.T) {
	rows, err := Parse(strings.NewReader("Entity,Year,Wheat yield\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSource_ReadRowsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wheat-yield.csv")
	require.NoError(t, os.WriteFile(path, []byte("Entity,Year,Wheat yield\nFrance,1990,6.6\n"), 0o600))

	src := New(path, time.Second, discardLogger())
	rows, err := src.ReadRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "France", rows[0]["Entity"])
	assert.Equal(t, path, src.Location())
}

func TestSource_MissingFile(t *testing.T) {
	src := New(filepath.Join(t.TempDir(), "missing.csv"), time.Second, discardLogger())
	_, err := src.ReadRows(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open")
}

func TestSource_ReadRowsFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/meteorite-landings.csv", r.URL.Path)
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(meteoriteCSV))
	}))
	defer srv.Close()

	src := New(srv.URL+"/meteorite-landings.csv", time.Second, discardLogger())
	rows, err := src.ReadRows(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestSource_URLErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	src := New(srv.URL+"/gone.csv", time.Second, discardLogger())
	_, err := src.ReadRows(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestSource_URLTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	src := New(srv.URL, 50*time.Millisecond, discardLogger())
	_, err := src.ReadRows(context.Background())
	require.Error(t, err)
}
