// Package csvsource reads header CSV datasets from disk or over HTTP.
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/impact-yield-explorer/internal/domain"
)

// Source implements pipeline.RowSource for one CSV dataset.
type Source struct {
	location   string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Source for a local path or an http(s) URL.
func New(location string, timeout time.Duration, logger *slog.Logger) *Source {
	return &Source{
		location:   location,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Location returns the configured path or URL.
func (s *Source) Location() string {
	return s.location
}

// ReadRows reads every data row keyed by the trimmed header names.
func (s *Source) ReadRows(ctx context.Context) ([]domain.RawRow, error) {
	body, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	rows, err := Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.location, err)
	}
	s.logger.Debug("csv source read", "location", s.location, "rows", len(rows))
	return rows, nil
}

func (s *Source) open(ctx context.Context) (io.ReadCloser, error) {
	if !isURL(s.location) {
		f, err := os.Open(s.location)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", s.location, err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.location, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: status %d", s.location, resp.StatusCode)
	}
	return resp.Body, nil
}

// Parse reads a header CSV into rows. Short rows get empty strings for the
// missing columns; extra fields beyond the header are ignored.
func Parse(r io.Reader) ([]domain.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []domain.RawRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if isBlank(record) {
			continue
		}
		row := make(domain.RawRow, len(header))
		for i, h := range header {
			if i < len(record) {
				row[h] = record[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
