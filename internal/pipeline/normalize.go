package pipeline

import "github.com/couchcryptid/impact-yield-explorer/internal/domain"

// normalizeImpacts keeps the rows that normalize and counts the rest.
func normalizeImpacts(rows []domain.RawRow, cols domain.ImpactColumns) ([]domain.ImpactEvent, int) {
	events := make([]domain.ImpactEvent, 0, len(rows))
	for _, row := range rows {
		if e, ok := domain.NormalizeImpact(row, cols); ok {
			events = append(events, e)
		}
	}
	return events, len(rows) - len(events)
}

// normalizeYields keeps the rows that normalize and counts the rest.
func normalizeYields(rows []domain.RawRow, cols domain.YieldColumns) ([]domain.YieldRecord, int) {
	records := make([]domain.YieldRecord, 0, len(rows))
	for _, row := range rows {
		if r, ok := domain.NormalizeYield(row, cols); ok {
			records = append(records, r)
		}
	}
	return records, len(rows) - len(records)
}
