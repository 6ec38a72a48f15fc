package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/couchcryptid/impact-yield-explorer/internal/query"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardStyle  = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

func renderView(w io.Writer, v query.View) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s, %d-%d", v.Key, v.Year-(query.WindowSize-1), v.Year)))

	series := make([][]string, len(v.Series))
	for i, p := range v.Series {
		series[i] = []string{strconv.Itoa(p.Year), formatYield(p.Yield), strconv.Itoa(p.Impacts)}
	}
	fmt.Fprintln(w, newTable("YEAR", "YIELD", "IMPACTS").Rows(series...).String())

	fmt.Fprintln(w, titleStyle.Render("Yield vs impacts"))
	if len(v.Correlation) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("no yield data"))
	} else {
		points := make([][]string, len(v.Correlation))
		for i, p := range v.Correlation {
			points[i] = []string{strconv.Itoa(p.Year), formatYield(p.Yield), strconv.Itoa(p.Impacts)}
		}
		fmt.Fprintln(w, newTable("YEAR", "YIELD", "IMPACTS").Rows(points...).String())
	}

	fmt.Fprintln(w, renderSummary(v.Summary))
}

func renderSummary(s query.Summary) string {
	body := fmt.Sprintf("%s\n%s\n%s",
		titleStyle.Render("Summary"),
		formatStats("Yield", s.Yield),
		formatStats("Impacts", s.Impacts),
	)
	return cardStyle.Render(body)
}

// formatStats prints min and max as-is and the average to two decimals.
func formatStats(label string, st query.Stats) string {
	return fmt.Sprintf("%-8s min %s  max %s  avg %.2f",
		label,
		strconv.FormatFloat(st.Min, 'f', -1, 64),
		strconv.FormatFloat(st.Max, 'f', -1, 64),
		st.Avg,
	)
}

func renderKeys(w io.Writer, keys []string) {
	for _, k := range keys {
		fmt.Fprintln(w, k)
	}
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d keys", len(keys))))
}

func renderMarkers(w io.Writer, year int, markers []query.Marker) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Impacts in %d", year)))
	if len(markers) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("none"))
		return
	}
	rows := make([][]string, len(markers))
	for i, m := range markers {
		rows[i] = []string{
			m.Label,
			m.Category,
			strconv.FormatFloat(m.Lat, 'f', 4, 64),
			strconv.FormatFloat(m.Lon, 'f', 4, 64),
		}
	}
	fmt.Fprintln(w, newTable("NAME", "CATEGORY", "LAT", "LON").Rows(rows...).String())
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...)
}

func formatYield(v float64) string {
	if v == 0 {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
