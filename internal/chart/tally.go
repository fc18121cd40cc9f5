// Package chart builds the hour-by-junction volume tally and renders it as
// a grouped bar chart through a draw-command interface, so the layout and
// scaling logic stays testable without a display surface.
package chart

import (
	"strconv"
	"strings"

	"github.com/junctionworks/traffic-survey-service/internal/domain"
)

// HourCounts holds the per-junction counts for one hour, in draw order.
type HourCounts struct {
	Elm    int
	Hanley int
}

// Tally is the 24-hour, two-junction histogram behind the chart. All 24
// hours are always present, pre-initialized to zero, so an hour with no
// traffic still draws a zero-height bar.
//
// The tally is built from raw rows, independent of the aggregator: it
// re-derives the hour with an integer cast and keeps its own counts, so
// the chart's zero-count handling never leans on the report's peak-hour
// logic.
type Tally struct {
	Hours [24]HourCounts
}

// Add folds one raw row into the tally. Rows whose leading timestamp
// segment is not an integer hour in 0..23 are skipped for the tally only;
// they may still be valid for aggregation and vice versa.
func (t *Tally) Add(row domain.RawRow) {
	hourText, _, _ := strings.Cut(row["timeOfDay"], ":")
	hour, err := strconv.Atoi(strings.TrimSpace(hourText))
	if err != nil || hour < 0 || hour > 23 {
		return
	}

	switch strings.TrimSpace(row["JunctionName"]) {
	case domain.JunctionElm:
		t.Hours[hour].Elm++
	case domain.JunctionHanley:
		t.Hours[hour].Hanley++
	}
}

// Build runs Add over a full row slice.
func Build(rows []domain.RawRow) Tally {
	var t Tally
	for _, row := range rows {
		t.Add(row)
	}
	return t
}

// Max returns the largest single cell value across the tally, 0 for an
// empty dataset.
func (t *Tally) Max() int {
	max := 0
	for _, h := range t.Hours {
		if h.Elm > max {
			max = h.Elm
		}
		if h.Hanley > max {
			max = h.Hanley
		}
	}
	return max
}
