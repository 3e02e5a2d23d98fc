package domain

import "time"

// Report is what the presentation collaborators render.
type Report struct {
	Title       string
	GeneratedAt time.Time
	Year        *int
	Years       []int
	Summary     Summary
	Rows        DerivedTable
}

// SeriesPoint is one period of a chart series.
type SeriesPoint struct {
	Key   PeriodKey
	Value Ratio
}
