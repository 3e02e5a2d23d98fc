package profitability

import (
	"slices"

	"github.com/de-tools/profit-atlas/pkg/models/domain"
)

// FilterByYear returns a copy of the rows of the given year. A nil year keeps
// every row; a year with no rows yields an empty table.
func FilterByYear(table domain.DerivedTable, year *int) domain.DerivedTable {
	if year == nil {
		return table.Clone()
	}

	out := domain.DerivedTable{}
	for _, row := range table {
		if row.Key.Year == *year {
			out = append(out, row)
		}
	}
	return out.Clone()
}

// Years lists the distinct years of the table, most recent first.
func Years(table domain.DerivedTable) []int {
	var years []int
	for _, row := range table {
		if !slices.Contains(years, row.Key.Year) {
			years = append(years, row.Key.Year)
		}
	}
	slices.Sort(years)
	slices.Reverse(years)
	return years
}

// LatestYear is the default selection for callers: the most recent year, or
// nil when the table is empty.
func LatestYear(table domain.DerivedTable) *int {
	years := Years(table)
	if len(years) == 0 {
		return nil
	}
	return &years[0]
}
