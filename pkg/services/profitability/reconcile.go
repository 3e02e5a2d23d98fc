package profitability

import (
	"maps"
	"math"
	"slices"

	"github.com/de-tools/profit-atlas/pkg/models/domain"
)

// Reconcile outer-joins the three sources on their period key.
//
// Every row is validated before anything is merged. Metrics missing for a key
// are zero. Attributes are merged in source order (revenue, direct cost, fixed
// cost) and a later non-empty value replaces an earlier one. A key repeated
// within one source follows the same rule: the later row's metric replaces the
// earlier one. Output is sorted by (year, month).
func Reconcile(revenue, directCost, fixedCost []domain.SourceRow) (domain.ReconciledTable, error) {
	sources := []struct {
		metric domain.Metric
		rows   []domain.SourceRow
	}{
		{domain.MetricRevenue, revenue},
		{domain.MetricDirectCost, directCost},
		{domain.MetricFixedCost, fixedCost},
	}

	for _, src := range sources {
		if err := Validate(src.metric, src.rows); err != nil {
			return nil, err
		}
	}

	merged := make(map[domain.PeriodKey]*domain.ReconciledRow)
	for _, src := range sources {
		for _, row := range src.rows {
			rec, ok := merged[row.Key]
			if !ok {
				rec = &domain.ReconciledRow{Key: row.Key, Attributes: map[string]string{}}
				merged[row.Key] = rec
			}

			switch src.metric {
			case domain.MetricRevenue:
				rec.Revenue = row.Value
			case domain.MetricDirectCost:
				rec.DirectCost = row.Value
			case domain.MetricFixedCost:
				rec.FixedCost = row.Value
			}

			for name, value := range row.Attributes {
				if value != "" {
					rec.Attributes[name] = value
				}
			}
		}
	}

	keys := slices.Collect(maps.Keys(merged))
	slices.SortFunc(keys, comparePeriods)

	table := make(domain.ReconciledTable, 0, len(keys))
	for _, k := range keys {
		table = append(table, *merged[k])
	}
	return table, nil
}

// Validate rejects rows with a malformed period key or a non-finite value.
func Validate(metric domain.Metric, rows []domain.SourceRow) error {
	for i, row := range rows {
		switch {
		case row.Key.Month < 1 || row.Key.Month > 12:
			return &domain.DataValidationError{Source: metric, Row: i, Key: row.Key, Reason: "month must be between 1 and 12"}
		case row.Key.Year <= 0:
			return &domain.DataValidationError{Source: metric, Row: i, Key: row.Key, Reason: "year must be positive"}
		case math.IsNaN(row.Value) || math.IsInf(row.Value, 0):
			return &domain.DataValidationError{Source: metric, Row: i, Key: row.Key, Reason: "value must be a finite number"}
		}
	}
	return nil
}

// DuplicateKeys lists keys that occur more than once in rows, in first-seen order.
func DuplicateKeys(rows []domain.SourceRow) []domain.PeriodKey {
	seen := make(map[domain.PeriodKey]int, len(rows))
	var dups []domain.PeriodKey
	for _, row := range rows {
		seen[row.Key]++
		if seen[row.Key] == 2 {
			dups = append(dups, row.Key)
		}
	}
	return dups
}

func comparePeriods(a, b domain.PeriodKey) int {
	switch {
	case a.Before(b):
		return -1
	case b.Before(a):
		return 1
	}
	return 0
}
