package profitability

import (
	"fmt"

	"github.com/de-tools/profit-atlas/pkg/models/domain"
)

// SeriesField names a per-period column that can be charted.
type SeriesField string

const (
	SeriesRevenue        SeriesField = "revenue"
	SeriesDirectCost     SeriesField = "direct_cost"
	SeriesFixedCost      SeriesField = "fixed_cost"
	SeriesGrossProfit    SeriesField = "gross_profit"
	SeriesGrossMarginPct SeriesField = "gross_margin_pct"
	SeriesNetProfit      SeriesField = "net_profit"
	SeriesNetMarginPct   SeriesField = "net_margin_pct"
)

// Series extracts one column as (period, value) points in table order.
func Series(table domain.DerivedTable, field SeriesField) ([]domain.SeriesPoint, error) {
	pick, err := seriesValue(field)
	if err != nil {
		return nil, err
	}

	points := make([]domain.SeriesPoint, 0, len(table))
	for _, row := range table {
		points = append(points, domain.SeriesPoint{Key: row.Key, Value: pick(row)})
	}
	return points, nil
}

func seriesValue(field SeriesField) (func(domain.DerivedRow) domain.Ratio, error) {
	switch field {
	case SeriesRevenue:
		return func(r domain.DerivedRow) domain.Ratio { return domain.DefinedRatio(r.Revenue) }, nil
	case SeriesDirectCost:
		return func(r domain.DerivedRow) domain.Ratio { return domain.DefinedRatio(r.DirectCost) }, nil
	case SeriesFixedCost:
		return func(r domain.DerivedRow) domain.Ratio { return domain.DefinedRatio(r.FixedCost) }, nil
	case SeriesGrossProfit:
		return func(r domain.DerivedRow) domain.Ratio { return domain.DefinedRatio(r.GrossProfit) }, nil
	case SeriesGrossMarginPct:
		return func(r domain.DerivedRow) domain.Ratio { return r.GrossMarginPct }, nil
	case SeriesNetProfit:
		return func(r domain.DerivedRow) domain.Ratio { return domain.DefinedRatio(r.NetProfit) }, nil
	case SeriesNetMarginPct:
		return func(r domain.DerivedRow) domain.Ratio { return r.NetMarginPct }, nil
	}
	return nil, fmt.Errorf("unsupported series field %q", field)
}
