package adapters

import (
	"maps"

	"github.com/de-tools/profit-atlas/pkg/models/api"
	"github.com/de-tools/profit-atlas/pkg/models/domain"
)

func MapReportDomainToApi(report *domain.Report) api.Report {
	rows := make([]api.Row, 0, len(report.Rows))
	for _, r := range report.Rows {
		rows = append(rows, MapRowDomainToApi(r))
	}

	years := report.Years
	if years == nil {
		years = []int{}
	}

	return api.Report{
		Title:       report.Title,
		GeneratedAt: report.GeneratedAt,
		Year:        report.Year,
		Years:       years,
		Summary:     MapSummaryDomainToApi(report.Summary),
		Rows:        rows,
	}
}

func MapRowDomainToApi(r domain.DerivedRow) api.Row {
	var attrs map[string]string
	if len(r.Attributes) > 0 {
		attrs = maps.Clone(r.Attributes)
	}
	return api.Row{
		Year:           r.Key.Year,
		Month:          r.Key.Month,
		Revenue:        r.Revenue,
		DirectCost:     r.DirectCost,
		FixedCost:      r.FixedCost,
		GrossProfit:    r.GrossProfit,
		GrossMarginPct: r.GrossMarginPct.Ptr(),
		NetProfit:      r.NetProfit,
		NetMarginPct:   r.NetMarginPct.Ptr(),
		Attributes:     attrs,
	}
}

// MapSummaryDomainToApi keeps row_count plus every requested field.
func MapSummaryDomainToApi(s domain.Summary) map[string]interface{} {
	out := map[string]interface{}{
		"row_count": s.RowCount,
	}
	for _, field := range s.Fields {
		switch field {
		case domain.FieldTotalRevenue:
			out[string(field)] = s.TotalRevenue
		case domain.FieldTotalGrossProfit:
			out[string(field)] = s.TotalGrossProfit
		case domain.FieldMeanGrossMargin:
			out[string(field)] = s.MeanGrossMargin.Ptr()
		case domain.FieldMeanNetMargin:
			out[string(field)] = s.MeanNetMargin.Ptr()
		case domain.FieldMeanTicket:
			out[string(field)] = s.MeanTicket.Ptr()
		case domain.FieldTopCategories:
			leaders := make(map[string]api.CategoryLeader, len(s.TopCategories))
			for _, l := range s.TopCategories {
				leaders[l.Attribute] = MapCategoryLeaderDomainToApi(l)
			}
			out[string(field)] = leaders
		}
	}
	return out
}

func MapCategoryLeaderDomainToApi(l domain.CategoryLeader) api.CategoryLeader {
	if !l.Available {
		return api.CategoryLeader{}
	}
	value, revenue := l.Value, l.Revenue
	return api.CategoryLeader{Value: &value, Revenue: &revenue, Available: true}
}

func MapSeriesDomainToApi(field string, year *int, points []domain.SeriesPoint) api.Series {
	out := api.Series{Field: field, Year: year, Points: make([]api.SeriesPoint, 0, len(points))}
	for _, p := range points {
		out.Points = append(out.Points, api.SeriesPoint{
			Year:  p.Key.Year,
			Month: p.Key.Month,
			Value: p.Value.Ptr(),
		})
	}
	return out
}
