package profitability

import (
	"fmt"
	"slices"

	"github.com/de-tools/profit-atlas/pkg/models/domain"
)

// SummaryOptions selects which roll-ups to compute and which attributes to rank.
type SummaryOptions struct {
	Fields     []domain.SummaryField
	Attributes []string
}

// Presets replace the per-dashboard variants; every preset runs the same summarizer.
var Presets = map[string]SummaryOptions{
	"full": {
		Fields:     domain.AllSummaryFields,
		Attributes: domain.DefaultAttributes,
	},
	"financial": {
		Fields: []domain.SummaryField{
			domain.FieldTotalRevenue,
			domain.FieldTotalGrossProfit,
			domain.FieldMeanGrossMargin,
			domain.FieldMeanNetMargin,
		},
	},
	"compact": {
		Fields: []domain.SummaryField{
			domain.FieldTotalRevenue,
			domain.FieldMeanNetMargin,
			domain.FieldMeanTicket,
		},
	},
}

func DefaultSummaryOptions() SummaryOptions {
	return Presets["full"]
}

// PresetOptions resolves a preset name, optionally overriding its attributes.
func PresetOptions(name string, attributes []string) (SummaryOptions, error) {
	opts, ok := Presets[name]
	if !ok {
		return SummaryOptions{}, fmt.Errorf("unknown summary preset %q", name)
	}
	if len(attributes) > 0 && slices.Contains(opts.Fields, domain.FieldTopCategories) {
		opts.Attributes = attributes
	}
	return opts, nil
}

// Summarize rolls a derived table up into a Summary. Undefined margins are
// left out of the means; a mean with nothing to average is undefined.
func Summarize(table domain.DerivedTable, opts SummaryOptions) domain.Summary {
	s := domain.Summary{
		Fields:   slices.Clone(opts.Fields),
		RowCount: len(table),
	}

	var revenue, gross float64
	var grossMargins, netMargins []float64
	for _, row := range table {
		revenue += row.Revenue
		gross += row.GrossProfit
		if v, ok := row.GrossMarginPct.Float64(); ok {
			grossMargins = append(grossMargins, v)
		}
		if v, ok := row.NetMarginPct.Float64(); ok {
			netMargins = append(netMargins, v)
		}
	}

	for _, field := range opts.Fields {
		switch field {
		case domain.FieldTotalRevenue:
			s.TotalRevenue = revenue
		case domain.FieldTotalGrossProfit:
			s.TotalGrossProfit = gross
		case domain.FieldMeanGrossMargin:
			s.MeanGrossMargin = mean(grossMargins)
		case domain.FieldMeanNetMargin:
			s.MeanNetMargin = mean(netMargins)
		case domain.FieldMeanTicket:
			s.MeanTicket = domain.Divide(revenue, float64(len(table)), 1)
		case domain.FieldTopCategories:
			for _, attr := range opts.Attributes {
				s.TopCategories = append(s.TopCategories, TopCategory(table, attr))
			}
		}
	}
	return s
}

// TopCategory groups rows by the attribute and returns the value with the
// strictly largest revenue sum. Ties go to the group seen first.
func TopCategory(table domain.DerivedTable, attribute string) domain.CategoryLeader {
	leader := domain.CategoryLeader{Attribute: attribute}

	var order []string
	sums := make(map[string]float64)
	for _, row := range table {
		value, ok := row.Attribute(attribute)
		if !ok {
			continue
		}
		if _, seen := sums[value]; !seen {
			order = append(order, value)
		}
		sums[value] += row.Revenue
	}

	for _, value := range order {
		if !leader.Available || sums[value] > leader.Revenue {
			leader.Value = value
			leader.Revenue = sums[value]
			leader.Available = true
		}
	}
	return leader
}

func mean(values []float64) domain.Ratio {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return domain.Divide(sum, float64(len(values)), 1)
}
