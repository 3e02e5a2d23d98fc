package domain

import "maps"

// Attribute names recognised across sources. The vocabulary is open;
// these are the ones the dashboards summarise by default.
const (
	AttributeCovenant     = "covenant"
	AttributeSpecialty    = "specialty"
	AttributePractitioner = "practitioner"
)

var DefaultAttributes = []string{AttributeCovenant, AttributeSpecialty, AttributePractitioner}

// Metric names one of the three source series.
type Metric string

const (
	MetricRevenue    Metric = "revenue"
	MetricDirectCost Metric = "direct_cost"
	MetricFixedCost  Metric = "fixed_cost"
)

var Metrics = []Metric{MetricRevenue, MetricDirectCost, MetricFixedCost}

type SourceRow struct {
	Key        PeriodKey
	Value      float64
	Attributes map[string]string
}

// Datasets is what a loader hands to the engine.
type Datasets struct {
	Revenue    []SourceRow
	DirectCost []SourceRow
	FixedCost  []SourceRow
}

func (d Datasets) Rows(m Metric) []SourceRow {
	switch m {
	case MetricRevenue:
		return d.Revenue
	case MetricDirectCost:
		return d.DirectCost
	case MetricFixedCost:
		return d.FixedCost
	}
	return nil
}

func (d Datasets) Empty() bool {
	return len(d.Revenue) == 0 && len(d.DirectCost) == 0 && len(d.FixedCost) == 0
}

type ReconciledRow struct {
	Key        PeriodKey
	Revenue    float64
	DirectCost float64
	FixedCost  float64
	Attributes map[string]string
}

type ReconciledTable []ReconciledRow

type DerivedRow struct {
	ReconciledRow
	GrossProfit    float64
	GrossMarginPct Ratio
	NetProfit      float64
	NetMarginPct   Ratio
}

// Attribute returns the attribute value and whether it is present and non-empty.
func (r DerivedRow) Attribute(name string) (string, bool) {
	v, ok := r.Attributes[name]
	return v, ok && v != ""
}

type DerivedTable []DerivedRow

// Clone copies rows and their attribute maps.
func (t DerivedTable) Clone() DerivedTable {
	if t == nil {
		return nil
	}
	out := make(DerivedTable, len(t))
	for i, row := range t {
		out[i] = row
		out[i].Attributes = maps.Clone(row.Attributes)
	}
	return out
}
