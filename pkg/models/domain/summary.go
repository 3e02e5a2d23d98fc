package domain

// SummaryField selects one roll-up computed by the summarizer.
type SummaryField string

const (
	FieldTotalRevenue     SummaryField = "total_revenue"
	FieldTotalGrossProfit SummaryField = "total_gross_profit"
	FieldMeanGrossMargin  SummaryField = "mean_gross_margin"
	FieldMeanNetMargin    SummaryField = "mean_net_margin"
	FieldMeanTicket       SummaryField = "mean_ticket"
	FieldTopCategories    SummaryField = "top_categories"
)

var AllSummaryFields = []SummaryField{
	FieldTotalRevenue,
	FieldTotalGrossProfit,
	FieldMeanGrossMargin,
	FieldMeanNetMargin,
	FieldMeanTicket,
	FieldTopCategories,
}

// CategoryLeader is the top value of one attribute ranked by summed revenue.
// Available is false when no row carries the attribute.
type CategoryLeader struct {
	Attribute string
	Value     string
	Revenue   float64
	Available bool
}

// Summary is a read-only snapshot over a derived table. Fields not listed in
// Fields were not requested and hold their zero value.
type Summary struct {
	Fields           []SummaryField
	RowCount         int
	TotalRevenue     float64
	TotalGrossProfit float64
	MeanGrossMargin  Ratio
	MeanNetMargin    Ratio
	MeanTicket       Ratio
	TopCategories    []CategoryLeader
}

func (s Summary) Has(field SummaryField) bool {
	for _, f := range s.Fields {
		if f == field {
			return true
		}
	}
	return false
}
