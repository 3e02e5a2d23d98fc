package profitability

import (
	"maps"

	"github.com/de-tools/profit-atlas/pkg/models/domain"
)

// Derive computes profit and margin fields for every reconciled row.
// Margins over zero revenue are undefined.
func Derive(table domain.ReconciledTable) domain.DerivedTable {
	out := make(domain.DerivedTable, 0, len(table))
	for _, row := range table {
		row.Attributes = maps.Clone(row.Attributes)

		gross := row.Revenue - row.DirectCost
		net := gross - row.FixedCost
		out = append(out, domain.DerivedRow{
			ReconciledRow:  row,
			GrossProfit:    gross,
			GrossMarginPct: domain.Divide(gross, row.Revenue, 100),
			NetProfit:      net,
			NetMarginPct:   domain.Divide(net, row.Revenue, 100),
		})
	}
	return out
}
