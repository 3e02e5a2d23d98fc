package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/de-tools/profit-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter_Rows(t *testing.T) {
	var buf bytes.Buffer
	report := &domain.Report{
		Rows: domain.DerivedTable{
			{
				ReconciledRow:  domain.ReconciledRow{Key: domain.PeriodKey{Year: 2024, Month: 2}, Revenue: 200},
				GrossProfit:    200,
				GrossMarginPct: domain.DefinedRatio(100),
				NetProfit:      200,
				NetMarginPct:   domain.DefinedRatio(100),
			},
			{
				ReconciledRow: domain.ReconciledRow{Key: domain.PeriodKey{Year: 2024, Month: 3}, DirectCost: 50},
				GrossProfit:   -50,
				NetProfit:     -50,
			},
		},
	}

	require.NoError(t, NewReporter(&buf, nil).Handle(report))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, lines[0], lines[2])
	assert.Equal(t, lines[0], lines[5])
	assert.Contains(t, lines[1], "| Period  |")
	assert.Contains(t, lines[3], "| 2024-02 |")
	assert.Contains(t, lines[3], "100.00%")
	assert.Contains(t, lines[4], "-50.00")
	assert.Equal(t, 2, strings.Count(lines[4], "n/a"))
}

func TestReporter_NoRowsPrintsNoTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, nil).Handle(&domain.Report{}))
	assert.Empty(t, buf.String())
}
