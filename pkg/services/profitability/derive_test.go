package profitability

import (
	"testing"

	"github.com/de-tools/profit-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive_WorkedExample(t *testing.T) {
	reconciled, err := Reconcile(
		[]domain.SourceRow{row(2023, 1, 100000)},
		[]domain.SourceRow{row(2023, 1, 40000)},
		nil,
	)
	require.NoError(t, err)

	derived := Derive(reconciled)
	require.Len(t, derived, 1)

	r := derived[0]
	assert.Equal(t, 60000.0, r.GrossProfit)
	assert.Equal(t, 60000.0, r.NetProfit)

	gm, ok := r.GrossMarginPct.Float64()
	require.True(t, ok)
	assert.InDelta(t, 60.0, gm, 1e-9)

	nm, ok := r.NetMarginPct.Float64()
	require.True(t, ok)
	assert.InDelta(t, 60.0, nm, 1e-9)
}

func TestDerive_ZeroRevenueLeavesMarginsUndefined(t *testing.T) {
	reconciled, err := Reconcile(
		[]domain.SourceRow{row(2023, 1, 0)},
		[]domain.SourceRow{row(2023, 1, 500)},
		nil,
	)
	require.NoError(t, err)

	derived := Derive(reconciled)
	require.Len(t, derived, 1)

	assert.Equal(t, -500.0, derived[0].GrossProfit)
	assert.False(t, derived[0].GrossMarginPct.Defined())
	assert.False(t, derived[0].NetMarginPct.Defined())
	assert.Equal(t, "undefined", derived[0].GrossMarginPct.String())
}

func TestDerive_KeyOnlyInCostSourceHasUndefinedMargins(t *testing.T) {
	reconciled, err := Reconcile(nil, nil, []domain.SourceRow{row(2024, 2, 300)})
	require.NoError(t, err)

	derived := Derive(reconciled)
	require.Len(t, derived, 1)
	assert.Equal(t, -300.0, derived[0].NetProfit)
	assert.False(t, derived[0].NetMarginPct.Defined())
}

func TestDerive_FieldIdentities(t *testing.T) {
	reconciled, err := Reconcile(
		[]domain.SourceRow{row(2022, 1, 50000), row(2022, 2, 65000), row(2022, 3, 0.3)},
		[]domain.SourceRow{row(2022, 1, 25000), row(2022, 2, 29500), row(2022, 3, 0.1)},
		[]domain.SourceRow{row(2022, 1, 10000), row(2022, 2, 10500), row(2022, 3, 0.7)},
	)
	require.NoError(t, err)

	derived := Derive(reconciled)
	require.Len(t, derived, len(reconciled))
	for _, r := range derived {
		assert.InDelta(t, r.Revenue-r.DirectCost, r.GrossProfit, 1e-9)
		assert.InDelta(t, r.GrossProfit-r.FixedCost, r.NetProfit, 1e-9)
		assert.InDelta(t, r.NetProfit/r.Revenue*100, r.NetMarginPct.Or(0), 1e-9)
	}
}

func TestDerive_DoesNotShareAttributeMaps(t *testing.T) {
	reconciled := domain.ReconciledTable{{
		Key:        domain.PeriodKey{Year: 2023, Month: 1},
		Revenue:    1,
		Attributes: map[string]string{domain.AttributeCovenant: "Amil"},
	}}

	derived := Derive(reconciled)
	derived[0].Attributes[domain.AttributeCovenant] = "Unimed"
	assert.Equal(t, "Amil", reconciled[0].Attributes[domain.AttributeCovenant])
}
