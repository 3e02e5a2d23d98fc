package profitability

import (
	"testing"

	"github.com/de-tools/profit-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_EmptyTable(t *testing.T) {
	s := Summarize(nil, DefaultSummaryOptions())

	assert.Equal(t, 0, s.RowCount)
	assert.Zero(t, s.TotalRevenue)
	assert.Zero(t, s.TotalGrossProfit)
	assert.False(t, s.MeanGrossMargin.Defined())
	assert.False(t, s.MeanNetMargin.Defined())
	assert.False(t, s.MeanTicket.Defined())

	require.Len(t, s.TopCategories, len(domain.DefaultAttributes))
	for i, leader := range s.TopCategories {
		assert.Equal(t, domain.DefaultAttributes[i], leader.Attribute)
		assert.False(t, leader.Available)
	}
}

func TestSummarize_Totals(t *testing.T) {
	table := sampleTable(t)
	s := Summarize(table, DefaultSummaryOptions())

	assert.Equal(t, 4, s.RowCount)
	assert.Equal(t, 700.0, s.TotalRevenue)
	assert.Equal(t, 620.0, s.TotalGrossProfit)

	ticket, ok := s.MeanTicket.Float64()
	require.True(t, ok)
	assert.InDelta(t, 175.0, ticket, 1e-9)
}

func TestSummarize_MeansSkipUndefinedMargins(t *testing.T) {
	table := FilterByYear(sampleTable(t), intPtr(2023))
	require.Len(t, table, 2)
	require.False(t, table[1].GrossMarginPct.Defined())

	s := Summarize(table, DefaultSummaryOptions())

	gross, ok := s.MeanGrossMargin.Float64()
	require.True(t, ok)
	assert.InDelta(t, 75.0, gross, 1e-9)

	net, ok := s.MeanNetMargin.Float64()
	require.True(t, ok)
	assert.InDelta(t, 65.0, net, 1e-9)
}

func TestSummarize_AllMarginsUndefined(t *testing.T) {
	reconciled, err := Reconcile(nil, []domain.SourceRow{row(2023, 1, 10), row(2023, 2, 20)}, nil)
	require.NoError(t, err)

	s := Summarize(Derive(reconciled), DefaultSummaryOptions())
	assert.Equal(t, 2, s.RowCount)
	assert.False(t, s.MeanGrossMargin.Defined())
	assert.False(t, s.MeanNetMargin.Defined())

	ticket, ok := s.MeanTicket.Float64()
	require.True(t, ok)
	assert.Zero(t, ticket)
}

func TestTopCategory(t *testing.T) {
	table := sampleTable(t)

	leader := TopCategory(table, domain.AttributeCovenant)
	assert.Equal(t, domain.CategoryLeader{
		Attribute: domain.AttributeCovenant,
		Value:     "Particular",
		Revenue:   400,
		Available: true,
	}, leader)

	missing := TopCategory(table, domain.AttributeSpecialty)
	assert.False(t, missing.Available)
	assert.Empty(t, missing.Value)
}

func TestTopCategory_TieGoesToFirstSeen(t *testing.T) {
	reconciled, err := Reconcile([]domain.SourceRow{
		row(2023, 1, 100, domain.AttributePractitioner, "Dra. Santos"),
		row(2023, 2, 60, domain.AttributePractitioner, "Dr. Silva"),
		row(2023, 3, 40, domain.AttributePractitioner, "Dr. Silva"),
		row(2023, 4, 0),
	}, nil, nil)
	require.NoError(t, err)

	leader := TopCategory(Derive(reconciled), domain.AttributePractitioner)
	assert.Equal(t, "Dra. Santos", leader.Value)
	assert.Equal(t, 100.0, leader.Revenue)
}

func TestSummarize_PresetLimitsFields(t *testing.T) {
	opts, err := PresetOptions("financial", nil)
	require.NoError(t, err)

	s := Summarize(sampleTable(t), opts)
	assert.True(t, s.Has(domain.FieldTotalRevenue))
	assert.False(t, s.Has(domain.FieldMeanTicket))
	assert.Empty(t, s.TopCategories)
	assert.False(t, s.MeanTicket.Defined())
	assert.Equal(t, 4, s.RowCount)
}

func TestPresetOptions(t *testing.T) {
	opts, err := PresetOptions("full", []string{domain.AttributeSpecialty})
	require.NoError(t, err)
	assert.Equal(t, []string{domain.AttributeSpecialty}, opts.Attributes)
	assert.Equal(t, domain.DefaultAttributes, Presets["full"].Attributes)

	_, err = PresetOptions("nope", nil)
	assert.Error(t, err)
}
