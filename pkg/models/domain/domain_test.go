package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDivide(t *testing.T) {
	tests := []struct {
		name     string
		num, den float64
		defined  bool
		expected float64
	}{
		{"regular", 60, 100, true, 60},
		{"negative", -500, 1000, true, -50},
		{"zero denominator", 10, 0, false, 0},
		{"zero over zero", 0, 0, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Divide(tt.num, tt.den, 100)
			v, ok := r.Float64()
			assert.Equal(t, tt.defined, ok)
			if tt.defined {
				assert.InDelta(t, tt.expected, v, 1e-9)
			}
		})
	}
}

func TestRatio_UndefinedIsNeverZero(t *testing.T) {
	var r Ratio
	assert.False(t, r.Defined())
	assert.Nil(t, r.Ptr())
	assert.Equal(t, -1.0, r.Or(-1))
	assert.Equal(t, "undefined", r.String())

	assert.False(t, DefinedRatio(math.NaN()).Defined())
	assert.False(t, DefinedRatio(math.Inf(1)).Defined())
	assert.True(t, DefinedRatio(0).Defined())
}

func TestRatio_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A Ratio `json:"a"`
		B Ratio `json:"b"`
	}{A: DefinedRatio(12.5), B: UndefinedRatio()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":12.5,"b":null}`, string(data))

	var out struct {
		A Ratio `json:"a"`
		B Ratio `json:"b"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, DefinedRatio(12.5), out.A)
	assert.False(t, out.B.Defined())
}

func TestPeriodKey(t *testing.T) {
	assert.True(t, PeriodKey{Year: 2024, Month: 12}.Valid())
	assert.False(t, PeriodKey{Year: 2024, Month: 13}.Valid())
	assert.False(t, PeriodKey{Year: 2024, Month: 0}.Valid())
	assert.False(t, PeriodKey{Year: 0, Month: 1}.Valid())

	assert.True(t, PeriodKey{Year: 2023, Month: 12}.Before(PeriodKey{Year: 2024, Month: 1}))
	assert.False(t, PeriodKey{Year: 2024, Month: 2}.Before(PeriodKey{Year: 2024, Month: 1}))
	assert.Equal(t, "2024-03", PeriodKey{Year: 2024, Month: 3}.String())
}

func TestDerivedTable_CloneCopiesAttributes(t *testing.T) {
	table := DerivedTable{{ReconciledRow: ReconciledRow{Attributes: map[string]string{AttributeCovenant: "Amil"}}}}

	clone := table.Clone()
	clone[0].Attributes[AttributeCovenant] = "Unimed"

	assert.Equal(t, "Amil", table[0].Attributes[AttributeCovenant])
	assert.Nil(t, DerivedTable(nil).Clone())
}

func TestLoadError_Unwraps(t *testing.T) {
	cause := json.Unmarshal([]byte("{"), &struct{}{})
	err := &LoadError{Source: "df_receitas", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "df_receitas")
}
