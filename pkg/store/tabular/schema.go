package tabular

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/de-tools/profit-atlas/pkg/models/domain"
)

// Schema maps source columns onto source rows.
type Schema struct {
	YearColumn    string
	MonthColumn   string
	MetricColumns map[domain.Metric]string
	// AttributeColumns maps an attribute name to the column holding it.
	AttributeColumns map[string]string
}

func DefaultSchema() Schema {
	return Schema{
		YearColumn:  "ANO",
		MonthColumn: "MES",
		MetricColumns: map[domain.Metric]string{
			domain.MetricRevenue:    "RECEITA",
			domain.MetricDirectCost: "CUSTO_DIRETO",
			domain.MetricFixedCost:  "CUSTO_FIXO",
		},
		AttributeColumns: map[string]string{
			domain.AttributeCovenant:     "CONVENIO",
			domain.AttributeSpecialty:    "ESPECIALIDADE",
			domain.AttributePractitioner: "MEDICO",
		},
	}
}

// ParseRows converts a header and string records into source rows.
// A missing key or metric column is a malformed source; a bad cell is a
// DataValidationError. Attribute columns are optional and empty cells are
// left out of the row's attributes. An empty metric cell reads as zero.
func (s Schema) ParseRows(metric domain.Metric, header []string, records [][]string) ([]domain.SourceRow, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	required := []string{s.YearColumn, s.MonthColumn, s.MetricColumns[metric]}
	for _, col := range required {
		if _, ok := index[col]; !ok || col == "" {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}
	yearIdx, monthIdx, valueIdx := index[s.YearColumn], index[s.MonthColumn], index[s.MetricColumns[metric]]

	attrIdx := make(map[string]int)
	for attr, col := range s.AttributeColumns {
		if i, ok := index[col]; ok {
			attrIdx[attr] = i
		}
	}

	rows := make([]domain.SourceRow, 0, len(records))
	for n, record := range records {
		if blank(record) {
			continue
		}

		year, err := parseInt(cell(record, yearIdx))
		if err != nil {
			return nil, &domain.DataValidationError{Source: metric, Row: n, Reason: "year " + err.Error()}
		}
		month, err := parseInt(cell(record, monthIdx))
		if err != nil {
			return nil, &domain.DataValidationError{Source: metric, Row: n, Key: domain.PeriodKey{Year: year}, Reason: "month " + err.Error()}
		}
		key := domain.PeriodKey{Year: year, Month: month}

		value, err := parseFloat(cell(record, valueIdx))
		if err != nil {
			return nil, &domain.DataValidationError{Source: metric, Row: n, Key: key, Reason: "value " + err.Error()}
		}

		row := domain.SourceRow{Key: key, Value: value}
		for attr, i := range attrIdx {
			if v := cell(record, i); v != "" {
				if row.Attributes == nil {
					row.Attributes = make(map[string]string, len(attrIdx))
				}
				row.Attributes[attr] = v
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cell(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func blank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseInt accepts "2023" and integral floats such as "2023.0".
func parseInt(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("is empty")
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return int(f), nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return f, nil
}
