package workbook

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/de-tools/profit-atlas/pkg/models/domain"
	"github.com/xuri/excelize/v2"
)

// ReadTable reads back a sheet written by Exporter.
func ReadTable(r io.Reader, sheet string) (domain.DerivedTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &domain.LoadError{Source: sheet, Err: err}
	}
	defer f.Close()

	cells, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &domain.LoadError{Source: sheet, Err: err}
	}
	if len(cells) == 0 {
		return domain.DerivedTable{}, nil
	}

	header := cells[0]
	if len(header) < len(Columns) {
		return nil, &domain.LoadError{Source: sheet, Err: fmt.Errorf("expected at least %d columns, got %d", len(Columns), len(header))}
	}
	for i, c := range Columns {
		if header[i] != c {
			return nil, &domain.LoadError{Source: sheet, Err: fmt.Errorf("column %d is %q, expected %q", i+1, header[i], c)}
		}
	}
	attrs := header[len(Columns):]

	table := make(domain.DerivedTable, 0, len(cells)-1)
	for n, record := range cells[1:] {
		p := &rowParser{record: record}
		row := domain.DerivedRow{
			ReconciledRow: domain.ReconciledRow{
				Key:        domain.PeriodKey{Year: p.int(0), Month: p.int(1)},
				Revenue:    p.float(2),
				DirectCost: p.float(3),
				FixedCost:  p.float(4),
				Attributes: map[string]string{},
			},
			GrossProfit:    p.float(5),
			GrossMarginPct: p.ratio(6),
			NetProfit:      p.float(7),
			NetMarginPct:   p.ratio(8),
		}
		for i, name := range attrs {
			if v := p.cell(len(Columns) + i); v != "" {
				row.Attributes[name] = v
			}
		}
		if p.err != nil {
			return nil, &domain.LoadError{Source: sheet, Err: fmt.Errorf("row %d: %w", n+2, p.err)}
		}
		table = append(table, row)
	}
	return table, nil
}

type rowParser struct {
	record []string
	err    error
}

func (p *rowParser) cell(i int) string {
	if i >= len(p.record) {
		return ""
	}
	return strings.TrimSpace(p.record[i])
}

func (p *rowParser) float(i int) float64 {
	s := p.cell(i)
	if s == "" || p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.err = fmt.Errorf("column %s: %w", Columns[i], err)
	}
	return v
}

func (p *rowParser) int(i int) int {
	return int(p.float(i))
}

func (p *rowParser) ratio(i int) domain.Ratio {
	if p.cell(i) == "" {
		return domain.UndefinedRatio()
	}
	return domain.DefinedRatio(p.float(i))
}
