package workbook

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"github.com/de-tools/profit-atlas/pkg/models/domain"
	"github.com/xuri/excelize/v2"
)

const (
	DefaultExportSheet = "Sheet1"
	ExportFileName     = "dados_rentabilidade.xlsx"
	ContentType        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Columns is the fixed leading column order of an exported table.
var Columns = []string{
	"year",
	"month",
	"revenue",
	"direct_cost",
	"fixed_cost",
	"gross_profit",
	"gross_margin_pct",
	"net_profit",
	"net_margin_pct",
}

// Sheet is one exported table.
type Sheet struct {
	Name string
	Rows domain.DerivedTable
}

// Exporter writes derived tables as an XLSX workbook. Undefined margins are
// written as empty cells and no number formatting is applied.
type Exporter struct {
	attributes []string
}

// NewExporter places the given attributes first among attribute columns;
// attributes not listed follow in name order.
func NewExporter(attributes []string) *Exporter {
	return &Exporter{attributes: attributes}
}

func (e *Exporter) Bytes(sheets ...Sheet) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Write(&buf, sheets...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Exporter) Write(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("at least one sheet must be provided")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(DefaultExportSheet, sheet.Name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", sheet.Name, err)
		}

		if err := e.writeSheet(f, sheet); err != nil {
			return fmt.Errorf("failed to write sheet %q: %w", sheet.Name, err)
		}
	}

	return f.Write(w)
}

func (e *Exporter) writeSheet(f *excelize.File, sheet Sheet) error {
	attrs := e.attributeColumns(sheet.Rows)

	header := make([]interface{}, 0, len(Columns)+len(attrs))
	for _, c := range Columns {
		header = append(header, c)
	}
	for _, a := range attrs {
		header = append(header, a)
	}
	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return err
	}

	for i, row := range sheet.Rows {
		values := []interface{}{
			row.Key.Year,
			row.Key.Month,
			row.Revenue,
			row.DirectCost,
			row.FixedCost,
			row.GrossProfit,
			ratioCell(row.GrossMarginPct),
			row.NetProfit,
			ratioCell(row.NetMarginPct),
		}
		for _, a := range attrs {
			values = append(values, row.Attributes[a])
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) attributeColumns(rows domain.DerivedTable) []string {
	cols := slices.Clone(e.attributes)
	var extra []string
	for _, row := range rows {
		for name := range row.Attributes {
			if !slices.Contains(cols, name) && !slices.Contains(extra, name) {
				extra = append(extra, name)
			}
		}
	}
	slices.Sort(extra)
	return append(cols, extra...)
}

func ratioCell(r domain.Ratio) interface{} {
	if v, ok := r.Float64(); ok {
		return v
	}
	return nil
}
