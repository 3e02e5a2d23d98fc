package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/profit-atlas/pkg/models/domain"
)

type TableConfig struct {
	PeriodWidth int
	ValueWidth  int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		PeriodWidth: 7,
		ValueWidth:  14,
	}
}

// Handler renders the part of a report printed above the table.
type Handler interface {
	Handle(report *domain.Report) error
}

// Reporter prints an optional header followed by one table line per month.
type Reporter struct {
	writer io.Writer
	config TableConfig
	header Handler
}

func NewReporter(writer io.Writer, header Handler) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
		header: header,
	}
}

var columns = []string{"Period", "Revenue", "Direct cost", "Fixed cost", "Gross profit", "Gross margin", "Net profit", "Net margin"}

func (c *Reporter) Handle(report *domain.Report) error {
	if c.header != nil {
		if err := c.header.Handle(report); err != nil {
			return err
		}
	}
	if len(report.Rows) == 0 {
		return nil
	}

	formatRow := func(cells ...string) string {
		var b strings.Builder
		fmt.Fprintf(&b, "| %-*s |", c.config.PeriodWidth, cells[0])
		for _, cell := range cells[1:] {
			fmt.Fprintf(&b, " %*s |", c.config.ValueWidth, cell)
		}
		return b.String()
	}

	funcMap := FuncMap()
	funcMap["formatRow"] = formatRow
	funcMap["headerRow"] = func() string {
		return formatRow(columns...)
	}
	funcMap["separator"] = func() string {
		parts := []string{strings.Repeat("-", c.config.PeriodWidth+2)}
		for range columns[1:] {
			parts = append(parts, strings.Repeat("-", c.config.ValueWidth+2))
		}
		return "+" + strings.Join(parts, "+") + "+"
	}

	tmpl := `
{{separator}}
{{headerRow}}
{{separator}}
{{range .Rows}}{{formatRow .Key.String (money .Revenue) (money .DirectCost) (money .FixedCost) (money .GrossProfit) (pct .GrossMarginPct) (money .NetProfit) (pct .NetMarginPct)}}
{{end}}{{separator}}
`

	t, err := template.New("rows").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}
