package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/profit-atlas/pkg/models/domain"
	"github.com/de-tools/profit-atlas/pkg/runtime/terminal/export"
)

// Reporter outputs reports to the console in a formatted text form
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (c *Reporter) Handle(report *domain.Report) error {
	tmpl := `{{.Title}}
Generated: {{.GeneratedAt.Format "2006-01-02 15:04:05"}}
Period: {{period .Year}}
Months: {{.Summary.RowCount}}
{{- with .Summary}}
{{- if .Has "total_revenue"}}
Total revenue: {{money .TotalRevenue}}{{end}}
{{- if .Has "total_gross_profit"}}
Total gross profit: {{money .TotalGrossProfit}}{{end}}
{{- if .Has "mean_gross_margin"}}
Mean gross margin: {{pct .MeanGrossMargin}}{{end}}
{{- if .Has "mean_net_margin"}}
Mean net margin: {{pct .MeanNetMargin}}{{end}}
{{- if .Has "mean_ticket"}}
Mean ticket: {{amount .MeanTicket}}{{end}}
{{- if .Has "top_categories"}}{{range .TopCategories}}
Top {{.Attribute}}: {{if .Available}}{{.Value}} ({{money .Revenue}}){{else}}unavailable{{end}}{{end}}{{end}}
{{- end}}
{{if not .Rows}}No data for the selected period.
{{end}}`

	t, err := template.New("report").Funcs(export.FuncMap()).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}
