package export

import (
	"fmt"
	"text/template"

	"github.com/de-tools/profit-atlas/pkg/models/domain"
)

// FuncMap holds the template helpers shared by the terminal reporters.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"money": func(v float64) string {
			return fmt.Sprintf("%.2f", v)
		},
		"pct": func(r domain.Ratio) string {
			v, ok := r.Float64()
			if !ok {
				return "n/a"
			}
			return fmt.Sprintf("%.2f%%", v)
		},
		"amount": func(r domain.Ratio) string {
			v, ok := r.Float64()
			if !ok {
				return "n/a"
			}
			return fmt.Sprintf("%.2f", v)
		},
		"period": func(year *int) string {
			if year == nil {
				return "all years"
			}
			return fmt.Sprint(*year)
		},
	}
}
