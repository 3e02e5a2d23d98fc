package api

import "time"

type Row struct {
	Year           int               `json:"year"`
	Month          int               `json:"month"`
	Revenue        float64           `json:"revenue"`
	DirectCost     float64           `json:"direct_cost"`
	FixedCost      float64           `json:"fixed_cost"`
	GrossProfit    float64           `json:"gross_profit"`
	GrossMarginPct *float64          `json:"gross_margin_pct"`
	NetProfit      float64           `json:"net_profit"`
	NetMarginPct   *float64          `json:"net_margin_pct"`
	Attributes     map[string]string `json:"attributes,omitempty"`
}

type CategoryLeader struct {
	Value     *string  `json:"value"`
	Revenue   *float64 `json:"revenue"`
	Available bool     `json:"available"`
}

// Report carries only the summary fields that were requested; undefined
// values are null.
type Report struct {
	Title       string                 `json:"title"`
	GeneratedAt time.Time              `json:"generated_at"`
	Year        *int                   `json:"year"`
	Years       []int                  `json:"years"`
	Summary     map[string]interface{} `json:"summary"`
	Rows        []Row                  `json:"rows"`
	Error       string                 `json:"error,omitempty"`
}

type SeriesPoint struct {
	Year  int      `json:"year"`
	Month int      `json:"month"`
	Value *float64 `json:"value"`
}

type Series struct {
	Field  string        `json:"field"`
	Year   *int          `json:"year"`
	Points []SeriesPoint `json:"points"`
}

type Years struct {
	Years  []int `json:"years"`
	Latest *int  `json:"latest"`
}

type Error struct {
	Error string `json:"error"`
}
