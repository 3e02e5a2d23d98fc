package profitability

import (
	"context"
	"errors"
	"time"

	"github.com/de-tools/profit-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

const reportTitle = "Profitability Dashboard"

// Loader supplies the three source datasets.
type Loader interface {
	Load(ctx context.Context) (domain.Datasets, error)
}

// Service runs reconcile, derive, filter and summarize over one loader.
// It keeps no state between calls.
type Service struct {
	loader  Loader
	options SummaryOptions
	clock   func() time.Time
}

func NewService(loader Loader, options SummaryOptions) *Service {
	return &Service{
		loader:  loader,
		options: options,
		clock:   time.Now,
	}
}

// Table loads the sources and returns the full derived table.
func (s *Service) Table(ctx context.Context) (domain.DerivedTable, error) {
	logger := zerolog.Ctx(ctx)

	data, err := s.loader.Load(ctx)
	if err != nil {
		var loadErr *domain.LoadError
		if !errors.As(err, &loadErr) {
			err = &domain.LoadError{Source: "datasets", Err: err}
		}
		return nil, err
	}

	for _, metric := range domain.Metrics {
		rows := data.Rows(metric)
		if dups := DuplicateKeys(rows); len(dups) > 0 {
			logger.Warn().
				Str("source", string(metric)).
				Int("duplicates", len(dups)).
				Str("first", dups[0].String()).
				Msg("duplicate period keys, later rows replace earlier ones")
		}
		logger.Debug().Str("source", string(metric)).Int("rows", len(rows)).Msg("source loaded")
	}

	reconciled, err := Reconcile(data.Revenue, data.DirectCost, data.FixedCost)
	if err != nil {
		return nil, err
	}

	derived := Derive(reconciled)
	logger.Debug().Int("rows", len(derived)).Msg("indicators derived")
	return derived, nil
}

// Report builds the filtered table and its summary. A nil year keeps every row.
func (s *Service) Report(ctx context.Context, year *int) (*domain.Report, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}
	return s.BuildReport(table, year), nil
}

// BuildReport filters and summarizes an already derived table.
func (s *Service) BuildReport(table domain.DerivedTable, year *int) *domain.Report {
	filtered := FilterByYear(table, year)
	return &domain.Report{
		Title:       reportTitle,
		GeneratedAt: s.clock(),
		Year:        year,
		Years:       Years(table),
		Summary:     Summarize(filtered, s.options),
		Rows:        filtered,
	}
}

func (s *Service) Options() SummaryOptions {
	return s.options
}
