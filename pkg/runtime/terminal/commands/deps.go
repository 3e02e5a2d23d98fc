package commands

import (
	"context"
	"fmt"

	"github.com/de-tools/profit-atlas/pkg/models/domain"
	"github.com/de-tools/profit-atlas/pkg/services/config"
	"github.com/de-tools/profit-atlas/pkg/services/profitability"
	"github.com/spf13/cobra"
)

// ServiceFactory builds the profitability service for a source profile.
// An empty profile selects the first configured one; an empty preset selects
// the configured default.
type ServiceFactory func(ctx context.Context, profile, preset string) (*profitability.Service, error)

// Reporter renders a report to the terminal.
type Reporter interface {
	Handle(report *domain.Report) error
}

// Deps is shared by every command. Settings is only valid once flags are parsed.
type Deps struct {
	Services    ServiceFactory
	Profiles    func(ctx context.Context) ([]config.SourceProfile, error)
	SourceTypes func() []string
	Settings    func() config.Settings
	Reporters   map[string]Reporter
}

// yearFlags is shared by the commands that filter by year.
type yearFlags struct {
	year int
	all  bool
}

func (f *yearFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.year, "year", 0, "Year to report on (default is the most recent year)")
	cmd.Flags().BoolVar(&f.all, "all", false, "Include every year")
	cmd.MarkFlagsMutuallyExclusive("year", "all")
}

func (f *yearFlags) resolve(cmd *cobra.Command, table domain.DerivedTable) (*int, error) {
	switch {
	case f.all:
		return nil, nil
	case cmd.Flags().Changed("year"):
		if f.year <= 0 {
			return nil, fmt.Errorf("invalid year %d", f.year)
		}
		year := f.year
		return &year, nil
	default:
		return profitability.LatestYear(table), nil
	}
}
