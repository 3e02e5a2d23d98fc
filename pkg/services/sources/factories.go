package sources

import (
	"context"
	"fmt"
	"maps"
	"unicode/utf8"

	"github.com/de-tools/profit-atlas/pkg/models/domain"
	"github.com/de-tools/profit-atlas/pkg/services/config"
	"github.com/de-tools/profit-atlas/pkg/services/profitability"
	"github.com/de-tools/profit-atlas/pkg/store/csvfile"
	"github.com/de-tools/profit-atlas/pkg/store/duckdb"
	"github.com/de-tools/profit-atlas/pkg/store/postgres"
	"github.com/de-tools/profit-atlas/pkg/store/s3"
	sqlstore "github.com/de-tools/profit-atlas/pkg/store/sql"
	"github.com/de-tools/profit-atlas/pkg/store/tabular"
	"github.com/de-tools/profit-atlas/pkg/store/workbook"
)

// DefaultFactories covers every source type the atlas can read.
func DefaultFactories() map[string]LoaderFactory {
	return map[string]LoaderFactory{
		"xlsx":     WorkbookFactory,
		"csv":      CSVFactory,
		"duckdb":   DuckDBFactory,
		"postgres": PostgresFactory,
		"s3":       S3Factory,
	}
}

// Schema turns the configured column names into a tabular schema.
func Schema(settings config.Settings) tabular.Schema {
	return tabular.Schema{
		YearColumn:  settings.Columns.Year,
		MonthColumn: settings.Columns.Month,
		MetricColumns: map[domain.Metric]string{
			domain.MetricRevenue:    settings.Columns.Revenue,
			domain.MetricDirectCost: settings.Columns.DirectCost,
			domain.MetricFixedCost:  settings.Columns.FixedCost,
		},
		AttributeColumns: maps.Clone(settings.Columns.Attributes),
	}
}

func sheets(settings config.Settings) workbook.Sheets {
	return workbook.Sheets{
		domain.MetricRevenue:    settings.Sheets.Revenue,
		domain.MetricDirectCost: settings.Sheets.DirectCost,
		domain.MetricFixedCost:  settings.Sheets.FixedCost,
	}
}

func WorkbookFactory(_ context.Context, profile config.SourceProfile, settings config.Settings) (profitability.Loader, error) {
	path := profile.Get("path")
	if path == "" {
		return nil, fmt.Errorf("profile %s: path is required", profile.Name)
	}
	return workbook.NewLoader(workbook.FileOpener(path), sheets(settings), Schema(settings)), nil
}

func CSVFactory(_ context.Context, profile config.SourceProfile, settings config.Settings) (profitability.Loader, error) {
	opts := csvfile.Options{Encoding: profile.Get("encoding")}
	if d := profile.Get("delimiter"); d != "" {
		r, size := utf8.DecodeRuneInString(d)
		if size != len(d) {
			return nil, fmt.Errorf("profile %s: delimiter must be a single character", profile.Name)
		}
		opts.Delimiter = r
	}

	paths := map[domain.Metric]string{
		domain.MetricRevenue:    profile.Get("revenue_path"),
		domain.MetricDirectCost: profile.Get("direct_cost_path"),
		domain.MetricFixedCost:  profile.Get("fixed_cost_path"),
	}
	loader, err := csvfile.NewLoader(paths, Schema(settings), opts)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", profile.Name, err)
	}
	return loader, nil
}

// DuckDBFactory reads the source tables of an embedded DuckDB file.
func DuckDBFactory(_ context.Context, profile config.SourceProfile, _ config.Settings) (profitability.Loader, error) {
	path := profile.Get("path")
	if path == "" {
		return nil, fmt.Errorf("profile %s: path is required", profile.Name)
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: path})
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB at %s: %w", path, err)
	}
	return sqlstore.NewLoader(db, sqlstore.DefaultTables(), sqlstore.DefaultSchema())
}

// PostgresFactory reads the same tables as DuckDBFactory from a PostgreSQL server.
func PostgresFactory(ctx context.Context, profile config.SourceProfile, _ config.Settings) (profitability.Loader, error) {
	db, err := postgres.New(ctx, postgres.DefaultSettings(profile.Get("dsn")))
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", profile.Name, err)
	}
	return sqlstore.NewLoader(db.DB, sqlstore.DefaultTables(), sqlstore.DefaultSchema())
}

func S3Factory(ctx context.Context, profile config.SourceProfile, settings config.Settings) (profitability.Loader, error) {
	client, err := s3.NewClient(ctx, profile.Get("region"))
	if err != nil {
		return nil, err
	}

	opener, err := s3.NewOpener(client, profile.Get("bucket"), profile.Get("key"))
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", profile.Name, err)
	}
	return workbook.NewLoader(opener, sheets(settings), Schema(settings)), nil
}
