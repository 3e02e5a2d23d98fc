package sql

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/de-tools/profit-atlas/pkg/models/domain"
	"github.com/de-tools/profit-atlas/pkg/store/tabular"
	"github.com/rs/zerolog"
)

// Tables names the table holding each source series.
type Tables map[domain.Metric]string

func DefaultTables() Tables {
	return Tables{
		domain.MetricRevenue:    "revenue",
		domain.MetricDirectCost: "direct_cost",
		domain.MetricFixedCost:  "fixed_cost",
	}
}

// DefaultSchema matches the tables created by the embedded store.
func DefaultSchema() tabular.Schema {
	return tabular.Schema{
		YearColumn:  "year",
		MonthColumn: "month",
		MetricColumns: map[domain.Metric]string{
			domain.MetricRevenue:    "value",
			domain.MetricDirectCost: "value",
			domain.MetricFixedCost:  "value",
		},
		AttributeColumns: map[string]string{
			domain.AttributeCovenant:     domain.AttributeCovenant,
			domain.AttributeSpecialty:    domain.AttributeSpecialty,
			domain.AttributePractitioner: domain.AttributePractitioner,
		},
	}
}

// Loader reads the three sources from SQL tables in one transaction so they
// describe the same snapshot.
type Loader struct {
	db     *sql.DB
	tables Tables
	schema tabular.Schema
}

func NewLoader(db *sql.DB, tables Tables, schema tabular.Schema) (*Loader, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &Loader{db: db, tables: tables, schema: schema}, nil
}

func (l *Loader) Load(ctx context.Context) (domain.Datasets, error) {
	logger := zerolog.Ctx(ctx)

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Datasets{}, &domain.LoadError{Source: "database", Err: fmt.Errorf("begin transaction: %w", err)}
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			logger.Warn().Err(err).Msg("failed to release read transaction")
		}
	}()

	var data domain.Datasets
	for _, metric := range domain.Metrics {
		rows, err := l.query(ctx, tx, metric)
		if err != nil {
			return domain.Datasets{}, &domain.LoadError{Source: l.tables[metric], Err: err}
		}
		logger.Debug().Str("table", l.tables[metric]).Int("rows", len(rows)).Msg("table read")

		switch metric {
		case domain.MetricRevenue:
			data.Revenue = rows
		case domain.MetricDirectCost:
			data.DirectCost = rows
		case domain.MetricFixedCost:
			data.FixedCost = rows
		}
	}
	return data, nil
}

// Query builds the SELECT for one metric. Attribute columns are selected in
// attribute name order.
func (l *Loader) Query(metric domain.Metric) (string, []string) {
	attrs := make([]string, 0, len(l.schema.AttributeColumns))
	for attr := range l.schema.AttributeColumns {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)

	cols := []string{l.schema.YearColumn, l.schema.MonthColumn, l.schema.MetricColumns[metric]}
	for _, attr := range attrs {
		cols = append(cols, l.schema.AttributeColumns[attr])
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s, %s",
		strings.Join(cols, ", "), l.tables[metric], l.schema.YearColumn, l.schema.MonthColumn)
	return query, attrs
}

func (l *Loader) query(ctx context.Context, tx *sql.Tx, metric domain.Metric) ([]domain.SourceRow, error) {
	logger := zerolog.Ctx(ctx)
	query, attrs := l.Query(metric)

	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s query failed: %w", metric, err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close source query rows")
		}
	}(rows)

	var out []domain.SourceRow
	for rows.Next() {
		var (
			year, month int64
			value       sql.NullFloat64
		)
		attrValues := make([]sql.NullString, len(attrs))
		dest := []interface{}{&year, &month, &value}
		for i := range attrValues {
			dest = append(dest, &attrValues[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		row := domain.SourceRow{
			Key:   domain.PeriodKey{Year: int(year), Month: int(month)},
			Value: value.Float64,
		}
		for i, attr := range attrs {
			if attrValues[i].Valid && attrValues[i].String != "" {
				if row.Attributes == nil {
					row.Attributes = make(map[string]string, len(attrs))
				}
				row.Attributes[attr] = attrValues[i].String
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
