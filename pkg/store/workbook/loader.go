package workbook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/profit-atlas/pkg/models/domain"
	"github.com/de-tools/profit-atlas/pkg/store/tabular"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Opener yields the raw workbook bytes, from disk or remote storage.
type Opener interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Name() string
}

type fileOpener struct {
	path string
}

func FileOpener(path string) Opener {
	return fileOpener{path: path}
}

func (f fileOpener) Open(_ context.Context) (io.ReadCloser, error) {
	return os.Open(f.path)
}

func (f fileOpener) Name() string {
	return f.path
}

// Sheets names the sheet holding each source series.
type Sheets map[domain.Metric]string

func DefaultSheets() Sheets {
	return Sheets{
		domain.MetricRevenue:    "df_receitas",
		domain.MetricDirectCost: "df_custos_diretos",
		domain.MetricFixedCost:  "df_custos_fixos",
	}
}

// Loader reads the three sources from the sheets of one workbook.
type Loader struct {
	opener Opener
	sheets Sheets
	schema tabular.Schema
}

func NewLoader(opener Opener, sheets Sheets, schema tabular.Schema) *Loader {
	return &Loader{opener: opener, sheets: sheets, schema: schema}
}

func (l *Loader) Load(ctx context.Context) (domain.Datasets, error) {
	logger := zerolog.Ctx(ctx)

	rc, err := l.opener.Open(ctx)
	if err != nil {
		return domain.Datasets{}, &domain.LoadError{Source: l.opener.Name(), Err: err}
	}
	defer rc.Close()

	f, err := excelize.OpenReader(rc)
	if err != nil {
		return domain.Datasets{}, &domain.LoadError{Source: l.opener.Name(), Err: fmt.Errorf("failed to open workbook: %w", err)}
	}
	defer f.Close()

	var data domain.Datasets
	for _, metric := range domain.Metrics {
		sheet := l.sheets[metric]
		rows, err := l.readSheet(f, metric, sheet)
		if err != nil {
			return domain.Datasets{}, err
		}
		logger.Debug().Str("workbook", l.opener.Name()).Str("sheet", sheet).Int("rows", len(rows)).Msg("sheet read")

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

func (l *Loader) readSheet(f *excelize.File, metric domain.Metric, sheet string) ([]domain.SourceRow, error) {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, &domain.LoadError{Source: sheet, Err: fmt.Errorf("sheet not found in %s", l.opener.Name())}
	}

	cells, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &domain.LoadError{Source: sheet, Err: err}
	}
	if len(cells) == 0 {
		return nil, nil
	}

	rows, err := l.schema.ParseRows(metric, cells[0], cells[1:])
	if err != nil {
		var verr *domain.DataValidationError
		if errors.As(err, &verr) {
			return nil, err
		}
		return nil, &domain.LoadError{Source: sheet, Err: err}
	}
	return rows, nil
}
