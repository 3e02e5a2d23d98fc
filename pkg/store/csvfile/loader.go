package csvfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/de-tools/profit-atlas/pkg/models/domain"
	"github.com/de-tools/profit-atlas/pkg/store/tabular"
	"github.com/go-gota/gota/dataframe"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var nanValues = []string{"NA", "NaN", "<nil>"}

// Options controls how the CSV files are decoded.
type Options struct {
	Delimiter rune
	// Encoding is "utf-8" (default), "windows-1252" or "iso-8859-1".
	Encoding string
}

// Loader reads each source series from its own CSV file.
type Loader struct {
	paths   map[domain.Metric]string
	schema  tabular.Schema
	options Options
	decoder encoding.Encoding
}

func NewLoader(paths map[domain.Metric]string, schema tabular.Schema, options Options) (*Loader, error) {
	for _, m := range domain.Metrics {
		if paths[m] == "" {
			return nil, fmt.Errorf("no CSV path configured for %s", m)
		}
	}
	if options.Delimiter == 0 {
		options.Delimiter = ','
	}

	dec, err := lookupEncoding(options.Encoding)
	if err != nil {
		return nil, err
	}

	return &Loader{paths: paths, schema: schema, options: options, decoder: dec}, nil
}

func (l *Loader) Load(ctx context.Context) (domain.Datasets, error) {
	logger := zerolog.Ctx(ctx)

	var data domain.Datasets
	for _, metric := range domain.Metrics {
		rows, err := l.readFile(metric)
		if err != nil {
			return domain.Datasets{}, err
		}
		logger.Debug().Str("file", l.paths[metric]).Int("rows", len(rows)).Msg("csv read")

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

func (l *Loader) readFile(metric domain.Metric) ([]domain.SourceRow, error) {
	path := l.paths[metric]
	file, err := os.Open(path)
	if err != nil {
		return nil, &domain.LoadError{Source: path, Err: err}
	}
	defer file.Close()

	var r io.Reader = file
	if l.decoder != nil {
		r = l.decoder.NewDecoder().Reader(file)
	}

	df := dataframe.ReadCSV(r,
		dataframe.WithDelimiter(l.options.Delimiter),
		dataframe.WithLazyQuotes(true),
		dataframe.DetectTypes(false),
		dataframe.HasHeader(true),
	)
	if err := df.Error(); err != nil {
		if isEmptyInput(err) {
			return nil, nil
		}
		return nil, &domain.LoadError{Source: path, Err: err}
	}

	records := df.Records()
	if len(records) == 0 {
		return nil, nil
	}
	for _, record := range records[1:] {
		for i, c := range record {
			if slices.Contains(nanValues, c) {
				record[i] = ""
			}
		}
	}

	rows, err := l.schema.ParseRows(metric, records[0], records[1:])
	if err != nil {
		var verr *domain.DataValidationError
		if errors.As(err, &verr) {
			return nil, err
		}
		return nil, &domain.LoadError{Source: path, Err: err}
	}
	return rows, nil
}

func isEmptyInput(err error) bool {
	return strings.Contains(err.Error(), "empty")
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1, nil
	}
	return nil, fmt.Errorf("unsupported CSV encoding %q", name)
}
