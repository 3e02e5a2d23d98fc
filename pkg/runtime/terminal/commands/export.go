package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/de-tools/profit-atlas/pkg/services/profitability"
	"github.com/de-tools/profit-atlas/pkg/store/workbook"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type ExportCmd struct {
	profile string
	out     string
	split   bool
	years   yearFlags
	deps    Deps
}

func NewExportCmd(deps Deps) *cobra.Command {
	ec := &ExportCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the derived table to an XLSX workbook",
		RunE:  ec.run,
	}

	cmd.Flags().StringVar(&ec.profile, "profile", "", "Source profile to read (default is the first profile)")
	cmd.Flags().StringVar(&ec.out, "out", workbook.ExportFileName, "Output file")
	cmd.Flags().BoolVar(&ec.split, "split", false, "Write one sheet per year")
	ec.years.register(cmd)

	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	svc, err := ec.deps.Services(ctx, ec.profile, "")
	if err != nil {
		return err
	}

	table, err := svc.Table(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sources: %w", err)
	}

	year, err := ec.years.resolve(cmd, table)
	if err != nil {
		return err
	}
	filtered := profitability.FilterByYear(table, year)

	var sheets []workbook.Sheet
	if ec.split {
		for _, y := range profitability.Years(filtered) {
			sheets = append(sheets, workbook.Sheet{
				Name: strconv.Itoa(y),
				Rows: profitability.FilterByYear(filtered, &y),
			})
		}
	}
	settings := ec.deps.Settings()
	if len(sheets) == 0 {
		sheets = []workbook.Sheet{{Name: settings.Export.Sheet, Rows: filtered}}
	}

	f, err := os.Create(ec.out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", ec.out, err)
	}
	defer f.Close()

	if err := workbook.NewExporter(settings.Columns.AttributeNames()).Write(f, sheets...); err != nil {
		return fmt.Errorf("failed to write %s: %w", ec.out, err)
	}

	logger.Debug().Str("path", ec.out).Int("sheets", len(sheets)).Int("rows", len(filtered)).Msg("export written")
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", len(filtered), ec.out)
	return f.Close()
}
