package commands

import (
	"fmt"

	"github.com/de-tools/profit-atlas/pkg/services/profitability"
	"github.com/spf13/cobra"
)

type YearsCmd struct {
	profile string
	deps    Deps
}

func NewYearsCmd(deps Deps) *cobra.Command {
	yc := &YearsCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "years",
		Short: "List the years present in the sources, most recent first",
		RunE:  yc.run,
	}

	cmd.Flags().StringVar(&yc.profile, "profile", "", "Source profile to read (default is the first profile)")

	return cmd
}

func (yc *YearsCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	svc, err := yc.deps.Services(ctx, yc.profile, "")
	if err != nil {
		return err
	}

	table, err := svc.Table(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sources: %w", err)
	}

	years := profitability.Years(table)
	if len(years) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No data available")
		return nil
	}

	for _, y := range years {
		fmt.Fprintln(cmd.OutOrStdout(), y)
	}
	return nil
}
