package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

type ReportCmd struct {
	profile string
	preset  string
	format  string
	years   yearFlags
	deps    Deps
}

func NewReportCmd(deps Deps) *cobra.Command {
	rc := &ReportCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the profitability summary and monthly rows",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.profile, "profile", "", "Source profile to read (default is the first profile)")
	cmd.Flags().StringVar(&rc.preset, "preset", "", "Summary preset: full, financial or compact")
	cmd.Flags().StringVar(&rc.format, "format", "table", "Output format: "+strings.Join(formats(deps), ", "))
	rc.years.register(cmd)

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	reporter, ok := rc.deps.Reporters[rc.format]
	if !ok {
		return fmt.Errorf("unknown format %q, expected one of %v", rc.format, formats(rc.deps))
	}

	svc, err := rc.deps.Services(ctx, rc.profile, rc.preset)
	if err != nil {
		return err
	}

	table, err := svc.Table(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sources: %w", err)
	}

	year, err := rc.years.resolve(cmd, table)
	if err != nil {
		return err
	}

	return reporter.Handle(svc.BuildReport(table, year))
}

func formats(deps Deps) []string {
	names := make([]string, 0, len(deps.Reporters))
	for name := range deps.Reporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
