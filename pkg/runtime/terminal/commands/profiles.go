package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type ProfilesCmd struct {
	deps Deps
}

func NewProfilesCmd(deps Deps) *cobra.Command {
	pc := &ProfilesCmd{deps: deps}
	return &cobra.Command{
		Use:   "profiles",
		Short: "List configured source profiles and supported source types",
		RunE:  pc.run,
	}
}

func (pc *ProfilesCmd) run(cmd *cobra.Command, _ []string) error {
	profiles, err := pc.deps.Profiles(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read profiles: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(profiles) == 0 {
		fmt.Fprintln(out, "No source profiles configured")
	}
	for _, p := range profiles {
		fmt.Fprintf(out, "Name: `%s`, Type: `%s`\n", p.Name, p.Type)
	}

	fmt.Fprintf(out, "Supported source types:\n%s\n", strings.Join(pc.deps.SourceTypes(), "\n"))
	return nil
}
