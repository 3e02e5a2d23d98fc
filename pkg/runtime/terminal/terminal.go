package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/de-tools/profit-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/profit-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/profit-atlas/pkg/services/config"
	"github.com/de-tools/profit-atlas/pkg/services/profitability"
	"github.com/de-tools/profit-atlas/pkg/services/sources"
	"github.com/spf13/cobra"
)

const defaultProfilesPath = "atlas.ini"

// CLI represents the command-line interface
type CLI struct {
	sources      sources.Registry
	profiles     config.Registry
	settings     *config.Settings
	output       io.Writer
	settingsPath string
	profilesPath string
	rootCmd      *cobra.Command
}

// Options contain configuration for the CLI. Profiles and Settings are read
// from the --profiles and --config flags when left nil.
type Options struct {
	Sources  sources.Registry
	Profiles config.Registry
	Settings *config.Settings
	Output   io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Sources == nil {
		opts.Sources = sources.NewRegistry(sources.DefaultFactories())
	}

	cli := &CLI{
		sources:  opts.Sources,
		profiles: opts.Profiles,
		settings: opts.Settings,
		output:   opts.Output,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides the command line arguments, mainly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "atlas",
		Short:             "Profitability reporting over revenue and cost sources",
		SilenceUsage:      true,
		PersistentPreRunE: cli.loadConfig,
	}
	cmd.SetOut(cli.output)
	cmd.PersistentFlags().StringVarP(&cli.settingsPath, "config", "c", "", "Path to a YAML settings file")
	cmd.PersistentFlags().StringVar(&cli.profilesPath, "profiles", defaultProfilesPath, "Path to the source profiles INI file")

	deps := commands.Deps{
		Services:    cli.service,
		Profiles:    cli.listProfiles,
		SourceTypes: cli.sources.ListTypes,
		Reporters: map[string]commands.Reporter{
			"text":  NewReporter(cli.output),
			"table": export.NewReporter(cli.output, NewReporter(cli.output)),
		},
		Settings: func() config.Settings {
			return *cli.settings
		},
	}

	cmd.AddCommand(commands.NewReportCmd(deps))
	cmd.AddCommand(commands.NewYearsCmd(deps))
	cmd.AddCommand(commands.NewExportCmd(deps))
	cmd.AddCommand(commands.NewProfilesCmd(deps))

	return cmd
}

// loadConfig loads whatever the options left unset.
func (cli *CLI) loadConfig(cmd *cobra.Command, _ []string) error {
	if cli.settings == nil {
		settings, err := config.LoadSettings(cli.settingsPath)
		if err != nil {
			return err
		}
		cli.settings = settings
	}
	if cli.profiles == nil {
		registry, err := config.NewRegistry(cli.profilesPath)
		if err != nil {
			return fmt.Errorf("failed to read profiles from %s: %w", cli.profilesPath, err)
		}
		cli.profiles = registry
	}
	return nil
}

func (cli *CLI) listProfiles(ctx context.Context) ([]config.SourceProfile, error) {
	profiles, err := cli.profiles.GetProfiles(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].Name < profiles[j].Name
	})
	return profiles, nil
}

func (cli *CLI) service(ctx context.Context, name, preset string) (*profitability.Service, error) {
	profile, err := cli.resolveProfile(ctx, name)
	if err != nil {
		return nil, err
	}

	loader, err := cli.sources.Create(ctx, *profile, *cli.settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create loader for profile %s: %w", profile.Name, err)
	}

	if preset == "" {
		preset = cli.settings.Summary.Preset
	}
	opts, err := profitability.PresetOptions(preset, cli.settings.Summary.Attributes)
	if err != nil {
		return nil, err
	}

	return profitability.NewService(loader, opts), nil
}

func (cli *CLI) resolveProfile(ctx context.Context, name string) (*config.SourceProfile, error) {
	if name != "" {
		return cli.profiles.GetProfile(ctx, name)
	}

	profiles, err := cli.profiles.GetProfiles(ctx)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("no source profiles configured")
	}
	return &profiles[0], nil
}
