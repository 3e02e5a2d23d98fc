package main

import (
	"fmt"
	"net"
	"os"

	"github.com/de-tools/profit-atlas/pkg/handlers/report"
	"github.com/de-tools/profit-atlas/pkg/server"
	"github.com/de-tools/profit-atlas/pkg/services/config"
	"github.com/de-tools/profit-atlas/pkg/services/profitability"
	"github.com/de-tools/profit-atlas/pkg/services/refresh"
	"github.com/de-tools/profit-atlas/pkg/services/sources"
	"github.com/de-tools/profit-atlas/pkg/store/workbook"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath      string
	profilesPath string
	profileName  string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Profit Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to a YAML settings file")
	rootCmd.Flags().StringVar(&profilesPath, "profiles", "atlas.ini", "Path to the source profiles INI file")
	rootCmd.Flags().StringVar(&profileName, "profile", "", "Source profile to serve (default is the first profile)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	settings, err := config.LoadSettings(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	registry, err := config.NewRegistry(profilesPath)
	if err != nil {
		return fmt.Errorf("failed to create profile registry: %w", err)
	}

	profiles, err := registry.GetProfiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to read profiles: %w", err)
	}
	logger.Info().Msgf("Profiles found at `%s`:", profilesPath)
	for _, profile := range profiles {
		logger.Info().Msgf("Name: `%s`, Type: `%s`", profile.Name, profile.Type)
	}

	var profile *config.SourceProfile
	switch {
	case profileName != "":
		if profile, err = registry.GetProfile(ctx, profileName); err != nil {
			return err
		}
	case len(profiles) > 0:
		profile = &profiles[0]
	default:
		return fmt.Errorf("no source profiles configured in %s", profilesPath)
	}

	loader, err := sources.NewRegistry(sources.DefaultFactories()).Create(ctx, *profile, *settings)
	if err != nil {
		return fmt.Errorf("failed to create loader for profile %s: %w", profile.Name, err)
	}

	opts, err := profitability.PresetOptions(settings.Summary.Preset, settings.Summary.Attributes)
	if err != nil {
		return err
	}

	var svc report.Service = profitability.NewService(loader, opts)
	if interval := settings.Server.RefreshInterval; interval > 0 {
		runner := refresh.NewRunner(svc, refresh.RunnerConfig{Interval: interval})
		go runner.Run(ctx)
		svc = runner
	}
	handler := report.NewHandler(svc, workbook.NewExporter(settings.Columns.AttributeNames()), settings.Export.Sheet)

	host := os.Getenv("SERVER_HOST")
	if host == "" {
		host = settings.Server.Host
	}
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = settings.Server.Port
	}

	api := server.NewWebAPI(server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Report: handler,
			Logger: logger,
		},
	})

	logger.Info().Str("profile", profile.String()).Msg("serving profitability report")
	return api.Start()
}
