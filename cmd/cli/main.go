package main

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/profit-atlas/pkg/runtime/terminal"
	"github.com/de-tools/profit-atlas/pkg/services/sources"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()
	if os.Getenv("ATLAS_DEBUG") != "" {
		logger = logger.Level(zerolog.DebugLevel)
	}

	cli := terminal.NewCLI(terminal.Options{
		Sources: sources.NewRegistry(sources.DefaultFactories()),
		Output:  os.Stdout,
	})

	if err := cli.ExecuteContext(logger.WithContext(context.Background())); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
