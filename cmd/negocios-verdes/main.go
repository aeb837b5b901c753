package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	ServiceName = "negocios-verdes"
	Version     = "0.1.0"
)

// BuildTime is set with -ldflags at release time.
var BuildTime = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   ServiceName,
		Short: "Negocios Verdes registry normalization and Basura Cero classification",
		Long: `Cleans the Colombian green business registry, tags each business with the
Basura Cero categories its description mentions and serves the result over HTTP.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(
		serveCmd(),
		cleanCmd(),
		migrateCmd(),
		refreshCmd(),
		versionCmd(),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", ServiceName, Version, BuildTime)
		},
	}
}
