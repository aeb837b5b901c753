package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"negociosverdes/pkg/client"
)

func refreshCmd() *cobra.Command {
	var (
		addr    string
		version string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Ask a running service to rebuild its dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := client.NewDatasetClient(addr, timeout).Refresh(cmd.Context(), version)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dataset %s loaded: %d rows (%d aligned), run %s\n",
				info.Version, info.Rows, info.Report.Aligned, info.Report.RunID)
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "http://localhost:8080", "Base URL of the service")
	cmd.Flags().StringVar(&version, "version", "", "Version token for the new snapshot (generated when empty)")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Request timeout")
	return cmd
}
