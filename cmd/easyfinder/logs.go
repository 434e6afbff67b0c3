package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"EasyFinder/internal/infrastructure/storage"
)

func logsCmd() *cobra.Command {
	var (
		limit    int
		clearAll bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show or clear the activity log",
		Long: `Print recent activity events as JSON lines, oldest first.
The in-memory log does not outlive the process, so this is only useful with
a configured database.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := buildApp(cmd, loadConfig())
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			activity := application.Activity()
			if clearAll {
				if err := activity.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logs cleared successfully")
				return nil
			}

			events, err := activity.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, e := range events {
				if err := enc.Encode(e); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", storage.DefaultRecentLimit, "number of events to show")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete every event")
	return cmd
}
