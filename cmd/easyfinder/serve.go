package main

import (
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig()
			if addr != "" {
				cfg.Server.Addr = addr
			}

			application, err := buildApp(cmd, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			return application.Serve(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
