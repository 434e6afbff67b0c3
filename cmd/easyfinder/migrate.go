package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the activity log and status tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig()
			if cfg.Database.Driver == "" {
				return errors.New("no database configured (set database.driver or DATABASE_DRIVER)")
			}

			// app.New opens the database and applies the schema.
			application, err := buildApp(cmd, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			newLogger(cfg).Info("database schema is up to date", "driver", cfg.Database.Driver)
			return nil
		},
	}
}
