package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"EasyFinder/internal/app"
	"EasyFinder/internal/config"
	"EasyFinder/internal/logging"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "easyfinder",
	Short: "Lead scoring and NDA outreach",
	Long: `easyfinder scores sales leads from a CSV file, classifies them by priority
and sends NDA invitations to the ones worth a private demo.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (default: $EASYFINDER_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(processCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(scoreCmd())
	rootCmd.AddCommand(logsCmd())
	rootCmd.AddCommand(migrateCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() config.Config {
	cfg := config.LoadFrom(cfgFile)
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg
}

// newLogger writes to stderr so command output stays clean on stdout.
func newLogger(cfg config.Config) *slog.Logger {
	return logging.NewWithWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
}

func buildApp(cmd *cobra.Command, cfg config.Config) (*app.Application, error) {
	application, err := app.New(cmd.Context(), cfg, newLogger(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to initialise application: %w", err)
	}
	return application, nil
}
