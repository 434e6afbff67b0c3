package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"EasyFinder/internal/usecase"
)

func processCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process [csv]",
		Short: "Score every lead and send NDA emails to high-priority ones",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if len(args) == 1 {
				cfg.Leads.CSVPath = args[0]
			}

			application, err := buildApp(cmd, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			report, err := application.Pipeline().Run(cmd.Context())
			if err != nil {
				return err
			}

			printReport(cmd.OutOrStdout(), cfg.Leads.CSVPath, application.Pipeline().Policy().NotifyThreshold, report)
			return nil
		},
	}
}

func printReport(w io.Writer, csvPath string, threshold int, report usecase.Report) {
	divider := strings.Repeat("-", 80)

	fmt.Fprintf(w, "\n=== EasyFinder AI - Lead Processing ===\n")
	fmt.Fprintf(w, "Loading leads from: %s\n\n", csvPath)

	if len(report.Outcomes) == 0 {
		fmt.Fprintln(w, "No leads found. Please check the CSV file.")
		return
	}

	fmt.Fprintf(w, "Loaded %d leads\n\n", len(report.Outcomes))
	fmt.Fprintf(w, "Processing leads...\n\n")
	fmt.Fprintln(w, divider)

	for _, o := range report.Outcomes {
		fmt.Fprintf(w, "Lead: %s (%s)\n", o.Name, o.Company)
		fmt.Fprintf(w, "  Email: %s\n", o.Email)
		fmt.Fprintf(w, "  Score: %d/100 | Priority: %s\n", o.Score, o.Priority)
		switch o.Outreach {
		case usecase.OutreachSent:
			fmt.Fprintln(w, "  ✓ NDA email sent")
		case usecase.OutreachFailed:
			fmt.Fprintln(w, "  ✗ Failed to send email")
		case usecase.OutreachSkipped:
			fmt.Fprintln(w, "  ⚠ No email address available")
		}
		fmt.Fprintln(w, divider)
	}

	s := report.Summary
	fmt.Fprintf(w, "\n=== Processing Complete ===\n")
	fmt.Fprintf(w, "Total leads processed: %d\n", s.TotalLeads)
	fmt.Fprintf(w, "High-priority leads (score >= %d): %d\n", threshold, s.HighPriorityCount)
	fmt.Fprintf(w, "Emails sent: %d\n", s.EmailsSent)
}
