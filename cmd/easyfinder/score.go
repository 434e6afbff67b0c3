package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"EasyFinder/internal/domain"
	"EasyFinder/internal/scoring"
	"EasyFinder/internal/usecase"
)

func scoreCmd() *cobra.Command {
	var (
		lead   domain.Lead
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a single lead without sending anything",
		Example: `  easyfinder score --company-size enterprise --budget '$60,000' \
    --industry construction --email ada@acme.io`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig()
			pipeline := usecase.NewPipeline(usecase.PipelineDeps{
				Policy: scoring.NewPolicy(cfg.Scoring.EmailThreshold),
			})

			eval := pipeline.Evaluate(lead)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(eval)
			}
			printEvaluation(out, eval)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&lead.Name, "name", "", "lead name")
	f.StringVar(&lead.Email, "email", "", "lead email")
	f.StringVar(&lead.Company, "company", "", "company name")
	f.StringVar(&lead.CompanySize, "company-size", "", "enterprise, medium or small")
	f.StringVar(&lead.Industry, "industry", "", "industry")
	f.StringVar(&lead.Budget, "budget", "0", "budget, e.g. $60,000")
	f.BoolVar(&asJSON, "json", false, "print the evaluation as JSON")
	return cmd
}

func printEvaluation(w io.Writer, eval usecase.Evaluation) {
	b := eval.Breakdown
	fmt.Fprintf(w, "Score: %d/100 | Priority: %s\n", eval.Score, eval.Priority)
	fmt.Fprintf(w, "  company size: %d\n", b.CompanySize)
	fmt.Fprintf(w, "  budget:       %d\n", b.Budget)
	fmt.Fprintf(w, "  industry:     %d\n", b.Industry)
	fmt.Fprintf(w, "  email:        %d\n", b.Email)
	if eval.ShouldNotify {
		fmt.Fprintln(w, "Would send NDA email")
	} else {
		fmt.Fprintln(w, "Would not send NDA email")
	}
}
