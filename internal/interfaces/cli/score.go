package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chainscope/SupplyRisk-Intelligence/internal/application/risk"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/domain/supplier"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/infrastructure/monitoring/logging"
)

func newScoreCmd(opts *RootOptions) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Assess a supplier snapshot",
		Long:  "Reads a supplier snapshot as JSON and prints its risk assessment.\nUse --input - to read from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			log, err := logging.NewLogger(cfg.Log)
			if err != nil {
				return err
			}

			var snap supplier.Snapshot
			if err := readJSONInput(input, &snap); err != nil {
				return err
			}

			svc, err := buildService(cfg, log)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			assessment, err := svc.AssessSupplier(ctx, &snap)
			if err != nil {
				return err
			}

			return printResult(cmd.OutOrStdout(), opts.OutputFormat, assessment, func(w io.Writer) {
				printAssessmentText(w, assessment)
			})
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "supplier snapshot JSON file (- for stdin)")
	return cmd
}

func printAssessmentText(w io.Writer, a *risk.Assessment) {
	fmt.Fprintf(w, "Supplier:   %s", a.SupplierID)
	if a.SupplierName != "" {
		fmt.Fprintf(w, " (%s)", a.SupplierName)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Level:      %s - %s\n", a.Level, a.LevelDescription)
	fmt.Fprintf(w, "Overall:    %d/100\n", a.Scores.Overall)
	fmt.Fprintln(w, "Categories:")
	fmt.Fprintf(w, "  Financial:    %d\n", a.Scores.Financial)
	fmt.Fprintf(w, "  Operational:  %d\n", a.Scores.Operational)
	fmt.Fprintf(w, "  Compliance:   %d\n", a.Scores.Compliance)
	fmt.Fprintf(w, "  Geographic:   %d\n", a.Scores.Geographic)

	if len(a.RiskFactors) > 0 {
		fmt.Fprintln(w, "Risk factors:")
		for _, f := range a.RiskFactors {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}
	if len(a.MitigationActions) > 0 {
		fmt.Fprintln(w, "Mitigation actions:")
		for _, action := range a.MitigationActions {
			fmt.Fprintf(w, "  - %s\n", action)
		}
	}
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "Assessment %s at %s\n", a.AssessmentID, a.AssessedAt.Format("2006-01-02 15:04:05"))
}
