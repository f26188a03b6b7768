package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chainscope/SupplyRisk-Intelligence/internal/application/risk"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/domain/supplier"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/infrastructure/monitoring/logging"
)

func newPredictCmd(opts *RootOptions) *cobra.Command {
	var (
		input   string
		horizon int
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict supplier risk over a horizon",
		Long:  "Reads a supplier snapshot as JSON and prints a forward-looking risk\nprediction. Uses the external prediction service when configured,\notherwise the built-in trend model.",
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

			pred, err := svc.PredictSupplierRisk(ctx, &snap, horizon)
			if err != nil {
				return err
			}

			return printResult(cmd.OutOrStdout(), opts.OutputFormat, pred, func(w io.Writer) {
				printPredictionText(w, pred)
			})
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "supplier snapshot JSON file (- for stdin)")
	cmd.Flags().IntVar(&horizon, "horizon", 0, "prediction horizon in days (0 uses the configured default)")
	return cmd
}

func printPredictionText(w io.Writer, p *risk.Prediction) {
	fmt.Fprintf(w, "Supplier:    %s\n", p.SupplierID)
	fmt.Fprintf(w, "Horizon:     %d days\n", p.HorizonDays)
	fmt.Fprintf(w, "Source:      %s (confidence %.0f%%)\n", p.Source, p.Confidence)
	fmt.Fprintf(w, "Current:     %d/100\n", p.CurrentScores.Overall)
	fmt.Fprintf(w, "Predicted:   %d/100 (%s)\n", p.PredictedScores.Overall, p.PredictedLevel)
	fmt.Fprintf(w, "Trend:       %s (%+d)\n", p.RiskTrend, p.OverallTrend)

	if len(p.Alerts) > 0 {
		fmt.Fprintln(w, "Alerts:")
		for _, a := range p.Alerts {
			fmt.Fprintf(w, "  ! %s\n", a)
		}
	}
	if len(p.RiskFactors) > 0 {
		fmt.Fprintln(w, "Risk factors:")
		for _, f := range p.RiskFactors {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}
}
