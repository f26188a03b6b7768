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

// RecommendInput is the JSON document the recommend command consumes.
type RecommendInput struct {
	Candidates []*supplier.Snapshot `json:"candidates"`
	Baseline   *supplier.Snapshot   `json:"baseline,omitempty"`
	Criteria   *risk.Criteria       `json:"criteria,omitempty"`
}

func newRecommendCmd(opts *RootOptions) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank alternative suppliers",
		Long:  "Reads a JSON document with candidate suppliers, an optional baseline,\nand optional criteria, and prints the ranked recommendations.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			log, err := logging.NewLogger(cfg.Log)
			if err != nil {
				return err
			}

			var in RecommendInput
			if err := readJSONInput(input, &in); err != nil {
				return err
			}

			svc, err := buildService(cfg, log)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			recs, err := svc.RecommendAlternatives(ctx, in.Candidates, in.Baseline, in.Criteria)
			if err != nil {
				return err
			}

			return printResult(cmd.OutOrStdout(), opts.OutputFormat, recs, func(w io.Writer) {
				printRecommendationsText(w, recs)
			})
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "recommendation request JSON file (- for stdin)")
	return cmd
}

func printRecommendationsText(w io.Writer, recs []*risk.Recommendation) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No eligible candidates.")
		return
	}
	for i, r := range recs {
		fmt.Fprintf(w, "%d. %s", i+1, r.SupplierID)
		if r.SupplierName != "" {
			fmt.Fprintf(w, " (%s)", r.SupplierName)
		}
		fmt.Fprintf(w, ": %.2f [%s, priority %d]\n", r.TotalScore, r.Type, r.Priority)
		fmt.Fprintf(w, "   quality %.1f | cost %.1f | risk %.1f | delivery %.1f | confidence %.1f%%\n",
			r.Components.Quality, r.Components.Cost, r.Components.Risk, r.Components.Delivery, r.Confidence)
		for _, adv := range r.Advantages {
			fmt.Fprintf(w, "   + %s\n", adv)
		}
		for _, riskNote := range r.Risks {
			fmt.Fprintf(w, "   - %s\n", riskNote)
		}
	}
}
