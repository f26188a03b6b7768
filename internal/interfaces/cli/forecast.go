package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chainscope/SupplyRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/intelligence/mlservice"
)

func newForecastCmd(opts *RootOptions) *cobra.Command {
	var (
		input   string
		horizon int
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project a historical risk series forward",
		Long:  "Reads a historical score series as JSON and asks the external\nprediction service for a projection over the horizon. Requires\nprediction.base_url to be configured.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			log, err := logging.NewLogger(cfg.Log)
			if err != nil {
				return err
			}

			var req mlservice.ForecastRequest
			if err := readJSONInput(input, &req); err != nil {
				return err
			}
			if horizon > 0 {
				req.HorizonDays = horizon
			}
			if req.HorizonDays <= 0 {
				req.HorizonDays = cfg.Prediction.DefaultHorizonDays
			}

			client, err := mlservice.NewClient(cfg.Prediction, log)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			result, err := client.Forecast(ctx, req)
			if err != nil {
				return err
			}

			return printResult(cmd.OutOrStdout(), opts.OutputFormat, result, func(w io.Writer) {
				printForecastText(w, result)
			})
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "historical series JSON file (- for stdin)")
	cmd.Flags().IntVar(&horizon, "horizon", 0, "forecast horizon in days (0 uses the configured default)")
	return cmd
}

func printForecastText(w io.Writer, r *mlservice.ForecastResult) {
	fmt.Fprintf(w, "Model:       %s (confidence %.0f%%)\n", r.ModelVersion, r.Confidence)
	if len(r.Features) > 0 {
		fmt.Fprintf(w, "Features:    %s\n", strings.Join(r.Features, ", "))
	}
	fmt.Fprintln(w, "Predictions:")
	for i, p := range r.Predictions {
		fmt.Fprintf(w, "  [%d] %.2f\n", i+1, p)
	}
}
