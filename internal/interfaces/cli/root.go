// Package cli implements the supplyrisk command line interface.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/chainscope/SupplyRisk-Intelligence/internal/application/risk"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/config"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/intelligence/mlservice"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Timeout      time.Duration
}

// NewRootCommand creates the root command with global flags and subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "supplyrisk",
		Short: "Supplier risk scoring, prediction, and alternative recommendation",
		Long: "supplyrisk evaluates supplier risk across financial, operational,\n" +
			"compliance, and geographic categories, projects risk forward over a\n" +
			"horizon, and ranks alternative suppliers against weighted criteria.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json)")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "operation timeout")

	cmd.AddCommand(newScoreCmd(opts))
	cmd.AddCommand(newPredictCmd(opts))
	cmd.AddCommand(newForecastCmd(opts))
	cmd.AddCommand(newRecommendCmd(opts))

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// loadConfig resolves the effective configuration for a command run.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	cfg.Log.Format = "console"
	return cfg, nil
}

// buildService wires the in-process risk service for CLI runs.  No cache and
// no metrics backend; the external predictor is attached only when the
// configuration enables it.
func buildService(cfg *config.Config, log logging.Logger) (risk.Service, error) {
	scorer := risk.NewScorer()

	var external risk.ExternalPredictor
	if cfg.Prediction.Mode == config.PredictionModeExternal {
		client, err := mlservice.NewClient(cfg.Prediction, log)
		if err != nil {
			return nil, err
		}
		external = client
	}

	gateway := risk.NewPredictionGateway(external, nil, scorer,
		risk.GatewayConfigFrom(cfg.Prediction), log, nil)
	ranker := risk.NewRanker(scorer, log, cfg.Recommendation.MaxRecommendations)

	return risk.NewService(scorer, gateway, ranker, nil, nil, log, cfg.Risk), nil
}

// readJSONInput decodes JSON from a file path, or from stdin when the path
// is "-".
func readJSONInput(path string, dest interface{}) error {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("failed to parse input JSON: %w", err)
	}
	return nil
}

// printResult writes the result in the selected output format.
func printResult(w io.Writer, format string, v interface{}, text func(io.Writer)) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "text", "":
		text(w)
		return nil
	default:
		return fmt.Errorf("invalid output format: %s (must be text or json)", format)
	}
}
