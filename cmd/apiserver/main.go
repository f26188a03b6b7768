// API server entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainscope/SupplyRisk-Intelligence/internal/application/risk"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/config"
	cacheredis "github.com/chainscope/SupplyRisk-Intelligence/internal/infrastructure/cache/redis"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/intelligence/mlservice"
	httpserver "github.com/chainscope/SupplyRisk-Intelligence/internal/interfaces/http"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/interfaces/http/handlers"
)

// Build-time variables injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logging.SetDefault(logger)
	logger.Info("starting supplyrisk api server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metrics
	collector, err := prometheus.NewCollector(prometheus.CollectorConfig{
		Namespace:            "supplyrisk",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return err
	}
	appMetrics := prometheus.NewAppMetrics(collector)
	recorder := prometheus.NewRecorder(appMetrics)

	// Optional assessment cache
	var cache risk.Cache
	var checkers []handlers.HealthChecker
	if cfg.Redis.Enabled {
		client, err := cacheredis.NewClient(ctx, cfg.Redis, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer client.Close()

		cache = cacheredis.NewCache(client, logger,
			cacheredis.WithPrefix(cfg.Redis.KeyPrefix+":"),
			cacheredis.WithDefaultTTL(cfg.Redis.DefaultTTL))
		checkers = append(checkers, handlers.CheckerFunc{
			CheckerName: "redis",
			Fn:          client.Ping,
		})
	}

	// Optional external prediction service
	var external risk.ExternalPredictor
	if cfg.Prediction.Mode == config.PredictionModeExternal {
		client, err := mlservice.NewClient(cfg.Prediction, logger)
		if err != nil {
			return fmt.Errorf("failed to build prediction client: %w", err)
		}
		external = client
		checkers = append(checkers, handlers.CheckerFunc{
			CheckerName: "prediction-service",
			Fn:          client.Healthy,
		})
	}

	// Application service
	scorer := risk.NewScorer()
	gateway := risk.NewPredictionGateway(external, nil, scorer,
		risk.GatewayConfigFrom(cfg.Prediction), logger, recorder)
	ranker := risk.NewRanker(scorer, logger, cfg.Recommendation.MaxRecommendations)
	svc := risk.NewService(scorer, gateway, ranker, cache, recorder, logger, cfg.Risk)

	// HTTP
	router := httpserver.NewRouter(httpserver.RouterConfig{
		RiskHandler:    handlers.NewRiskHandler(svc, logger),
		HealthHandler:  handlers.NewHealthHandler(version, logger, checkers...),
		Logger:         logger,
		AppMetrics:     appMetrics,
		MetricsHandler: collector.Handler(),
		Mode:           cfg.Server.Mode,
	})
	server := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	return server.Stop(context.Background())
}
