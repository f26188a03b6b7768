// Package config defines all configuration structures for the
// SupplyRisk-Intelligence platform.  No I/O or parsing logic lives here,
// only plain data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/chainscope/SupplyRisk-Intelligence/internal/infrastructure/monitoring/logging"
)

// Prediction gateway modes.
const (
	PredictionModeExternal     = "external_enabled"
	PredictionModeFallbackOnly = "fallback_only"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RedisConfig holds Redis connection parameters for the assessment cache.
// The cache is optional; when Enabled is false the application runs with an
// in-process no-op cache.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// PredictionConfig holds parameters for the external risk-prediction service
// and the gateway that fronts it.
type PredictionConfig struct {
	// Mode selects the gateway strategy: "external_enabled" calls the remote
	// service first, "fallback_only" never leaves the process.
	Mode string `mapstructure:"mode"`

	// BaseURL is the root URL of the prediction service, e.g.
	// "http://ml-service:5000".  Required when Mode is "external_enabled".
	BaseURL string `mapstructure:"base_url"`

	// Timeout bounds each HTTP call to the prediction service.  An expired
	// timeout is treated like any other transport failure.
	Timeout time.Duration `mapstructure:"timeout"`

	// AllowFallback controls behaviour when the external call fails: true
	// degrades to the internal heuristic predictor, false surfaces a typed
	// error to the caller.
	AllowFallback bool `mapstructure:"allow_fallback"`

	// DefaultHorizonDays is used when a request does not specify a horizon.
	DefaultHorizonDays int `mapstructure:"default_horizon_days"`

	// MaxHorizonDays bounds the accepted horizon.
	MaxHorizonDays int `mapstructure:"max_horizon_days"`
}

// RiskConfig holds risk-assessment execution parameters.
type RiskConfig struct {
	// BatchConcurrency bounds the worker pool used for batch assessments.
	BatchConcurrency int `mapstructure:"batch_concurrency"`

	// CacheTTL is how long computed assessments stay valid in the cache.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// RecommendationConfig holds supplier-recommendation parameters.
type RecommendationConfig struct {
	// MaxRecommendations caps the ranked list length when the request
	// criteria do not specify a limit.
	MaxRecommendations int `mapstructure:"max_recommendations"`
}

// Config is the root configuration structure for the entire platform.
// Every infrastructure component and application service reads its settings
// from the relevant sub-struct.
type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Prediction     PredictionConfig     `mapstructure:"prediction"`
	Risk           RiskConfig           `mapstructure:"risk"`
	Recommendation RecommendationConfig `mapstructure:"recommendation"`
	Log            logging.LogConfig    `mapstructure:"log"`
}

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required when redis.enabled is true")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
		}
	}

	// Prediction
	switch c.Prediction.Mode {
	case PredictionModeExternal, PredictionModeFallbackOnly:
	default:
		return fmt.Errorf("config: prediction.mode %q is invalid; expected %s|%s",
			c.Prediction.Mode, PredictionModeExternal, PredictionModeFallbackOnly)
	}
	if c.Prediction.Mode == PredictionModeExternal && c.Prediction.BaseURL == "" {
		return fmt.Errorf("config: prediction.base_url is required when prediction.mode is %s",
			PredictionModeExternal)
	}
	if c.Prediction.Timeout <= 0 {
		return fmt.Errorf("config: prediction.timeout must be > 0, got %s", c.Prediction.Timeout)
	}
	if c.Prediction.DefaultHorizonDays < 1 {
		return fmt.Errorf("config: prediction.default_horizon_days must be ≥ 1, got %d",
			c.Prediction.DefaultHorizonDays)
	}
	if c.Prediction.MaxHorizonDays < c.Prediction.DefaultHorizonDays {
		return fmt.Errorf("config: prediction.max_horizon_days %d is below default_horizon_days %d",
			c.Prediction.MaxHorizonDays, c.Prediction.DefaultHorizonDays)
	}

	// Risk
	if c.Risk.BatchConcurrency < 1 {
		return fmt.Errorf("config: risk.batch_concurrency must be ≥ 1, got %d", c.Risk.BatchConcurrency)
	}

	// Recommendation
	if c.Recommendation.MaxRecommendations < 1 {
		return fmt.Errorf("config: recommendation.max_recommendations must be ≥ 1, got %d",
			c.Recommendation.MaxRecommendations)
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
