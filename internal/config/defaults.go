package config

import "time"

// Default value constants.
const (
	DefaultServerPort = 8080
	DefaultServerMode = "debug"

	DefaultRedisAddr = "localhost:6379"

	DefaultPredictionMode    = PredictionModeFallbackOnly
	DefaultPredictionTimeout = 10 * time.Second
	DefaultHorizonDays       = 90
	DefaultMaxHorizonDays    = 365

	DefaultBatchConcurrency = 10
	DefaultCacheTTL         = 15 * time.Minute

	DefaultMaxRecommendations = 5

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg with the platform default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.  It must be called
// after unmarshalling raw config data and before Validate() so that
// optional-but-defaulted fields are never seen as missing.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Enabled && cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = DefaultCacheTTL
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "supplyrisk"
	}

	// ── Prediction ────────────────────────────────────────────────────────────
	if cfg.Prediction.Mode == "" {
		cfg.Prediction.Mode = DefaultPredictionMode
	}
	if cfg.Prediction.Timeout == 0 {
		cfg.Prediction.Timeout = DefaultPredictionTimeout
	}
	if cfg.Prediction.DefaultHorizonDays == 0 {
		cfg.Prediction.DefaultHorizonDays = DefaultHorizonDays
	}
	if cfg.Prediction.MaxHorizonDays == 0 {
		cfg.Prediction.MaxHorizonDays = DefaultMaxHorizonDays
	}
	// AllowFallback is a bool; false is a valid explicit value so we cannot
	// distinguish "not set" from "set to false".  The zero value keeps the
	// gateway strict by default; operators opt in to degradation explicitly.

	// ── Risk ──────────────────────────────────────────────────────────────────
	if cfg.Risk.BatchConcurrency == 0 {
		cfg.Risk.BatchConcurrency = DefaultBatchConcurrency
	}
	if cfg.Risk.CacheTTL == 0 {
		cfg.Risk.CacheTTL = DefaultCacheTTL
	}

	// ── Recommendation ────────────────────────────────────────────────────────
	if cfg.Recommendation.MaxRecommendations == 0 {
		cfg.Recommendation.MaxRecommendations = DefaultMaxRecommendations
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
