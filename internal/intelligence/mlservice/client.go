// Package mlservice is the typed HTTP client for the external risk
// prediction service.
package mlservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chainscope/SupplyRisk-Intelligence/internal/application/risk"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/config"
	"github.com/chainscope/SupplyRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/chainscope/SupplyRisk-Intelligence/pkg/errors"
)

const (
	pathPredictRisk = "/api/v1/predictions/supplier-risk"
	pathForecast    = "/api/v1/predictions/forecast"
	pathHealth      = "/health"
)

const maxResponseBytes = 1 << 20

// ForecastRequest asks for a generic time-series projection.
type ForecastRequest struct {
	HistoricalData []float64 `json:"historical_data"`
	HorizonDays    int       `json:"horizon_days"`
}

// ForecastResult is the service's projection over the horizon.
type ForecastResult struct {
	Predictions  []float64 `json:"predictions"`
	Confidence   float64   `json:"confidence"`
	ModelVersion string    `json:"model_version"`
	Features     []string  `json:"features"`
}

// Client talks to the prediction service over HTTP.  It implements the
// application layer's ExternalPredictor port.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger
}

// Option customizes the Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client, used by tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient builds a prediction service client from configuration.
func NewClient(cfg config.PredictionConfig, log logging.Logger, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New(errors.ErrCodeValidation, "prediction base URL cannot be empty")
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultPredictionTimeout
	}
	c := &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// PredictRisk requests a supplier risk prediction.
func (c *Client) PredictRisk(ctx context.Context, req risk.ExternalPredictionRequest) (*risk.ExternalPredictionResult, error) {
	var result risk.ExternalPredictionResult
	if err := c.postJSON(ctx, pathPredictRisk, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Forecast requests a generic projection of a historical series.
func (c *Client) Forecast(ctx context.Context, req ForecastRequest) (*ForecastResult, error) {
	var result ForecastResult
	if err := c.postJSON(ctx, pathForecast, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Healthy probes the service's health endpoint.  Any 2xx answer counts as
// healthy.
func (c *Client) Healthy(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathHealth, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to build health request")
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "prediction service unreachable")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Newf(errors.ErrCodeExternalService,
			"prediction service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, dest interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return errors.Wrap(err, errors.ErrCodePredictionTimeout, "prediction request timed out")
		}
		return errors.Wrap(err, errors.ErrCodeExternalService, "prediction service call failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to read response")
	}

	c.logger.Debug("prediction service call",
		logging.String("path", path),
		logging.Int("status", resp.StatusCode),
		logging.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New(errors.ErrCodeExternalService,
			fmt.Sprintf("prediction service returned status %d", resp.StatusCode))
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodePredictionParseFailed, "failed to parse prediction response")
	}
	return nil
}
