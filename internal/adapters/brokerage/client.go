// Package brokerage talks to the upstream brokerage data provider that
// linked accounts mirror from.
package brokerage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"github.com/squadfolio/squadfolio_service/internal/infrastructure/config"
	"github.com/squadfolio/squadfolio_service/pkg/circuitbreaker"
	"github.com/squadfolio/squadfolio_service/pkg/logger"
	"github.com/squadfolio/squadfolio_service/pkg/metrics"
	"github.com/squadfolio/squadfolio_service/pkg/tracing"
)

// Client is the low-level HTTP client for the brokerage API. All calls go
// through a circuit breaker so a provider outage degrades the sync worker
// instead of hammering a dead upstream.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	apiSecret  string
	breaker    *gobreaker.CircuitBreaker
	logger     *logger.Logger
}

func NewClient(cfg config.BrokerageConfig, log *logger.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		breaker:    circuitbreaker.New("brokerage", circuitbreaker.DefaultConfig()),
		logger:     log,
	}
}

// AccountSummary is the provider's account snapshot at request time.
type AccountSummary struct {
	AccountID  string          `json:"account_id"`
	Equity     decimal.Decimal `json:"equity"`
	ProfitLoss decimal.Decimal `json:"profit_loss"`
	Currency   string          `json:"currency"`
}

// ProviderPosition is one holding as the provider reports it.
type ProviderPosition struct {
	Symbol      string          `json:"symbol"`
	Name        string          `json:"name"`
	AssetType   string          `json:"asset_type"`
	Quantity    decimal.Decimal `json:"qty"`
	Price       decimal.Decimal `json:"current_price"`
	MarketValue decimal.Decimal `json:"market_value"`
}

// GetAccountSummary fetches an account's current equity and day profit/loss.
func (c *Client) GetAccountSummary(ctx context.Context, externalAccountID string) (*AccountSummary, error) {
	var summary AccountSummary
	path := fmt.Sprintf("/v1/accounts/%s/summary", externalAccountID)
	if err := c.get(ctx, "account_summary", path, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ListPositions fetches an account's current holdings.
func (c *Client) ListPositions(ctx context.Context, externalAccountID string) ([]ProviderPosition, error) {
	var positions []ProviderPosition
	path := fmt.Sprintf("/v1/accounts/%s/positions", externalAccountID)
	if err := c.get(ctx, "positions", path, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

func (c *Client) get(ctx context.Context, operation, path string, dest interface{}) error {
	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("APCA-API-KEY-ID", c.apiKey)
		req.Header.Set("APCA-API-SECRET-KEY", c.apiSecret)
		tracing.InjectTraceContext(ctx, req.Header)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("brokerage API returned %d: %s", resp.StatusCode, string(body))
		}
		return body, nil
	})
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.BrokerageRequestDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
	if err != nil {
		c.logger.CtxWarn(ctx, "Brokerage request failed", "path", path, "error", err)
		return err
	}

	if err := json.Unmarshal(result.([]byte), dest); err != nil {
		return fmt.Errorf("failed to decode brokerage response: %w", err)
	}
	return nil
}
