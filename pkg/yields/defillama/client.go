// Package defillama reads the cross-protocol yields index that backs the
// aggregation engine's fallback population.
package defillama

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL          = "https://yields.llama.fi/pools"
	defaultHTTPTimeout      = 10 * time.Second
	defaultMaxRetries       = 2
	defaultRetryBackoffBase = 150 * time.Millisecond
)

// Client wraps access to the yields index endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

// Option configures a new Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL overrides the default yields index URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithMaxRetries adjusts how many times a failed request is retried.
func WithMaxRetries(max int) Option {
	return func(c *Client) {
		if max >= 0 {
			c.maxRetries = max
		}
	}
}

// NewClient constructs a yields index client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// Pool is one entry of the yields index payload.
type Pool struct {
	Pool             string   `json:"pool"`
	Chain            string   `json:"chain"`
	Project          string   `json:"project"`
	Symbol           string   `json:"symbol"`
	TVLUSD           float64  `json:"tvlUsd"`
	APY              *float64 `json:"apy"`
	APYBase          *float64 `json:"apyBase"`
	APYReward        *float64 `json:"apyReward"`
	RewardTokens     []string `json:"rewardTokens"`
	UnderlyingTokens []string `json:"underlyingTokens"`
	PoolMeta         string   `json:"poolMeta"`
	Stablecoin       bool     `json:"stablecoin"`
	ILRisk           string   `json:"ilRisk"`
	Exposure         string   `json:"exposure"`
	URL              string   `json:"url"`
}

type poolsResponse struct {
	Status string `json:"status"`
	Data   []Pool `json:"data"`
}

// Pools fetches the full yields index filtered to the given chain, keeping
// only entries with positive TVL and a non-null APY.
func (c *Client) Pools(ctx context.Context, chain string) ([]Pool, error) {
	var response poolsResponse
	if err := c.doRequest(ctx, &response); err != nil {
		return nil, err
	}
	if response.Data == nil {
		return nil, fmt.Errorf("defillama: response missing data array")
	}

	pools := make([]Pool, 0, 64)
	for _, pool := range response.Data {
		if pool.Chain != chain || pool.TVLUSD <= 0 {
			continue
		}
		if pool.APY == nil || *pool.APY < 0 {
			continue
		}
		pools = append(pools, pool)
	}
	return pools, nil
}

// doRequest issues a GET against the yields index and decodes the body,
// retrying transient transport failures with exponential backoff.
func (c *Client) doRequest(ctx context.Context, result interface{}) error {
	var lastErr error
	backoff := defaultRetryBackoffBase
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
		if err != nil {
			return fmt.Errorf("defillama: build request: %w", err)
		}
		httpReq.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
		} else {
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("defillama: read response: %w", readErr)
			} else if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				lastErr = fmt.Errorf("defillama: http status %d", resp.StatusCode)
			} else {
				if err := json.Unmarshal(body, result); err != nil {
					return fmt.Errorf("defillama: decode response: %w", err)
				}
				return nil
			}
		}

		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}
	}
	if lastErr != nil {
		return fmt.Errorf("defillama: %w", lastErr)
	}
	return fmt.Errorf("defillama: request failed without error detail")
}
