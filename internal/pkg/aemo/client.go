package aemo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/anicoll/nem-integration/internal/pkg/model"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

// Client reads the four dashboard reports. The HTTP session is either owned
// (created here, released by Close) or borrowed via WithHTTPClient (never
// closed by this client); the mode is fixed at construction.
type Client struct {
	httpc   *http.Client
	baseURL string
	timeout time.Duration
	owned   bool
	logger  *zap.Logger
}

type Option func(*Client)

// WithHTTPClient borrows the caller's HTTP client. Close becomes a no-op.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		timeout: defaultTimeout,
		logger:  zap.L(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpc == nil {
		c.httpc = &http.Client{Timeout: c.timeout}
		c.owned = true
	}
	return c
}

// Close releases the owned HTTP session. A borrowed session is left alone.
func (c *Client) Close() error {
	if c.owned {
		c.httpc.CloseIdleConnections()
	}
	return nil
}

// FiveMinutePrices fetches the 5 minute actual and forecast spot prices for
// all regions.
func (c *Client) FiveMinutePrices(ctx context.Context) (*model.FiveMinResponse, error) {
	out := &model.FiveMinResponse{}
	body := map[string]any{"timeScale": []string{"30MIN"}}
	if err := c.post(ctx, endpointFiveMin, body, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CumulativePrice fetches the running cumulative price feed.
func (c *Client) CumulativePrice(ctx context.Context) (*model.CumulativePriceResponse, error) {
	out := &model.CumulativePriceResponse{}
	if err := c.get(ctx, endpointCumulativePrice, out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarketPriceLimits fetches the market wide caps and thresholds.
func (c *Client) MarketPriceLimits(ctx context.Context) (model.MarketLimits, error) {
	raw := &model.MarketPriceLimitsResponse{}
	if err := c.get(ctx, endpointMarketPriceLimits, raw); err != nil {
		return model.MarketLimits{}, err
	}
	limits := model.MarketLimits{}
	for _, limit := range raw.Limits {
		switch limit.Key {
		case model.LimitKeyAdministeredPriceCap:
			limits.AdministeredPriceCap = limit.Value
		case model.LimitKeyCumulativePriceThreshold:
			limits.CumulativePriceThreshold = limit.Value
		case model.LimitKeyMarketPriceCap:
			limits.MarketPriceCap = limit.Value
		}
	}
	return limits, nil
}

// NemSummary fetches the per-region grid snapshot report, including the
// market notice and price lists the aggregation engine does not consume.
func (c *Client) NemSummary(ctx context.Context) (*model.NemSummaryResponse, error) {
	out := &model.NemSummaryResponse{}
	if err := c.get(ctx, endpointNemSummary, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) post(ctx context.Context, endpoint string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: marshal request: %v", ErrClient, err)
	}
	return c.do(ctx, http.MethodPost, endpoint, bytes.NewReader(data), out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrClient, err)
	}
	req.Header.Set("Content_type", "text/json")
	req.Header.Set("accept", "text/plain")

	c.logger.Debug("fetching report", zap.String("endpoint", endpoint))
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrClient, err)
	}
	defer resp.Body.Close()

	return c.handleResponse(resp, out)
}

// errorEnvelope is checked before decoding the report payload; the dashboard
// reports auth failures inside a 200 response.
type errorEnvelope struct {
	Error string `json:"error"`
}

func (c *Client) handleResponse(resp *http.Response, out any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrClient, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", ErrClient, resp.StatusCode, data)
	}

	envelope := errorEnvelope{}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrClient, err)
	}
	if envelope.Error != "" {
		if lo.Contains(authErrorCodes, envelope.Error) {
			return fmt.Errorf("%w: %s", ErrAuth, envelope.Error)
		}
		return fmt.Errorf("%w: %s", ErrClient, envelope.Error)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode report: %v", ErrClient, err)
	}
	return nil
}
