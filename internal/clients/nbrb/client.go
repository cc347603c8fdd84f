// Package nbrb provides a client for the National Bank of the Republic of
// Belarus open rates API.
package nbrb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/mkarneyeu/ratewatch/internal/common"
	"github.com/mkarneyeu/ratewatch/internal/interfaces"
	"github.com/mkarneyeu/ratewatch/internal/models"
)

const (
	DefaultBaseURL   = "https://api.nbrb.by"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per second

	dateParam = "2006-01-02"
)

// Client implements the RatesClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new NBRB client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a non-2xx upstream response. The fetch pipeline treats
// it as a hard failure for the current request.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("NBRB API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// observation is the raw upstream record. Bullion endpoints publish the
// price under "Value", currency dynamics under "Cur_OfficialRate"; the
// unused field is simply absent.
type observation struct {
	Date         string  `json:"Date"`
	Value        float64 `json:"Value"`
	OfficialRate float64 `json:"Cur_OfficialRate"`
}

func (o observation) pricePoint(kind models.InstrumentKind) (models.PricePoint, error) {
	// Dates arrive as "2006-01-02T00:00:00"; only the day part matters.
	raw := o.Date
	if len(raw) > len(dateParam) {
		raw = raw[:len(dateParam)]
	}
	date, err := time.Parse(dateParam, raw)
	if err != nil {
		return models.PricePoint{}, fmt.Errorf("unparseable observation date %q: %w", o.Date, err)
	}

	value := o.Value
	if kind == models.KindCurrency {
		value = o.OfficialRate
	}
	return models.PricePoint{Date: date, Value: value}, nil
}

// get performs a rate-limited GET request and decodes the JSON body.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("NBRB API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// FetchRange retrieves observations for [start, end] inclusive. The caller
// is responsible for keeping the range within the upstream span limit.
func (c *Client) FetchRange(ctx context.Context, instrument models.Instrument, start, end time.Time) ([]models.PricePoint, error) {
	params := url.Values{}
	params.Set("startDate", start.Format(dateParam))
	params.Set("endDate", end.Format(dateParam))

	var raw []observation
	if err := c.get(ctx, instrument.Endpoint, params, &raw); err != nil {
		return nil, err
	}

	points := make([]models.PricePoint, 0, len(raw))
	for _, obs := range raw {
		p, err := obs.pricePoint(instrument.Kind)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}

	return points, nil
}

// FetchDay retrieves the observation for a single day. An empty result means
// nothing was published for that date.
func (c *Client) FetchDay(ctx context.Context, instrument models.Instrument, day time.Time) ([]models.PricePoint, error) {
	return c.FetchRange(ctx, instrument, day, day)
}

// Ensure Client implements RatesClient
var _ interfaces.RatesClient = (*Client)(nil)
