package exrate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kylycht/apex/model"
	"github.com/kylycht/apex/service"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL   string = "https://open.exchangerate-api.com/v6" // keyless endpoint of ExchangeRate-API
	defaultUserAgent string = "apex-widget/1.0"

	resultError       = "error"
	unknownFetchError = "unknown error while fetching exchange rates"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=exrate_test -destination=mock_http_client_test.go -source=exrate.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Response is the body of GET /latest/{base}.
// The keyless endpoint reports rates under "rates",
// the keyed one under "conversion_rates".
type Response struct {
	Result             string             `json:"result"`
	ErrorType          string             `json:"error-type"`
	BaseCode           string             `json:"base_code"`
	TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
	Rates              map[string]float64 `json:"rates"`
	ConversionRates    map[string]float64 `json:"conversion_rates"`
}

type Client struct {
	baseURL    string      // Base URL for API requests
	apiKey     string      // Optional key, switches to the keyed endpoint
	httpClient HTTPClient  // HTTP client used to communicate with the API
	header     http.Header // Additional headers sent with each request
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithAPIKey makes the client use the keyed v6 endpoint.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) Option {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

func New(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: NewHTTPClient(10*time.Second, defaultUserAgent),
		header:     http.Header{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if _, err := url.Parse(c.baseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	return c, nil
}

// NewHTTPClient returns an http.Client that stamps userAgent
// on every outgoing request
func NewHTTPClient(timeout time.Duration, userAgent string) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: roundTripperFn(
			func(req *http.Request) (*http.Response, error) {
				if req.Header.Get("User-Agent") == "" {
					req = req.Clone(req.Context())
					req.Header.Set("User-Agent", userAgent)
				}

				return http.DefaultTransport.RoundTrip(req)
			},
		),
	}
}

// FetchRates implements service.RateSource.
// GET /latest/USD or /{key}/latest/USD
func (c *Client) FetchRates(ctx context.Context, base model.CurrencyCode) (model.Rates, error) {
	endpoint := c.endpoint(base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return model.Rates{}, service.NetworkError("unable to build exchange rate request", err)
	}
	for key, values := range c.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	r := &Response{}
	if err := c.Do(req, r); err != nil {
		return model.Rates{}, err
	}

	if r.Result == resultError {
		msg := r.ErrorType
		if msg == "" {
			msg = unknownFetchError
		}
		return model.Rates{}, service.InvalidResponseError(msg, nil)
	}

	raw := r.Rates
	if len(raw) == 0 {
		raw = r.ConversionRates
	}

	table := model.NewRateTable(raw)
	if len(table) == 0 {
		return model.Rates{}, service.InvalidResponseError("exchange rate response contains no rates", nil)
	}

	log.Debug().
		Str("base", base.String()).
		Int("rates", len(table)).
		Int64("updated", r.TimeLastUpdateUnix).
		Msg("fetched exchange rates")

	return model.Rates{
		Table:     table,
		UpdatedAt: time.Unix(r.TimeLastUpdateUnix, 0),
	}, nil
}

// Do performs req and decodes a JSON body into r.
// All failures are returned as *service.FetchError.
func (c *Client) Do(req *http.Request, r *Response) error {
	log.Debug().Str("url", c.redact(req.URL.String())).Msg("fetching information from API")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return service.NetworkError("exchange rate request timed out", err)
		}
		return service.NetworkError("network request failed, unable to fetch latest exchange rates", err)
	}

	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode == http.StatusNotFound:
		return service.InvalidResponseError("exchange rate endpoint not found", statusErr(resp.StatusCode))
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return service.InvalidResponseError("exchange rate request unauthorized", statusErr(resp.StatusCode))
	case resp.StatusCode == http.StatusTooManyRequests:
		return service.InvalidResponseError("exchange rate provider rate limited the request", statusErr(resp.StatusCode))
	default:
		return service.InvalidResponseError(
			fmt.Sprintf("unable to fetch exchange rates due to code: %d", resp.StatusCode),
			statusErr(resp.StatusCode),
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(r); err != nil {
		return service.InvalidResponseError("unable to decode exchange rate response", err)
	}

	return nil
}

func (c *Client) endpoint(base model.CurrencyCode) string {
	if c.apiKey != "" {
		return fmt.Sprintf("%s/%s/latest/%s", c.baseURL, url.PathEscape(c.apiKey), base)
	}

	return fmt.Sprintf("%s/latest/%s", c.baseURL, base)
}

// redact hides the api key in logged URLs
func (c *Client) redact(u string) string {
	if c.apiKey == "" {
		return u
	}

	return strings.ReplaceAll(u, url.PathEscape(c.apiKey), "[MASKED]")
}

func statusErr(code int) error {
	return fmt.Errorf("unexpected status code: %d", code)
}

type roundTripperFn func(*http.Request) (*http.Response, error)

func (fn roundTripperFn) RoundTrip(r *http.Request) (*http.Response, error) {
	return fn(r)
}

var _ service.RateSource = (*Client)(nil)
