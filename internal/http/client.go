// Package http implements the gateway transport on top of go-retryablehttp.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/marvel-client/internal/constants"
	"github.com/fivetwenty-io/marvel-client/pkg/marvel"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

type attemptHookKey struct{}

// Client is a read-only HTTP client for the gateway.
type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
	logger     marvel.Logger
	debug      bool
	userAgent  string
}

// Request represents an HTTP request.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
}

// Response represents an HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger marvel.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithRetryConfig enables retries of 5xx, 429 and connection failures.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithTimeout sets the timeout of a single attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.HTTPClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying standard client, e.g. to use a
// test server's TLS configuration.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient.HTTPClient = client
		}
	}
}

// NewClient creates a new HTTP client. Paths passed to Do are resolved
// against baseURL unless they are absolute URLs.
func NewClient(baseURL string, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = 0
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, _ int) {
		if attempt, ok := req.Context().Value(attemptHookKey{}).(func()); ok {
			attempt()
		}
	}

	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: retryClient,
		userAgent:  constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do executes a request. Responses with status 400 or above are returned
// together with a *marvel.APIError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	target, err := c.resolve(req)
	if err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, method, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	requestID := uuid.NewString()
	started := time.Now()

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"request_id": requestID,
			"method":     method,
			"path":       target.Path,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"request_id":  requestID,
			"status_code": resp.StatusCode,
			"bytes":       len(body),
			"duration":    time.Since(started).String(),
		})
	}

	if resp.StatusCode >= constants.HTTPStatusBadRequest {
		return resp, parseError(resp)
	}

	return resp, nil
}

func (c *Client) resolve(req *Request) (*url.URL, error) {
	raw := req.Path
	if !strings.Contains(raw, "://") {
		raw = c.baseURL + "/" + strings.TrimLeft(raw, "/")
	}

	target, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid request URL: %w", err)
	}

	if len(req.Query) > 0 {
		query := target.Query()
		for key, values := range req.Query {
			query[key] = values
		}

		target.RawQuery = query.Encode()
	}

	return target, nil
}

func parseError(resp *Response) error {
	apiErr, err := marvel.ParseAPIError(resp.StatusCode, resp.Body)
	if err != nil {
		return &marvel.APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Fetch implements marvel.Transport.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.Get(ctx, rawURL, nil)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

// FetchAttempts implements marvel.AttemptTransport. attempt runs before the
// first call and before every retry.
func (c *Client) FetchAttempts(ctx context.Context, rawURL string, attempt func()) ([]byte, error) {
	if attempt != nil {
		ctx = context.WithValue(ctx, attemptHookKey{}, attempt)
	}

	return c.Fetch(ctx, rawURL)
}
