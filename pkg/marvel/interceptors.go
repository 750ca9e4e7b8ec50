package marvel

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const metadataStartTime = "start_time"

// Request describes a dispatch that can be intercepted. Query holds the
// caller parameters only; credentials are added after interception.
type Request struct {
	Method   string
	Path     string
	Query    url.Values
	Metadata map[string]interface{}
}

// Response describes the outcome of a dispatch.
type Response struct {
	StatusCode int
	Body       []byte
	Error      error
}

// RequestInterceptor is called before a request is dispatched. Returning an
// error aborts the request before it is counted.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor is called after the transport returns.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response) error

// InterceptorChain manages a chain of interceptors.
type InterceptorChain struct {
	mu                   sync.RWMutex
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates a new interceptor chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{}
}

// AddRequestInterceptor adds a request interceptor to the chain.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requestInterceptors = append(c.requestInterceptors, interceptor)
}

// AddResponseInterceptor adds a response interceptor to the chain.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.responseInterceptors = append(c.responseInterceptors, interceptor)
}

// ExecuteRequestInterceptors runs all request interceptors.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *Request) error {
	c.mu.RLock()
	interceptors := c.requestInterceptors
	c.mu.RUnlock()

	for _, interceptor := range interceptors {
		err := interceptor(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs all response interceptors.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *Request, resp *Response) error {
	c.mu.RLock()
	interceptors := c.responseInterceptors
	c.mu.RUnlock()

	for _, interceptor := range interceptors {
		err := interceptor(ctx, req, resp)
		if err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

// LoggingInterceptor logs requests.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		logger.Debug("Gateway Request", map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
			"query":  req.Query.Encode(),
		})

		return nil
	}
}

// LoggingResponseInterceptor logs responses.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		fields := map[string]interface{}{
			"method":      req.Method,
			"path":        req.Path,
			"status_code": resp.StatusCode,
			"bytes":       len(resp.Body),
		}

		if resp.Error != nil {
			fields["error"] = resp.Error.Error()
			logger.Error("Gateway Response Error", fields)
		} else {
			logger.Debug("Gateway Response", fields)
		}

		return nil
	}
}

// RateLimitInterceptor blocks until limiter grants a token. The gateway
// enforces a daily quota per key, so long expansions can be paced here.
func RateLimitInterceptor(limiter *rate.Limiter) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		err := limiter.Wait(ctx)
		if err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		return nil
	}
}

// NewRateLimiter creates a limiter allowing requestsPerSecond with a burst of one.
func NewRateLimiter(requestsPerSecond float64) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
}

// MarkStart stores the dispatch start time in the request metadata.
func MarkStart(ctx context.Context, req *Request) error {
	if req.Metadata == nil {
		req.Metadata = make(map[string]interface{})
	}

	req.Metadata[metadataStartTime] = time.Now()

	return nil
}

// Elapsed returns the time since MarkStart ran for req, or zero.
func Elapsed(req *Request) time.Duration {
	if startTime, ok := req.Metadata[metadataStartTime].(time.Time); ok {
		return time.Since(startTime)
	}

	return 0
}

// EndpointKey returns "METHOD path" with numeric path segments replaced by {id}.
func EndpointKey(req *Request) string {
	segments := strings.Split(req.Path, "/")
	for i, segment := range segments {
		if segment != "" && strings.Trim(segment, "0123456789") == "" {
			segments[i] = "{id}"
		}
	}

	return fmt.Sprintf("%s %s", req.Method, strings.Join(segments, "/"))
}
