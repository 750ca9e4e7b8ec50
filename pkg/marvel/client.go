package marvel

import (
	"time"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// NoopLogger discards every message.
type NoopLogger struct{}

func (NoopLogger) Debug(string, map[string]interface{}) {}
func (NoopLogger) Info(string, map[string]interface{})  {}
func (NoopLogger) Warn(string, map[string]interface{})  {}
func (NoopLogger) Error(string, map[string]interface{}) {}

// Config represents client configuration for building a Fetcher.
//
// # Credentials
//
// Every request is signed with the ts, apikey and hash query parameters,
// where hash is md5(ts + PrivateKey + PublicKey). Both keys are required.
//
// # URL safety
//
// Credentials are only ever sent to the host of APIEndpoint. Any other host
// is rejected before dispatch. Plain http is rejected unless AllowInsecure is
// set. Because gateway payloads embed http:// resource URIs, setting
// UpgradeInsecureURIs rewrites http URLs on the trusted host to https before
// validation.
//
// # Timeouts and retries
//
// Per-request timeouts should generally be controlled via the context passed
// to fetcher methods. Transport retries on 5xx and 429 are disabled unless
// RetryMax is positive. Every retry counts as a dispatched request.
type Config struct {
	// APIEndpoint: base URL of the gateway (e.g., "https://gateway.marvel.com/v1/public").
	// marvelclient.New normalizes this value by trimming a trailing slash and
	// adding "https://" if no scheme is present.
	APIEndpoint string

	// PublicKey: the public API key, sent as apikey.
	PublicKey string
	// PrivateKey: the private API key, only used to compute the hash.
	PrivateKey string

	// DefaultLimit: page size used when unrolling collections. Zero selects
	// the package default.
	DefaultLimit int
	// MaxPaginationIterations: safety bound for pagination loops. Zero
	// selects the package default.
	MaxPaginationIterations int

	// AllowInsecure: permit plain http requests to the configured host.
	// Intended for local test servers only.
	AllowInsecure bool
	// UpgradeInsecureURIs: rewrite http URLs on the configured host to https.
	UpgradeInsecureURIs bool

	// HTTPTimeout: overall timeout for a single HTTP attempt.
	HTTPTimeout time.Duration
	// RetryMax: maximum number of transport retries for transient failures
	// (>=500, 429, and connection errors). Zero disables retries.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration
	// Debug: enables verbose HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the fetcher and the HTTP layer.
	Logger Logger
	// UserAgent: overrides the default User-Agent header sent by the client.
	UserAgent string
}
