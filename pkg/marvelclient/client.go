package marvelclient

import (
	"fmt"
	"strings"

	marvelhttp "github.com/fivetwenty-io/marvel-client/internal/http"
	"github.com/fivetwenty-io/marvel-client/internal/constants"
	"github.com/fivetwenty-io/marvel-client/pkg/marvel"
)

// New creates a fetcher from config. Additional fetcher options are applied
// after the defaults, so they can replace the transport or counter.
func New(config *marvel.Config, opts ...marvel.FetcherOption) (*marvel.Fetcher, error) {
	if config == nil {
		return nil, marvel.ErrConfigRequired
	}

	normalized := *config
	normalized.APIEndpoint = NormalizeEndpoint(config.APIEndpoint)

	if strings.HasPrefix(normalized.APIEndpoint, "https://") {
		normalized.UpgradeInsecureURIs = true
	}

	defaults := []marvel.FetcherOption{
		marvel.WithTransport(NewTransport(&normalized)),
		marvel.WithRequestCounter(marvel.ProcessRequestCounter()),
	}

	fetcher, err := marvel.NewFetcher(&normalized, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}

	if normalized.Debug && normalized.Logger != nil {
		fetcher.Interceptors().AddRequestInterceptor(marvel.LoggingInterceptor(normalized.Logger))
		fetcher.Interceptors().AddResponseInterceptor(marvel.LoggingResponseInterceptor(normalized.Logger))
	}

	return fetcher, nil
}

// NewWithKeys creates a fetcher for the public gateway.
func NewWithKeys(publicKey, privateKey string) (*marvel.Fetcher, error) {
	return New(&marvel.Config{
		PublicKey:  publicKey,
		PrivateKey: privateKey,
	})
}

// NewTransport builds the HTTP transport described by config.
func NewTransport(config *marvel.Config) *marvelhttp.Client {
	opts := []marvelhttp.Option{
		marvelhttp.WithDebug(config.Debug),
		marvelhttp.WithUserAgent(config.UserAgent),
		marvelhttp.WithTimeout(config.HTTPTimeout),
	}

	if config.Logger != nil {
		opts = append(opts, marvelhttp.WithLogger(config.Logger))
	}

	if config.RetryMax > 0 {
		waitMin := config.RetryWaitMin
		if waitMin <= 0 {
			waitMin = constants.DefaultRetryWaitMin
		}

		waitMax := config.RetryWaitMax
		if waitMax <= 0 {
			waitMax = constants.DefaultRetryWaitMax
		}

		opts = append(opts, marvelhttp.WithRetryConfig(config.RetryMax, waitMin, waitMax))
	}

	return marvelhttp.NewClient(NormalizeEndpoint(config.APIEndpoint), opts...)
}

// NormalizeEndpoint trims a trailing slash and adds https:// when no scheme
// is present. An empty endpoint selects the public gateway.
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSuffix(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return constants.DefaultAPIEndpoint
	}

	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}
