package marvel

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/fivetwenty-io/marvel-client/internal/auth"
	"github.com/fivetwenty-io/marvel-client/internal/constants"
)

// Transport performs a GET of a fully signed URL and returns the body of a
// successful response. Error responses should be reported as *APIError.
type Transport interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// AttemptTransport is a Transport that may issue several network calls for
// one Fetch, e.g. when retrying. attempt must run once before every call.
type AttemptTransport interface {
	Transport
	FetchAttempts(ctx context.Context, rawURL string, attempt func()) ([]byte, error)
}

// Fetcher is the single egress point to the gateway. It validates and signs
// every request, counts dispatches and unrolls paginated listings.
type Fetcher struct {
	baseURL         *url.URL
	signer          *auth.Signer
	transport       atomic.Value
	counter         RequestCounter
	registry        *Registry
	logger          Logger
	interceptors    *InterceptorChain
	defaultLimit    atomic.Int64
	maxIterations   int
	allowInsecure   bool
	upgradeInsecure bool
	clock           auth.Clock
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithTransport sets the transport used for dispatches.
func WithTransport(transport Transport) FetcherOption {
	return func(f *Fetcher) {
		if transport != nil {
			f.transport.Store(transportHolder{transport})
		}
	}
}

// WithRequestCounter shares a counter between fetchers.
func WithRequestCounter(counter RequestCounter) FetcherOption {
	return func(f *Fetcher) {
		if counter != nil {
			f.counter = counter
		}
	}
}

// WithRegistry overrides the variant registry.
func WithRegistry(registry *Registry) FetcherOption {
	return func(f *Fetcher) {
		if registry != nil {
			f.registry = registry
		}
	}
}

// WithInterceptors replaces the interceptor chain.
func WithInterceptors(chain *InterceptorChain) FetcherOption {
	return func(f *Fetcher) {
		if chain != nil {
			f.interceptors = chain
		}
	}
}

// WithClock overrides the time source used for request signatures.
func WithClock(clock auth.Clock) FetcherOption {
	return func(f *Fetcher) {
		f.clock = clock
	}
}

type transportHolder struct {
	Transport
}

// NewFetcher creates a fetcher from config.
func NewFetcher(config *Config, opts ...FetcherOption) (*Fetcher, error) {
	if config == nil {
		return nil, ErrConfigRequired
	}

	endpoint := config.APIEndpoint
	if endpoint == "" {
		endpoint = constants.DefaultAPIEndpoint
	}

	baseURL, err := url.Parse(strings.TrimRight(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API endpoint: %w", err)
	}

	if baseURL.Host == "" {
		return nil, fmt.Errorf("%w: API endpoint %q has no host", ErrUnsafeURL, endpoint)
	}

	fetcher := &Fetcher{
		baseURL:         baseURL,
		counter:         NewRequestCounter(),
		registry:        defaultRegistry,
		logger:          config.Logger,
		interceptors:    NewInterceptorChain(),
		maxIterations:   config.MaxPaginationIterations,
		allowInsecure:   config.AllowInsecure,
		upgradeInsecure: config.UpgradeInsecureURIs,
	}

	if fetcher.logger == nil {
		fetcher.logger = NoopLogger{}
	}

	if fetcher.maxIterations <= 0 {
		fetcher.maxIterations = constants.MaxPaginationIterations
	}

	for _, opt := range opts {
		opt(fetcher)
	}

	fetcher.signer, err = auth.NewSigner(config.PublicKey, config.PrivateKey, auth.WithClock(fetcher.clock))
	if err != nil {
		return nil, fmt.Errorf("creating request signer: %w", err)
	}

	limit := config.DefaultLimit
	if limit == 0 {
		limit = constants.DefaultPageLimit
	}

	err = fetcher.SetDefaultLimit(limit)
	if err != nil {
		return nil, err
	}

	return fetcher, nil
}

// BaseURL returns the trusted gateway endpoint.
func (f *Fetcher) BaseURL() string {
	return f.baseURL.String()
}

// SetTransport replaces the transport.
func (f *Fetcher) SetTransport(transport Transport) {
	f.transport.Store(transportHolder{transport})
}

// Interceptors returns the chain run around every dispatch.
func (f *Fetcher) Interceptors() *InterceptorChain {
	return f.interceptors
}

// Registry returns the variant registry used for wrapping results.
func (f *Fetcher) Registry() *Registry {
	return f.registry
}

// DefaultLimit returns the page size used when unrolling listings.
func (f *Fetcher) DefaultLimit() int {
	return int(f.defaultLimit.Load())
}

// SetDefaultLimit changes the page size. It must be positive.
func (f *Fetcher) SetDefaultLimit(limit int) error {
	if limit <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	f.defaultLimit.Store(int64(limit))

	return nil
}

// RequestCount returns the number of dispatched requests.
func (f *Fetcher) RequestCount() int64 {
	return f.counter.Count()
}

// ResetRequestCount sets the request counter back to zero.
func (f *Fetcher) ResetRequestCount() {
	f.counter.Reset()
}

// IsSafeURL reports whether credentials may be sent to rawURL: the host must
// equal the configured host and the scheme must be https, or http when
// insecure requests are allowed.
func (f *Fetcher) IsSafeURL(rawURL string) bool {
	target, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	return f.isSafe(target)
}

func (f *Fetcher) isSafe(target *url.URL) bool {
	if target.User != nil || target.Host == "" {
		return false
	}

	if !strings.EqualFold(target.Host, f.baseURL.Host) {
		return false
	}

	switch target.Scheme {
	case "https":
		return true
	case "http":
		return f.allowInsecure
	default:
		return false
	}
}

// resolve turns rawURL into an absolute URL, joining relative paths onto the
// endpoint path and upgrading http on the trusted host when configured.
func (f *Fetcher) resolve(rawURL string) (*url.URL, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsafeURL, err)
	}

	if !target.IsAbs() {
		joined := *f.baseURL
		joined.Path = f.baseURL.Path + "/" + strings.TrimLeft(target.Path, "/")
		joined.RawQuery = target.RawQuery
		target = &joined
	}

	if f.upgradeInsecure && target.Scheme == "http" && strings.EqualFold(target.Host, f.baseURL.Host) {
		target.Scheme = "https"
	}

	return target, nil
}

func (f *Fetcher) kindURL(kind string) (string, error) {
	if kind == "" || strings.ContainsAny(kind, "/?#") {
		return "", fmt.Errorf("%w: %q", ErrInvalidResourceKind, kind)
	}

	return f.baseURL.String() + "/" + kind, nil
}

// RequestURL validates, signs and dispatches one GET request and decodes the
// response envelope.
//
// params are merged over the query already present in rawURL. When neither
// limit nor offset is given, limit=1 is added. Unsafe targets fail with
// ErrUnsafeURL before any dispatch and are not counted.
func (f *Fetcher) RequestURL(ctx context.Context, rawURL string, params url.Values) (*Envelope, error) {
	target, err := f.resolve(rawURL)
	if err != nil {
		return nil, err
	}

	if !f.isSafe(target) {
		f.logger.Warn("Refusing unsafe URL", map[string]interface{}{
			"scheme": target.Scheme,
			"host":   target.Host,
		})

		return nil, fmt.Errorf("%w: %s://%s", ErrUnsafeURL, target.Scheme, target.Host)
	}

	query := target.Query()
	for key, values := range params {
		query[key] = append([]string(nil), values...)
	}

	if !query.Has(constants.QueryLimit) && !query.Has(constants.QueryOffset) {
		query.Set(constants.QueryLimit, strconv.Itoa(constants.SingleResourceLimit))
	}

	transport := f.currentTransport()
	if transport == nil {
		return nil, ErrNoTransport
	}

	request := &Request{
		Method:   http.MethodGet,
		Path:     target.Path,
		Query:    cloneValues(query),
		Metadata: make(map[string]interface{}),
	}

	err = f.interceptors.ExecuteRequestInterceptors(ctx, request)
	if err != nil {
		return nil, err
	}

	f.signer.Sign(query)
	target.RawQuery = query.Encode()

	body, fetchErr := f.dispatch(ctx, transport, target.String())

	response := &Response{StatusCode: http.StatusOK, Body: body, Error: fetchErr}
	if fetchErr != nil {
		response.StatusCode = statusOf(fetchErr)
	}

	err = f.interceptors.ExecuteResponseInterceptors(ctx, request, response)
	if err != nil {
		return nil, err
	}

	if fetchErr != nil {
		return nil, fmt.Errorf("GET %s: %w", target.Path, fetchErr)
	}

	envelope, err := DecodeEnvelope(body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", target.Path, err)
	}

	return envelope, nil
}

// dispatch calls the transport, counting every network call it issues.
func (f *Fetcher) dispatch(ctx context.Context, transport Transport, rawURL string) ([]byte, error) {
	if retrying, ok := transport.(AttemptTransport); ok {
		return retrying.FetchAttempts(ctx, rawURL, func() { f.counter.Increment() })
	}

	f.counter.Increment()

	return transport.Fetch(ctx, rawURL)
}

func (f *Fetcher) currentTransport() Transport {
	holder, ok := f.transport.Load().(transportHolder)
	if !ok {
		return nil
	}

	return holder.Transport
}

// RetrieveAllResources follows offset pagination of rawURL until the reported
// total is reached and returns every result wrapped as a resource bound to
// this fetcher.
//
// The page size comes from the limit parameter or the default limit. The
// offset advances by the limit each page reports. Loops that exceed the
// iteration bound fail with ErrLoopOverflow.
func (f *Fetcher) RetrieveAllResources(ctx context.Context, rawURL string, params url.Values) ([]*Resource, error) {
	query := cloneValues(params)

	limit := f.DefaultLimit()
	if query.Has(constants.QueryLimit) {
		parsed, err := strconv.Atoi(query.Get(constants.QueryLimit))
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidLimit, query.Get(constants.QueryLimit))
		}

		limit = parsed
	}

	query.Set(constants.QueryLimit, strconv.Itoa(limit))

	var resources []*Resource

	offset := 0

	for iteration := 0; ; iteration++ {
		if iteration >= f.maxIterations {
			return nil, fmt.Errorf("%w: %d requests to %s", ErrLoopOverflow, iteration, rawURL)
		}

		query.Set(constants.QueryOffset, strconv.Itoa(offset))

		envelope, err := f.RequestURL(ctx, rawURL, query)
		if err != nil {
			return nil, err
		}

		data := envelope.Data
		if data == nil {
			data = &DataContainer{}
		}

		for i, result := range data.Results {
			resource, err := NewResource(result, f, false)
			if err != nil {
				return nil, fmt.Errorf("result %d at offset %d: %w", i, offset, err)
			}

			resources = append(resources, resource)
		}

		offset += data.Limit
		if offset >= data.Total {
			break
		}
	}

	return resources, nil
}

// GetResource fetches {base}/{kind}/{id} and wraps the first result in the
// variant for kind, marked loaded. A missing result, or a 404 from the
// gateway, yields nil without error.
func (f *Fetcher) GetResource(ctx context.Context, kind string, id int) (Entity, error) {
	base, err := f.kindURL(kind)
	if err != nil {
		return nil, err
	}

	envelope, err := f.RequestURL(ctx, base+"/"+strconv.Itoa(id), url.Values{
		constants.QueryLimit: {strconv.Itoa(constants.SingleResourceLimit)},
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}

		return nil, err
	}

	result := envelope.FirstResult()
	if result == nil {
		return nil, nil
	}

	resource, err := NewResource(result, f, true)
	if err != nil {
		return nil, fmt.Errorf("%s %d: %w", kind, id, err)
	}

	return f.registry.UpgradeAs(resource, kind), nil
}

// GetResourcesUnpaginated fetches every resource of kind.
func (f *Fetcher) GetResourcesUnpaginated(ctx context.Context, kind string) ([]Entity, error) {
	base, err := f.kindURL(kind)
	if err != nil {
		return nil, err
	}

	resources, err := f.RetrieveAllResources(ctx, base, nil)
	if err != nil {
		return nil, err
	}

	entities := make([]Entity, 0, len(resources))
	for _, resource := range resources {
		entities = append(entities, f.registry.UpgradeAs(resource, kind))
	}

	return entities, nil
}

// GetAttributionText returns the attribution the gateway requires alongside
// displayed data, as HTML or plain text.
func (f *Fetcher) GetAttributionText(ctx context.Context, useHTML bool) (string, error) {
	base, err := f.kindURL(KindComics)
	if err != nil {
		return "", err
	}

	envelope, err := f.RequestURL(ctx, base, url.Values{
		constants.QueryLimit: {strconv.Itoa(constants.SingleResourceLimit)},
	})
	if err != nil {
		return "", err
	}

	if useHTML {
		return envelope.AttributionHTML, nil
	}

	return envelope.AttributionText, nil
}

func statusOf(err error) int {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.StatusCode
	}

	return 0
}

func cloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for key, list := range values {
		out[key] = append([]string(nil), list...)
	}

	return out
}
