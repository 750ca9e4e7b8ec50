package marvel_test

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/fivetwenty-io/marvel-client/pkg/marvel"
	"github.com/stretchr/testify/require"
)

// fakeTransport answers dispatches from an in-memory handler and records
// every URL it was asked for.
type fakeTransport struct {
	mu       sync.Mutex
	handler  func(target *url.URL) (interface{}, error)
	requests []*url.URL
}

func (f *fakeTransport) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.requests = append(f.requests, target)
	f.mu.Unlock()

	payload, err := f.handler(target)
	if err != nil {
		return nil, err
	}

	if raw, ok := payload.(string); ok {
		return []byte(raw), nil
	}

	return json.Marshal(payload)
}

func (f *fakeTransport) Requests() []*url.URL {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]*url.URL(nil), f.requests...)
}

func newTestFetcher(t *testing.T, handler func(target *url.URL) (interface{}, error), configure ...func(*marvel.Config)) (*marvel.Fetcher, *fakeTransport) {
	t.Helper()

	config := &marvel.Config{
		PublicKey:           "publickey",
		PrivateKey:          "privatekey",
		UpgradeInsecureURIs: true,
	}

	for _, fn := range configure {
		fn(config)
	}

	transport := &fakeTransport{handler: handler}

	fetcher, err := marvel.NewFetcher(config, marvel.WithTransport(transport))
	require.NoError(t, err)

	return fetcher, transport
}

// page builds a gateway envelope around results.
func page(offset, limit, total int, results ...map[string]interface{}) map[string]interface{} {
	if results == nil {
		results = []map[string]interface{}{}
	}

	return map[string]interface{}{
		"code":            200,
		"status":          "Ok",
		"attributionText": "Data provided by Marvel. © 2026 MARVEL",
		"attributionHTML": "<a href=\"http://marvel.com\">Data provided by Marvel. © 2026 MARVEL</a>",
		"data": map[string]interface{}{
			"offset":  offset,
			"limit":   limit,
			"total":   total,
			"count":   len(results),
			"results": results,
		},
	}
}

func queryInt(t *testing.T, target *url.URL, key string, fallback int) int {
	t.Helper()

	raw := target.Query().Get(key)
	if raw == "" {
		return fallback
	}

	var value int

	require.NoError(t, json.Unmarshal([]byte(raw), &value))

	return value
}

func hasSuffix(target *url.URL, suffix string) bool {
	return strings.HasSuffix(target.Path, suffix)
}
