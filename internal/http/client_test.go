package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	marvelhttp "github.com/fivetwenty-io/marvel-client/internal/http"
	"github.com/fivetwenty-io/marvel-client/pkg/marvel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "debug", "msg": msg, "fields": fields})
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "info", "msg": msg, "fields": fields})
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "warn", "msg": msg, "fields": fields})
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "error", "msg": msg, "fields": fields})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v1/public/characters/1009610", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Accept"))
			assert.Equal(t, "marvel-client/1.0", request.Header.Get("User-Agent"))

			response := map[string]interface{}{"code": 200, "status": "Ok"}
			_ = json.NewEncoder(writer).Encode(response)
		}))
		defer server.Close()

		client := marvelhttp.NewClient(server.URL)

		resp, err := client.Do(context.Background(), &marvelhttp.Request{
			Method: "GET",
			Path:   "/v1/public/characters/1009610",
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result map[string]interface{}

		err = json.Unmarshal(resp.Body, &result)
		require.NoError(t, err)
		assert.Equal(t, "Ok", result["status"])
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v1/public/comics", request.URL.Path)
			assert.Equal(t, "limit=20&offset=40", request.URL.RawQuery)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := marvelhttp.NewClient(server.URL)

		resp, err := client.Get(context.Background(), "/v1/public/comics", url.Values{
			"offset": []string{"40"},
			"limit":  []string{"20"},
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("error response with numeric code", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusConflict)
			_, _ = writer.Write([]byte(`{"code":409,"status":"You must provide a user key."}`))
		}))
		defer server.Close()

		client := marvelhttp.NewClient(server.URL)

		resp, err := client.Get(context.Background(), "/v1/public/characters", nil)
		require.Error(t, err)
		assert.Equal(t, 409, resp.StatusCode)

		apiErr := &marvel.APIError{}
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "409", apiErr.Code)
		assert.Equal(t, "You must provide a user key.", apiErr.Message)
	})

	t.Run("error response without json body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_, _ = writer.Write([]byte("not found"))
		}))
		defer server.Close()

		client := marvelhttp.NewClient(server.URL)

		_, err := client.Get(context.Background(), "/v1/public/characters/0", nil)
		require.Error(t, err)
		assert.True(t, marvel.IsNotFound(err))
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			assert.Equal(t, "marvel-cli/test", request.Header.Get("User-Agent"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := marvelhttp.NewClient(server.URL, marvelhttp.WithUserAgent("marvel-cli/test"))

		resp, err := client.Do(context.Background(), &marvelhttp.Request{
			Path: "/v1/public/series",
			Headers: map[string]string{
				"X-Custom-Header": "custom-value",
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := marvelhttp.NewClient(server.URL, marvelhttp.WithLogger(logger), marvelhttp.WithDebug(true))

		_, err := client.Get(context.Background(), "/v1/public/events", nil)
		require.NoError(t, err)

		// Should have logged request and response
		require.Len(t, logger.logs, 2)
		assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
		assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])

		requestFields, ok := logger.logs[0]["fields"].(map[string]interface{})
		require.True(t, ok)

		responseFields, ok := logger.logs[1]["fields"].(map[string]interface{})
		require.True(t, ok)
		assert.NotEmpty(t, requestFields["request_id"])
		assert.Equal(t, requestFields["request_id"], responseFields["request_id"])
	})
}

func TestClient_Fetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "abc", request.URL.Query().Get("apikey"))
		_, _ = writer.Write([]byte(`{"code":200}`))
	}))
	defer server.Close()

	var transport marvel.Transport = marvelhttp.NewClient("https://unused.example.com")

	body, err := transport.Fetch(context.Background(), server.URL+"/v1/public/comics?apikey=abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":200}`, string(body))
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_RetryLogic(t *testing.T) {
	t.Parallel()
	t.Run("retries on 5xx errors", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 3 {
				writer.WriteHeader(http.StatusInternalServerError)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := marvelhttp.NewClient(server.URL, marvelhttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int32(3), attempts.Load())
	})

	t.Run("retries on rate limiting", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 2 {
				writer.WriteHeader(http.StatusTooManyRequests)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := marvelhttp.NewClient(server.URL, marvelhttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int32(2), attempts.Load())
	})

	t.Run("does not retry on client errors", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)

			writer.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := marvelhttp.NewClient(server.URL, marvelhttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, int32(1), attempts.Load()) // Should not retry
	})

	t.Run("retries disabled by default", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)

			writer.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := marvelhttp.NewClient(server.URL)

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 503, resp.StatusCode)
		assert.Equal(t, int32(1), attempts.Load())
	})
}

func TestClient_FetchAttempts(t *testing.T) {
	t.Parallel()

	t.Run("reports every retry", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			if hits.Add(1) < 3 {
				writer.WriteHeader(http.StatusServiceUnavailable)

				return
			}

			_, _ = writer.Write([]byte(`{"code":200}`))
		}))
		defer server.Close()

		client := marvelhttp.NewClient(server.URL, marvelhttp.WithRetryConfig(3, time.Millisecond, 5*time.Millisecond))

		var attempts atomic.Int32

		body, err := client.FetchAttempts(context.Background(), server.URL+"/comics", func() { attempts.Add(1) })
		require.NoError(t, err)
		assert.JSONEq(t, `{"code":200}`, string(body))
		assert.Equal(t, int32(3), hits.Load())
		assert.Equal(t, hits.Load(), attempts.Load())
	})

	t.Run("single attempt without retries", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := marvelhttp.NewClient(server.URL)

		var attempts atomic.Int32

		_, err := client.FetchAttempts(context.Background(), server.URL+"/comics", func() { attempts.Add(1) })
		require.Error(t, err)
		assert.Equal(t, int32(1), attempts.Load())
	})
}
