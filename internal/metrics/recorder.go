// Package metrics exports gateway dispatch metrics through Prometheus.
package metrics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fivetwenty-io/marvel-client/pkg/marvel"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const (
	namespace = "marvel"
	subsystem = "gateway"

	outcomeOK    = "ok"
	outcomeError = "error"
)

// Recorder holds the dispatch metrics of one process.
type Recorder struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	responseBytes prometheus.Counter
}

// EndpointSummary aggregates the recorded dispatches for one endpoint.
type EndpointSummary struct {
	Endpoint     string  `json:"endpoint"      yaml:"endpoint"`
	Requests     uint64  `json:"requests"      yaml:"requests"`
	Errors       uint64  `json:"errors"        yaml:"errors"`
	TotalSeconds float64 `json:"total_seconds" yaml:"total_seconds"`
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	recorder := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Total number of dispatched gateway requests",
			},
			[]string{"endpoint", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      "Gateway request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		responseBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "response_bytes_total",
				Help:      "Total number of response body bytes received",
			},
		),
	}

	recorder.registry.MustRegister(recorder.requests, recorder.duration, recorder.responseBytes)

	return recorder
}

// Registry returns the underlying Prometheus registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Attach installs interceptors that feed the recorder on every dispatch.
func (r *Recorder) Attach(chain *marvel.InterceptorChain) {
	chain.AddRequestInterceptor(marvel.MarkStart)
	chain.AddResponseInterceptor(func(ctx context.Context, req *marvel.Request, resp *marvel.Response) error {
		r.Observe(marvel.EndpointKey(req), resp.Error == nil && resp.StatusCode < 400, marvel.Elapsed(req), len(resp.Body))

		return nil
	})
}

// Observe records one dispatch.
func (r *Recorder) Observe(endpoint string, ok bool, latency time.Duration, bytes int) {
	outcome := outcomeOK
	if !ok {
		outcome = outcomeError
	}

	r.requests.WithLabelValues(endpoint, outcome).Inc()
	r.duration.WithLabelValues(endpoint).Observe(latency.Seconds())
	r.responseBytes.Add(float64(bytes))
}

// Summary gathers the registry into per-endpoint totals sorted by endpoint.
func (r *Recorder) Summary() ([]EndpointSummary, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	byEndpoint := make(map[string]*EndpointSummary)
	entry := func(endpoint string) *EndpointSummary {
		summary, ok := byEndpoint[endpoint]
		if !ok {
			summary = &EndpointSummary{Endpoint: endpoint}
			byEndpoint[endpoint] = summary
		}

		return summary
	}

	for _, family := range families {
		switch family.GetName() {
		case prometheus.BuildFQName(namespace, subsystem, "requests_total"):
			for _, metric := range family.GetMetric() {
				summary := entry(label(metric, "endpoint"))
				count := uint64(metric.GetCounter().GetValue())

				summary.Requests += count
				if label(metric, "outcome") == outcomeError {
					summary.Errors += count
				}
			}
		case prometheus.BuildFQName(namespace, subsystem, "request_duration_seconds"):
			for _, metric := range family.GetMetric() {
				entry(label(metric, "endpoint")).TotalSeconds += metric.GetHistogram().GetSampleSum()
			}
		}
	}

	summaries := make([]EndpointSummary, 0, len(byEndpoint))
	for _, summary := range byEndpoint {
		summaries = append(summaries, *summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Endpoint < summaries[j].Endpoint
	})

	return summaries, nil
}

func label(metric *dto.Metric, name string) string {
	for _, pair := range metric.GetLabel() {
		if pair.GetName() == name {
			return pair.GetValue()
		}
	}

	return ""
}
