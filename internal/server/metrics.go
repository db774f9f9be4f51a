package server

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/g6viz/pkg/observability"
)

// Metrics exports pipeline, cache and request events to Prometheus. It
// implements the observability hook interfaces.
type Metrics struct {
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	graphVertices prometheus.Histogram
	cacheEvents   *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec
	requests      *prometheus.CounterVec
	requestTime   *prometheus.HistogramVec
	rateLimited   *prometheus.CounterVec
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.ServerHooks   = (*Metrics)(nil)
)

// NewMetrics registers the g6viz collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "g6viz_stage_duration_seconds",
			Help:    "Pipeline stage latency, labelled by stage.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"stage"}),
		stageErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "g6viz_stage_errors_total",
			Help: "Total number of failed pipeline stages, labelled by stage.",
		}, []string{"stage"}),
		graphVertices: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "g6viz_graph_vertices",
			Help:    "Vertex count of decoded graphs.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "g6viz_cache_events_total",
			Help: "Total number of cache lookups and writes, labelled by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "g6viz_cache_written_bytes_total",
			Help: "Total bytes written to the cache, labelled by key type.",
		}, []string{"key_type"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "g6viz_http_requests_total",
			Help: "Total number of HTTP requests, labelled by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestTime: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "g6viz_http_request_duration_seconds",
			Help:    "HTTP request latency, labelled by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		rateLimited: f.NewCounterVec(prometheus.CounterOpts{
			Name: "g6viz_http_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter.",
		}, []string{"route"}),
	}
}

func (m *Metrics) stage(name string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(name).Inc()
	}
}

func (m *Metrics) OnDecodeStart(context.Context, int) {}

func (m *Metrics) OnDecodeComplete(_ context.Context, vertices, _ int, d time.Duration, err error) {
	m.stage("decode", d, err)
	if err == nil {
		m.graphVertices.Observe(float64(vertices))
	}
}

func (m *Metrics) OnLayoutStart(context.Context, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, d time.Duration, err error) {
	m.stage("layout", d, err)
}

func (m *Metrics) OnResolveComplete(_ context.Context, _ int, d time.Duration, err error) {
	m.stage("resolve", d, err)
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	m.stage("render", d, err)
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestTime.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) OnRateLimited(_ context.Context, route string) {
	m.rateLimited.WithLabelValues(route).Inc()
}
