// Package metrics exposes Prometheus instrumentation for feeds, streams, jobs
// and HTTP requests. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	feedDuration    prometheus.Histogram
	feedErrors      prometheus.Counter
	feedCache       *prometheus.CounterVec
	openStreams     *prometheus.GaugeVec
	jobRuns         *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

// New registers all collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		feedDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "feed_computation_duration_seconds",
			Help:    "Time spent querying and computing a screen feed",
			Buckets: prometheus.DefBuckets,
		}),
		feedErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feed_computation_errors_total",
			Help: "Feed computations that failed",
		}),
		feedCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feed_cache_lookups_total",
			Help: "Feed cache lookups by result",
		}, []string{"result"}),
		openStreams: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "feed_streams_open",
			Help: "Feed subscriptions currently connected",
		}, []string{"transport"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "job_runs_total",
			Help: "Background job runs by job and result",
		}, []string{"job", "result"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.feedDuration,
		m.feedErrors,
		m.feedCache,
		m.openStreams,
		m.jobRuns,
		m.requestDuration,
		m.requestTotal,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return m.handler
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveFeed(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.feedDuration.Observe(d.Seconds())
	if err != nil {
		m.feedErrors.Inc()
	}
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.feedCache.WithLabelValues(result).Inc()
}

// StreamOpened counts a subscription and returns the func that uncounts it.
func (m *Metrics) StreamOpened(transport string) func() {
	if m == nil {
		return func() {}
	}
	g := m.openStreams.WithLabelValues(transport)
	g.Inc()
	return g.Dec
}

func (m *Metrics) JobRun(job string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.jobRuns.WithLabelValues(job, result).Inc()
}

func (m *Metrics) ObserveRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, code).Observe(d.Seconds())
	m.requestTotal.WithLabelValues(method, path, code).Inc()
}
