package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GPA request outcomes
const (
	OutcomeSuccess        = "success"
	OutcomeNotFound       = "not_found"
	OutcomeBackendError   = "backend_error"
	OutcomeTransportError = "transport_error"
)

var (
	GPARequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gpa_requests_total",
		Help: "Total number of GPA API requests by outcome",
	}, []string{"brand", "outcome"})

	GPARequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gpa_request_latency_seconds",
		Help:    "Latency of GPA API requests that reached the network",
		Buckets: prometheus.DefBuckets,
	}, []string{"brand"})

	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gpa_cache_lookups_total",
		Help: "Total number of response cache lookups",
	}, []string{"result"})

	StoresQueriedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stores_queried_total",
		Help: "Total number of stores queried for a product price",
	}, []string{"brand"})

	CrawlTasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crawl_tasks_total",
		Help: "Total number of product/site crawl tasks",
	}, []string{"site", "status"})

	CrawlTaskLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "crawl_task_latency_seconds",
		Help:    "Latency of product/site crawl tasks",
		Buckets: prometheus.DefBuckets,
	}, []string{"site"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
