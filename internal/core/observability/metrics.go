// Package observability defines the Prometheus instruments used across the service.
package observability

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type instruments struct {
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	dbQueryDurationSeconds     *prometheus.HistogramVec
	dbQueryErrorsTotal         *prometheus.CounterVec
	cacheResults               *prometheus.CounterVec
	cacheOpTotal               *prometheus.CounterVec
	cacheOpDurationSeconds     *prometheus.HistogramVec
	invalidationsTotal         *prometheus.CounterVec
	buildInfo                  *prometheus.GaugeVec
}

var (
	mu      sync.Mutex
	inst    *instruments
	enabled bool
)

// Init registers the service instruments on reg. Calls before Init are no-ops.
func Init(reg prometheus.Registerer, on bool) {
	mu.Lock()
	defer mu.Unlock()

	enabled = on
	if !on || reg == nil {
		inst = nil
		return
	}

	i := &instruments{
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
			},
			[]string{"method", "route", "status"},
		),
		dbQueryDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "db_query_duration_seconds",
				Help:    "Latency of layer queries against PostGIS in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
			},
			[]string{"layer"},
		),
		dbQueryErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "db_query_errors_total",
				Help: "Failed layer queries by layer.",
			},
			[]string{"layer"},
		),
		cacheResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_results_total",
				Help: "Cache results by outcome.",
			},
			[]string{"outcome"},
		),
		cacheOpTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_op_total",
				Help: "Cache store operations by op and status.",
			},
			[]string{"op", "status"},
		),
		cacheOpDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cache_op_duration_seconds",
				Help:    "Duration of cache store operations in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
			[]string{"op"},
		),
		invalidationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invalidation_events_total",
				Help: "Processed layer invalidation events by op and status.",
			},
			[]string{"op", "layer", "status"},
		),
		buildInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "app_build_info",
				Help: "Build information for the binary.",
			},
			[]string{"version"},
		),
	}

	reg.MustRegister(
		i.httpRequestsTotal,
		i.httpRequestDurationSeconds,
		i.dbQueryDurationSeconds,
		i.dbQueryErrorsTotal,
		i.cacheResults,
		i.cacheOpTotal,
		i.cacheOpDurationSeconds,
		i.invalidationsTotal,
		i.buildInfo,
	)
	inst = i
}

func get() *instruments {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
		return nil
	}
	return inst
}

func ObserveHTTP(method, route string, status int, durationSeconds float64) {
	i := get()
	if i == nil {
		return
	}
	st := strconv.Itoa(status)
	i.httpRequestsTotal.WithLabelValues(method, route, st).Inc()
	i.httpRequestDurationSeconds.WithLabelValues(method, route, st).Observe(durationSeconds)
}

func ObserveQuery(layer string, durationSeconds float64, err error) {
	i := get()
	if i == nil {
		return
	}
	i.dbQueryDurationSeconds.WithLabelValues(layer).Observe(durationSeconds)
	if err != nil {
		i.dbQueryErrorsTotal.WithLabelValues(layer).Inc()
	}
}

func ObserveCacheOp(op string, err error, durationSeconds float64) {
	i := get()
	if i == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	i.cacheOpTotal.WithLabelValues(op, status).Inc()
	i.cacheOpDurationSeconds.WithLabelValues(op).Observe(durationSeconds)
}

func IncCacheHit() {
	if i := get(); i != nil {
		i.cacheResults.WithLabelValues("hit").Inc()
	}
}

func IncCacheMiss() {
	if i := get(); i != nil {
		i.cacheResults.WithLabelValues("miss").Inc()
	}
}

func ObserveInvalidation(op, layer string, err error) {
	i := get()
	if i == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	i.invalidationsTotal.WithLabelValues(op, layer, status).Inc()
}

func ExposeBuildInfo(version string) {
	i := get()
	if i == nil {
		return
	}
	if version == "" {
		version = "dev"
	}
	i.buildInfo.WithLabelValues(version).Set(1)
}
