// Package metrics holds the process-wide Prometheus collectors. Call Init
// once at startup and mount Handler on the API router.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/walletscope/walletscope-backend/types"
)

var (
	// Provider metrics
	ProviderRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletscope_provider_requests_total",
			Help: "Total upstream provider requests",
		},
		[]string{"provider", "endpoint", "status"}, // status: success|error
	)

	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "walletscope_provider_latency_seconds",
			Help:    "Upstream provider request latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"provider", "endpoint"},
	)

	// RPC metrics
	RPCCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletscope_rpc_calls_total",
			Help: "Total EVM RPC calls",
		},
		[]string{"method", "status"}, // status: success|error
	)

	RPCLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "walletscope_rpc_latency_seconds",
			Help:    "EVM RPC call latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"method"},
	)

	// Cache metrics
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletscope_cache_lookups_total",
			Help: "Cache lookups by layer and result",
		},
		[]string{"layer", "result"}, // layer: memory|redis, result: hit|miss
	)

	// Pipeline metrics
	Classifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletscope_classifications_total",
			Help: "Classified transactions by resulting type",
		},
		[]string{"type"},
	)

	PriceResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletscope_price_resolutions_total",
			Help: "Price resolution attempts by outcome",
		},
		[]string{"outcome"}, // outcome: memory|cache|resolved|none|upstream_error
	)

	HistoryPages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletscope_history_pages_total",
			Help: "History pages served by source",
		},
		[]string{"source"}, // source: cache|store|pipeline
	)
)

// Init registers all collectors. Must be called exactly once.
func Init() {
	prometheus.MustRegister(ProviderRequests)
	prometheus.MustRegister(ProviderLatency)
	prometheus.MustRegister(RPCCalls)
	prometheus.MustRegister(RPCLatency)
	prometheus.MustRegister(CacheLookups)
	prometheus.MustRegister(Classifications)
	prometheus.MustRegister(PriceResolutions)
	prometheus.MustRegister(HistoryPages)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordProviderRequest records one upstream call.
func RecordProviderRequest(provider, endpoint string, latency time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ProviderRequests.WithLabelValues(provider, endpoint, status).Inc()
	ProviderLatency.WithLabelValues(provider, endpoint).Observe(latency.Seconds())
}

// RecordRPCCall records one EVM RPC call.
func RecordRPCCall(method string, latency time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	RPCCalls.WithLabelValues(method, status).Inc()
	RPCLatency.WithLabelValues(method).Observe(latency.Seconds())
}

// RecordCacheLookup records a cache hit or miss for one layer.
func RecordCacheLookup(layer string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(layer, result).Inc()
}

// RecordClassification records one classified transaction.
func RecordClassification(txType types.TransactionType) {
	Classifications.WithLabelValues(string(txType)).Inc()
}

// RecordPriceResolution records one resolution attempt. A nil result is the
// "none" outcome, distinct from a provider error.
func RecordPriceResolution(outcome string) {
	PriceResolutions.WithLabelValues(outcome).Inc()
}
