package bill

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "receipt_splitter_requests_total",
		Help: "HTTP requests processed, by handler and status code.",
	}, []string{"handler", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "receipt_splitter_request_duration_seconds",
		Help:    "HTTP request latency, by handler.",
		Buckets: prometheus.DefBuckets,
	}, []string{"handler"})
)

// instrument wraps a handler with request counting and latency observation
func instrument(name string, next http.HandlerFunc) http.HandlerFunc {
	labels := prometheus.Labels{"handler": name}
	counter := requestsTotal.MustCurryWith(labels)
	duration := requestDuration.MustCurryWith(labels)
	return promhttp.InstrumentHandlerDuration(duration,
		promhttp.InstrumentHandlerCounter(counter, next))
}
