package taskapi

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK             = "ok"
	outcomeHTTPError      = "http_error"
	outcomeTransportError = "transport_error"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_api_requests_total",
			Help: "Calls made to the remote task backend",
		},
		[]string{"op", "outcome"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "task_api_request_duration_seconds",
			Help:    "Latency of calls to the remote task backend",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDuration)
}

func observe(op, outcome string) {
	RequestsTotal.WithLabelValues(op, outcome).Inc()
}
