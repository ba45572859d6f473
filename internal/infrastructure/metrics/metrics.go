package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aisales_analyses_total",
			Help: "Total number of analyses by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aisales_analysis_duration_seconds",
			Help:    "Duration of provider calls in seconds",
			Buckets: []float64{1, 5, 10, 20, 30, 60, 90, 120, 180},
		},
		[]string{"provider"},
	)

	JSONRepairs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aisales_json_repairs_total",
			Help: "Model outputs that needed best-effort repair before decoding",
		},
		[]string{"provider"},
	)

	AnalysesInflight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aisales_analyses_inflight",
			Help: "Number of analyses currently running",
		},
	)

	ProxyRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aisales_proxy_requests_total",
			Help: "Proxy requests by response status code",
		},
		[]string{"status"},
	)

	ProxyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aisales_proxy_duration_seconds",
			Help:    "Proxy round-trip duration in seconds",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120},
		},
	)
)
