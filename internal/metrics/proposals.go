package metrics

import "github.com/prometheus/client_golang/prometheus"

// Proposal engine Prometheus metrics.
var (
	ProposalCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recall",
			Name:      "proposal_cache_total",
			Help:      "Proposal cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	ProposalComputeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "recall",
			Name:      "proposal_compute_duration_seconds",
			Help:      "Proposal match+rank computation duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	ProposalsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "recall",
			Name:      "proposals_returned",
			Help:      "Number of proposals returned per request after dismissal filtering",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)

	ExtractionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recall",
			Name:      "extraction_requests_total",
			Help:      "Total keyword extraction requests",
		},
		[]string{"provider", "status"},
	)

	ExtractionRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recall",
			Name:      "extraction_request_duration_seconds",
			Help:      "Keyword extraction request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)
)

var proposalMetricsRegistered bool

// RegisterProposalMetrics registers engine metrics. Must be called once from main.
func RegisterProposalMetrics() {
	if proposalMetricsRegistered {
		return
	}
	prometheus.MustRegister(ProposalCacheTotal)
	prometheus.MustRegister(ProposalComputeDuration)
	prometheus.MustRegister(ProposalsReturned)
	prometheus.MustRegister(ExtractionRequestsTotal)
	prometheus.MustRegister(ExtractionRequestDuration)
	proposalMetricsRegistered = true
}
