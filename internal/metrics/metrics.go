package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gistsearch"

// Search outcomes
const (
	OutcomeSuccess        = "success"
	OutcomeValidation     = "validation_error"
	OutcomeInvalidPattern = "invalid_pattern"
)

var (
	searchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Total number of searches, by outcome",
		},
		[]string{"outcome"},
	)

	searchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of successful searches",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of Github API calls, by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	gistsScannedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gists_scanned_total",
			Help:      "Total number of gists whose content was matched against a pattern",
		},
	)

	gistMatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gist_matches_total",
			Help:      "Total number of gists matching a pattern",
		},
	)
)

// ObserveSearch records the outcome of a search. Only successful searches feed the duration histogram.
func ObserveSearch(outcome string, duration time.Duration) {
	searchesTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		searchDuration.Observe(duration.Seconds())
	}
}

func UpstreamRequest(endpoint, outcome string) {
	upstreamRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
}

func GistScanned(matched bool) {
	gistsScannedTotal.Inc()
	if matched {
		gistMatchesTotal.Inc()
	}
}
