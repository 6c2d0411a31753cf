package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveSearch(t *testing.T) {
	before := testutil.ToFloat64(searchesTotal.WithLabelValues(OutcomeSuccess))
	beforeInvalid := testutil.ToFloat64(searchesTotal.WithLabelValues(OutcomeInvalidPattern))

	ObserveSearch(OutcomeSuccess, 120*time.Millisecond)
	ObserveSearch(OutcomeInvalidPattern, 0)

	require.Equal(t, before+1, testutil.ToFloat64(searchesTotal.WithLabelValues(OutcomeSuccess)))
	require.Equal(t, beforeInvalid+1, testutil.ToFloat64(searchesTotal.WithLabelValues(OutcomeInvalidPattern)))
}

func TestUpstreamRequest(t *testing.T) {
	before := testutil.ToFloat64(upstreamRequestsTotal.WithLabelValues("gist", "not_found"))
	UpstreamRequest("gist", "not_found")
	UpstreamRequest("gist", "not_found")
	require.Equal(t, before+2, testutil.ToFloat64(upstreamRequestsTotal.WithLabelValues("gist", "not_found")))
}

func TestGistScanned(t *testing.T) {
	scanned := testutil.ToFloat64(gistsScannedTotal)
	matched := testutil.ToFloat64(gistMatchesTotal)

	GistScanned(true)
	GistScanned(false)

	require.Equal(t, scanned+2, testutil.ToFloat64(gistsScannedTotal))
	require.Equal(t, matched+1, testutil.ToFloat64(gistMatchesTotal))
}
