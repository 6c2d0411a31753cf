package test

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomiceli/gistsearch/internal/search"
)

// TestMetrics runs a search with metrics enabled, then checks the search and
// upstream counters reported by the metrics endpoint.
func TestMetrics(t *testing.T) {
	t.Setenv("GS_METRICS_ENABLED", "true")

	s, gh := Setup(t)
	gh.addGist("alice", "1", "hello world")
	gh.addGist("alice", "2", "goodbye")

	err := s.Request("POST", "/api/v1/search", search.Request{Username: "alice", Pattern: "^hello"}, 200)
	require.NoError(t, err)

	var metricsRes http.Response
	err = s.Request("GET", "/metrics", nil, 200, &metricsRes)
	require.NoError(t, err)

	body, err := io.ReadAll(metricsRes.Body)
	defer metricsRes.Body.Close()
	require.NoError(t, err)

	lines := strings.Split(string(body), "\n")

	// collectors are process wide, other tests may have bumped them already
	assert.GreaterOrEqual(t, metricValue(t, lines, `gistsearch_searches_total{outcome="success"}`), 1.0)
	assert.GreaterOrEqual(t, metricValue(t, lines, `gistsearch_gists_scanned_total`), 2.0)
	assert.GreaterOrEqual(t, metricValue(t, lines, `gistsearch_gist_matches_total`), 1.0)
	assert.GreaterOrEqual(t, metricValue(t, lines, `gistsearch_upstream_requests_total{endpoint="gist",outcome="ok"}`), 2.0)
	assert.GreaterOrEqual(t, metricValue(t, lines, `gistsearch_upstream_requests_total{endpoint="list",outcome="ok"}`), 2.0)
	// HTTP metrics from the echoprometheus middleware
	assert.Contains(t, string(body), `url="/api/v1/search"`)
}

func TestMetricsDisabled(t *testing.T) {
	s, _ := Setup(t)

	err := s.Request("GET", "/metrics", nil, 404)
	require.NoError(t, err)
}

func metricValue(t *testing.T, lines []string, name string) float64 {
	t.Helper()

	for _, line := range lines {
		value, ok := strings.CutPrefix(line, name+" ")
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		require.NoError(t, err, "Failed to parse %s", name)
		return f
	}

	require.Failf(t, "metric not found", "%s is missing from the metrics output", name)
	return 0
}
