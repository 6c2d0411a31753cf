package test

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thomiceli/gistsearch/internal/search"
	"github.com/thomiceli/gistsearch/internal/web/context"
)

func TestPing(t *testing.T) {
	s, _ := Setup(t)

	var res http.Response
	err := s.Request("GET", "/ping", nil, 200, &res)
	require.NoError(t, err)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Equal(t, "pong", string(body))
}

func TestHealthcheck(t *testing.T) {
	s, _ := Setup(t)

	var res http.Response
	err := s.Request("GET", "/healthcheck", nil, 200, &res)
	require.NoError(t, err)
	require.Equal(t, "ok", decode[map[string]any](t, &res)["gistsearch"])
}

func TestNotFound(t *testing.T) {
	s, _ := Setup(t)

	var res http.Response
	err := s.Request("GET", "/api/v2/search", nil, 404, &res)
	require.NoError(t, err)
	require.Equal(t, "not_found", decode[context.ErrorBody](t, &res).Error)
}

func TestSearch(t *testing.T) {
	s, gh := Setup(t)
	gh.addGist("alice", "1", "hello world")
	gh.addGist("alice", "2", "goodbye")
	gh.addGist("bob", "3", "hello bob")

	var res http.Response
	err := s.Request("POST", "/api/v1/search", search.Request{Username: "alice", Pattern: "^hello"}, 200, &res)
	require.NoError(t, err)
	require.Equal(t, search.Result{
		Status:   "success",
		Username: "alice",
		Pattern:  "^hello",
		Matches:  []string{"https://gist.github.com/alice/1"},
	}, decode[search.Result](t, &res))
}

func TestSearchFollowsPagination(t *testing.T) {
	s, gh := Setup(t)
	gh.addGist("alice", "a", "package main")
	gh.addGist("alice", "b", "# readme")
	gh.addGist("alice", "c", "package foo")

	var res http.Response
	err := s.Request("POST", "/api/v1/search", search.Request{Username: "alice", Pattern: "package"}, 200, &res)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"https://gist.github.com/alice/a", "https://gist.github.com/alice/c"}, decode[search.Result](t, &res).Matches)

	// 3 listing pages and 3 gists
	require.EqualValues(t, 6, gh.calls.Load())
}

func TestSearchSkipsErrorEnvelopes(t *testing.T) {
	s, gh := Setup(t)
	gh.addGist("alice", "1", "hello")
	gh.addGist("alice", "2", "hello")
	gh.addGist("alice", "3", "hello")
	gh.envelopes["2"] = true

	var res http.Response
	err := s.Request("POST", "/api/v1/search", search.Request{Username: "alice", Pattern: "hello"}, 200, &res)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"https://gist.github.com/alice/1", "https://gist.github.com/alice/3"}, decode[search.Result](t, &res).Matches)
}

func TestSearchUnknownOrInvalidUser(t *testing.T) {
	s, _ := Setup(t)

	for _, username := range []string{"nobody", "-invalid"} {
		var res http.Response
		err := s.Request("POST", "/api/v1/search", search.Request{Username: username, Pattern: ".*"}, 200, &res)
		require.NoError(t, err)

		result := decode[search.Result](t, &res)
		require.Equal(t, "success", result.Status)
		require.NotNil(t, result.Matches)
		require.Empty(t, result.Matches)
	}
}

func TestSearchValidation(t *testing.T) {
	s, gh := Setup(t)

	for _, body := range []string{
		`{"username": "", "pattern": "^hello"}`,
		`{"username": "alice", "pattern": ""}`,
		`{"username": "alice"}`,
		`{"username": "alice", "pattern": "x", "extra": true}`,
		`{"username": "alice", "pattern": 1}`,
		`["alice", "x"]`,
		`{oops`,
	} {
		var res http.Response
		err := s.Request("POST", "/api/v1/search", body, 400, &res)
		require.NoError(t, err, "body %s", body)

		errBody := decode[context.ErrorBody](t, &res)
		require.Equal(t, "error", errBody.Status)
		require.Equal(t, "validation_error", errBody.Error)
	}

	require.Zero(t, gh.calls.Load(), "no Github API call should be made")
}

func TestSearchKeysInAnyOrder(t *testing.T) {
	s, gh := Setup(t)
	gh.addGist("alice", "1", "hello")

	err := s.Request("POST", "/api/v1/search", `{"pattern": "hello", "username": "alice"}`, 200)
	require.NoError(t, err)
}

func TestSearchInvalidPattern(t *testing.T) {
	s, gh := Setup(t)
	gh.addGist("alice", "1", "hello")

	var res http.Response
	err := s.Request("POST", "/api/v1/search", search.Request{Username: "alice", Pattern: "("}, 422, &res)
	require.NoError(t, err)
	require.Equal(t, "invalid_pattern", decode[context.ErrorBody](t, &res).Error)

	require.Zero(t, gh.calls.Load(), "no Github API call should be made")
}

func TestSearchRequiresJson(t *testing.T) {
	s, _ := Setup(t)

	req := `{"username": "alice", "pattern": "x"}`
	var res http.Response
	err := s.RequestWithContentType("POST", "/api/v1/search", req, "text/plain", 415, &res)
	require.NoError(t, err)
	require.Equal(t, "unsupported_media_type", decode[context.ErrorBody](t, &res).Error)
}
