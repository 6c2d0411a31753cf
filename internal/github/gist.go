package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
	"github.com/thomiceli/gistsearch/internal/metrics"
)

// GistSummary is the part of a gist listing entry needed to fetch the full gist.
type GistSummary struct {
	ID string `json:"id"`
}

type Gist struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	HTMLURL     string          `json:"html_url"`
	Files       map[string]File `json:"files"`
}

// File is a gist file. Content is nil when the API omits it.
type File struct {
	Filename string  `json:"filename"`
	Language string  `json:"language"`
	Content  *string `json:"content"`
}

// GetGist fetches a single gist with its files content.
// See https://docs.github.com/en/rest/gists/gists#get-a-gist
//
// Any failure is logged and returned as an *UpstreamError; the gist is then nil.
func (c *Client) GetGist(ctx context.Context, id string) (*Gist, error) {
	gistURL := c.baseURL + "/gists/" + url.PathEscape(id)

	gist, err := c.getGist(ctx, id, gistURL)
	if err != nil {
		metrics.UpstreamRequest(endpointGist, outcomeOf(err))
		logUpstreamError(zerolog.Ctx(ctx), "gist", err, "Failed to get gist data")
		return nil, err
	}
	metrics.UpstreamRequest(endpointGist, outcomeOK)

	return gist, nil
}

func (c *Client) getGist(ctx context.Context, id, gistURL string) (*Gist, *UpstreamError) {
	res, err := c.get(ctx, gistURL)
	if err != nil {
		return nil, &UpstreamError{Endpoint: endpointGist, Key: id, URL: gistURL, Err: err}
	}

	switch res.status {
	case http.StatusForbidden:
		return nil, res.fail(endpointGist, id, ErrForbidden)
	case http.StatusNotFound:
		return nil, res.fail(endpointGist, id, ErrNotFound)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(res.body, &fields); err != nil || fields == nil {
		return nil, res.fail(endpointGist, id, ErrDecode)
	}
	if isErrorEnvelope(fields) {
		return nil, res.fail(endpointGist, id, ErrErrorEnvelope)
	}

	var gist Gist
	if err := json.Unmarshal(res.body, &gist); err != nil {
		return nil, res.fail(endpointGist, id, ErrDecode)
	}

	return &gist, nil
}

// isErrorEnvelope reports whether a decoded object has the shape the API uses for errors,
// e.g. {"message": "Not Found", "documentation_url": "..."}
func isErrorEnvelope(fields map[string]json.RawMessage) bool {
	_, hasDoc := fields["documentation_url"]
	_, hasMessage := fields["message"]
	return hasDoc && hasMessage
}
