package github

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gorilla/schema"
	"github.com/rs/zerolog"
	"github.com/thomiceli/gistsearch/internal/metrics"
)

// ListPerPage is the page size of gist listings.
const ListPerPage = 1

type listParams struct {
	Page    int `schema:"page"`
	PerPage int `schema:"per_page"`
}

var encoder = schema.NewEncoder()

func (c *Client) listURL(username string) (string, error) {
	values := url.Values{}
	if err := encoder.Encode(listParams{Page: 1, PerPage: ListPerPage}, values); err != nil {
		return "", err
	}
	return c.baseURL + "/users/" + url.PathEscape(username) + "/gists?" + values.Encode(), nil
}

// ListGists returns the summaries of every public gist of a user, following the
// rel="next" links of the Link header until the last page.
// See https://docs.github.com/en/rest/gists/gists#list-gists-for-a-user
//
// When a page fails, the error is logged and returned along with the summaries
// gathered from the pages before it.
func (c *Client) ListGists(ctx context.Context, username string) ([]GistSummary, error) {
	logger := zerolog.Ctx(ctx)
	summaries := make([]GistSummary, 0)

	pageURL, err := c.listURL(username)
	if err != nil {
		return summaries, &UpstreamError{Endpoint: endpointList, Key: username, Err: err}
	}

	visited := make(map[string]struct{})
	for pageURL != "" {
		visited[pageURL] = struct{}{}

		page, next, err := c.listPage(ctx, username, pageURL)
		if err != nil {
			metrics.UpstreamRequest(endpointList, outcomeOf(err))
			logUpstreamError(logger, "username", err, "Failed to get user gists")
			return summaries, err
		}
		metrics.UpstreamRequest(endpointList, outcomeOK)
		summaries = append(summaries, page...)

		if _, ok := visited[next]; ok && next != "" {
			logger.Warn().Str("username", username).Str("url", next).Msg("Pagination link points to an already visited page")
			break
		}
		pageURL = next
	}

	return summaries, nil
}

func (c *Client) listPage(ctx context.Context, username, pageURL string) ([]GistSummary, string, *UpstreamError) {
	res, err := c.get(ctx, pageURL)
	if err != nil {
		return nil, "", &UpstreamError{Endpoint: endpointList, Key: username, URL: pageURL, Err: err}
	}

	if res.status == http.StatusUnprocessableEntity {
		return nil, "", res.fail(endpointList, username, ErrUnprocessable)
	}

	body := bytes.TrimSpace(res.body)
	if !json.Valid(body) {
		return nil, "", res.fail(endpointList, username, ErrDecode)
	}
	// an error envelope (or anything else) where a list was expected
	if body[0] != '[' {
		return nil, "", res.fail(endpointList, username, ErrUnexpectedShape)
	}

	var page []GistSummary
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, "", res.fail(endpointList, username, ErrDecode)
	}

	return page, nextLink(res.header, res.url), nil
}
