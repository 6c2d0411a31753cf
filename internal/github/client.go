package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultTimeout = 10 * time.Second

	maxBodySize = 64 << 20

	endpointList = "list"
	endpointGist = "gist"
)

// Client talks to the Github REST API for gists. It is safe for concurrent use
// and keeps no state between calls.
type Client struct {
	http    *http.Client
	baseURL string
	headers map[string]string
}

// NewClient creates a Client for the API rooted at baseURL. Every call is bounded by timeout;
// headers are added to every request.
func NewClient(baseURL string, timeout time.Duration, headers map[string]string) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	h := map[string]string{"Accept": "application/vnd.github.v3+json"}
	for k, v := range headers {
		h[k] = v
	}

	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		headers: h,
	}
}

type response struct {
	status int
	header http.Header
	body   []byte
	url    *url.URL
}

func (c *Client) get(ctx context.Context, rawURL string) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	zerolog.Ctx(ctx).Debug().Str("url", rawURL).Int("status", resp.StatusCode).
		TimeDiff("duration", time.Now(), start).Msg("Github API")

	return &response{
		status: resp.StatusCode,
		header: resp.Header,
		body:   body,
		url:    resp.Request.URL,
	}, nil
}

func (r *response) fail(endpoint, key string, err error) *UpstreamError {
	return &UpstreamError{
		Endpoint: endpoint,
		Key:      key,
		URL:      r.url.String(),
		Status:   r.status,
		Body:     r.body,
		Err:      err,
	}
}

func logUpstreamError(logger *zerolog.Logger, keyName string, err *UpstreamError, msg string) {
	event := logger.Error().Err(err.Err).Str(keyName, err.Key).Str("url", err.URL)
	if err.Status != 0 {
		event = event.Int("status", err.Status)
	}
	if len(err.Body) > 0 {
		event = event.Str("response", err.loggedBody())
	}
	event.Msg(msg)
}
