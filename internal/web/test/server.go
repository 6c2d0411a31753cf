package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thomiceli/gistsearch/internal/config"
	"github.com/thomiceli/gistsearch/internal/web/server"
)

type testServer struct {
	server *server.Server
}

func (s *testServer) Request(method, uri string, data interface{}, expectedCode int, responsePtr ...*http.Response) error {
	var contentType string
	if method == http.MethodPost {
		contentType = "application/json"
	}
	return s.RequestWithContentType(method, uri, data, contentType, expectedCode, responsePtr...)
}

func (s *testServer) RequestWithContentType(method, uri string, data interface{}, contentType string, expectedCode int, responsePtr ...*http.Response) error {
	var bodyReader io.Reader
	switch body := data.(type) {
	case nil:
	case string:
		bodyReader = strings.NewReader(body)
	default:
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, "http://localhost:9876"+uri, bodyReader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	w := httptest.NewRecorder()
	s.server.ServeHTTP(w, req)

	if len(responsePtr) > 0 && responsePtr[0] != nil {
		*responsePtr[0] = *w.Result()
	}

	if w.Code != expectedCode {
		return fmt.Errorf("unexpected status code %d, expected %d: %s", w.Code, expectedCode, w.Body.String())
	}

	return nil
}

// fakeGithub serves the gist endpoints of the Github API, one gist per page.
type fakeGithub struct {
	server *httptest.Server

	users     map[string][]string // username -> gist ids
	contents  map[string]string   // gist id -> content
	envelopes map[string]bool     // gist ids answered with an error envelope

	calls atomic.Int64
}

func newFakeGithub(t *testing.T) *fakeGithub {
	f := &fakeGithub{
		users:     map[string][]string{},
		contents:  map[string]string{},
		envelopes: map[string]bool{},
	}
	f.server = httptest.NewServer(f)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeGithub) addGist(username, id, content string) {
	f.users[username] = append(f.users[username], id)
	f.contents[id] = content
}

func (f *fakeGithub) writeEnvelope(w http.ResponseWriter, code int, message string) {
	w.WriteHeader(code)
	_, _ = fmt.Fprintf(w, `{"message":%q,"documentation_url":"https://docs.github.com/rest"}`, message)
}

func (f *fakeGithub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	w.Header().Set("Content-Type", "application/json")

	if id, ok := strings.CutPrefix(r.URL.Path, "/gists/"); ok {
		content, found := f.contents[id]
		switch {
		case !found:
			f.writeEnvelope(w, http.StatusNotFound, "Not Found")
		case f.envelopes[id]:
			f.writeEnvelope(w, http.StatusOK, "Something went wrong")
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":    id,
				"files": map[string]any{"file.txt": map[string]any{"filename": "file.txt", "content": content}},
			})
		}
		return
	}

	rest, ok := strings.CutPrefix(r.URL.Path, "/users/")
	username, suffix, _ := strings.Cut(rest, "/")
	if !ok || suffix != "gists" {
		f.writeEnvelope(w, http.StatusNotFound, "Not Found")
		return
	}
	if strings.HasPrefix(username, "-") {
		f.writeEnvelope(w, http.StatusUnprocessableEntity, "Validation Failed")
		return
	}
	ids, found := f.users[username]
	if !found {
		f.writeEnvelope(w, http.StatusNotFound, "Not Found")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 || page > len(ids) {
		_, _ = w.Write([]byte(`[]`))
		return
	}
	if page < len(ids) {
		w.Header().Set("Link", fmt.Sprintf(`<%s/users/%s/gists?page=%d&per_page=1>; rel="next"`, f.server.URL, username, page+1))
	}
	_, _ = fmt.Fprintf(w, `[{"id":%q}]`, ids[page-1])
}

func Setup(t *testing.T) (*testServer, *fakeGithub) {
	gh := newFakeGithub(t)
	t.Setenv("GS_GITHUB_API_URL", gh.server.URL)

	err := config.InitConfig("", io.Discard)
	require.NoError(t, err, "Could not init config")

	config.InitLog()

	return &testServer{server: server.NewServer(true)}, gh
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	defer res.Body.Close()

	var v T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&v))
	return v
}
