package github

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// nextLink returns the target of the rel="next" entry of the Link headers, resolved
// against base, or "" if there is none.
//
//	Link: <https://api.github.com/user/1/gists?page=2&per_page=1>; rel="next", <...>; rel="last"
func nextLink(header http.Header, base *url.URL) string {
	for _, value := range header.Values("Link") {
		for _, entry := range splitLinks(value) {
			target, rels, ok := parseLink(entry)
			if !ok {
				continue
			}
			if !slices.Contains(rels, "next") {
				continue
			}
			u, err := url.Parse(target)
			if err != nil {
				continue
			}
			if base != nil {
				u = base.ResolveReference(u)
			}
			return u.String()
		}
	}
	return ""
}

// splitLinks splits a Link header value on the commas that are not inside a <uri>.
func splitLinks(value string) []string {
	var entries []string
	inURI := false
	start := 0
	for i, r := range value {
		switch r {
		case '<':
			inURI = true
		case '>':
			inURI = false
		case ',':
			if !inURI {
				entries = append(entries, value[start:i])
				start = i + 1
			}
		}
	}
	return append(entries, value[start:])
}

func parseLink(entry string) (string, []string, bool) {
	entry = strings.TrimSpace(entry)
	if !strings.HasPrefix(entry, "<") {
		return "", nil, false
	}
	end := strings.IndexByte(entry, '>')
	if end < 0 {
		return "", nil, false
	}
	target := entry[1:end]

	var rels []string
	for _, param := range strings.Split(entry[end+1:], ";") {
		key, val, found := strings.Cut(strings.TrimSpace(param), "=")
		if !found || !strings.EqualFold(strings.TrimSpace(key), "rel") {
			continue
		}
		// rel may hold several space separated relation types
		rels = append(rels, strings.Fields(strings.ToLower(strings.Trim(strings.TrimSpace(val), `"`)))...)
	}
	return target, rels, true
}
