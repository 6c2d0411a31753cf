package search

import (
	"sort"
	"strings"

	"github.com/thomiceli/gistsearch/internal/github"
)

// AggregateContent joins the content of every file of a gist, each followed by a newline.
// Files are taken in filename order, which is the order the Github API lists them in.
// A file without content counts as empty.
func AggregateContent(gist *github.Gist) string {
	if gist == nil || len(gist.Files) == 0 {
		return ""
	}

	names := make([]string, 0, len(gist.Files))
	for name := range gist.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		if content := gist.Files[name].Content; content != nil {
			b.WriteString(*content)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
