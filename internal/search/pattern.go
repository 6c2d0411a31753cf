package search

import (
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// Matcher tests whether a text matches a pattern starting at its first character.
// It is neither a search anywhere in the text nor a full-text match: `foo` matches
// "foobar" but not "xfoo".
type Matcher struct {
	re *regexp2.Regexp

	// anchored is set when re only attempts a match at the start of the text
	anchored bool
}

// inline options turning on free-spacing mode, e.g. (?x) or (?ix:...)
var freeSpacing = regexp.MustCompile(`\(\?[imnsx]*x[imnsx-]*[:)]`)

// CompilePattern compiles a user pattern written in Python regular expression syntax.
// A match running longer than timeout is aborted.
func CompilePattern(pattern string, timeout time.Duration) (*Matcher, error) {
	translated := translatePattern(pattern)

	re, err := regexp2.Compile(translated, regexp2.None)
	if err != nil {
		return nil, &InvalidPatternError{Pattern: pattern, Err: err}
	}

	m := &Matcher{re: re}

	// \G only lets the engine try position 0. A # comment in free-spacing mode could
	// swallow the closing parenthesis, so those patterns are matched unanchored.
	if !freeSpacing.MatchString(translated) {
		if anchored, err := regexp2.Compile(`\G(?:`+translated+`)`, regexp2.None); err == nil {
			m.re, m.anchored = anchored, true
		}
	}

	if timeout > 0 {
		m.re.MatchTimeout = timeout
	}
	return m, nil
}

// MatchPrefix reports whether the pattern matches text at position 0. Unanchored, the
// engine tries start positions from left to right, so the first match found starts at 0
// whenever any match starting at 0 exists.
func (m *Matcher) MatchPrefix(text string) (bool, error) {
	match, err := m.re.FindStringMatch(text)
	if err != nil {
		return false, err
	}
	return match != nil && match.Index == 0, nil
}

// translatePattern rewrites the Python constructs the engine reads differently:
// (?P<name>...) and (?P=name) become .NET named groups and backreferences, and \Z,
// which only matches at the very end in Python, becomes \z. Escapes and character
// classes are copied as is.
func translatePattern(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern))

	inClass := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]

		switch {
		case c == '\\' && i+1 < len(pattern):
			if !inClass && pattern[i+1] == 'Z' {
				b.WriteString(`\z`)
			} else {
				b.WriteString(pattern[i : i+2])
			}
			i++
			continue

		case inClass:
			if c == ']' {
				inClass = false
			}

		case c == '[':
			inClass = true
			b.WriteByte(c)
			// a ] right after [ or [^ is a literal
			if strings.HasPrefix(pattern[i+1:], "^") {
				b.WriteByte('^')
				i++
			}
			if strings.HasPrefix(pattern[i+1:], "]") {
				b.WriteByte(']')
				i++
			}
			continue

		case strings.HasPrefix(pattern[i:], "(?P<"):
			b.WriteString("(?<")
			i += len("(?P<") - 1
			continue

		case strings.HasPrefix(pattern[i:], "(?P="):
			if end := strings.IndexByte(pattern[i:], ')'); end > 0 {
				b.WriteString(`\k<` + pattern[i+len("(?P="):i+end] + ">")
				i += end
				continue
			}
		}

		b.WriteByte(c)
	}

	return b.String()
}
