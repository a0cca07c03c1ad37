package pattern

import (
	"fmt"
	"strings"
	"unicode"
)

// TermsMatcher is fzf's extended search: whitespace-separated terms that must
// all hold, compared case-insensitively.
//
//	foo     path contains foo
//	^foo    path starts with foo
//	foo$    path ends with foo
//	'foo    foo starts a word
//	'foo'   foo is a whole word
//	!foo    path does not match foo (combines with the forms above)
type TermsMatcher struct {
	terms []term
}

type term struct {
	text   string // lower-cased
	head   bool
	tail   bool
	word   bool // left word boundary
	whole  bool // both word boundaries
	invert bool
}

// NewTermsMatcher parses an extended search. A blank search matches
// everything.
func NewTermsMatcher(search string) (TermsMatcher, error) {
	var m TermsMatcher
	for _, field := range strings.Fields(search) {
		t, err := parseTerm(field)
		if err != nil {
			return TermsMatcher{}, err
		}
		m.terms = append(m.terms, t)
	}
	return m, nil
}

func parseTerm(field string) (term, error) {
	var t term
	s := field

	if strings.HasPrefix(s, "!") {
		t.invert = true
		s = s[1:]
	}
	if strings.HasPrefix(s, "'") {
		s = s[1:]
		if len(s) > 1 && strings.HasSuffix(s, "'") {
			t.whole = true
			s = s[:len(s)-1]
		} else {
			t.word = true
		}
	}
	if strings.HasPrefix(s, "^") {
		t.head = true
		s = s[1:]
	}
	if strings.HasSuffix(s, "$") {
		t.tail = true
		s = s[:len(s)-1]
	}
	if s == "" || s == "'" {
		return term{}, fmt.Errorf("empty search term in %q", field)
	}

	t.text = strings.ToLower(s)
	return t, nil
}

func (m TermsMatcher) Match(paths []string) ([]string, error) {
	if len(m.terms) == 0 {
		return paths, nil
	}
	var out []string
next:
	for _, p := range paths {
		lower := strings.ToLower(p)
		for _, t := range m.terms {
			if t.matches(lower) == t.invert {
				continue next
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (t term) matches(path string) bool {
	switch {
	case t.head && t.tail:
		return path == t.text
	case t.head:
		return strings.HasPrefix(path, t.text) && (!t.whole || atBoundary(path, 0, len(t.text)))
	case t.tail:
		i := len(path) - len(t.text)
		return strings.HasSuffix(path, t.text) && t.boundaryOK(path, i)
	}

	for from := 0; from <= len(path)-len(t.text); {
		rel := strings.Index(path[from:], t.text)
		if rel < 0 {
			return false
		}
		i := from + rel
		if t.boundaryOK(path, i) {
			return true
		}
		from = i + 1
	}
	return false
}

func (t term) boundaryOK(s string, i int) bool {
	switch {
	case t.whole:
		return atBoundary(s, i, len(t.text))
	case t.word:
		return i == 0 || !isWordChar(rune(s[i-1]))
	}
	return true
}

// atBoundary reports whether s[i:i+n] has a word boundary on both sides.
func atBoundary(s string, i, n int) bool {
	left := i == 0 || !isWordChar(rune(s[i-1]))
	right := i+n == len(s) || !isWordChar(rune(s[i+n]))
	return left && right
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
