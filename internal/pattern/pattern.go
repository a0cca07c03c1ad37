// Package pattern matches slash-separated paths against selection patterns.
//
// # Pattern Syntax
//
// 1. Fuzzy Matching (default):
//   - Example: "foo" matches any path whose characters fuzzy match "foo"
//
// 2. Glob Matching:
//   - Used when the pattern contains '*' or '?'
//   - Example: "src/**/*.js"
//
// 3. Regular Expression Matching:
//   - Prefix: "/"
//   - Example: "/\.go$" matches paths ending with ".go"
//
// 4. Exact Path Matching:
//   - Prefix: "="
//   - Example: "=src/App.js"
//
// 5. Negation:
//   - Prefix: "!"
//   - Example: "!test" keeps the paths that "test" would not match
//
// 6. Compound Patterns (logical AND):
//   - Separator: "|"
//   - Example: "src|!test"
//
// 7. Union Patterns (logical OR, lowest precedence):
//   - Separator: ";"
//   - Example: "src/;docs/"
//
// 8. Extended Search (fzf syntax):
//   - Used when the pattern has several space-separated terms, or starts
//     with '^' or a quote, or ends with '$'
//   - Example: "^src .js$ !'test"
//
// A "./" prefix is stripped; a "../" prefix is rejected.
package pattern

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
)

// Matcher filters paths. Results keep the order of the input.
type Matcher interface {
	Match(paths []string) ([]string, error)
}

// ExactMatcher matches one path verbatim.
type ExactMatcher struct {
	Path string
}

func (m ExactMatcher) Match(paths []string) ([]string, error) {
	return lo.Filter(paths, func(p string, _ int) bool { return p == m.Path }), nil
}

// FuzzyMatcher matches paths fuzzily. An empty pattern matches everything.
type FuzzyMatcher struct {
	Pattern string
}

func (m FuzzyMatcher) Match(paths []string) ([]string, error) {
	if m.Pattern == "" {
		return paths, nil
	}
	hit := make(map[int]bool)
	for _, match := range fuzzy.Find(m.Pattern, paths) {
		hit[match.Index] = true
	}
	return lo.Filter(paths, func(_ string, i int) bool { return hit[i] }), nil
}

// GlobMatcher matches doublestar glob patterns, including '**'.
type GlobMatcher struct {
	Pattern string
}

func NewGlobMatcher(pattern string) (GlobMatcher, error) {
	if !doublestar.ValidatePattern(pattern) {
		return GlobMatcher{}, fmt.Errorf("invalid glob pattern '%s'", pattern)
	}
	return GlobMatcher{Pattern: pattern}, nil
}

func (m GlobMatcher) Match(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		ok, err := doublestar.Match(m.Pattern, p)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern '%s': %w", m.Pattern, err)
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// RegexMatcher matches a regular expression anywhere in the path.
type RegexMatcher struct {
	Pattern string
	regex   *regexp.Regexp
}

func NewRegexMatcher(pattern string) (*RegexMatcher, error) {
	if pattern == "" {
		return &RegexMatcher{}, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}
	return &RegexMatcher{Pattern: pattern, regex: re}, nil
}

func (m *RegexMatcher) Match(paths []string) ([]string, error) {
	if m.regex == nil {
		return paths, nil
	}
	return lo.Filter(paths, func(p string, _ int) bool { return m.regex.MatchString(p) }), nil
}

// NegationMatcher keeps the paths its wrapped matcher rejects.
type NegationMatcher struct {
	Wrapped Matcher
}

func (m NegationMatcher) Match(paths []string) ([]string, error) {
	matches, err := m.Wrapped.Match(paths)
	if err != nil {
		return nil, err
	}
	return lo.Without(paths, matches...), nil
}

// CompoundMatcher chains matchers (logical AND).
type CompoundMatcher struct {
	Matchers []Matcher
}

func (m CompoundMatcher) Match(paths []string) ([]string, error) {
	current := paths
	for _, matcher := range m.Matchers {
		var err error
		current, err = matcher.Match(current)
		if err != nil {
			return nil, err
		}
	}
	return current, nil
}

// UnionMatcher merges the results of its matchers (logical OR).
type UnionMatcher struct {
	Matchers []Matcher
}

func (m UnionMatcher) Match(paths []string) ([]string, error) {
	hit := make(map[string]bool)
	for _, matcher := range m.Matchers {
		matches, err := matcher.Match(paths)
		if err != nil {
			return nil, err
		}
		for _, p := range matches {
			hit[p] = true
		}
	}
	return lo.Uniq(lo.Filter(paths, func(p string, _ int) bool { return hit[p] })), nil
}

// Parse turns one pattern into a Matcher.
func Parse(pattern string) (Matcher, error) {
	pattern = strings.TrimSpace(pattern)
	if strings.HasPrefix(pattern, "../") {
		return nil, fmt.Errorf("patterns with '../' are not supported")
	}
	pattern = strings.TrimPrefix(pattern, "./")

	if strings.Contains(pattern, ";") {
		var subs []Matcher
		for _, part := range strings.Split(pattern, ";") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			m, err := Parse(part)
			if err != nil {
				return nil, fmt.Errorf("in union pattern part '%s': %w", part, err)
			}
			subs = append(subs, m)
		}
		switch len(subs) {
		case 0:
			return nil, fmt.Errorf("union pattern contains no valid patterns")
		case 1:
			return subs[0], nil
		}
		return UnionMatcher{Matchers: subs}, nil
	}

	if strings.HasPrefix(pattern, "=") {
		return ExactMatcher{Path: strings.TrimPrefix(pattern[1:], "./")}, nil
	}

	if strings.Contains(pattern, "|") {
		var subs []Matcher
		for _, part := range strings.Split(pattern, "|") {
			m, err := Parse(part)
			if err != nil {
				return nil, fmt.Errorf("in pattern part '%s': %w", part, err)
			}
			subs = append(subs, m)
		}
		return CompoundMatcher{Matchers: subs}, nil
	}

	if len(strings.Fields(pattern)) > 1 {
		return NewTermsMatcher(pattern)
	}

	if strings.HasPrefix(pattern, "!") {
		pattern = pattern[1:]
		if pattern == "" {
			return nil, fmt.Errorf("empty negation pattern '!' is not valid")
		}
		m, err := Parse(pattern)
		if err != nil {
			return nil, err
		}
		return NegationMatcher{Wrapped: m}, nil
	}

	if strings.HasPrefix(pattern, "/") {
		return NewRegexMatcher(pattern[1:])
	}

	if strings.HasPrefix(pattern, "^") || strings.HasPrefix(pattern, "'") || strings.HasSuffix(pattern, "$") {
		return NewTermsMatcher(pattern)
	}

	if strings.ContainsAny(pattern, "*?") {
		return NewGlobMatcher(pattern)
	}

	return FuzzyMatcher{Pattern: pattern}, nil
}

// ParseLines parses one pattern per line. Blank lines and lines starting
// with '#' are skipped.
//
//	src/
//	# only the entry point
//	=src/App.js
func ParseLines(input string) ([]Matcher, error) {
	var matchers []Matcher
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m, err := Parse(line)
		if err != nil {
			return nil, fmt.Errorf("error parsing pattern '%s': %w", line, err)
		}
		matchers = append(matchers, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning patterns: %w", err)
	}
	return matchers, nil
}

// Filter applies every matcher and returns the union of their matches, in
// input order.
func Filter(paths []string, matchers []Matcher) ([]string, error) {
	return UnionMatcher{Matchers: matchers}.Match(paths)
}

// Closest returns the path with the smallest edit distance to target, and
// that distance. Ties go to the earlier path. ok is false when paths is empty.
func Closest(target string, paths []string) (closest string, dist int, ok bool) {
	for i, p := range paths {
		d := levenshtein.ComputeDistance(target, p)
		if i == 0 || d < dist {
			closest, dist = p, d
		}
	}
	return closest, dist, len(paths) > 0
}
