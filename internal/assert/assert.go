package assert

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Assert is a wrapper around assert.Assertions and testing.T
type Assert struct {
	*assert.Assertions
	T *testing.T
}

// New creates a new Assert object
func New(t *testing.T) *Assert {
	return &Assert{
		Assertions: assert.New(t),
		T:          t,
	}
}

// EqualJSON marshals actual and compares it with the expected JSON document,
// ignoring formatting and key order.
func (a *Assert) EqualJSON(expected string, actual any) {
	a.T.Helper()
	b, err := json.Marshal(actual)
	a.NoError(err, "Failed to marshal result to JSON")
	a.JSONEq(expected, string(b))
}

// EqualLines compares actual with a block of expected lines. Leading and
// trailing blank lines of the block are ignored, as is the indentation shared
// by all of its lines, so expectations can be written as indented raw strings.
func (a *Assert) EqualLines(expected string, actual []string) {
	a.T.Helper()
	a.Equal(Lines(expected), actual)
}

// Lines splits a raw string block into lines, dropping surrounding blank lines
// and the common indentation.
func Lines(block string) []string {
	lines := strings.Split(block, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil
	}

	common := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		indent := len(l) - len(strings.TrimLeft(l, " \t"))
		if common < 0 || indent < common {
			common = indent
		}
	}
	if common < 0 {
		common = 0
	}

	out := make([]string, len(lines))
	for i, l := range lines {
		if len(l) >= common {
			l = l[common:]
		}
		out[i] = strings.TrimRight(l, " \t")
	}
	return out
}
