package metrics

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter measures a piece of text.
type Counter interface {
	Count(text string) Stats
}

// NewCounter returns the counter for an estimator name: "simple" (the
// default, bytes/4) or "tiktoken".
func NewCounter(estimator string) (Counter, error) {
	switch estimator {
	case "", "simple":
		return SimpleCounter{}, nil
	case "tiktoken":
		return NewTiktokenCounter("gpt-3.5-turbo")
	default:
		return nil, fmt.Errorf("unknown token estimator: %s", estimator)
	}
}

// SimpleCounter estimates tokens as bytes/4.
type SimpleCounter struct{}

func (SimpleCounter) Count(text string) Stats {
	return Stats{
		Bytes:  len(text),
		Tokens: len(text) / 4,
		Lines:  countLines(text),
	}
}

// TiktokenCounter counts tokens with the tokenizer of an OpenAI model.
type TiktokenCounter struct {
	model    string
	encoding *tiktoken.Tiktoken
}

// NewTiktokenCounter loads the encoding for model.
func NewTiktokenCounter(model string) (*TiktokenCounter, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("unsupported model for tiktoken: %s: %w", model, err)
	}
	return &TiktokenCounter{model: model, encoding: enc}, nil
}

func (c *TiktokenCounter) Count(text string) Stats {
	return Stats{
		Bytes:  len(text),
		Tokens: len(c.encoding.Encode(text, nil, nil)),
		Lines:  countLines(text),
	}
}

// countLines counts newline-terminated lines, plus a trailing partial line.
func countLines(text string) int {
	n := strings.Count(text, "\n")
	if text != "" && !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
