package metrics

import (
	"fmt"
	"sync"
	"testing"

	"github.com/hayeah/treepick/internal/assert"
)

func TestOutputMetrics(t *testing.T) {
	assert := assert.New(t)

	m := NewOutputMetrics(SimpleCounter{}, 2)
	m.Add(KindFile, "a.txt", []byte("This is a test.\nIt has two lines."))
	m.Add(KindFile, "b.txt", []byte("Another test item\n"))
	m.Add(KindFinal, "", []byte("Different kind"))
	m.Wait()
	m.Wait()

	a, ok := m.Get(KindFile, "a.txt")
	assert.True(ok)
	assert.Equal(Stats{Bytes: 33, Tokens: 8, Lines: 2}, a)

	assert.Equal(Stats{Bytes: 51, Tokens: 12, Lines: 3}, m.SumBy(KindFile))
	assert.Equal([]string{"a.txt", "b.txt"}, m.Names(KindFile))

	_, ok = m.Get(KindFile, "missing")
	assert.False(ok)

	assert.EqualJSON(`{
		"file:a.txt": {"bytes": 33, "tokens": 8, "lines": 2},
		"file:b.txt": {"bytes": 18, "tokens": 4, "lines": 1},
		"final:": {"bytes": 14, "tokens": 3, "lines": 1}
	}`, m)
}

func TestOutputMetrics_ConcurrentAdd(t *testing.T) {
	assert := assert.New(t)

	m := NewOutputMetrics(SimpleCounter{}, 4)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Add(KindFile, fmt.Sprintf("f%d", i%5), []byte("abcd\n"))
		}(i)
	}
	wg.Wait()
	m.Wait()

	assert.Len(m.Names(KindFile), 5)
	assert.Equal(Stats{Bytes: 250, Tokens: 50, Lines: 50}, m.SumBy(KindFile))
}

func TestKey(t *testing.T) {
	assert.New(t).Equal("file:path/to/file.go", Key{Kind: KindFile, Name: "path/to/file.go"}.String())
}

func TestSimpleCounter(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(Stats{}, SimpleCounter{}.Count(""))
	assert.Equal(Stats{Bytes: 29, Tokens: 7, Lines: 2}, SimpleCounter{}.Count("Hello, world!\nThis is a test."))
}

func TestNewCounter(t *testing.T) {
	assert := assert.New(t)

	c, err := NewCounter("")
	assert.NoError(err)
	assert.IsType(SimpleCounter{}, c)

	_, err = NewCounter("bogus")
	assert.ErrorContains(err, "unknown token estimator")
}
