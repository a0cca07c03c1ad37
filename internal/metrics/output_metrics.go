package metrics

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Kinds of measured output.
const (
	KindFile  = "file"
	KindFinal = "final"
)

// Key identifies a measured item.
type Key struct {
	Kind string
	Name string
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s", k.Kind, k.Name)
}

// Stats are the sizes of a piece of text.
type Stats struct {
	Bytes  int `json:"bytes"`
	Tokens int `json:"tokens"`
	Lines  int `json:"lines"`
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Bytes += o.Bytes
	s.Tokens += o.Tokens
	s.Lines += o.Lines
}

type job struct {
	key     Key
	content []byte
}

// OutputMetrics measures output pieces on a pool of workers. Add may be
// called concurrently; read results only after Wait.
type OutputMetrics struct {
	mu    sync.Mutex
	wg    sync.WaitGroup
	once  sync.Once
	jobs  chan job
	items map[Key]Stats
	ctr   Counter
}

// NewOutputMetrics starts workers goroutines measuring with counter.
func NewOutputMetrics(counter Counter, workers int) *OutputMetrics {
	if workers < 1 {
		workers = 1
	}
	m := &OutputMetrics{
		jobs:  make(chan job, workers*2),
		items: make(map[Key]Stats),
		ctr:   counter,
	}
	m.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go m.worker()
	}
	return m
}

func (m *OutputMetrics) worker() {
	defer m.wg.Done()
	for j := range m.jobs {
		stats := m.ctr.Count(string(j.content))
		m.mu.Lock()
		item := m.items[j.key]
		item.Add(stats)
		m.items[j.key] = item
		m.mu.Unlock()
	}
}

// Add queues content for measuring under (kind, name).
func (m *OutputMetrics) Add(kind, name string, content []byte) {
	m.jobs <- job{key: Key{Kind: kind, Name: name}, content: content}
}

// Wait stops accepting work and blocks until every queued item is measured.
// It may be called more than once.
func (m *OutputMetrics) Wait() {
	m.once.Do(func() { close(m.jobs) })
	m.wg.Wait()
}

// Get returns the stats recorded for (kind, name).
func (m *OutputMetrics) Get(kind, name string) (Stats, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[Key{Kind: kind, Name: name}]
	return s, ok
}

// SumBy totals the stats of one kind.
func (m *OutputMetrics) SumBy(kind string) Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum Stats
	for k, v := range m.items {
		if k.Kind == kind {
			sum.Add(v)
		}
	}
	return sum
}

// Names lists the measured names of one kind, sorted.
func (m *OutputMetrics) Names(kind string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for k := range m.items {
		if k.Kind == kind {
			names = append(names, k.Name)
		}
	}
	sort.Strings(names)
	return names
}

// MarshalJSON encodes the items keyed by "kind:name".
func (m *OutputMetrics) MarshalJSON() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]Stats, len(m.items))
	for k, v := range m.items {
		out[k.String()] = v
	}
	return json.Marshal(out)
}
