// Package testutil provides deterministic helpers for tests.
package testutil

import (
	"fmt"
	"sync"
)

// FixedRunIDGenerator returns the same run ID every time.
//
// This keeps journal rows and log lines identical across test runs.
// Stateless and safe for concurrent use.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a generator that always returns id.
// If id is empty, Generate returns "test-run-default".
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run ID.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}

// SequentialRunIDGenerator returns prefix-1, prefix-2, ... in order.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type SequentialRunIDGenerator struct {
	mu     sync.Mutex
	prefix string
	seq    int64
}

// NewSequentialRunIDGenerator creates a generator starting at 1.
func NewSequentialRunIDGenerator(prefix string) *SequentialRunIDGenerator {
	return &SequentialRunIDGenerator{prefix: prefix}
}

// Generate increments the counter and returns the next ID.
func (g *SequentialRunIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%d", g.prefix, g.seq)
}

// Current returns the last issued sequence number without incrementing.
func (g *SequentialRunIDGenerator) Current() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq
}

// Reset restarts the sequence. The next Generate returns prefix-1.
func (g *SequentialRunIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
