package renderer

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// IndexSource draws one uniform index in [0, n). The pattern selector only
// ever needs this single operation, so tests can swap in a deterministic
// source while production shares one seeded generator.
type IndexSource interface {
	Intn(n int) int
}

// lockedSource guards a math/rand generator so concurrent prompt renders
// never interleave a draw. The lock covers exactly one Intn call.
type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}

// defaultSource is the process-wide generator used when no source is
// injected.
var defaultSource IndexSource = &lockedSource{
	rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
}

// Selector picks one pattern from a resolved record's candidates. Picking at
// random across renders is deliberate: repeated prompts phrase themselves
// differently.
type Selector struct {
	source IndexSource
}

// NewSelector creates a selector drawing from source, or from the shared
// process-wide generator when source is nil.
func NewSelector(source IndexSource) *Selector {
	if source == nil {
		source = defaultSource
	}
	return &Selector{source: source}
}

// Select returns one of the candidate patterns. A single candidate is
// returned as-is without consulting the random source, so single-pattern
// records stay deterministic. An empty candidate list is a declaration error.
func (s *Selector) Select(patterns []string) (string, error) {
	switch len(patterns) {
	case 0:
		return "", fmt.Errorf("no prompt patterns declared")
	case 1:
		return patterns[0], nil
	}
	return patterns[s.source.Intn(len(patterns))], nil
}
