package renderer

import (
	"math/rand"
	"sync"
	"testing"
)

// fixedSource always draws the same index.
type fixedSource struct {
	index int
}

func (f *fixedSource) Intn(n int) int {
	if f.index >= n {
		return n - 1
	}
	return f.index
}

// countingSource records how many draws were made.
type countingSource struct {
	calls int
}

func (c *countingSource) Intn(n int) int {
	c.calls++
	return 0
}

func TestSelectEmptyPatterns(t *testing.T) {
	s := NewSelector(nil)
	if _, err := s.Select(nil); err == nil {
		t.Error("Expected error for empty pattern list")
	}
}

func TestSelectSinglePatternDeterministic(t *testing.T) {
	source := &countingSource{}
	s := NewSelector(source)

	for i := 0; i < 50; i++ {
		pattern, err := s.Select([]string{"Please enter {&}"})
		if err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		if pattern != "Please enter {&}" {
			t.Errorf("Expected the single pattern, got %q", pattern)
		}
	}
	if source.calls != 0 {
		t.Errorf("Expected no random draws for a single pattern, got %d", source.calls)
	}
}

func TestSelectInjectedSource(t *testing.T) {
	s := NewSelector(&fixedSource{index: 2})
	patterns := []string{"first", "second", "third"}

	pattern, err := s.Select(patterns)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if pattern != "third" {
		t.Errorf("Expected pattern at injected index, got %q", pattern)
	}
}

func TestSelectRoughlyUniform(t *testing.T) {
	s := NewSelector(&lockedSource{rnd: rand.New(rand.NewSource(1))})
	patterns := []string{"a", "b", "c"}

	counts := make(map[string]int)
	trials := 3000
	for i := 0; i < trials; i++ {
		pattern, err := s.Select(patterns)
		if err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		counts[pattern]++
	}

	// Roughly uniform: each pattern within 20% of the expected share.
	expected := trials / len(patterns)
	for _, p := range patterns {
		if counts[p] < expected*8/10 || counts[p] > expected*12/10 {
			t.Errorf("Pattern %q drawn %d times, expected around %d", p, counts[p], expected)
		}
	}
}

func TestSelectConcurrent(t *testing.T) {
	s := NewSelector(nil)
	patterns := []string{"a", "b", "c", "d"}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				pattern, err := s.Select(patterns)
				if err != nil {
					t.Errorf("Select failed: %v", err)
					return
				}
				if pattern == "" {
					t.Error("Expected a non-empty pattern")
					return
				}
			}
		}()
	}
	wg.Wait()
}
