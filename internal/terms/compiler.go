// Package terms compiles the term declarations of a form field into the
// matcher patterns consumed by a natural-language recognizer. A declaration
// is a list of raw alternatives (words, phrases, or hand-written patterns);
// compilation optionally expands each phrase into bounded word n-grams and
// anchors every matcher at word boundaries so partial-word hits are rejected.
package terms

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dpshade/formloom/internal/models"
)

// groupMarker prefixes an alternative that is already a hand-written
// pattern. Such alternatives pass through untouched: the author has taken
// control of boundary semantics.
const groupMarker = "("

// Expand decomposes each alternative into every contiguous word run of
// length 1 through maxPhrase and renders each run as a boundary-anchored
// matcher. Runs are emitted per alternative, shortest first:
//
//	Expand([]string{"good morning"}, 2)
//	// => [`\bgood\b`, `\bmorning\b`, `\bgood morning\b`]
//
// Alternatives starting with a grouping marker are passed through verbatim.
// Duplicate runs across alternatives are preserved; de-duplication is the
// recognizer's concern. A maxPhrase below 1 is a declaration error.
func Expand(alternatives []string, maxPhrase int) ([]string, error) {
	if maxPhrase < 1 {
		return nil, fmt.Errorf("invalid max phrase length %d: must be at least 1", maxPhrase)
	}

	var expanded []string
	for _, alt := range alternatives {
		if strings.HasPrefix(alt, groupMarker) {
			expanded = append(expanded, alt)
			continue
		}

		words := strings.Fields(alt)
		limit := maxPhrase
		if len(words) < limit {
			limit = len(words)
		}
		for length := 1; length <= limit; length++ {
			for start := 0; start+length <= len(words); start++ {
				run := strings.Join(words[start:start+length], " ")
				expanded = append(expanded, `\b`+run+`\b`)
			}
		}
	}
	return expanded, nil
}

// Anchor wraps each alternative in word-boundary anchors without any phrase
// expansion. Hand-written patterns pass through verbatim, same as Expand.
func Anchor(alternatives []string) []string {
	anchored := make([]string, 0, len(alternatives))
	for _, alt := range alternatives {
		if strings.HasPrefix(alt, groupMarker) {
			anchored = append(anchored, alt)
			continue
		}
		anchored = append(anchored, `\b`+alt+`\b`)
	}
	return anchored
}

// Patterns compiles a term declaration into its matcher strings. A positive
// MaxPhrase selects n-gram expansion; zero means the alternatives are used
// as-is, anchored but not expanded. The declaration itself is never
// modified, so compiling twice never re-expands an expanded list.
func Patterns(set models.TermSet) ([]string, error) {
	if set.MaxPhrase > 0 {
		return Expand(set.Alternatives, set.MaxPhrase)
	}
	return Anchor(set.Alternatives), nil
}

// Compile turns matcher strings into case-insensitive regular expressions.
// The first malformed pattern aborts compilation with an error naming it.
func Compile(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("invalid term pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// Match reports which of the compiled matchers accept the input, as indices
// into the compiled slice. An empty result means no matcher fired.
func Match(compiled []*regexp.Regexp, input string) []int {
	var hits []int
	for i, re := range compiled {
		if re.MatchString(input) {
			hits = append(hits, i)
		}
	}
	return hits
}
