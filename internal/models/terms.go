package models

// TermSet declares the phrases that recognize a field or a choice in
// free-form input. An alternative starting with "(" is a pre-built regular
// expression fragment and passes through compilation untouched; anything
// else is a plain phrase.
//
// MaxPhrase bounds the n-gram expansion of plain phrases; zero leaves the
// alternatives unexpanded (they are anchored whole). The declaration itself
// is never rewritten: the terms package derives matcher patterns from it on
// demand, so deriving twice never compounds.
type TermSet struct {
	Alternatives []string `yaml:"alternatives,omitempty"`
	MaxPhrase    int      `yaml:"max_phrase,omitempty"`
}

// Empty reports whether the set declares no alternatives.
func (t *TermSet) Empty() bool {
	return t == nil || len(t.Alternatives) == 0
}

// Clone returns a deep copy of the set.
func (t *TermSet) Clone() *TermSet {
	if t == nil {
		return nil
	}
	out := &TermSet{MaxPhrase: t.MaxPhrase}
	if len(t.Alternatives) > 0 {
		out.Alternatives = append([]string(nil), t.Alternatives...)
	}
	return out
}
