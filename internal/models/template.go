package models

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Placeholders recognized inside prompt patterns. A pattern is one candidate
// prompt string; the renderer substitutes placeholders after a pattern has
// been selected.
const (
	// PlaceholderValue is replaced with the field's current value(s),
	// normalized per ValueCase and joined with Separator/LastSeparator.
	PlaceholderValue = "{}"

	// PlaceholderField is replaced with the field description, normalized
	// per FieldCase.
	PlaceholderField = "{&}"

	// PlaceholderChoices marks where the rendered choice list goes.
	PlaceholderChoices = "{||}"

	// ChoiceFormatIndex and ChoiceFormatLabel are only meaningful inside
	// ChoiceFormat: the 1-based choice number and the choice label.
	ChoiceFormatIndex = "{0}"
	ChoiceFormatLabel = "{1}"
)

// DefaultChoiceFormat is the per-line choice format used when nothing more
// specific is configured: "1. Red", "2. Green", ...
const DefaultChoiceFormat = "{0}. {1}"

// ChoiceStyle controls how a choice list placeholder is rendered.
type ChoiceStyle int

const (
	// ChoiceDefault is the inherit sentinel: the style comes from the
	// enclosing scope.
	ChoiceDefault ChoiceStyle = iota
	// ChoiceAuto lets the presentation layer decide; the renderer only
	// supplies the ordered labels.
	ChoiceAuto
	// ChoiceAutoText renders inline for short lists and per-line for long
	// ones.
	ChoiceAutoText
	// ChoiceInline joins the labels into a parenthesized run of text.
	ChoiceInline
	// ChoicePerLine renders one numbered label per line via ChoiceFormat.
	ChoicePerLine
	// ChoiceInlineNoParen joins like ChoiceInline but never parenthesizes.
	ChoiceInlineNoParen
	// ChoiceButtons and ChoiceCarousel are directives for channels that
	// draw their own widgets; the renderer only supplies the labels.
	ChoiceButtons
	ChoiceCarousel
)

var choiceStyleNames = map[ChoiceStyle]string{
	ChoiceDefault:       "default",
	ChoiceAuto:          "auto",
	ChoiceAutoText:      "auto-text",
	ChoiceInline:        "inline",
	ChoicePerLine:       "per-line",
	ChoiceInlineNoParen: "inline-no-paren",
	ChoiceButtons:       "buttons",
	ChoiceCarousel:      "carousel",
}

// String returns the lower-case name used in YAML documents.
func (c ChoiceStyle) String() string {
	if name, ok := choiceStyleNames[c]; ok {
		return name
	}
	return "default"
}

// ParseChoiceStyle converts a YAML string into a ChoiceStyle. The empty
// string parses as ChoiceDefault; anything else unknown is a configuration
// error.
func ParseChoiceStyle(s string) (ChoiceStyle, error) {
	if s == "" {
		return ChoiceDefault, nil
	}
	for style, name := range choiceStyleNames {
		if name == strings.ToLower(s) {
			return style, nil
		}
	}
	return ChoiceDefault, fmt.Errorf("unknown choice style %q", s)
}

// MarshalYAML implements yaml.Marshaler
func (c ChoiceStyle) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (c *ChoiceStyle) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseChoiceStyle(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// CaseNormalization controls how text is case-folded before rendering.
// Three independent axes exist on a record: choices, field descriptions,
// and values.
type CaseNormalization int

const (
	// CaseDefault is the inherit sentinel.
	CaseDefault CaseNormalization = iota
	// CaseInitialUpper title-cases the text ("red wine" -> "Red Wine").
	CaseInitialUpper
	// CaseLower and CaseUpper fold the whole text.
	CaseLower
	CaseUpper
	// CaseNone leaves the text exactly as authored.
	CaseNone
)

var caseNames = map[CaseNormalization]string{
	CaseDefault:      "default",
	CaseInitialUpper: "initial-upper",
	CaseLower:        "lower",
	CaseUpper:        "upper",
	CaseNone:         "none",
}

// String returns the lower-case name used in YAML documents.
func (c CaseNormalization) String() string {
	if name, ok := caseNames[c]; ok {
		return name
	}
	return "default"
}

// ParseCaseNormalization converts a YAML string into a CaseNormalization.
func ParseCaseNormalization(s string) (CaseNormalization, error) {
	if s == "" {
		return CaseDefault, nil
	}
	for c, name := range caseNames {
		if name == strings.ToLower(s) {
			return c, nil
		}
	}
	return CaseDefault, fmt.Errorf("unknown case normalization %q", s)
}

// MarshalYAML implements yaml.Marshaler
func (c CaseNormalization) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (c *CaseNormalization) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseCaseNormalization(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Feedback controls whether the dialog engine echoes back what it understood
// after a field is filled.
type Feedback int

const (
	// FeedbackDefault is the inherit sentinel.
	FeedbackDefault Feedback = iota
	// FeedbackAuto echoes only when the engine had to guess.
	FeedbackAuto
	FeedbackAlways
	FeedbackNever
)

var feedbackNames = map[Feedback]string{
	FeedbackDefault: "default",
	FeedbackAuto:    "auto",
	FeedbackAlways:  "always",
	FeedbackNever:   "never",
}

// String returns the lower-case name used in YAML documents.
func (f Feedback) String() string {
	if name, ok := feedbackNames[f]; ok {
		return name
	}
	return "default"
}

// ParseFeedback converts a YAML string into a Feedback policy.
func ParseFeedback(s string) (Feedback, error) {
	if s == "" {
		return FeedbackDefault, nil
	}
	for f, name := range feedbackNames {
		if name == strings.ToLower(s) {
			return f, nil
		}
	}
	return FeedbackDefault, fmt.Errorf("unknown feedback policy %q", s)
}

// MarshalYAML implements yaml.Marshaler
func (f Feedback) MarshalYAML() (interface{}, error) {
	return f.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (f *Feedback) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseFeedback(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// TemplateConfig carries every formatting and behavior option of a prompt
// template together with its candidate pattern strings. Records are declared
// at three scopes (field, form, global); any option left at its sentinel
// (enum Default, nil pointer, empty pattern list) inherits from the enclosing
// scope through ApplyDefaults. After resolution a record is read-only and may
// be shared between goroutines.
type TemplateConfig struct {
	// Patterns holds the candidate prompt strings, one of which is picked
	// at prompt time. Empty means inherit the enclosing scope's patterns.
	Patterns []string `yaml:"patterns,omitempty"`

	ChoiceStyle ChoiceStyle       `yaml:"choice_style,omitempty"`
	ChoiceCase  CaseNormalization `yaml:"choice_case,omitempty"`
	FieldCase   CaseNormalization `yaml:"field_case,omitempty"`
	ValueCase   CaseNormalization `yaml:"value_case,omitempty"`
	Feedback    Feedback          `yaml:"feedback,omitempty"`

	// Separators for value lists ({}) and choice lists ({||}). nil means
	// inherit.
	Separator           *string `yaml:"separator,omitempty"`
	LastSeparator       *string `yaml:"last_separator,omitempty"`
	ChoiceSeparator     *string `yaml:"choice_separator,omitempty"`
	ChoiceLastSeparator *string `yaml:"choice_last_separator,omitempty"`

	// ChoiceFormat is the per-line format, fed the 1-based index ({0}) and
	// the label ({1}). nil means inherit.
	ChoiceFormat *string `yaml:"choice_format,omitempty"`

	// AllowDefault includes the current value as an implicit choice;
	// ChoiceParens wraps inline choice lists in parentheses. nil means
	// inherit (YAML absent = nil).
	AllowDefault *bool `yaml:"allow_default,omitempty"`
	ChoiceParens *bool `yaml:"choice_parens,omitempty"`
}

// ApplyDefaults copies values from parent into the receiver wherever the
// receiver still holds a sentinel. Options already set are never overwritten
// and parent is never written to, so resolution only ever flows from the
// general scope into the specific one and re-applying the same parent is a
// no-op. A fully concrete receiver takes no writes at all.
func (t *TemplateConfig) ApplyDefaults(parent *TemplateConfig) {
	if parent == nil {
		return
	}

	if len(t.Patterns) == 0 && len(parent.Patterns) > 0 {
		t.Patterns = append([]string(nil), parent.Patterns...)
	}

	if t.ChoiceStyle == ChoiceDefault {
		t.ChoiceStyle = parent.ChoiceStyle
	}
	if t.ChoiceCase == CaseDefault {
		t.ChoiceCase = parent.ChoiceCase
	}
	if t.FieldCase == CaseDefault {
		t.FieldCase = parent.FieldCase
	}
	if t.ValueCase == CaseDefault {
		t.ValueCase = parent.ValueCase
	}
	if t.Feedback == FeedbackDefault {
		t.Feedback = parent.Feedback
	}

	t.Separator = inheritString(t.Separator, parent.Separator)
	t.LastSeparator = inheritString(t.LastSeparator, parent.LastSeparator)
	t.ChoiceSeparator = inheritString(t.ChoiceSeparator, parent.ChoiceSeparator)
	t.ChoiceLastSeparator = inheritString(t.ChoiceLastSeparator, parent.ChoiceLastSeparator)
	t.ChoiceFormat = inheritString(t.ChoiceFormat, parent.ChoiceFormat)

	t.AllowDefault = inheritBool(t.AllowDefault, parent.AllowDefault)
	t.ChoiceParens = inheritBool(t.ChoiceParens, parent.ChoiceParens)
}

// inheritString copies the parent's value when the child is unset. The value
// is copied, not aliased, so the resolved record never shares memory with
// its parent.
func inheritString(child, parent *string) *string {
	if child != nil || parent == nil {
		return child
	}
	v := *parent
	return &v
}

func inheritBool(child, parent *bool) *bool {
	if child != nil || parent == nil {
		return child
	}
	v := *parent
	return &v
}

// Resolved reports whether the record holds no sentinels: the termination
// condition of the default cascade. The global built-in record must always
// satisfy this.
func (t *TemplateConfig) Resolved() bool {
	return len(t.Unresolved()) == 0
}

// Unresolved names the options still at their sentinel, for validation
// messages and the workbench record dump.
func (t *TemplateConfig) Unresolved() []string {
	var unset []string
	if len(t.Patterns) == 0 {
		unset = append(unset, "patterns")
	}
	if t.ChoiceStyle == ChoiceDefault {
		unset = append(unset, "choice_style")
	}
	if t.ChoiceCase == CaseDefault {
		unset = append(unset, "choice_case")
	}
	if t.FieldCase == CaseDefault {
		unset = append(unset, "field_case")
	}
	if t.ValueCase == CaseDefault {
		unset = append(unset, "value_case")
	}
	if t.Feedback == FeedbackDefault {
		unset = append(unset, "feedback")
	}
	if t.Separator == nil {
		unset = append(unset, "separator")
	}
	if t.LastSeparator == nil {
		unset = append(unset, "last_separator")
	}
	if t.ChoiceSeparator == nil {
		unset = append(unset, "choice_separator")
	}
	if t.ChoiceLastSeparator == nil {
		unset = append(unset, "choice_last_separator")
	}
	if t.ChoiceFormat == nil {
		unset = append(unset, "choice_format")
	}
	if t.AllowDefault == nil {
		unset = append(unset, "allow_default")
	}
	if t.ChoiceParens == nil {
		unset = append(unset, "choice_parens")
	}
	return unset
}

// AllowNumbers reports whether typed numbers can select a choice: the
// resolved choice format prints the index and at least one pattern renders a
// choice list. Derived on demand, never stored.
func (t *TemplateConfig) AllowNumbers() bool {
	if t.ChoiceFormat == nil || !strings.Contains(*t.ChoiceFormat, ChoiceFormatIndex) {
		return false
	}
	for _, p := range t.Patterns {
		if strings.Contains(p, PlaceholderChoices) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the record. Useful when a caller needs a
// private record to resolve without touching the declaration it came from.
func (t *TemplateConfig) Clone() *TemplateConfig {
	if t == nil {
		return nil
	}
	out := &TemplateConfig{
		ChoiceStyle: t.ChoiceStyle,
		ChoiceCase:  t.ChoiceCase,
		FieldCase:   t.FieldCase,
		ValueCase:   t.ValueCase,
		Feedback:    t.Feedback,
	}
	if len(t.Patterns) > 0 {
		out.Patterns = append([]string(nil), t.Patterns...)
	}
	out.Separator = inheritString(nil, t.Separator)
	out.LastSeparator = inheritString(nil, t.LastSeparator)
	out.ChoiceSeparator = inheritString(nil, t.ChoiceSeparator)
	out.ChoiceLastSeparator = inheritString(nil, t.ChoiceLastSeparator)
	out.ChoiceFormat = inheritString(nil, t.ChoiceFormat)
	out.AllowDefault = inheritBool(nil, t.AllowDefault)
	out.ChoiceParens = inheritBool(nil, t.ChoiceParens)
	return out
}
