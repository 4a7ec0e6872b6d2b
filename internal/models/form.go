package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// FormSpec is a form definition stored as a markdown file with YAML
// frontmatter. The frontmatter carries the machine-readable definition
// (fields, prompt records, terms, constraints); the markdown body holds
// free-form authoring notes rendered in the workbench.
type FormSpec struct {
	// Frontmatter fields
	ID        string                 `yaml:"id"`
	Version   string                 `yaml:"version"`
	Name      string                 `yaml:"title"`
	Summary   string                 `yaml:"description"`
	Tags      []string               `yaml:"tags"`
	Locale    string                 `yaml:"locale,omitempty"`
	Prompt    *TemplateConfig        `yaml:"prompt,omitempty"` // form-scope defaults for every field
	Fields    []Field                `yaml:"fields"`
	Metadata  map[string]interface{} `yaml:"metadata,omitempty"`
	CreatedAt time.Time              `yaml:"created_at"`
	UpdatedAt time.Time              `yaml:"updated_at"`

	// Content fields
	Content  string `yaml:"-"` // authoring notes after the frontmatter
	FilePath string `yaml:"-"` // path to the file relative to the library root
}

// Field is one slot of a form: what to call it, how to prompt for it, which
// terms recognize it, and what values it accepts.
type Field struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description,omitempty"`
	Type        string          `yaml:"type,omitempty"` // string, number, bool, choice
	Optional    bool            `yaml:"optional,omitempty"`
	Prompt      *TemplateConfig `yaml:"prompt,omitempty"`
	Terms       *TermSet        `yaml:"terms,omitempty"`
	Choices     []Choice        `yaml:"choices,omitempty"`
	Range       *NumericRange   `yaml:"range,omitempty"`
	Pattern     string          `yaml:"pattern,omitempty"` // validation regexp for free-text answers

	pattern *regexp.Regexp
}

// Choice is one selectable value of a choice field.
type Choice struct {
	Value string   `yaml:"value"`
	Label string   `yaml:"label,omitempty"`
	Terms *TermSet `yaml:"terms,omitempty"`
}

// Clone returns a deep copy of the form. Resolution and localization work on
// clones so the authored definition is never rewritten in place.
func (f *FormSpec) Clone() *FormSpec {
	if f == nil {
		return nil
	}
	out := *f
	out.Prompt = f.Prompt.Clone()
	if len(f.Tags) > 0 {
		out.Tags = append([]string(nil), f.Tags...)
	}
	if len(f.Fields) > 0 {
		out.Fields = make([]Field, len(f.Fields))
		for i := range f.Fields {
			out.Fields[i] = f.Fields[i].clone()
		}
	}
	if len(f.Metadata) > 0 {
		out.Metadata = make(map[string]interface{}, len(f.Metadata))
		for k, v := range f.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}

func (f Field) clone() Field {
	out := f
	out.Prompt = f.Prompt.Clone()
	out.Terms = f.Terms.Clone()
	if f.Range != nil {
		r := *f.Range
		out.Range = &r
	}
	if len(f.Choices) > 0 {
		out.Choices = make([]Choice, len(f.Choices))
		for i, c := range f.Choices {
			c.Terms = c.Terms.Clone()
			out.Choices[i] = c
		}
	}
	return out
}

// Field returns the named field, or nil when the form has no such field.
// Lookup is case-insensitive so CLI arguments match authored names.
func (f *FormSpec) Field(name string) *Field {
	for i := range f.Fields {
		if strings.EqualFold(f.Fields[i].Name, name) {
			return &f.Fields[i]
		}
	}
	return nil
}

// FieldNames returns the field names in declaration order.
func (f *FormSpec) FieldNames() []string {
	names := make([]string, 0, len(f.Fields))
	for i := range f.Fields {
		names = append(names, f.Fields[i].Name)
	}
	return names
}

// CompilePattern compiles the field's validation pattern. Called once when
// the form is resolved; a malformed pattern is a configuration error, not a
// runtime condition.
func (f *Field) CompilePattern() error {
	if f.Pattern == "" {
		f.pattern = nil
		return nil
	}
	re, err := regexp.Compile(f.Pattern)
	if err != nil {
		return fmt.Errorf("field %q: invalid pattern %q: %w", f.Name, f.Pattern, err)
	}
	f.pattern = re
	return nil
}

// MatchesPattern reports whether input satisfies the compiled validation
// pattern. Fields without a pattern accept everything.
func (f *Field) MatchesPattern(input string) bool {
	if f.pattern == nil {
		return true
	}
	return f.pattern.MatchString(input)
}

// PromptDescription returns the text substituted for the {&} placeholder,
// falling back to the field name when no description was authored.
func (f *Field) PromptDescription() string {
	if f.Description != "" {
		return f.Description
	}
	return f.Name
}

// ChoiceLabels returns the display labels of the field's choices in
// declaration order.
func (f *Field) ChoiceLabels() []string {
	labels := make([]string, 0, len(f.Choices))
	for _, c := range f.Choices {
		labels = append(labels, c.DisplayLabel())
	}
	return labels
}

// DisplayLabel returns the label shown to the user, falling back to the raw
// value.
func (c Choice) DisplayLabel() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Value
}

// Implement list.Item interface for bubbles list component

// FilterValue returns the value used for filtering in lists
func (f FormSpec) FilterValue() string {
	return cleanString(f.Name)
}

// Title satisfies the list.Item interface
func (f FormSpec) Title() string {
	if f.Name != "" {
		return cleanString(f.Name)
	}
	return cleanString(f.ID)
}

// Description satisfies the list.Item interface
func (f FormSpec) Description() string {
	var parts []string

	// Add summary if available (truncate long summaries)
	if f.Summary != "" {
		summary := cleanString(f.Summary)
		maxSummaryLength := 60
		if len(summary) > maxSummaryLength {
			summary = summary[:maxSummaryLength-3] + "..."
		}
		if summary != "" {
			parts = append(parts, summary)
		}
	}

	// Add field count
	if len(f.Fields) > 0 {
		noun := "fields"
		if len(f.Fields) == 1 {
			noun = "field"
		}
		parts = append(parts, fmt.Sprintf("%d %s", len(f.Fields), noun))
	}

	// Add last edited info
	if !f.UpdatedAt.IsZero() {
		parts = append(parts, "Last edited: "+f.UpdatedAt.Format("2006-01-02 15:04"))
	}

	// Add tags if available
	if len(f.Tags) > 0 {
		tagsStr := joinTags(f.Tags)
		if tagsStr != "" {
			parts = append(parts, "Tags: "+tagsStr)
		}
	}

	result := strings.Join(parts, " • ")

	// Final truncation to ensure it doesn't exceed terminal width
	maxTotalLength := 100
	if len(result) > maxTotalLength {
		result = result[:maxTotalLength-3] + "..."
	}

	return cleanString(result)
}

// cleanString removes problematic characters that might cause rendering issues
func cleanString(s string) string {
	if s == "" {
		return ""
	}

	// Remove any control characters, newlines, tabs that could break rendering
	cleaned := ""
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			cleaned += " "
		} else if r >= 32 && r != 127 { // Keep printable ASCII + unicode
			cleaned += string(r)
		}
	}

	// Collapse multiple spaces
	for cleaned != strings.ReplaceAll(cleaned, "  ", " ") {
		cleaned = strings.ReplaceAll(cleaned, "  ", " ")
	}

	return strings.TrimSpace(cleaned)
}

func joinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
