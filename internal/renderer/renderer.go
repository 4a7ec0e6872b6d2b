package renderer

import (
	"fmt"
	"strings"

	"github.com/dpshade/formloom/internal/models"
)

// Renderer turns a resolved template record into the prompt text presented
// to the user. It owns pattern selection; choice rendering and placeholder
// substitution are pure functions layered on top.
type Renderer struct {
	selector *Selector
}

// NewRenderer creates a renderer. A nil selector means the shared
// process-wide random source.
func NewRenderer(selector *Selector) *Renderer {
	if selector == nil {
		selector = NewSelector(nil)
	}
	return &Renderer{selector: selector}
}

// Prompt is one rendered prompt. Text is ready to present; Choices carries
// the normalized labels when the resolved style defers drawing to the
// presentation layer (auto, buttons, carousel) instead of baking them into
// the text.
type Prompt struct {
	Text    string
	Choices []string
}

// RenderPrompt picks one of the record's patterns and substitutes its
// placeholders: {&} with the field description, {} with the joined values,
// {||} with the rendered choice list. The record must already be resolved
// via the default cascade.
func (r *Renderer) RenderPrompt(field *models.Field, cfg *models.TemplateConfig, values []string) (Prompt, error) {
	pattern, err := r.selector.Select(cfg.Patterns)
	if err != nil {
		return Prompt{}, fmt.Errorf("field %q: %w", field.Name, err)
	}

	choices, err := RenderChoices(field.ChoiceLabels(), cfg)
	if err != nil {
		return Prompt{}, fmt.Errorf("field %q: %w", field.Name, err)
	}

	text := pattern
	if strings.Contains(text, models.PlaceholderField) {
		desc := NormalizeCase(field.PromptDescription(), cfg.FieldCase)
		text = strings.ReplaceAll(text, models.PlaceholderField, desc)
	}

	if strings.Contains(text, models.PlaceholderValue) {
		text = strings.ReplaceAll(text, models.PlaceholderValue, r.joinValues(values, cfg))
	}

	if choices.Text != "" {
		text = strings.ReplaceAll(text, models.PlaceholderChoices, choices.Text)
	} else {
		text = stripChoiceMarker(text)
	}

	prompt := Prompt{Text: text}
	if choices.Text == "" && len(choices.Labels) > 0 {
		prompt.Choices = choices.Labels
	}
	return prompt, nil
}

// joinValues normalizes and joins the current values for the {} placeholder.
func (r *Renderer) joinValues(values []string, cfg *models.TemplateConfig) string {
	normalized := make([]string, 0, len(values))
	for _, v := range values {
		normalized = append(normalized, NormalizeCase(v, cfg.ValueCase))
	}
	return joinList(normalized, stringOpt(cfg.Separator, ", "), stringOpt(cfg.LastSeparator, ", "))
}

// stripChoiceMarker removes a choice placeholder that has nothing to render,
// eating the space before it so "enter {&} {||}" degrades cleanly.
func stripChoiceMarker(s string) string {
	s = strings.ReplaceAll(s, " "+models.PlaceholderChoices, "")
	s = strings.ReplaceAll(s, models.PlaceholderChoices, "")
	return strings.TrimSpace(s)
}
