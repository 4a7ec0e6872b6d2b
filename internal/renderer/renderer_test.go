package renderer

import (
	"testing"

	"github.com/dpshade/formloom/internal/models"
)

func colorField() *models.Field {
	return &models.Field{
		Name:        "color",
		Description: "Your Favorite Color",
		Type:        "choice",
		Choices: []models.Choice{
			{Value: "red", Label: "Red"},
			{Value: "green", Label: "Green"},
			{Value: "blue", Label: "Blue"},
		},
	}
}

func TestRenderPromptInlineChoices(t *testing.T) {
	r := NewRenderer(nil)

	prompt, err := r.RenderPrompt(colorField(), inlineConfig(), nil)
	if err != nil {
		t.Fatalf("RenderPrompt failed: %v", err)
	}
	if prompt.Text != "Please enter your favorite color (Red, Green or Blue)" {
		t.Errorf("Unexpected prompt text: %q", prompt.Text)
	}
	if len(prompt.Choices) != 0 {
		t.Errorf("Expected no separate choices for inline style, got %v", prompt.Choices)
	}
}

func TestRenderPromptStripsEmptyChoiceMarker(t *testing.T) {
	r := NewRenderer(nil)
	field := &models.Field{Name: "name", Description: "Your Name"}

	prompt, err := r.RenderPrompt(field, inlineConfig(), nil)
	if err != nil {
		t.Fatalf("RenderPrompt failed: %v", err)
	}
	if prompt.Text != "Please enter your name" {
		t.Errorf("Expected the choice marker to be stripped, got %q", prompt.Text)
	}
}

func TestRenderPromptWidgetChoices(t *testing.T) {
	cfg := inlineConfig()
	cfg.ChoiceStyle = models.ChoiceButtons
	r := NewRenderer(nil)

	prompt, err := r.RenderPrompt(colorField(), cfg, nil)
	if err != nil {
		t.Fatalf("RenderPrompt failed: %v", err)
	}
	if prompt.Text != "Please enter your favorite color" {
		t.Errorf("Unexpected prompt text: %q", prompt.Text)
	}
	if len(prompt.Choices) != 3 || prompt.Choices[0] != "Red" {
		t.Errorf("Expected the labels alongside the text, got %v", prompt.Choices)
	}
}

func TestRenderPromptFieldNameFallback(t *testing.T) {
	r := NewRenderer(nil)
	field := &models.Field{Name: "destination"}

	prompt, err := r.RenderPrompt(field, inlineConfig(), nil)
	if err != nil {
		t.Fatalf("RenderPrompt failed: %v", err)
	}
	if prompt.Text != "Please enter destination" {
		t.Errorf("Expected the field name as fallback description, got %q", prompt.Text)
	}
}

func TestRenderPromptValues(t *testing.T) {
	cfg := inlineConfig()
	cfg.Patterns = []string{"You chose {}."}
	r := NewRenderer(nil)

	prompt, err := r.RenderPrompt(colorField(), cfg, []string{"red", "blue"})
	if err != nil {
		t.Fatalf("RenderPrompt failed: %v", err)
	}
	if prompt.Text != "You chose Red and Blue." {
		t.Errorf("Expected normalized joined values, got %q", prompt.Text)
	}
}

func TestRenderPromptEmptyPatterns(t *testing.T) {
	cfg := inlineConfig()
	cfg.Patterns = nil
	r := NewRenderer(nil)

	if _, err := r.RenderPrompt(colorField(), cfg, nil); err == nil {
		t.Error("Expected error for a record without patterns")
	}
}

func TestRenderPromptPicksAmongPatterns(t *testing.T) {
	cfg := inlineConfig()
	cfg.Patterns = []string{"first {&}", "second {&}"}
	r := NewRenderer(NewSelector(&fixedSource{index: 1}))

	prompt, err := r.RenderPrompt(colorField(), cfg, nil)
	if err != nil {
		t.Fatalf("RenderPrompt failed: %v", err)
	}
	if prompt.Text != "second your favorite color" {
		t.Errorf("Expected the pattern at the drawn index, got %q", prompt.Text)
	}
}
