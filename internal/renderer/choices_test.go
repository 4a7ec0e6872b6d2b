package renderer

import (
	"testing"

	"github.com/dpshade/formloom/internal/models"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// inlineConfig returns a resolved record rendering inline choice lists.
func inlineConfig() *models.TemplateConfig {
	return &models.TemplateConfig{
		Patterns:            []string{"Please enter {&} {||}"},
		ChoiceStyle:         models.ChoiceInline,
		ChoiceCase:          models.CaseNone,
		FieldCase:           models.CaseLower,
		ValueCase:           models.CaseInitialUpper,
		Feedback:            models.FeedbackAuto,
		Separator:           strPtr(", "),
		LastSeparator:       strPtr(" and "),
		ChoiceSeparator:     strPtr(", "),
		ChoiceLastSeparator: strPtr(" or "),
		ChoiceFormat:        strPtr(models.DefaultChoiceFormat),
		AllowDefault:        boolPtr(true),
		ChoiceParens:        boolPtr(true),
	}
}

func TestRenderChoicesInline(t *testing.T) {
	out, err := RenderChoices([]string{"Red", "Green", "Blue"}, inlineConfig())
	if err != nil {
		t.Fatalf("RenderChoices failed: %v", err)
	}
	if out.Text != "(Red, Green or Blue)" {
		t.Errorf("Expected \"(Red, Green or Blue)\", got %q", out.Text)
	}
}

func TestRenderChoicesInlineNoParen(t *testing.T) {
	cfg := inlineConfig()
	cfg.ChoiceStyle = models.ChoiceInlineNoParen

	out, err := RenderChoices([]string{"Red", "Green", "Blue"}, cfg)
	if err != nil {
		t.Fatalf("RenderChoices failed: %v", err)
	}
	if out.Text != "Red, Green or Blue" {
		t.Errorf("Expected \"Red, Green or Blue\", got %q", out.Text)
	}
}

func TestRenderChoicesInlineWithoutParens(t *testing.T) {
	cfg := inlineConfig()
	cfg.ChoiceParens = boolPtr(false)

	out, err := RenderChoices([]string{"Red", "Blue"}, cfg)
	if err != nil {
		t.Fatalf("RenderChoices failed: %v", err)
	}
	if out.Text != "Red or Blue" {
		t.Errorf("Expected unparenthesized list, got %q", out.Text)
	}
}

func TestRenderChoicesSerialComma(t *testing.T) {
	cfg := inlineConfig()
	cfg.ChoiceLastSeparator = strPtr(", or ")

	out, err := RenderChoices([]string{"Red", "Green", "Blue"}, cfg)
	if err != nil {
		t.Fatalf("RenderChoices failed: %v", err)
	}
	if out.Text != "(Red, Green, or Blue)" {
		t.Errorf("Expected \"(Red, Green, or Blue)\", got %q", out.Text)
	}
}

func TestRenderChoicesSingleLabel(t *testing.T) {
	out, err := RenderChoices([]string{"Red"}, inlineConfig())
	if err != nil {
		t.Fatalf("RenderChoices failed: %v", err)
	}
	if out.Text != "(Red)" {
		t.Errorf("Expected \"(Red)\", got %q", out.Text)
	}
}

func TestRenderChoicesPerLine(t *testing.T) {
	cfg := inlineConfig()
	cfg.ChoiceStyle = models.ChoicePerLine

	out, err := RenderChoices([]string{"Red", "Green"}, cfg)
	if err != nil {
		t.Fatalf("RenderChoices failed: %v", err)
	}
	if out.Text != "1. Red\n2. Green" {
		t.Errorf("Expected numbered lines, got %q", out.Text)
	}
}

func TestRenderChoicesPerLineCustomFormat(t *testing.T) {
	cfg := inlineConfig()
	cfg.ChoiceStyle = models.ChoicePerLine
	cfg.ChoiceFormat = strPtr("[{0}] {1}")

	out, err := RenderChoices([]string{"Red"}, cfg)
	if err != nil {
		t.Fatalf("RenderChoices failed: %v", err)
	}
	if out.Text != "[1] Red" {
		t.Errorf("Expected custom format, got %q", out.Text)
	}
}

func TestRenderChoicesAutoTextThreshold(t *testing.T) {
	cfg := inlineConfig()
	cfg.ChoiceStyle = models.ChoiceAutoText

	short, err := RenderChoices([]string{"Red", "Green", "Blue"}, cfg)
	if err != nil {
		t.Fatalf("RenderChoices failed: %v", err)
	}
	if short.Text != "(Red, Green or Blue)" {
		t.Errorf("Expected inline rendering below the threshold, got %q", short.Text)
	}

	long, err := RenderChoices([]string{"Red", "Green", "Blue", "Cyan"}, cfg)
	if err != nil {
		t.Fatalf("RenderChoices failed: %v", err)
	}
	if long.Text != "1. Red\n2. Green\n3. Blue\n4. Cyan" {
		t.Errorf("Expected per-line rendering at the threshold, got %q", long.Text)
	}
}

func TestRenderChoicesWidgetStyles(t *testing.T) {
	for _, style := range []models.ChoiceStyle{models.ChoiceAuto, models.ChoiceButtons, models.ChoiceCarousel} {
		cfg := inlineConfig()
		cfg.ChoiceStyle = style

		out, err := RenderChoices([]string{"Red", "Green"}, cfg)
		if err != nil {
			t.Fatalf("RenderChoices failed for %s: %v", style, err)
		}
		if out.Text != "" {
			t.Errorf("Expected no text for %s style, got %q", style, out.Text)
		}
		if len(out.Labels) != 2 {
			t.Errorf("Expected labels for %s style, got %v", style, out.Labels)
		}
	}
}

func TestRenderChoicesCaseNormalization(t *testing.T) {
	cfg := inlineConfig()
	cfg.ChoiceStyle = models.ChoiceInlineNoParen
	cfg.ChoiceCase = models.CaseUpper

	out, err := RenderChoices([]string{"red"}, cfg)
	if err != nil {
		t.Fatalf("RenderChoices failed: %v", err)
	}
	if out.Text != "RED" {
		t.Errorf("Expected \"RED\", got %q", out.Text)
	}
}

func TestRenderChoicesEmpty(t *testing.T) {
	out, err := RenderChoices(nil, inlineConfig())
	if err != nil {
		t.Fatalf("RenderChoices failed: %v", err)
	}
	if out.Text != "" || len(out.Labels) != 0 {
		t.Errorf("Expected empty rendering, got %+v", out)
	}
}

func TestRenderChoicesUnresolvedStyle(t *testing.T) {
	cfg := inlineConfig()
	cfg.ChoiceStyle = models.ChoiceDefault

	if _, err := RenderChoices([]string{"Red"}, cfg); err == nil {
		t.Error("Expected error for unresolved choice style")
	}
}

func TestNormalizeCase(t *testing.T) {
	tests := []struct {
		input    string
		norm     models.CaseNormalization
		expected string
	}{
		{"Red Wine", models.CaseNone, "Red Wine"},
		{"Red Wine", models.CaseLower, "red wine"},
		{"red wine", models.CaseUpper, "RED WINE"},
		{"red wine", models.CaseInitialUpper, "Red Wine"},
	}

	for _, tt := range tests {
		if got := NormalizeCase(tt.input, tt.norm); got != tt.expected {
			t.Errorf("NormalizeCase(%q, %s) = %q, expected %q", tt.input, tt.norm, got, tt.expected)
		}
	}
}

func TestJoinList(t *testing.T) {
	tests := []struct {
		items    []string
		expected string
	}{
		{nil, ""},
		{[]string{"a"}, "a"},
		{[]string{"a", "b"}, "a and b"},
		{[]string{"a", "b", "c"}, "a, b and c"},
	}

	for _, tt := range tests {
		if got := joinList(tt.items, ", ", " and "); got != tt.expected {
			t.Errorf("joinList(%v) = %q, expected %q", tt.items, got, tt.expected)
		}
	}
}
