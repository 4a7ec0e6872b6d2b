package config

import (
	"os"
	"testing"

	"github.com/dpshade/formloom/internal/models"
)

func setupManager(t *testing.T) *Manager {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "formloom-config-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	m, err := NewManager(tmpDir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestBuiltinDefaultsFullyResolved(t *testing.T) {
	defaults := BuiltinDefaults()
	if !defaults.Resolved() {
		t.Fatalf("Built-in defaults must terminate the cascade, still unset: %v", defaults.Unresolved())
	}
	if defaults.ChoiceStyle != models.ChoiceAuto {
		t.Errorf("Unexpected built-in choice style: %s", defaults.ChoiceStyle)
	}
	if *defaults.ChoiceLastSeparator != ", or " {
		t.Errorf("Unexpected built-in choice last separator: %q", *defaults.ChoiceLastSeparator)
	}
}

func TestGlobalPromptWithoutUserConfig(t *testing.T) {
	m := setupManager(t)

	global := m.GlobalPrompt()
	if !global.Resolved() {
		t.Fatalf("Expected a resolved global record, still unset: %v", global.Unresolved())
	}
	if len(global.Patterns) != 1 || global.Patterns[0] != "Please enter {&} {||}" {
		t.Errorf("Expected the built-in pattern, got %v", global.Patterns)
	}
}

func TestGlobalPromptOverlaysUserConfig(t *testing.T) {
	m := setupManager(t)
	m.Config().Prompt = &models.TemplateConfig{
		Patterns:    []string{"What {&}? {||}"},
		ChoiceStyle: models.ChoicePerLine,
	}

	global := m.GlobalPrompt()
	if global.ChoiceStyle != models.ChoicePerLine {
		t.Errorf("Expected the user's style to win, got %s", global.ChoiceStyle)
	}
	if global.Patterns[0] != "What {&}? {||}" {
		t.Errorf("Expected the user's pattern to win, got %v", global.Patterns)
	}
	if !global.Resolved() {
		t.Errorf("Expected built-ins to fill the rest, still unset: %v", global.Unresolved())
	}

	// The resolved record must not alias the stored configuration.
	*global.Separator = "CHANGED"
	if m.Config().Prompt.Separator != nil {
		t.Error("Expected the stored config to stay untouched by resolution")
	}
}

func TestConfigPersistence(t *testing.T) {
	m := setupManager(t)
	m.Config().Locale = "de"
	m.Config().Prompt = &models.TemplateConfig{ChoiceStyle: models.ChoiceInline}

	if err := m.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := NewManager(m.baseDir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if reloaded.Locale() != "de" {
		t.Errorf("Expected persisted locale, got %q", reloaded.Locale())
	}
	if reloaded.Config().Prompt == nil || reloaded.Config().Prompt.ChoiceStyle != models.ChoiceInline {
		t.Error("Expected persisted prompt defaults")
	}
}

func TestLocaleFallback(t *testing.T) {
	m := setupManager(t)
	if m.Locale() != DefaultLocale {
		t.Errorf("Expected the default locale, got %q", m.Locale())
	}
}
