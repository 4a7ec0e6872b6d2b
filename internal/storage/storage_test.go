package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dpshade/formloom/internal/models"
)

func setupStorage(t *testing.T) *Storage {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "formloom-storage-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	store, err := NewStorage(tmpDir)
	if err != nil {
		t.Fatalf("NewStorage failed: %v", err)
	}
	if err := store.InitLibrary(); err != nil {
		t.Fatalf("InitLibrary failed: %v", err)
	}
	return store
}

func sampleForm(id string) *models.FormSpec {
	sep := ", "
	return &models.FormSpec{
		ID:      id,
		Version: "1.0.0",
		Name:    "Pizza Order",
		Summary: "Collects a pizza order",
		Tags:    []string{"food"},
		Prompt: &models.TemplateConfig{
			Patterns:  []string{"Please enter {&} {||}"},
			Separator: &sep,
		},
		Fields: []models.Field{
			{
				Name:        "size",
				Description: "the size of your pizza",
				Type:        "choice",
				Prompt:      &models.TemplateConfig{ChoiceStyle: models.ChoiceInline},
				Terms:       &models.TermSet{Alternatives: []string{"size"}, MaxPhrase: 2},
				Choices: []models.Choice{
					{Value: "small", Label: "Small"},
					{Value: "large", Label: "Large", Terms: &models.TermSet{Alternatives: []string{"big one"}}},
				},
			},
			{Name: "notes", Type: "string"},
		},
		Content:   "Internal notes about this form.",
		FilePath:  filepath.Join("forms", id+".md"),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func TestInitLibraryCreatesDirectories(t *testing.T) {
	store := setupStorage(t)

	for _, dir := range []string{"forms", "archive", "locales", ".formloom/cache"} {
		path := filepath.Join(store.GetBaseDir(), dir)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Expected directory %s to exist: %v", dir, err)
		}
	}
}

func TestSaveAndLoadForm(t *testing.T) {
	store := setupStorage(t)
	form := sampleForm("pizza-order")

	if err := store.SaveForm(form); err != nil {
		t.Fatalf("SaveForm failed: %v", err)
	}

	loaded, err := store.LoadForm(form.FilePath)
	if err != nil {
		t.Fatalf("LoadForm failed: %v", err)
	}

	if loaded.ID != "pizza-order" || loaded.Name != "Pizza Order" {
		t.Errorf("Unexpected identity after round trip: %s / %s", loaded.ID, loaded.Name)
	}
	if len(loaded.Fields) != 2 {
		t.Fatalf("Expected 2 fields, got %d", len(loaded.Fields))
	}

	size := loaded.Field("size")
	if size == nil {
		t.Fatal("Expected the size field to survive the round trip")
	}
	if size.Prompt == nil || size.Prompt.ChoiceStyle != models.ChoiceInline {
		t.Error("Expected the field prompt record to survive the round trip")
	}
	if size.Terms == nil || size.Terms.MaxPhrase != 2 || len(size.Terms.Alternatives) != 1 {
		t.Error("Expected the term declaration to survive the round trip")
	}
	if len(size.Choices) != 2 || size.Choices[1].Label != "Large" {
		t.Errorf("Expected choices to survive the round trip, got %v", size.Choices)
	}

	if loaded.Prompt == nil || loaded.Prompt.Separator == nil || *loaded.Prompt.Separator != ", " {
		t.Error("Expected the form prompt record to survive the round trip")
	}
	if loaded.Content != "Internal notes about this form." {
		t.Errorf("Expected notes to survive the round trip, got %q", loaded.Content)
	}
}

func TestLoadFormMissingFrontmatter(t *testing.T) {
	store := setupStorage(t)
	path := filepath.Join(store.GetBaseDir(), "forms", "broken.md")
	if err := os.WriteFile(path, []byte("no frontmatter here"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := store.LoadForm(filepath.Join("forms", "broken.md")); err == nil {
		t.Error("Expected error for a file without frontmatter")
	}
}

func TestListForms(t *testing.T) {
	store := setupStorage(t)

	for _, id := range []string{"alpha", "beta"} {
		form := sampleForm(id)
		if err := store.SaveForm(form); err != nil {
			t.Fatalf("SaveForm failed: %v", err)
		}
	}

	forms, err := store.ListForms()
	if err != nil {
		t.Fatalf("ListForms failed: %v", err)
	}
	if len(forms) != 2 {
		t.Fatalf("Expected 2 forms, got %d", len(forms))
	}

	// A second listing is served from the metadata cache and must agree.
	again, err := store.ListForms()
	if err != nil {
		t.Fatalf("ListForms failed on cached pass: %v", err)
	}
	if len(again) != 2 {
		t.Fatalf("Expected 2 cached forms, got %d", len(again))
	}
	for _, form := range again {
		if len(form.Fields) != 2 {
			t.Errorf("Expected cached metadata to keep the field names, got %v", form.FieldNames())
		}
	}

	cacheFile := filepath.Join(store.GetBaseDir(), ".formloom", "cache", "metadata.json")
	if _, err := os.Stat(cacheFile); err != nil {
		t.Errorf("Expected metadata cache file to exist: %v", err)
	}
}

func TestArchiveForm(t *testing.T) {
	store := setupStorage(t)
	form := sampleForm("old-form")
	if err := store.SaveForm(form); err != nil {
		t.Fatalf("SaveForm failed: %v", err)
	}

	if err := store.ArchiveForm(form); err != nil {
		t.Fatalf("ArchiveForm failed: %v", err)
	}
	if !strings.HasPrefix(form.FilePath, "archive") {
		t.Errorf("Expected the file path to move into the archive, got %s", form.FilePath)
	}

	active, err := store.ListForms()
	if err != nil {
		t.Fatalf("ListForms failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("Expected no active forms after archiving, got %d", len(active))
	}

	archived, err := store.ListArchivedForms()
	if err != nil {
		t.Fatalf("ListArchivedForms failed: %v", err)
	}
	if len(archived) != 1 || archived[0].ID != "old-form" {
		t.Errorf("Expected the archived form to be listed, got %v", archived)
	}
}

func TestStringTableRoundTrip(t *testing.T) {
	store := setupStorage(t)
	table := &StringTable{
		Form:   "pizza-order",
		Locale: "de",
		Strings: map[string]string{
			"title": "Pizzabestellung",
		},
	}

	if err := store.SaveStringTable(table); err != nil {
		t.Fatalf("SaveStringTable failed: %v", err)
	}

	loaded, err := store.LoadStringTable("de", "pizza-order")
	if err != nil {
		t.Fatalf("LoadStringTable failed: %v", err)
	}
	if loaded.Strings["title"] != "Pizzabestellung" {
		t.Errorf("Unexpected table after round trip: %v", loaded.Strings)
	}

	locales, err := store.ListLocales()
	if err != nil {
		t.Fatalf("ListLocales failed: %v", err)
	}
	if len(locales) != 1 || locales[0] != "de" {
		t.Errorf("Expected [de], got %v", locales)
	}

	ids, err := store.ListLocaleTables("de")
	if err != nil {
		t.Fatalf("ListLocaleTables failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != "pizza-order" {
		t.Errorf("Expected [pizza-order], got %v", ids)
	}
}

func TestSaveStringTableRequiresIdentity(t *testing.T) {
	store := setupStorage(t)
	if err := store.SaveStringTable(&StringTable{Form: "x"}); err == nil {
		t.Error("Expected error for a table without a locale")
	}
}

func TestBuildStringTable(t *testing.T) {
	form := sampleForm("pizza-order")
	table := BuildStringTable(form, "de")

	expected := []string{
		"title",
		"description",
		"prompt.patterns.0",
		"fields.size.description",
		"fields.size.terms.0",
		"fields.size.choices.small.label",
		"fields.size.choices.large.label",
		"fields.size.choices.large.terms.0",
	}
	for _, key := range expected {
		if _, ok := table.Strings[key]; !ok {
			t.Errorf("Expected key %q in the built table, got %v", key, table.Strings)
		}
	}
	if _, ok := table.Strings["fields.notes.description"]; ok {
		t.Error("Expected empty strings to be skipped")
	}
}

func TestApplyStringTable(t *testing.T) {
	form := sampleForm("pizza-order")
	table := &StringTable{
		Form:   "pizza-order",
		Locale: "de",
		Strings: map[string]string{
			"title":                             "Pizzabestellung",
			"prompt.patterns.0":                 "Bitte {&} eingeben {||}",
			"fields.size.description":           "die Größe deiner Pizza",
			"fields.size.choices.small.label":   "Klein",
			"fields.size.choices.large.terms.0": "der große",
		},
	}

	ApplyStringTable(form, table)

	if form.Name != "Pizzabestellung" {
		t.Errorf("Expected translated title, got %q", form.Name)
	}
	if form.Prompt.Patterns[0] != "Bitte {&} eingeben {||}" {
		t.Errorf("Expected translated pattern, got %q", form.Prompt.Patterns[0])
	}
	if form.Fields[0].Description != "die Größe deiner Pizza" {
		t.Errorf("Expected translated description, got %q", form.Fields[0].Description)
	}
	if form.Fields[0].Choices[0].Label != "Klein" {
		t.Errorf("Expected translated label, got %q", form.Fields[0].Choices[0].Label)
	}
	// Untranslated strings keep the authored text.
	if form.Fields[0].Choices[1].Label != "Large" {
		t.Errorf("Expected untranslated label to survive, got %q", form.Fields[0].Choices[1].Label)
	}
	if form.Fields[0].Choices[1].Terms.Alternatives[0] != "der große" {
		t.Errorf("Expected translated choice term, got %q", form.Fields[0].Choices[1].Terms.Alternatives[0])
	}
	if form.Locale != "de" {
		t.Errorf("Expected the form locale to be set, got %q", form.Locale)
	}
}

func TestMissingStrings(t *testing.T) {
	form := sampleForm("pizza-order")
	table := &StringTable{
		Form:    "pizza-order",
		Locale:  "de",
		Strings: map[string]string{"title": "Pizzabestellung"},
	}

	missing := MissingStrings(form, table)
	if len(missing) == 0 {
		t.Fatal("Expected missing keys for a partial table")
	}
	for _, key := range missing {
		if key == "title" {
			t.Error("Expected translated keys to be omitted")
		}
	}
	// Sorted output for stable reporting.
	for i := 1; i < len(missing); i++ {
		if missing[i-1] > missing[i] {
			t.Errorf("Expected sorted keys, got %v", missing)
			break
		}
	}

	if got := MissingStrings(form, nil); len(got) != len(BuildStringTable(form, "").Strings) {
		t.Error("Expected every key to be missing without a table")
	}
}
