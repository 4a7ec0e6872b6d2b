package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dpshade/formloom/internal/importer"
	"github.com/dpshade/formloom/internal/models"
)

// newTestService points a fresh service at a temporary library.
func newTestService(t *testing.T) *Service {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "formloom-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	originalDir := os.Getenv("FORMLOOM_DIR")
	os.Setenv("FORMLOOM_DIR", tmpDir)
	t.Cleanup(func() { os.Setenv("FORMLOOM_DIR", originalDir) })

	svc, err := NewService()
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	if err := svc.InitLibrary(); err != nil {
		t.Fatalf("Failed to init library: %v", err)
	}
	return svc
}

func testForm(id string) *models.FormSpec {
	return &models.FormSpec{
		ID:      id,
		Name:    "Pizza Order",
		Summary: "Collects a pizza order",
		Tags:    []string{"food", "demo"},
		Fields: []models.Field{
			{
				Name:        "color",
				Description: "your favorite color",
				Type:        "choice",
				Prompt: &models.TemplateConfig{
					Patterns:    []string{"What {&}? {||}"},
					ChoiceStyle: models.ChoiceInline,
				},
				Choices: []models.Choice{
					{Value: "red", Label: "Red"},
					{Value: "green", Label: "Green"},
					{Value: "blue", Label: "Blue"},
				},
			},
			{
				Name:        "size",
				Description: "the size",
				Type:        "choice",
				Terms:       &models.TermSet{Alternatives: []string{"size", "how big"}, MaxPhrase: 2},
				Choices: []models.Choice{
					{Value: "small", Label: "Small"},
					{Value: "large", Label: "Large", Terms: &models.TermSet{Alternatives: []string{"large", "big one"}}},
				},
			},
		},
		Content: "Authoring notes.",
	}
}

func TestCreateAndGetForm(t *testing.T) {
	svc := newTestService(t)

	form := testForm("pizza")
	if err := svc.CreateForm(form); err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	got, err := svc.GetForm("pizza")
	if err != nil {
		t.Fatalf("Failed to get form: %v", err)
	}
	if got.Name != "Pizza Order" {
		t.Errorf("Expected name 'Pizza Order', got %q", got.Name)
	}
	if got.Version != "1.0.0" {
		t.Errorf("Expected initial version 1.0.0, got %q", got.Version)
	}
	if got.Locale != "en" {
		t.Errorf("Expected the library locale to be stamped, got %q", got.Locale)
	}
	if len(got.Fields) != 2 {
		t.Errorf("Expected 2 fields, got %d", len(got.Fields))
	}

	// A second create with the same ID must fail
	if err := svc.CreateForm(testForm("pizza")); err == nil {
		t.Error("Expected an error when creating a duplicate form")
	}
}

func TestCreateFormValidates(t *testing.T) {
	svc := newTestService(t)

	bad := &models.FormSpec{ID: "empty", Name: "Empty"}
	if err := svc.CreateForm(bad); err == nil {
		t.Fatal("Expected validation to reject a form without fields")
	}
}

func TestGetFormReloadsCachedEntries(t *testing.T) {
	svc := newTestService(t)
	if err := svc.CreateForm(testForm("pizza")); err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	// A second service instance lists through the metadata cache, which
	// keeps field names only. GetForm must still hand out the full document.
	svc2, err := NewService()
	if err != nil {
		t.Fatalf("Failed to create second service: %v", err)
	}
	if _, err := svc2.ListForms(); err != nil {
		t.Fatalf("Failed to list forms: %v", err)
	}

	got, err := svc2.GetForm("pizza")
	if err != nil {
		t.Fatalf("Failed to get form: %v", err)
	}
	if len(got.Fields) != 2 || len(got.Fields[0].Choices) != 3 {
		t.Error("Expected the full field declarations after a cached listing")
	}
	if got.Content != "Authoring notes." {
		t.Errorf("Expected the authoring notes to be reloaded, got %q", got.Content)
	}
}

func TestUpdateFormBumpsVersionAndArchives(t *testing.T) {
	svc := newTestService(t)

	form := testForm("pizza")
	if err := svc.CreateForm(form); err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}
	createdAt := form.CreatedAt

	updated := testForm("pizza")
	updated.Summary = "Now with more cheese"
	if err := svc.UpdateForm(updated); err != nil {
		t.Fatalf("Failed to update form: %v", err)
	}

	got, err := svc.GetForm("pizza")
	if err != nil {
		t.Fatalf("Failed to get form: %v", err)
	}
	if got.Version != "1.0.1" {
		t.Errorf("Expected version 1.0.1 after update, got %q", got.Version)
	}
	if got.Summary != "Now with more cheese" {
		t.Errorf("Expected the updated summary, got %q", got.Summary)
	}
	if got.CreatedAt.Unix() != createdAt.Unix() {
		t.Error("Expected the creation time to survive updates")
	}

	archived, err := svc.ListArchivedForms()
	if err != nil {
		t.Fatalf("Failed to list archive: %v", err)
	}
	if len(archived) != 1 {
		t.Fatalf("Expected 1 archived version, got %d", len(archived))
	}
	if archived[0].Version != "1.0.0" {
		t.Errorf("Expected the previous version in the archive, got %q", archived[0].Version)
	}
}

func TestDeleteFormArchives(t *testing.T) {
	svc := newTestService(t)
	if err := svc.CreateForm(testForm("pizza")); err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	if err := svc.DeleteForm("pizza"); err != nil {
		t.Fatalf("Failed to delete form: %v", err)
	}

	if _, err := svc.GetForm("pizza"); err == nil {
		t.Error("Expected the form to be gone from the active library")
	}

	archived, err := svc.ListArchivedForms()
	if err != nil {
		t.Fatalf("Failed to list archive: %v", err)
	}
	if len(archived) != 1 || archived[0].ID != "pizza" {
		t.Errorf("Expected the deleted form in the archive, got %v", archived)
	}
}

func TestResolvedFormCascade(t *testing.T) {
	svc := newTestService(t)
	if err := svc.CreateForm(testForm("pizza")); err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	resolved, err := svc.ResolvedForm("pizza")
	if err != nil {
		t.Fatalf("Failed to resolve form: %v", err)
	}

	color := resolved.Field("color")
	if color == nil || color.Prompt == nil {
		t.Fatal("Expected a resolved prompt record on the color field")
	}
	if !color.Prompt.Resolved() {
		t.Errorf("Expected a fully resolved record, still unset: %v", color.Prompt.Unresolved())
	}
	// Authored options survive, the rest comes from the global record.
	if color.Prompt.ChoiceStyle != models.ChoiceInline {
		t.Errorf("Expected the authored choice style to survive, got %v", color.Prompt.ChoiceStyle)
	}
	if color.Prompt.Patterns[0] != "What {&}? {||}" {
		t.Errorf("Expected the authored pattern to survive, got %v", color.Prompt.Patterns)
	}
	if *color.Prompt.Separator != ", " {
		t.Errorf("Expected the built-in separator, got %q", *color.Prompt.Separator)
	}

	// The size field declares nothing; it inherits everything.
	size := resolved.Field("size")
	if size.Prompt == nil || !size.Prompt.Resolved() {
		t.Fatal("Expected the bare field to resolve against the global record")
	}
	if size.Prompt.Patterns[0] != "Please enter {&} {||}" {
		t.Errorf("Expected the built-in pattern, got %v", size.Prompt.Patterns)
	}

	// Resolution must not leak into the authored form.
	raw, err := svc.GetForm("pizza")
	if err != nil {
		t.Fatalf("Failed to get form: %v", err)
	}
	if raw.Prompt != nil {
		t.Error("Expected the authored form to keep its nil form-scope record")
	}
	if raw.Field("color").Prompt.Separator != nil {
		t.Error("Expected the authored field record to keep its sentinels")
	}

	// Resolving twice returns the cached copy.
	again, err := svc.ResolvedForm("pizza")
	if err != nil {
		t.Fatalf("Failed to resolve form again: %v", err)
	}
	if again != resolved {
		t.Error("Expected the resolved form to be cached")
	}
}

func TestPreviewPrompt(t *testing.T) {
	svc := newTestService(t)
	if err := svc.CreateForm(testForm("pizza")); err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	prompts, err := svc.PreviewPrompt("pizza", "color", PreviewOptions{Count: 3})
	if err != nil {
		t.Fatalf("Failed to preview prompt: %v", err)
	}
	if len(prompts) != 3 {
		t.Fatalf("Expected 3 variants, got %d", len(prompts))
	}

	expected := "What your favorite color? (Red, Green, or Blue)"
	for _, p := range prompts {
		if p.Text != expected {
			t.Errorf("Expected %q, got %q", expected, p.Text)
		}
		if p.Choices != nil {
			t.Error("Expected no widget choices for an inline style")
		}
	}

	if _, err := svc.PreviewPrompt("pizza", "missing", PreviewOptions{}); err == nil {
		t.Error("Expected an error for an unknown field")
	}
	if _, err := svc.PreviewPrompt("missing", "color", PreviewOptions{}); err == nil {
		t.Error("Expected an error for an unknown form")
	}
}

func TestPreviewPromptValues(t *testing.T) {
	svc := newTestService(t)

	form := testForm("pizza")
	form.Fields = append(form.Fields, models.Field{
		Name:        "drinks",
		Description: "your drinks",
		Prompt:      &models.TemplateConfig{Patterns: []string{"You chose {}."}},
	})
	if err := svc.CreateForm(form); err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	prompts, err := svc.PreviewPrompt("pizza", "drinks", PreviewOptions{Values: []string{"red wine", "beer"}})
	if err != nil {
		t.Fatalf("Failed to preview prompt: %v", err)
	}

	// Built-in value case is initial-upper, joined with ", and ".
	expected := "You chose Red Wine, and Beer."
	if prompts[0].Text != expected {
		t.Errorf("Expected %q, got %q", expected, prompts[0].Text)
	}
}

func TestRenderFieldChoices(t *testing.T) {
	svc := newTestService(t)
	if err := svc.CreateForm(testForm("pizza")); err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	// The size field inherits the global auto style: labels only.
	auto, err := svc.RenderFieldChoices("pizza", "size", "")
	if err != nil {
		t.Fatalf("Failed to render choices: %v", err)
	}
	if auto.Text != "" || len(auto.Labels) != 2 {
		t.Errorf("Expected labels only for the auto style, got %+v", auto)
	}

	perLine, err := svc.RenderFieldChoices("pizza", "size", "per-line")
	if err != nil {
		t.Fatalf("Failed to render choices with override: %v", err)
	}
	if perLine.Text != "1. Small\n2. Large" {
		t.Errorf("Expected numbered lines, got %q", perLine.Text)
	}

	if _, err := svc.RenderFieldChoices("pizza", "size", "sideways"); err == nil {
		t.Error("Expected an error for an unknown style override")
	}
}

func TestFieldTermsAndTesting(t *testing.T) {
	svc := newTestService(t)
	if err := svc.CreateForm(testForm("pizza")); err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	groups, err := svc.FieldTerms("pizza", "size")
	if err != nil {
		t.Fatalf("Failed to derive terms: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("Expected a field group and a choice group, got %d", len(groups))
	}
	if groups[0].Owner != "size" {
		t.Errorf("Expected the field-level group first, got %q", groups[0].Owner)
	}
	expanded := groups[0].Patterns
	if len(expanded) != 4 || expanded[3] != `\bhow big\b` {
		t.Errorf("Expected the expanded field terms, got %v", expanded)
	}
	if groups[1].Owner != "large" || len(groups[1].Patterns) != 2 {
		t.Errorf("Expected the choice terms anchored unexpanded, got %+v", groups[1])
	}

	matches, err := svc.TestTerms("pizza", "size", "give me the big one")
	if err != nil {
		t.Fatalf("Failed to test terms: %v", err)
	}
	var fieldHits, choiceHits int
	for _, m := range matches {
		switch m.Owner {
		case "size":
			fieldHits++
		case "large":
			choiceHits++
		}
	}
	if fieldHits != 1 {
		t.Errorf("Expected 1 field-level hit (\\bbig\\b), got %d", fieldHits)
	}
	if choiceHits != 1 {
		t.Errorf("Expected 1 choice-level hit (\\bbig one\\b), got %d", choiceHits)
	}

	// Partial words must not match.
	matches, err = svc.TestTerms("pizza", "size", "bigger isn't enlarged")
	if err != nil {
		t.Fatalf("Failed to test terms: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("Expected no partial-word hits, got %v", matches)
	}
}

func TestSearchForms(t *testing.T) {
	svc := newTestService(t)

	pizza := testForm("pizza")
	if err := svc.CreateForm(pizza); err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	sandwich := testForm("sandwich")
	sandwich.Name = "Sandwich Order"
	sandwich.Tags = []string{"food"}
	if err := svc.CreateForm(sandwich); err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	results, err := svc.SearchForms("sandwich")
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "sandwich" {
		t.Errorf("Expected the sandwich form, got %v", results)
	}

	// Empty query returns everything
	all, err := svc.SearchForms("")
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 forms for an empty query, got %d", len(all))
	}
}

func TestTagOperations(t *testing.T) {
	svc := newTestService(t)

	pizza := testForm("pizza")
	if err := svc.CreateForm(pizza); err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}
	survey := testForm("survey")
	survey.Tags = []string{"hr", "demo"}
	if err := svc.CreateForm(survey); err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	tags, err := svc.GetAllTags()
	if err != nil {
		t.Fatalf("Failed to get tags: %v", err)
	}
	expected := []string{"demo", "food", "hr"}
	if len(tags) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, tags)
	}
	for i := range expected {
		if tags[i] != expected[i] {
			t.Fatalf("Expected sorted tags %v, got %v", expected, tags)
		}
	}

	food, err := svc.FilterFormsByTag("food")
	if err != nil {
		t.Fatalf("Failed to filter: %v", err)
	}
	if len(food) != 1 || food[0].ID != "pizza" {
		t.Errorf("Expected only the pizza form tagged 'food', got %v", food)
	}
}

func TestLocaleWorkflow(t *testing.T) {
	svc := newTestService(t)
	if err := svc.CreateForm(testForm("pizza")); err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	// Before any table exists every key is missing.
	missing, err := svc.MissingStrings("pizza", "de")
	if err != nil {
		t.Fatalf("Failed to list missing strings: %v", err)
	}
	if len(missing) == 0 {
		t.Fatal("Expected missing keys before a table exists")
	}

	path, err := svc.ExportStrings("pizza", "de")
	if err != nil {
		t.Fatalf("Failed to export strings: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Expected the exported table on disk: %v", err)
	}

	// An exported table copies the authored strings, so nothing is missing.
	missing, err = svc.MissingStrings("pizza", "de")
	if err != nil {
		t.Fatalf("Failed to list missing strings: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("Expected no missing keys after export, got %v", missing)
	}

	// Import a hand-translated table and preview against it.
	table := `form: pizza
locale: de
strings:
  title: Pizzabestellung
  fields.color.description: deine Lieblingsfarbe
  fields.color.prompt.patterns.0: "Was ist {&}? {||}"
  fields.color.choices.red.label: Rot
`
	tablePath := filepath.Join(svc.BaseDir(), "german.yaml")
	if err := os.WriteFile(tablePath, []byte(table), 0644); err != nil {
		t.Fatalf("Failed to write table: %v", err)
	}
	if _, err := svc.ImportStrings(tablePath); err != nil {
		t.Fatalf("Failed to import strings: %v", err)
	}

	localized, err := svc.LocalizedForm("pizza", "de")
	if err != nil {
		t.Fatalf("Failed to localize form: %v", err)
	}
	if localized.Name != "Pizzabestellung" {
		t.Errorf("Expected the translated title, got %q", localized.Name)
	}
	if localized.Locale != "de" {
		t.Errorf("Expected the locale to be recorded, got %q", localized.Locale)
	}

	// Untranslated strings keep the authored text.
	if localized.Field("color").Choices[1].Label != "Green" {
		t.Error("Expected untranslated labels to keep the authored text")
	}

	// The authored form is untouched.
	raw, err := svc.GetForm("pizza")
	if err != nil {
		t.Fatalf("Failed to get form: %v", err)
	}
	if raw.Name != "Pizza Order" {
		t.Errorf("Expected the authored form untouched, got %q", raw.Name)
	}

	prompts, err := svc.PreviewPrompt("pizza", "color", PreviewOptions{Locale: "de"})
	if err != nil {
		t.Fatalf("Failed to preview localized prompt: %v", err)
	}
	expected := "Was ist deine lieblingsfarbe? (Rot, Green, or Blue)"
	if prompts[0].Text != expected {
		t.Errorf("Expected %q, got %q", expected, prompts[0].Text)
	}

	locales, err := svc.ListLocales()
	if err != nil {
		t.Fatalf("Failed to list locales: %v", err)
	}
	if len(locales) != 1 || locales[0] != "de" {
		t.Errorf("Expected [de], got %v", locales)
	}

	ids, err := svc.ListLocaleTables("de")
	if err != nil {
		t.Fatalf("Failed to list tables: %v", err)
	}
	if len(ids) != 1 || ids[0] != "pizza" {
		t.Errorf("Expected [pizza], got %v", ids)
	}
}

func TestImportSchemas(t *testing.T) {
	svc := newTestService(t)

	schema := `{
	  "$id": "feedback",
	  "title": "Feedback",
	  "properties": {
	    "rating": {"type": "integer", "minimum": 1, "maximum": 5},
	    "comments": {"type": "string"}
	  }
	}`
	schemaPath := filepath.Join(svc.BaseDir(), "feedback.json")
	if err := os.WriteFile(schemaPath, []byte(schema), 0644); err != nil {
		t.Fatalf("Failed to write schema: %v", err)
	}

	// Dry run reports without writing.
	report, err := svc.ImportSchemas([]string{schemaPath}, importer.Options{DryRun: true})
	if err != nil {
		t.Fatalf("Dry run failed: %v", err)
	}
	if len(report.Forms) != 1 {
		t.Fatalf("Expected 1 form in the dry-run report, got %d", len(report.Forms))
	}
	if _, err := svc.GetForm("feedback"); err == nil {
		t.Fatal("Expected the dry run to write nothing")
	}

	// Real import persists the form.
	report, err = svc.ImportSchemas([]string{schemaPath}, importer.Options{})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(report.Errors) != 0 {
		t.Fatalf("Expected no errors, got %v", report.Errors)
	}
	got, err := svc.GetForm("feedback")
	if err != nil {
		t.Fatalf("Failed to get imported form: %v", err)
	}
	if got.Version != "1.0.0" || len(got.Fields) != 2 {
		t.Errorf("Expected a fresh 2-field form, got version=%q fields=%d", got.Version, len(got.Fields))
	}

	// Re-import without overwrite skips.
	report, err = svc.ImportSchemas([]string{schemaPath}, importer.Options{})
	if err != nil {
		t.Fatalf("Re-import failed: %v", err)
	}
	if len(report.Skipped) != 1 || report.Skipped[0] != "feedback" {
		t.Errorf("Expected the existing form to be skipped, got %v", report.Skipped)
	}

	// With overwrite the version bumps and the old one is archived.
	report, err = svc.ImportSchemas([]string{schemaPath}, importer.Options{Overwrite: true})
	if err != nil {
		t.Fatalf("Overwrite import failed: %v", err)
	}
	if len(report.Errors) != 0 {
		t.Fatalf("Expected no errors, got %v", report.Errors)
	}
	got, err = svc.GetForm("feedback")
	if err != nil {
		t.Fatalf("Failed to get form: %v", err)
	}
	if got.Version != "1.0.1" {
		t.Errorf("Expected version 1.0.1 after overwrite, got %q", got.Version)
	}
}

func TestValidateAll(t *testing.T) {
	svc := newTestService(t)
	if err := svc.CreateForm(testForm("pizza")); err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	// Write a broken form behind the service's back.
	broken := &models.FormSpec{ID: "broken", Name: "Broken", FilePath: "forms/broken.md"}
	if err := svc.storage.SaveForm(broken); err != nil {
		t.Fatalf("Failed to save broken form: %v", err)
	}
	if err := svc.loadForms(); err != nil {
		t.Fatalf("Failed to reload forms: %v", err)
	}

	results, err := svc.ValidateAll()
	if err != nil {
		t.Fatalf("Failed to validate: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if !results["pizza"].Valid {
		t.Errorf("Expected the pizza form to be valid, errors: %v", results["pizza"].Errors)
	}
	if results["broken"].Valid {
		t.Error("Expected the fieldless form to be invalid")
	}

	// ResolvedForm fails fast on the broken form.
	if _, err := svc.ResolvedForm("broken"); err == nil || !strings.Contains(err.Error(), "field") {
		t.Errorf("Expected a validation error naming the problem, got %v", err)
	}
}
