package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dpshade/formloom/internal/models"
)

const pizzaSchema = `{
  "$id": "pizza-order",
  "title": "Pizza Order",
  "description": "Collects a pizza order",
  "type": "object",
  "tags": ["food"],
  "required": ["size"],
  "prompt": {
    "patterns": ["What {&}? {||}"],
    "field_case": "lower"
  },
  "properties": {
    "size": {
      "type": "string",
      "description": "the size of your pizza",
      "enum": ["small", "medium", "large"],
      "labels": {"small": "Small (10\")"},
      "terms": ["size", "how big"],
      "max_phrase": 2,
      "prompt": {"choice_style": "inline"}
    },
    "toppings": {
      "type": "string",
      "description": "extra toppings"
    },
    "quantity": {
      "type": "integer",
      "minimum": 1,
      "maximum": 5
    }
  }
}`

func TestConvertSchema(t *testing.T) {
	imp := NewSchemaImporter()
	form, err := imp.Convert([]byte(pizzaSchema), "pizza.json")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if form.ID != "pizza-order" {
		t.Errorf("Expected ID 'pizza-order', got %q", form.ID)
	}
	if form.Name != "Pizza Order" {
		t.Errorf("Expected title 'Pizza Order', got %q", form.Name)
	}
	if form.Summary != "Collects a pizza order" {
		t.Errorf("Expected the schema description, got %q", form.Summary)
	}
	if len(form.Tags) != 1 || form.Tags[0] != "food" {
		t.Errorf("Expected tags [food], got %v", form.Tags)
	}

	if form.Prompt == nil {
		t.Fatal("Expected a form-level prompt record")
	}
	if len(form.Prompt.Patterns) != 1 || form.Prompt.Patterns[0] != "What {&}? {||}" {
		t.Errorf("Expected the annotated pattern, got %v", form.Prompt.Patterns)
	}
	if form.Prompt.FieldCase != models.CaseLower {
		t.Errorf("Expected lower field case, got %v", form.Prompt.FieldCase)
	}

	if len(form.Fields) != 3 {
		t.Fatalf("Expected 3 fields, got %d", len(form.Fields))
	}

	size := form.Fields[0]
	if size.Name != "size" {
		t.Errorf("Expected 'size' first, got %q", size.Name)
	}
	if size.Type != "choice" {
		t.Errorf("Expected enum property to become a choice field, got %q", size.Type)
	}
	if size.Optional {
		t.Error("Expected a required property to be non-optional")
	}
	if len(size.Choices) != 3 {
		t.Fatalf("Expected 3 choices, got %d", len(size.Choices))
	}
	if size.Choices[0].Value != "small" || size.Choices[0].Label != `Small (10")` {
		t.Errorf("Expected labeled 'small' choice, got %+v", size.Choices[0])
	}
	if size.Choices[1].Label != "" {
		t.Errorf("Expected unlabeled 'medium' choice, got %q", size.Choices[1].Label)
	}
	if size.Terms == nil || size.Terms.MaxPhrase != 2 || len(size.Terms.Alternatives) != 2 {
		t.Errorf("Expected the term annotation to carry over, got %+v", size.Terms)
	}
	if size.Prompt == nil || size.Prompt.ChoiceStyle != models.ChoiceInline {
		t.Error("Expected the field prompt annotation to carry over")
	}

	toppings := form.Fields[1]
	if toppings.Type != "string" || !toppings.Optional {
		t.Errorf("Expected an optional string field, got type=%q optional=%v", toppings.Type, toppings.Optional)
	}

	quantity := form.Fields[2]
	if quantity.Type != "number" {
		t.Errorf("Expected integer property to become a number field, got %q", quantity.Type)
	}
	if quantity.Range == nil || *quantity.Range.Min != 1 || *quantity.Range.Max != 5 {
		t.Errorf("Expected range 1..5, got %+v", quantity.Range)
	}

	if form.Metadata["imported_from"] != "pizza.json" {
		t.Errorf("Expected import provenance in metadata, got %v", form.Metadata)
	}
}

func TestConvertPreservesPropertyOrder(t *testing.T) {
	schema := `{
	  "$id": "ordered",
	  "title": "Ordered",
	  "properties": {
	    "zebra": {"type": "string"},
	    "alpha": {"type": "string"},
	    "middle": {"type": "string"}
	  }
	}`

	imp := NewSchemaImporter()
	form, err := imp.Convert([]byte(schema), "ordered.json")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	expected := []string{"zebra", "alpha", "middle"}
	if len(form.Fields) != len(expected) {
		t.Fatalf("Expected %d fields, got %d", len(expected), len(form.Fields))
	}
	for i, name := range expected {
		if form.Fields[i].Name != name {
			t.Errorf("Expected field %d to be %q, got %q", i, name, form.Fields[i].Name)
		}
	}
}

func TestConvertDerivesIDFromFilename(t *testing.T) {
	schema := `{"title": "Untitled", "properties": {"a": {"type": "string"}}}`

	imp := NewSchemaImporter()
	form, err := imp.Convert([]byte(schema), "/tmp/My Sandwich Order.json")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if form.ID != "my-sandwich-order" {
		t.Errorf("Expected ID derived from filename, got %q", form.ID)
	}
}

func TestConvertRejectsNonObjectSchema(t *testing.T) {
	imp := NewSchemaImporter()
	_, err := imp.Convert([]byte(`{"type": "array"}`), "list.json")
	if err == nil {
		t.Fatal("Expected an error for a non-object schema")
	}
}

func TestConvertRejectsUnknownEnumStrings(t *testing.T) {
	schema := `{
	  "$id": "bad",
	  "properties": {
	    "color": {"type": "string", "prompt": {"choice_style": "shiny"}}
	  }
	}`

	imp := NewSchemaImporter()
	_, err := imp.Convert([]byte(schema), "bad.json")
	if err == nil {
		t.Fatal("Expected an error for an unknown choice style")
	}
	if !strings.Contains(err.Error(), "shiny") {
		t.Errorf("Expected the bad value in the error, got %v", err)
	}
}

func TestConvertRejectsRangeOnString(t *testing.T) {
	schema := `{
	  "$id": "bad",
	  "properties": {
	    "name": {"type": "string", "minimum": 1}
	  }
	}`

	imp := NewSchemaImporter()
	_, err := imp.Convert([]byte(schema), "bad.json")
	if err == nil {
		t.Fatal("Expected an error for a range on a string property")
	}
}

func TestImportCollectsPerFileErrors(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "formloom-import-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	good := filepath.Join(tempDir, "good.json")
	if err := os.WriteFile(good, []byte(pizzaSchema), 0644); err != nil {
		t.Fatalf("Failed to write schema: %v", err)
	}

	imp := NewSchemaImporter()
	report, err := imp.Import([]string{good, filepath.Join(tempDir, "missing.json")}, Options{})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if len(report.Forms) != 1 {
		t.Errorf("Expected 1 imported form, got %d", len(report.Forms))
	}
	if len(report.Errors) != 1 {
		t.Errorf("Expected 1 per-file error, got %d", len(report.Errors))
	}

	if _, err := imp.Import(nil, Options{}); err == nil {
		t.Error("Expected an error for an empty path list")
	}
}

func TestIDFromFilename(t *testing.T) {
	cases := []struct {
		path     string
		expected string
	}{
		{"pizza.json", "pizza"},
		{"/a/b/Pizza Order.schema.json", "pizza-order-schema"},
		{"__weird--Name__.json", "__weird--name__"},
	}

	for _, tc := range cases {
		if got := idFromFilename(tc.path); got != tc.expected {
			t.Errorf("idFromFilename(%q): expected %q, got %q", tc.path, tc.expected, got)
		}
	}
}
