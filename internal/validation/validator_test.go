package validation

import (
	"strings"
	"testing"

	"github.com/dpshade/formloom/internal/models"
)

func validForm() *models.FormSpec {
	return &models.FormSpec{
		ID:   "pizza-order",
		Name: "Pizza Order",
		Fields: []models.Field{
			{
				Name: "size",
				Type: "choice",
				Choices: []models.Choice{
					{Value: "small", Label: "Small"},
					{Value: "large", Label: "Large"},
				},
				Terms: &models.TermSet{Alternatives: []string{"pizza size"}, MaxPhrase: 2},
			},
			{Name: "notes", Type: "string"},
		},
	}
}

func TestValidateFormAccepts(t *testing.T) {
	result := NewValidator().ValidateForm(validForm())
	if !result.Valid {
		t.Fatalf("Expected a valid form, got errors: %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", result.Warnings)
	}
}

func TestValidateFormRequiresIdentity(t *testing.T) {
	form := validForm()
	form.ID = ""
	form.Name = ""

	result := NewValidator().ValidateForm(form)
	if result.Valid {
		t.Fatal("Expected an invalid form")
	}
	if len(result.Errors) != 2 {
		t.Errorf("Expected errors for id and title, got %v", result.Errors)
	}
}

func TestValidateFormRejectsBadID(t *testing.T) {
	form := validForm()
	form.ID = "pizza order!"

	result := NewValidator().ValidateForm(form)
	if result.Valid {
		t.Error("Expected an invalid form for a bad id")
	}
}

func TestValidateFormRequiresFields(t *testing.T) {
	form := validForm()
	form.Fields = nil

	result := NewValidator().ValidateForm(form)
	if result.Valid {
		t.Error("Expected an invalid form without fields")
	}
}

func TestValidateFormDuplicateFieldNames(t *testing.T) {
	form := validForm()
	form.Fields = append(form.Fields, models.Field{Name: "SIZE", Type: "string"})

	result := NewValidator().ValidateForm(form)
	if result.Valid {
		t.Fatal("Expected duplicate field names to fail")
	}
	found := false
	for _, e := range result.Errors {
		if e.Code == "DUPLICATE_FIELD" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a DUPLICATE_FIELD error, got %v", result.Errors)
	}
}

func TestValidateFormFieldNameKeysLocales(t *testing.T) {
	form := validForm()
	form.Fields[1].Name = "field.with.dots"

	result := NewValidator().ValidateForm(form)
	if result.Valid {
		t.Error("Expected dotted field names to fail")
	}
}

func TestValidateFormChoiceRules(t *testing.T) {
	noChoices := validForm()
	noChoices.Fields[0].Choices = nil
	if result := NewValidator().ValidateForm(noChoices); result.Valid {
		t.Error("Expected a choice field without choices to fail")
	}

	duplicate := validForm()
	duplicate.Fields[0].Choices = append(duplicate.Fields[0].Choices, models.Choice{Value: "small"})
	if result := NewValidator().ValidateForm(duplicate); result.Valid {
		t.Error("Expected duplicate choice values to fail")
	}

	stray := validForm()
	stray.Fields[1].Choices = []models.Choice{{Value: "x"}}
	result := NewValidator().ValidateForm(stray)
	if !result.Valid {
		t.Errorf("Expected choices on a string field to stay valid, got %v", result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Error("Expected a warning for choices on a string field")
	}
}

func TestValidateFormRange(t *testing.T) {
	min, max := 5.0, 1.0
	form := validForm()
	form.Fields[1].Type = "number"
	form.Fields[1].Range = &models.NumericRange{Min: &min, Max: &max}

	result := NewValidator().ValidateForm(form)
	if result.Valid {
		t.Error("Expected an inverted range to fail")
	}
}

func TestValidateFormPattern(t *testing.T) {
	form := validForm()
	form.Fields[1].Pattern = "(unclosed"

	result := NewValidator().ValidateForm(form)
	if result.Valid {
		t.Error("Expected an invalid validation pattern to fail")
	}
}

func TestValidateFormEmptyPromptPattern(t *testing.T) {
	form := validForm()
	form.Prompt = &models.TemplateConfig{Patterns: []string{"Please enter {&}", "   "}}

	result := NewValidator().ValidateForm(form)
	if result.Valid {
		t.Error("Expected an empty prompt pattern to fail")
	}
}

func TestValidateFormChoiceFormatWarning(t *testing.T) {
	format := "{0})"
	form := validForm()
	form.Prompt = &models.TemplateConfig{ChoiceFormat: &format}

	result := NewValidator().ValidateForm(form)
	if !result.Valid {
		t.Fatalf("Expected the form to stay valid, got %v", result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Error("Expected a warning for a label-less choice format")
	}
}

func TestValidateFormBadTerms(t *testing.T) {
	form := validForm()
	form.Fields[0].Terms = &models.TermSet{Alternatives: []string{"(unclosed"}}

	result := NewValidator().ValidateForm(form)
	if result.Valid {
		t.Error("Expected an uncompilable term pattern to fail")
	}

	negative := validForm()
	negative.Fields[0].Terms = &models.TermSet{Alternatives: []string{"size"}, MaxPhrase: -1}
	if result := NewValidator().ValidateForm(negative); result.Valid {
		t.Error("Expected a negative max phrase length to fail")
	}
}

func TestValidateFormChoiceTerms(t *testing.T) {
	form := validForm()
	form.Fields[0].Choices[0].Terms = &models.TermSet{Alternatives: []string{"(bad"}}

	result := NewValidator().ValidateForm(form)
	if result.Valid {
		t.Error("Expected a bad choice term pattern to fail")
	}
}

func TestToAppError(t *testing.T) {
	form := validForm()
	form.ID = ""

	result := NewValidator().ValidateForm(form)
	appErr := result.ToAppError()
	if appErr == nil {
		t.Fatal("Expected an AppError for an invalid form")
	}
	if !strings.Contains(appErr.Details, "id") {
		t.Errorf("Expected the failing field in the details, got %q", appErr.Details)
	}

	if NewValidator().ValidateForm(validForm()).ToAppError() != nil {
		t.Error("Expected nil AppError for a valid form")
	}
}
