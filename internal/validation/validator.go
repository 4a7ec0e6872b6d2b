// Package validation checks form declarations before they reach the
// renderer.
//
// SYSTEM ARCHITECTURE ROLE:
// This module implements the fail-fast layer of the system: a malformed
// declaration (bad term pattern, inverted range, duplicate field) is
// reported when the form is loaded or created, never mid-conversation as a
// degraded prompt.
//
// KEY RESPONSIBILITIES:
// - Validate form identity, field declarations, choices, and constraints
// - Compile term declarations and validation patterns to surface bad regexes early
// - Distinguish hard errors (unusable form) from warnings (suspicious but renderable)
// - Convert validation failures into the standard AppError format
//
// INTEGRATION POINTS:
// - internal/service/service.go: forms are validated on load and before save
// - internal/cli/cli.go: the validate command prints per-form results
// - internal/errors/errors.go: ValidationResult.ToAppError() converts failures
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dpshade/formloom/internal/errors"
	"github.com/dpshade/formloom/internal/models"
	"github.com/dpshade/formloom/internal/terms"
)

// Field types a form may declare. An empty type means string.
var fieldTypes = map[string]bool{
	"":       true,
	"string": true,
	"number": true,
	"bool":   true,
	"choice": true,
}

var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidationResult represents the result of validating one form
type ValidationResult struct {
	Valid    bool                `json:"valid"`
	Errors   []ValidationError   `json:"errors,omitempty"`
	Warnings []ValidationWarning `json:"warnings,omitempty"`
}

// ValidationError represents a declaration error that makes the form unusable
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationWarning flags a suspicious declaration that still renders
type ValidationWarning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator checks form declarations
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateForm checks a complete form declaration. The form does not need to
// be cascade-resolved first: unset options are legal, structural problems
// are not.
func (v *Validator) ValidateForm(form *models.FormSpec) *ValidationResult {
	result := &ValidationResult{Valid: true}

	v.checkIdentity(form, result)
	v.checkPromptRecord("prompt", form.Prompt, result)

	if len(form.Fields) == 0 {
		result.addError("fields", "NO_FIELDS", "form must declare at least one field")
	}

	seen := make(map[string]bool)
	for i := range form.Fields {
		field := &form.Fields[i]
		v.checkField(field, result)

		key := strings.ToLower(field.Name)
		if field.Name != "" && seen[key] {
			result.addError(field.Name, "DUPLICATE_FIELD", fmt.Sprintf("field name '%s' is declared more than once", field.Name))
		}
		seen[key] = true
	}

	return result
}

// checkIdentity validates the form's ID and title.
func (v *Validator) checkIdentity(form *models.FormSpec, result *ValidationResult) {
	if form.ID == "" {
		result.addError("id", "REQUIRED_FIELD_MISSING", "form id is required")
	} else if !identifierPattern.MatchString(form.ID) {
		result.addError("id", "INVALID_FORMAT", fmt.Sprintf("form id '%s' may only contain letters, digits, '-' and '_'", form.ID))
	}

	if form.Name == "" {
		result.addError("title", "REQUIRED_FIELD_MISSING", "form title is required")
	}
}

// checkField validates one field declaration.
func (v *Validator) checkField(field *models.Field, result *ValidationResult) {
	name := field.Name
	if name == "" {
		result.addError("fields", "REQUIRED_FIELD_MISSING", "every field needs a name")
		return
	}
	if !identifierPattern.MatchString(name) {
		// Field names key locale string tables, so dots and spaces would
		// corrupt the dotted key paths.
		result.addError(name, "INVALID_FORMAT", fmt.Sprintf("field name '%s' may only contain letters, digits, '-' and '_'", name))
	}

	if !fieldTypes[field.Type] {
		result.addError(name, "INVALID_TYPE", fmt.Sprintf("field '%s' has unknown type '%s'", name, field.Type))
	}

	v.checkChoices(field, result)
	v.checkRange(field, result)
	v.checkPattern(field, result)
	v.checkPromptRecord(name, field.Prompt, result)
	v.checkTerms(name, field.Terms, result)
	for _, choice := range field.Choices {
		v.checkTerms(name+"."+choice.Value, choice.Terms, result)
	}
}

func (v *Validator) checkChoices(field *models.Field, result *ValidationResult) {
	name := field.Name

	if field.Type == "choice" && len(field.Choices) == 0 {
		result.addError(name, "NO_CHOICES", fmt.Sprintf("choice field '%s' declares no choices", name))
	}
	if field.Type != "choice" && len(field.Choices) > 0 {
		result.addWarning(name, fmt.Sprintf("field '%s' declares choices but has type '%s'", name, displayType(field.Type)))
	}

	seen := make(map[string]bool)
	for _, choice := range field.Choices {
		if choice.Value == "" {
			result.addError(name, "EMPTY_CHOICE", fmt.Sprintf("field '%s' has a choice without a value", name))
			continue
		}
		if seen[choice.Value] {
			result.addError(name, "DUPLICATE_CHOICE", fmt.Sprintf("field '%s' declares choice '%s' more than once", name, choice.Value))
		}
		seen[choice.Value] = true
	}
}

func (v *Validator) checkRange(field *models.Field, result *ValidationResult) {
	if field.Range == nil {
		return
	}
	if field.Type != "number" {
		result.addWarning(field.Name, fmt.Sprintf("field '%s' declares a numeric range but has type '%s'", field.Name, displayType(field.Type)))
	}
	if err := field.Range.Validate(); err != nil {
		result.addError(field.Name, "INVALID_RANGE", fmt.Sprintf("field '%s': %v", field.Name, err))
	}
}

func (v *Validator) checkPattern(field *models.Field, result *ValidationResult) {
	if field.Pattern == "" {
		return
	}
	if _, err := regexp.Compile(field.Pattern); err != nil {
		result.addError(field.Name, "INVALID_PATTERN", fmt.Sprintf("field '%s' has an invalid validation pattern: %v", field.Name, err))
	}
}

// checkPromptRecord validates a template record declaration at any scope.
func (v *Validator) checkPromptRecord(scope string, cfg *models.TemplateConfig, result *ValidationResult) {
	if cfg == nil {
		return
	}

	for i, pattern := range cfg.Patterns {
		if strings.TrimSpace(pattern) == "" {
			result.addError(scope, "EMPTY_PATTERN", fmt.Sprintf("%s: pattern %d is empty", scope, i))
		}
	}

	if cfg.ChoiceFormat != nil && !strings.Contains(*cfg.ChoiceFormat, models.ChoiceFormatLabel) {
		result.addWarning(scope, fmt.Sprintf("%s: choice format %q never prints the label", scope, *cfg.ChoiceFormat))
	}
}

// checkTerms compiles a term declaration to surface bad phrases and
// hand-written patterns at load time.
func (v *Validator) checkTerms(scope string, set *models.TermSet, result *ValidationResult) {
	if set == nil {
		return
	}

	if set.MaxPhrase < 0 {
		result.addError(scope, "INVALID_MAX_PHRASE", fmt.Sprintf("%s: max phrase length %d must not be negative", scope, set.MaxPhrase))
		return
	}
	if set.MaxPhrase > 0 && set.Empty() {
		result.addWarning(scope, fmt.Sprintf("%s: max phrase length set but no term alternatives declared", scope))
		return
	}

	patterns, err := terms.Patterns(*set)
	if err != nil {
		result.addError(scope, "INVALID_TERMS", fmt.Sprintf("%s: %v", scope, err))
		return
	}
	if _, err := terms.Compile(patterns); err != nil {
		result.addError(scope, "INVALID_TERMS", fmt.Sprintf("%s: %v", scope, err))
	}
}

func (result *ValidationResult) addError(field, code, message string) {
	result.Valid = false
	result.Errors = append(result.Errors, ValidationError{Field: field, Code: code, Message: message})
}

func (result *ValidationResult) addWarning(field, message string) {
	result.Warnings = append(result.Warnings, ValidationWarning{Field: field, Message: message})
}

func displayType(t string) string {
	if t == "" {
		return "string"
	}
	return t
}

// ToAppError converts validation result to AppError
func (result *ValidationResult) ToAppError() *errors.AppError {
	if result.Valid {
		return nil
	}

	if len(result.Errors) == 0 {
		return errors.ValidationError("Validation failed")
	}

	// Use the first error as the primary error
	firstError := result.Errors[0]
	appErr := errors.ValidationError(firstError.Message)

	// Add details about all validation errors
	var details []string
	for _, validationErr := range result.Errors {
		details = append(details, fmt.Sprintf("%s: %s", validationErr.Field, validationErr.Message))
	}

	appErr.WithDetails(strings.Join(details, "; "))

	// Add context
	appErr.WithContext("validation_errors", result.Errors)
	if len(result.Warnings) > 0 {
		appErr.WithContext("validation_warnings", result.Warnings)
	}

	return appErr
}
