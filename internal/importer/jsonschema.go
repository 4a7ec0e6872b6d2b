// Package importer converts external form definitions into library
// documents. The one importer today reads JSON schemas in the style dialog
// frameworks generate: an object schema whose properties carry prompt and
// term annotations alongside the usual type/enum/min/max keywords.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dpshade/formloom/internal/models"
)

// SchemaImporter converts JSON schema files into form definitions
type SchemaImporter struct{}

// NewSchemaImporter creates a new schema importer
func NewSchemaImporter() *SchemaImporter {
	return &SchemaImporter{}
}

// Options configures the import process
type Options struct {
	DryRun    bool // Preview what would be imported without writing
	Overwrite bool // Overwrite existing forms with the same ID
}

// Report contains the results of an import operation
type Report struct {
	Forms   []*models.FormSpec // forms parsed out of the schema files
	Skipped []string           // form IDs left untouched because they already exist
	Errors  []error            // per-file failures
}

// schemaDocument is the subset of a JSON schema the importer understands,
// plus the prompt annotations dialog-framework schemas carry.
type schemaDocument struct {
	ID          string                    `json:"$id"`
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	Type        string                    `json:"type"`
	Required    []string                  `json:"required"`
	Properties  map[string]schemaProperty `json:"properties"`
	Prompt      *promptAnnotation         `json:"prompt"`
	Tags        []string                  `json:"tags"`
}

type schemaProperty struct {
	Type        string            `json:"type"`
	Description string            `json:"description"`
	Enum        []interface{}     `json:"enum"`
	Minimum     *float64          `json:"minimum"`
	Maximum     *float64          `json:"maximum"`
	Pattern     string            `json:"pattern"`
	Prompt      *promptAnnotation `json:"prompt"`
	Terms       []string          `json:"terms"`
	MaxPhrase   int               `json:"max_phrase"`
	Labels      map[string]string `json:"labels"` // enum value -> display label
}

// promptAnnotation mirrors the template record with JSON keys.
type promptAnnotation struct {
	Patterns            []string `json:"patterns"`
	ChoiceStyle         string   `json:"choice_style"`
	ChoiceCase          string   `json:"choice_case"`
	FieldCase           string   `json:"field_case"`
	ValueCase           string   `json:"value_case"`
	Feedback            string   `json:"feedback"`
	Separator           *string  `json:"separator"`
	LastSeparator       *string  `json:"last_separator"`
	ChoiceSeparator     *string  `json:"choice_separator"`
	ChoiceLastSeparator *string  `json:"choice_last_separator"`
	ChoiceFormat        *string  `json:"choice_format"`
	AllowDefault        *bool    `json:"allow_default"`
	ChoiceParens        *bool    `json:"choice_parens"`
}

// Import converts each schema file into a form. Per-file failures land in
// the report; only an empty path list is an error here, so one broken file
// never aborts a batch.
func (imp *SchemaImporter) Import(paths []string, options Options) (*Report, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no schema files given")
	}

	report := &Report{}
	for _, path := range paths {
		form, err := imp.ImportFile(path)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("failed to import %s: %w", path, err))
			continue
		}
		report.Forms = append(report.Forms, form)
	}
	return report, nil
}

// ImportFile converts one JSON schema file into a form definition.
func (imp *SchemaImporter) ImportFile(path string) (*models.FormSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	return imp.Convert(data, path)
}

// Convert builds a form from raw schema bytes. The path only seeds the form
// ID when the schema doesn't declare one.
func (imp *SchemaImporter) Convert(data []byte, path string) (*models.FormSpec, error) {
	var doc schemaDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	if doc.Type != "" && doc.Type != "object" {
		return nil, fmt.Errorf("schema type %q is not importable: forms come from object schemas", doc.Type)
	}

	form := &models.FormSpec{
		ID:      doc.ID,
		Name:    doc.Title,
		Summary: doc.Description,
		Tags:    doc.Tags,
	}
	if form.ID == "" {
		form.ID = idFromFilename(path)
	}
	if form.Name == "" {
		form.Name = form.ID
	}

	if doc.Prompt != nil {
		cfg, err := doc.Prompt.toConfig()
		if err != nil {
			return nil, fmt.Errorf("schema prompt: %w", err)
		}
		form.Prompt = cfg
	}

	required := make(map[string]bool, len(doc.Required))
	for _, name := range doc.Required {
		required[name] = true
	}

	// encoding/json maps forget declaration order, but field order is the
	// order a dialog asks in, so recover it from the raw bytes.
	order, err := propertyOrder(data)
	if err != nil {
		return nil, fmt.Errorf("failed to scan properties: %w", err)
	}

	for _, name := range order {
		field, err := convertProperty(name, doc.Properties[name], required[name])
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		form.Fields = append(form.Fields, field)
	}

	base := filepath.Base(path)
	form.Metadata = map[string]interface{}{"imported_from": base}
	form.Content = fmt.Sprintf("Imported from `%s`.", base)

	return form, nil
}

// convertProperty maps one schema property onto a field declaration.
func convertProperty(name string, prop schemaProperty, required bool) (models.Field, error) {
	field := models.Field{
		Name:        name,
		Description: prop.Description,
		Optional:    !required,
		Pattern:     prop.Pattern,
	}

	switch prop.Type {
	case "", "string":
		field.Type = "string"
	case "number", "integer":
		field.Type = "number"
	case "boolean":
		field.Type = "bool"
	default:
		return models.Field{}, fmt.Errorf("unsupported type %q", prop.Type)
	}

	if len(prop.Enum) > 0 {
		field.Type = "choice"
		for _, raw := range prop.Enum {
			value := fmt.Sprintf("%v", raw)
			choice := models.Choice{Value: value}
			if label, ok := prop.Labels[value]; ok {
				choice.Label = label
			}
			field.Choices = append(field.Choices, choice)
		}
	}

	if prop.Minimum != nil || prop.Maximum != nil {
		if field.Type != "number" {
			return models.Field{}, fmt.Errorf("minimum/maximum need a numeric type, not %q", prop.Type)
		}
		field.Range = &models.NumericRange{Min: prop.Minimum, Max: prop.Maximum}
	}

	if len(prop.Terms) > 0 || prop.MaxPhrase > 0 {
		field.Terms = &models.TermSet{Alternatives: prop.Terms, MaxPhrase: prop.MaxPhrase}
	}

	if prop.Prompt != nil {
		cfg, err := prop.Prompt.toConfig()
		if err != nil {
			return models.Field{}, err
		}
		field.Prompt = cfg
	}

	return field, nil
}

// toConfig converts a prompt annotation into a template record. Enum
// strings the record doesn't know are configuration errors.
func (p *promptAnnotation) toConfig() (*models.TemplateConfig, error) {
	cfg := &models.TemplateConfig{
		Separator:           p.Separator,
		LastSeparator:       p.LastSeparator,
		ChoiceSeparator:     p.ChoiceSeparator,
		ChoiceLastSeparator: p.ChoiceLastSeparator,
		ChoiceFormat:        p.ChoiceFormat,
		AllowDefault:        p.AllowDefault,
		ChoiceParens:        p.ChoiceParens,
	}
	if len(p.Patterns) > 0 {
		cfg.Patterns = append([]string(nil), p.Patterns...)
	}

	var err error
	if cfg.ChoiceStyle, err = models.ParseChoiceStyle(p.ChoiceStyle); err != nil {
		return nil, err
	}
	if cfg.ChoiceCase, err = models.ParseCaseNormalization(p.ChoiceCase); err != nil {
		return nil, err
	}
	if cfg.FieldCase, err = models.ParseCaseNormalization(p.FieldCase); err != nil {
		return nil, err
	}
	if cfg.ValueCase, err = models.ParseCaseNormalization(p.ValueCase); err != nil {
		return nil, err
	}
	if cfg.Feedback, err = models.ParseFeedback(p.Feedback); err != nil {
		return nil, err
	}
	return cfg, nil
}

// propertyOrder recovers the declaration order of the properties object by
// walking the raw JSON tokens.
func propertyOrder(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("schema root is not an object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		if key != "properties" {
			if err := skipValue(dec); err != nil {
				return nil, err
			}
			continue
		}

		open, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if d, ok := open.(json.Delim); !ok || d != '{' {
			return nil, fmt.Errorf("'properties' is not an object")
		}

		var order []string
		for dec.More() {
			nameTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			if name, ok := nameTok.(string); ok {
				order = append(order, name)
			}
			if err := skipValue(dec); err != nil {
				return nil, err
			}
		}
		return order, nil
	}

	return nil, nil
}

// skipValue consumes one JSON value, nested or scalar, from the decoder.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := tok.(json.Delim)
	if !ok || (d != '{' && d != '[') {
		return nil
	}

	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

// idFromFilename derives a form ID from the schema filename when the schema
// itself doesn't declare one.
func idFromFilename(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ToLower(base)

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
