package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dpshade/formloom/internal/models"
	"gopkg.in/yaml.v3"
)

// StringTable holds every user-visible string of one form in one locale,
// keyed by a dotted path into the form definition:
//
//	title
//	description
//	prompt.patterns.0
//	fields.<name>.description
//	fields.<name>.prompt.patterns.0
//	fields.<name>.terms.0
//	fields.<name>.choices.<value>.label
//	fields.<name>.choices.<value>.terms.0
//
// Tables live under locales/<locale>/<form-id>.yaml so translators work on
// flat YAML files without touching form definitions.
type StringTable struct {
	Form    string            `yaml:"form"`
	Locale  string            `yaml:"locale"`
	Strings map[string]string `yaml:"strings"`
}

// LocalePath returns the library-relative path of a string table.
func LocalePath(locale, formID string) string {
	return filepath.Join("locales", locale, formID+".yaml")
}

// SaveStringTable writes a string table to the library.
func (s *Storage) SaveStringTable(table *StringTable) error {
	if table.Locale == "" || table.Form == "" {
		return fmt.Errorf("string table needs a locale and a form id")
	}

	fullPath := filepath.Join(s.rootPath, LocalePath(table.Locale, table.Form))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create locale directory: %w", err)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(table); err != nil {
		return fmt.Errorf("failed to encode string table: %w", err)
	}

	if err := os.WriteFile(fullPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write string table: %w", err)
	}

	return nil
}

// LoadStringTable reads the string table of a form in a locale.
func (s *Storage) LoadStringTable(locale, formID string) (*StringTable, error) {
	fullPath := filepath.Join(s.rootPath, LocalePath(locale, formID))

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read string table: %w", err)
	}

	var table StringTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse string table: %w", err)
	}

	// Tolerate hand-written tables that omit the redundant header fields.
	if table.Form == "" {
		table.Form = formID
	}
	if table.Locale == "" {
		table.Locale = locale
	}

	return &table, nil
}

// ListLocales returns the locales that have at least one string table.
func (s *Storage) ListLocales() ([]string, error) {
	localesDir := filepath.Join(s.rootPath, "locales")

	entries, err := os.ReadDir(localesDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read locales directory: %w", err)
	}

	var locales []string
	for _, entry := range entries {
		if entry.IsDir() {
			locales = append(locales, entry.Name())
		}
	}
	sort.Strings(locales)
	return locales, nil
}

// ListLocaleTables returns the form IDs that have a string table in the
// given locale.
func (s *Storage) ListLocaleTables(locale string) ([]string, error) {
	dir := filepath.Join(s.rootPath, "locales", locale)

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read locale directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".yaml") {
			ids = append(ids, strings.TrimSuffix(entry.Name(), ".yaml"))
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// BuildStringTable extracts every translatable string of a form into a
// table keyed for the given locale. Empty strings are skipped; the table is
// the translator's worklist.
func BuildStringTable(form *models.FormSpec, locale string) *StringTable {
	table := &StringTable{
		Form:    form.ID,
		Locale:  locale,
		Strings: make(map[string]string),
	}
	put := func(key, value string) {
		if value != "" {
			table.Strings[key] = value
		}
	}

	put("title", form.Name)
	put("description", form.Summary)
	if form.Prompt != nil {
		for i, p := range form.Prompt.Patterns {
			put(fmt.Sprintf("prompt.patterns.%d", i), p)
		}
	}

	for fi := range form.Fields {
		field := &form.Fields[fi]
		prefix := "fields." + field.Name + "."

		put(prefix+"description", field.Description)
		if field.Prompt != nil {
			for i, p := range field.Prompt.Patterns {
				put(fmt.Sprintf("%sprompt.patterns.%d", prefix, i), p)
			}
		}
		if field.Terms != nil {
			for i, alt := range field.Terms.Alternatives {
				put(fmt.Sprintf("%sterms.%d", prefix, i), alt)
			}
		}
		for ci := range field.Choices {
			choice := &field.Choices[ci]
			cprefix := prefix + "choices." + choice.Value + "."
			put(cprefix+"label", choice.DisplayLabel())
			if choice.Terms != nil {
				for i, alt := range choice.Terms.Alternatives {
					put(fmt.Sprintf("%sterms.%d", cprefix, i), alt)
				}
			}
		}
	}

	return table
}

// ApplyStringTable rewrites a form's translatable strings in place from the
// table. Keys missing from the table keep the authored string, so partial
// translations degrade to the source locale instead of blanking out.
func ApplyStringTable(form *models.FormSpec, table *StringTable) {
	if table == nil || len(table.Strings) == 0 {
		return
	}
	get := func(key string) (string, bool) {
		v, ok := table.Strings[key]
		return v, ok && v != ""
	}

	if v, ok := get("title"); ok {
		form.Name = v
	}
	if v, ok := get("description"); ok {
		form.Summary = v
	}
	if form.Prompt != nil {
		for i := range form.Prompt.Patterns {
			if v, ok := get(fmt.Sprintf("prompt.patterns.%d", i)); ok {
				form.Prompt.Patterns[i] = v
			}
		}
	}

	for fi := range form.Fields {
		field := &form.Fields[fi]
		prefix := "fields." + field.Name + "."

		if v, ok := get(prefix + "description"); ok {
			field.Description = v
		}
		if field.Prompt != nil {
			for i := range field.Prompt.Patterns {
				if v, ok := get(fmt.Sprintf("%sprompt.patterns.%d", prefix, i)); ok {
					field.Prompt.Patterns[i] = v
				}
			}
		}
		if field.Terms != nil {
			for i := range field.Terms.Alternatives {
				if v, ok := get(fmt.Sprintf("%sterms.%d", prefix, i)); ok {
					field.Terms.Alternatives[i] = v
				}
			}
		}
		for ci := range field.Choices {
			choice := &field.Choices[ci]
			cprefix := prefix + "choices." + choice.Value + "."
			if v, ok := get(cprefix + "label"); ok {
				choice.Label = v
			}
			if choice.Terms != nil {
				for i := range choice.Terms.Alternatives {
					if v, ok := get(fmt.Sprintf("%sterms.%d", cprefix, i)); ok {
						choice.Terms.Alternatives[i] = v
					}
				}
			}
		}
	}

	form.Locale = table.Locale
}

// MissingStrings returns the translatable keys of a form that the table
// does not cover, sorted for stable reporting.
func MissingStrings(form *models.FormSpec, table *StringTable) []string {
	reference := BuildStringTable(form, "")

	var missing []string
	for key := range reference.Strings {
		if table == nil {
			missing = append(missing, key)
			continue
		}
		if v, ok := table.Strings[key]; !ok || v == "" {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}
