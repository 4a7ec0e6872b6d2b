package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dpshade/formloom/internal/config"
	"github.com/dpshade/formloom/internal/git"
	"github.com/dpshade/formloom/internal/importer"
	"github.com/dpshade/formloom/internal/models"
	"github.com/dpshade/formloom/internal/renderer"
	"github.com/dpshade/formloom/internal/storage"
	"github.com/dpshade/formloom/internal/terms"
	"github.com/dpshade/formloom/internal/validation"
	"github.com/sahilm/fuzzy"
	"gopkg.in/yaml.v3"
)

// Service wires storage, configuration, validation and rendering together
// behind one facade shared by the CLI and the workbench.
type Service struct {
	storage   *storage.Storage
	config    *config.Manager
	gitSync   *git.GitSync
	validator *validation.Validator
	renderer  *renderer.Renderer

	forms    []*models.FormSpec          // cached forms for fast access
	resolved map[string]*models.FormSpec // cascade-resolved forms, by ID
}

// NewService creates a new service instance
func NewService() (*Service, error) {
	// Check for custom directory from environment
	rootPath := os.Getenv("FORMLOOM_DIR")
	store, err := storage.NewStorage(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	cfg, err := config.NewManager(store.GetBaseDir())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	gitSync := git.NewGitSync(store.GetBaseDir())

	svc := &Service{
		storage:   store,
		config:    cfg,
		gitSync:   gitSync,
		validator: validation.NewValidator(),
		renderer:  renderer.NewRenderer(nil),
		resolved:  make(map[string]*models.FormSpec),
	}

	// Initialize git sync in background to avoid blocking startup
	go func() {
		if err := gitSync.Initialize(); err != nil {
			// Git sync initialization failure is not fatal;
			// the service works without it
		}
	}()

	return svc, nil
}

// InitLibrary initializes a new form library
func (s *Service) InitLibrary() error {
	return s.storage.InitLibrary()
}

// BaseDir returns the library root directory.
func (s *Service) BaseDir() string {
	return s.storage.GetBaseDir()
}

// Locale returns the library's authoring locale.
func (s *Service) Locale() string {
	return s.config.Locale()
}

// GlobalPrompt returns the resolved global template record, the top of the
// default cascade. Every option is concrete.
func (s *Service) GlobalPrompt() *models.TemplateConfig {
	return s.config.GlobalPrompt()
}

// loadForms loads all forms into memory for fast access. Cascade resolutions
// are dropped alongside, so nothing stale survives a library change.
func (s *Service) loadForms() error {
	forms, err := s.storage.ListForms()
	if err != nil {
		return err
	}
	s.forms = forms
	s.resolved = make(map[string]*models.FormSpec)
	return nil
}

// ListForms returns all non-archived forms
func (s *Service) ListForms() ([]*models.FormSpec, error) {
	if len(s.forms) == 0 {
		if err := s.loadForms(); err != nil {
			return nil, err
		}
	}

	// Filter out archived forms
	var active []*models.FormSpec
	for _, form := range s.forms {
		if !s.isArchived(form) {
			active = append(active, form)
		}
	}
	return active, nil
}

// ListArchivedForms returns the forms sitting in the archive folder.
func (s *Service) ListArchivedForms() ([]*models.FormSpec, error) {
	return s.storage.ListArchivedForms()
}

// SearchForms searches forms by query string
func (s *Service) SearchForms(query string) ([]*models.FormSpec, error) {
	forms, err := s.ListForms()
	if err != nil {
		return nil, err
	}

	if query == "" {
		return forms, nil
	}

	// Create searchable strings for each form
	var searchStrings []string
	for _, f := range forms {
		searchStr := fmt.Sprintf("%s %s %s %s",
			f.Name,
			f.Summary,
			f.ID,
			strings.Join(f.Tags, " "),
		)
		searchStrings = append(searchStrings, searchStr)
	}

	// Perform fuzzy search
	matches := fuzzy.Find(query, searchStrings)

	// Build results from matches
	var results []*models.FormSpec
	for _, match := range matches {
		results = append(results, forms[match.Index])
	}

	return results, nil
}

// GetForm retrieves a form by ID
func (s *Service) GetForm(id string) (*models.FormSpec, error) {
	if len(s.forms) == 0 {
		if err := s.loadForms(); err != nil {
			return nil, err
		}
	}

	for _, form := range s.forms {
		if form.ID == id && !s.isArchived(form) {
			// Listing entries built from the metadata cache carry field
			// names only; reload the full document before handing it out.
			if form.Content == "" && form.FilePath != "" {
				return s.storage.LoadForm(form.FilePath)
			}
			return form, nil
		}
	}

	return nil, fmt.Errorf("form with ID '%s' not found", id)
}

// ResolvedForm returns the form with every template record fully resolved:
// field records inherit from the form record, the form record from the global
// one, and validation patterns are compiled. The result is cached and shared;
// treat it as read-only and route edits through the unresolved form.
func (s *Service) ResolvedForm(id string) (*models.FormSpec, error) {
	if form, ok := s.resolved[id]; ok {
		return form, nil
	}

	form, err := s.GetForm(id)
	if err != nil {
		return nil, err
	}

	resolved, err := s.resolveForm(form)
	if err != nil {
		return nil, err
	}

	s.resolved[id] = resolved
	return resolved, nil
}

// resolveForm validates a form and walks the default cascade over a clone of
// it. The input keeps its sentinels, so saving it later writes only what the
// author declared.
func (s *Service) resolveForm(form *models.FormSpec) (*models.FormSpec, error) {
	if result := s.validator.ValidateForm(form); !result.Valid {
		return nil, result.ToAppError()
	}

	resolved := form.Clone()
	if resolved.Prompt == nil {
		resolved.Prompt = &models.TemplateConfig{}
	}
	resolved.Prompt.ApplyDefaults(s.config.GlobalPrompt())

	for i := range resolved.Fields {
		field := &resolved.Fields[i]
		if field.Prompt == nil {
			field.Prompt = &models.TemplateConfig{}
		}
		field.Prompt.ApplyDefaults(resolved.Prompt)
		if err := field.CompilePattern(); err != nil {
			return nil, fmt.Errorf("form '%s': %w", form.ID, err)
		}
	}

	return resolved, nil
}

// PreviewOptions control a prompt preview.
type PreviewOptions struct {
	Values []string // sample answers substituted for the {} placeholder
	Locale string   // render against this locale's string table when set
	Count  int      // number of variants to render (minimum 1)
}

// PreviewPrompt renders one or more prompt variants for a field. Asking for
// several variants shows the pattern rotation an end user would see over the
// course of a conversation.
func (s *Service) PreviewPrompt(formID, fieldName string, opts PreviewOptions) ([]renderer.Prompt, error) {
	form, err := s.formForPreview(formID, opts.Locale)
	if err != nil {
		return nil, err
	}

	field := form.Field(fieldName)
	if field == nil {
		return nil, fmt.Errorf("form '%s' has no field '%s'", formID, fieldName)
	}

	count := opts.Count
	if count < 1 {
		count = 1
	}

	prompts := make([]renderer.Prompt, 0, count)
	for i := 0; i < count; i++ {
		prompt, err := s.renderer.RenderPrompt(field, field.Prompt, opts.Values)
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, prompt)
	}
	return prompts, nil
}

// formForPreview picks the cascade input: the cached resolved form, or a
// localized clone resolved on the fly.
func (s *Service) formForPreview(formID, locale string) (*models.FormSpec, error) {
	if locale == "" {
		return s.ResolvedForm(formID)
	}
	localized, err := s.LocalizedForm(formID, locale)
	if err != nil {
		return nil, err
	}
	return s.resolveForm(localized)
}

// RenderFieldChoices renders a field's choice list, optionally forcing a
// style ("inline", "per-line", ...) over the resolved one.
func (s *Service) RenderFieldChoices(formID, fieldName, styleOverride string) (renderer.ChoiceText, error) {
	form, err := s.ResolvedForm(formID)
	if err != nil {
		return renderer.ChoiceText{}, err
	}

	field := form.Field(fieldName)
	if field == nil {
		return renderer.ChoiceText{}, fmt.Errorf("form '%s' has no field '%s'", formID, fieldName)
	}

	cfg := field.Prompt
	if styleOverride != "" {
		style, err := models.ParseChoiceStyle(styleOverride)
		if err != nil {
			return renderer.ChoiceText{}, err
		}
		override := cfg.Clone()
		override.ChoiceStyle = style
		cfg = override
	}

	return renderer.RenderChoices(field.ChoiceLabels(), cfg)
}

// TermGroup pairs the owner of a term set (the field itself or one of its
// choices, by value) with the matcher patterns derived from it.
type TermGroup struct {
	Owner    string
	Patterns []string
}

// FieldTerms derives the matcher patterns of every term set a field carries:
// the field-level set first, then one group per choice that declares terms.
func (s *Service) FieldTerms(formID, fieldName string) ([]TermGroup, error) {
	form, err := s.ResolvedForm(formID)
	if err != nil {
		return nil, err
	}

	field := form.Field(fieldName)
	if field == nil {
		return nil, fmt.Errorf("form '%s' has no field '%s'", formID, fieldName)
	}

	var groups []TermGroup
	if !field.Terms.Empty() {
		patterns, err := terms.Patterns(*field.Terms)
		if err != nil {
			return nil, fmt.Errorf("terms of field '%s': %w", field.Name, err)
		}
		groups = append(groups, TermGroup{Owner: field.Name, Patterns: patterns})
	}
	for _, choice := range field.Choices {
		if choice.Terms.Empty() {
			continue
		}
		patterns, err := terms.Patterns(*choice.Terms)
		if err != nil {
			return nil, fmt.Errorf("terms of choice '%s': %w", choice.Value, err)
		}
		groups = append(groups, TermGroup{Owner: choice.Value, Patterns: patterns})
	}
	return groups, nil
}

// TermMatch records one matcher hit during term testing.
type TermMatch struct {
	Owner   string // field name or choice value that owns the matcher
	Pattern string // the pattern that matched
}

// TestTerms runs an input string against every compiled matcher of a field
// and reports which patterns hit. This is the engine behind the workbench
// term tester.
func (s *Service) TestTerms(formID, fieldName, input string) ([]TermMatch, error) {
	groups, err := s.FieldTerms(formID, fieldName)
	if err != nil {
		return nil, err
	}

	var matches []TermMatch
	for _, group := range groups {
		compiled, err := terms.Compile(group.Patterns)
		if err != nil {
			return nil, fmt.Errorf("terms of '%s': %w", group.Owner, err)
		}
		for _, idx := range terms.Match(compiled, input) {
			matches = append(matches, TermMatch{Owner: group.Owner, Pattern: group.Patterns[idx]})
		}
	}
	return matches, nil
}

// ValidateForm checks one form and returns the detailed result.
func (s *Service) ValidateForm(id string) (*validation.ValidationResult, error) {
	form, err := s.GetForm(id)
	if err != nil {
		return nil, err
	}
	return s.validator.ValidateForm(form), nil
}

// ValidateAll checks every active form, keyed by form ID.
func (s *Service) ValidateAll() (map[string]*validation.ValidationResult, error) {
	forms, err := s.ListForms()
	if err != nil {
		return nil, err
	}

	results := make(map[string]*validation.ValidationResult, len(forms))
	for _, form := range forms {
		full, err := s.GetForm(form.ID)
		if err != nil {
			return nil, err
		}
		results[full.ID] = s.validator.ValidateForm(full)
	}
	return results, nil
}

// CreateForm creates a new form
func (s *Service) CreateForm(form *models.FormSpec) error {
	if result := s.validator.ValidateForm(form); !result.Valid {
		return result.ToAppError()
	}

	if existing, _ := s.GetForm(form.ID); existing != nil {
		return fmt.Errorf("form with ID '%s' already exists", form.ID)
	}

	now := time.Now()
	form.CreatedAt = now
	form.UpdatedAt = now
	if form.Version == "" {
		form.Version = "1.0.0"
	}
	if form.Locale == "" {
		// A form that doesn't declare its language is authored in the
		// library's language.
		form.Locale = s.Locale()
	}
	if form.FilePath == "" {
		form.FilePath = filepath.Join("forms", form.ID+".md")
	}

	if err := s.storage.SaveForm(form); err != nil {
		return fmt.Errorf("failed to save form: %w", err)
	}

	// Sync to git if enabled
	if s.gitSync.IsEnabled() {
		if err := s.gitSync.SyncChanges(fmt.Sprintf("Add form: %s", form.Name)); err != nil {
			// Don't fail the operation if git sync fails, just log it
			fmt.Printf("Warning: Git sync failed after creating form: %v\n", err)
		}
	}

	// Refresh the forms cache
	return s.loadForms()
}

// UpdateForm updates an existing form, archiving the previous version and
// bumping the version number.
func (s *Service) UpdateForm(form *models.FormSpec) error {
	if result := s.validator.ValidateForm(form); !result.Valid {
		return result.ToAppError()
	}

	existing, err := s.GetForm(form.ID)
	if err != nil {
		return fmt.Errorf("cannot update form: %w", err)
	}

	// Keep the previous version readable in the archive before overwriting.
	if err := s.archiveFormVersion(existing); err != nil {
		return fmt.Errorf("failed to archive previous version: %w", err)
	}

	newVersion, err := s.incrementVersion(existing.Version)
	if err != nil {
		return fmt.Errorf("failed to increment version: %w", err)
	}
	form.Version = newVersion
	form.CreatedAt = existing.CreatedAt
	form.UpdatedAt = time.Now()
	form.FilePath = existing.FilePath

	if err := s.storage.SaveForm(form); err != nil {
		return fmt.Errorf("failed to save form: %w", err)
	}

	// Sync to git if enabled
	if s.gitSync.IsEnabled() {
		if err := s.gitSync.SyncChanges(fmt.Sprintf("Update form: %s", form.Name)); err != nil {
			// Don't fail the operation if git sync fails, just log it
			fmt.Printf("Warning: Git sync failed after updating form: %v\n", err)
		}
	}

	// Refresh the forms cache
	return s.loadForms()
}

// DeleteForm moves a form out of the active library into the archive folder.
// Nothing is unlinked; the archive keeps the document recoverable.
func (s *Service) DeleteForm(id string) error {
	form, err := s.GetForm(id)
	if err != nil {
		return err
	}

	if err := s.storage.ArchiveForm(form); err != nil {
		return fmt.Errorf("failed to archive form: %w", err)
	}

	// Sync to git if enabled
	if s.gitSync.IsEnabled() {
		if err := s.gitSync.SyncChanges(fmt.Sprintf("Archive form: %s", form.Name)); err != nil {
			// Don't fail the operation if git sync fails, just log it
			fmt.Printf("Warning: Git sync failed after archiving form: %v\n", err)
		}
	}

	// Refresh the forms cache
	return s.loadForms()
}

// FilterFormsByTag returns forms that have the specified tag
func (s *Service) FilterFormsByTag(tag string) ([]*models.FormSpec, error) {
	forms, err := s.ListForms()
	if err != nil {
		return nil, err
	}

	var filtered []*models.FormSpec
	for _, form := range forms {
		for _, t := range form.Tags {
			if t == tag {
				filtered = append(filtered, form)
				break
			}
		}
	}
	return filtered, nil
}

// GetAllTags returns all unique tags from all forms, sorted.
func (s *Service) GetAllTags() ([]string, error) {
	forms, err := s.ListForms()
	if err != nil {
		return nil, err
	}

	tagMap := make(map[string]bool)
	for _, form := range forms {
		for _, tag := range form.Tags {
			tagMap[tag] = true
		}
	}

	var tags []string
	for tag := range tagMap {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}

// Locale string table methods

// ExportStrings writes the translatable strings of a form to
// locales/<locale>/<form-id>.yaml and returns the absolute path.
func (s *Service) ExportStrings(formID, locale string) (string, error) {
	if locale == "" {
		return "", fmt.Errorf("locale cannot be empty")
	}

	form, err := s.GetForm(formID)
	if err != nil {
		return "", err
	}

	table := storage.BuildStringTable(form, locale)
	if err := s.storage.SaveStringTable(table); err != nil {
		return "", err
	}

	path := filepath.Join(s.storage.GetBaseDir(), storage.LocalePath(locale, form.ID))

	// Sync to git if enabled
	if s.gitSync.IsEnabled() {
		if err := s.gitSync.SyncChanges(fmt.Sprintf("Export %s strings for form: %s", locale, form.ID)); err != nil {
			fmt.Printf("Warning: Git sync failed after exporting strings: %v\n", err)
		}
	}

	return path, nil
}

// ImportStrings copies a translated string table file into the library. The
// file must declare which form and locale it belongs to.
func (s *Service) ImportStrings(path string) (*storage.StringTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read string table: %w", err)
	}

	var table storage.StringTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse string table: %w", err)
	}
	if table.Form == "" || table.Locale == "" {
		return nil, fmt.Errorf("string table %s must declare 'form' and 'locale'", path)
	}

	// The table must belong to a form we actually have.
	if _, err := s.GetForm(table.Form); err != nil {
		return nil, err
	}

	if err := s.storage.SaveStringTable(&table); err != nil {
		return nil, err
	}

	// Sync to git if enabled
	if s.gitSync.IsEnabled() {
		if err := s.gitSync.SyncChanges(fmt.Sprintf("Import %s strings for form: %s", table.Locale, table.Form)); err != nil {
			fmt.Printf("Warning: Git sync failed after importing strings: %v\n", err)
		}
	}

	return &table, nil
}

// LocalizedForm returns a copy of the form with its strings replaced from
// the locale's table. Keys the table does not cover keep the authored text.
func (s *Service) LocalizedForm(formID, locale string) (*models.FormSpec, error) {
	form, err := s.GetForm(formID)
	if err != nil {
		return nil, err
	}

	table, err := s.storage.LoadStringTable(locale, formID)
	if err != nil {
		return nil, fmt.Errorf("no '%s' string table for form '%s': %w", locale, formID, err)
	}

	localized := form.Clone()
	storage.ApplyStringTable(localized, table)
	return localized, nil
}

// MissingStrings lists the translatable keys of a form that the locale's
// table does not cover yet. A missing table means every key is missing.
func (s *Service) MissingStrings(formID, locale string) ([]string, error) {
	form, err := s.GetForm(formID)
	if err != nil {
		return nil, err
	}

	table, err := s.storage.LoadStringTable(locale, formID)
	if err != nil {
		table = nil
	}
	return storage.MissingStrings(form, table), nil
}

// ListLocales returns the locales with at least one string table.
func (s *Service) ListLocales() ([]string, error) {
	return s.storage.ListLocales()
}

// ListLocaleTables returns the form IDs translated into a locale.
func (s *Service) ListLocaleTables(locale string) ([]string, error) {
	return s.storage.ListLocaleTables(locale)
}

// JSON schema import

// ImportSchemas converts JSON schema files into form documents and saves
// them. Existing forms are skipped unless options.Overwrite is set; DryRun
// reports without writing anything.
func (s *Service) ImportSchemas(paths []string, options importer.Options) (*importer.Report, error) {
	imp := importer.NewSchemaImporter()

	report, err := imp.Import(paths, options)
	if err != nil {
		return nil, fmt.Errorf("failed to import schemas: %w", err)
	}

	if options.DryRun {
		return report, nil
	}

	for _, form := range report.Forms {
		if err := s.saveImportedForm(form, options, report); err != nil {
			report.Errors = append(report.Errors, err)
		}
	}

	// Refresh the forms cache after import
	if err := s.loadForms(); err != nil {
		report.Errors = append(report.Errors, fmt.Errorf("failed to refresh forms cache: %w", err))
	}

	// Sync to git if enabled and no errors occurred
	if s.gitSync.IsEnabled() && len(report.Errors) == 0 {
		commitMessage := fmt.Sprintf("Import %d forms from JSON schemas", len(report.Forms)-len(report.Skipped))
		if err := s.gitSync.SyncChanges(commitMessage); err != nil {
			// Don't fail the operation if git sync fails
			report.Errors = append(report.Errors, fmt.Errorf("git sync failed after import: %w", err))
		}
	}

	return report, nil
}

// saveImportedForm persists one imported form, resolving conflicts with
// existing library content.
func (s *Service) saveImportedForm(form *models.FormSpec, options importer.Options, report *importer.Report) error {
	if result := s.validator.ValidateForm(form); !result.Valid {
		return fmt.Errorf("imported form %s is invalid: %w", form.ID, result.ToAppError())
	}

	now := time.Now()
	existing, err := s.GetForm(form.ID)
	if err == nil {
		if !options.Overwrite {
			report.Skipped = append(report.Skipped, form.ID)
			return nil
		}

		// Archive the old version and bump, same as a manual update
		if err := s.archiveFormVersion(existing); err != nil {
			return fmt.Errorf("failed to archive old version of %s: %w", form.ID, err)
		}
		newVersion, err := s.incrementVersion(existing.Version)
		if err != nil {
			return err
		}
		form.Version = newVersion
		form.CreatedAt = existing.CreatedAt
		form.FilePath = existing.FilePath
	} else {
		form.Version = "1.0.0"
		form.CreatedAt = now
		form.FilePath = filepath.Join("forms", form.ID+".md")
	}
	form.UpdatedAt = now

	return s.storage.SaveForm(form)
}

// GitSync methods for the CLI and the workbench status bar

// IsGitSyncEnabled returns true if git sync is available and enabled
func (s *Service) IsGitSyncEnabled() bool {
	return s.gitSync.IsEnabled()
}

// GetGitSyncStatus returns the current git sync status
func (s *Service) GetGitSyncStatus() (string, error) {
	return s.gitSync.GetStatus()
}

// SetupGitRepository configures git sync with the provided repository URL
func (s *Service) SetupGitRepository(repoURL string) error {
	if err := s.gitSync.SetupRepository(repoURL); err != nil {
		return fmt.Errorf("failed to setup git repository: %w", err)
	}

	// If successful, start background sync
	if s.gitSync.IsEnabled() {
		go s.gitSync.BackgroundSync(context.Background(), 5*time.Minute)
	}

	// Perform initial sync
	if err := s.gitSync.SyncChanges("Initial sync after repository setup"); err != nil {
		// Non-fatal, just warn
		fmt.Printf("Warning: Initial sync failed: %v\n", err)
	}

	return nil
}

// SyncChanges manually triggers a git sync
func (s *Service) SyncChanges(message string) error {
	if !s.gitSync.IsEnabled() {
		return fmt.Errorf("git sync is not enabled")
	}
	return s.gitSync.SyncChanges(message)
}

// PullGitChanges manually pulls changes from the remote repository
func (s *Service) PullGitChanges() error {
	if !s.gitSync.IsEnabled() {
		return fmt.Errorf("git sync is not enabled")
	}

	if err := s.gitSync.PullChanges(); err != nil {
		return fmt.Errorf("failed to pull changes: %w", err)
	}

	// Reload forms cache after pulling changes
	return s.loadForms()
}

// PullGitChangesIfNeeded checks the remote and pulls only when it is ahead.
func (s *Service) PullGitChangesIfNeeded() (bool, error) {
	if !s.gitSync.IsEnabled() {
		return false, nil
	}

	// Fetch is lightweight; a failure just means we can't tell.
	if err := s.gitSync.FetchChanges(); err != nil {
		return false, nil
	}

	behind, err := s.gitSync.IsBehindRemote()
	if err != nil || !behind {
		return false, err
	}

	if err := s.PullGitChanges(); err != nil {
		return false, err
	}
	return true, nil
}

// archiveFormVersion writes a copy of the form into the archive folder with
// the version in the filename, so updates never destroy history.
func (s *Service) archiveFormVersion(form *models.FormSpec) error {
	archived := *form

	archiveFilename := fmt.Sprintf("%s-v%s.md", form.ID, form.Version)
	archived.FilePath = filepath.Join("archive", archiveFilename)

	return s.storage.SaveForm(&archived)
}

// incrementVersion increments a semantic version string
func (s *Service) incrementVersion(currentVersion string) (string, error) {
	if currentVersion == "" {
		return "1.0.0", nil
	}

	// Parse semantic version (e.g., "1.2.3")
	parts := strings.Split(currentVersion, ".")
	if len(parts) != 3 {
		// If not semantic version, treat as simple increment
		if version, err := strconv.Atoi(currentVersion); err == nil {
			return strconv.Itoa(version + 1), nil
		}
		return currentVersion + ".1", nil
	}

	// Increment patch version (third number)
	patch, err := strconv.Atoi(parts[2])
	if err != nil {
		return currentVersion + ".1", nil
	}

	return fmt.Sprintf("%s.%s.%d", parts[0], parts[1], patch+1), nil
}

// isArchived checks if a form is in the archive folder
func (s *Service) isArchived(form *models.FormSpec) bool {
	return strings.HasPrefix(form.FilePath, "archive/")
}
