// Package cli implements the formloom command line: library management,
// prompt previews, choice rendering, term inspection, localization and
// schema import. The interactive workbench lives in internal/ui; this
// package covers everything scriptable.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dpshade/formloom/internal/clipboard"
	apperrors "github.com/dpshade/formloom/internal/errors"
	"github.com/dpshade/formloom/internal/importer"
	"github.com/dpshade/formloom/internal/models"
	"github.com/dpshade/formloom/internal/service"
	"github.com/dpshade/formloom/internal/validation"
)

// Version is the release string printed by the version command. Set at
// build time via -ldflags "-X github.com/dpshade/formloom/internal/cli.Version=...".
var Version = "0.1.0"

// UsageError marks a mistake on the command line itself: an unknown
// command, a missing argument, a bad flag value. main exits with a
// distinct code for these so scripts can tell misuse from operational
// failures.
type UsageError struct {
	message string
}

func (e *UsageError) Error() string {
	return e.message
}

func usageErrorf(format string, args ...interface{}) error {
	return &UsageError{message: fmt.Sprintf(format, args...)}
}

// IsUsageError reports whether err came from bad command-line usage.
func IsUsageError(err error) bool {
	var usage *UsageError
	return errors.As(err, &usage)
}

// CLI handles command-line operations
type CLI struct {
	service      *service.Service
	errorHandler *apperrors.CLIErrorHandler
}

// NewCLI creates a new CLI instance
func NewCLI(svc *service.Service) *CLI {
	return &CLI{
		service:      svc,
		errorHandler: apperrors.NewCLIErrorHandler(os.Getenv("VERBOSE") == "true"),
	}
}

// ExecuteCommand routes a CLI command to its handler. Application errors
// come back formatted for terminal display; usage errors keep their type
// so main can map them to a separate exit code.
func (c *CLI) ExecuteCommand(args []string) error {
	if len(args) == 0 {
		return usageErrorf("no command specified; run 'formloom help' for usage")
	}

	err := c.runCommand(args[0], args[1:])
	if err != nil && apperrors.IsAppError(err) {
		return c.errorHandler.HandleError(err)
	}
	return err
}

func (c *CLI) runCommand(command string, args []string) error {
	switch command {
	case "list", "ls":
		return c.listForms(args)
	case "search":
		return c.searchForms(args)
	case "show", "get":
		return c.showForm(args)
	case "preview":
		return c.previewPrompt(args)
	case "choices":
		return c.showChoices(args)
	case "terms":
		return c.showTerms(args)
	case "validate":
		return c.validateForms(args)
	case "create", "new":
		return c.createForm(args)
	case "edit":
		return c.editForm(args)
	case "delete", "rm":
		return c.deleteForm(args)
	case "tags":
		return c.listTags()
	case "locale":
		return c.handleLocale(args)
	case "import":
		return c.handleImport(args)
	case "git":
		return c.handleGit(args)
	case "version":
		fmt.Printf("formloom version %s\n", Version)
		return nil
	case "help":
		if len(args) > 0 {
			c.printCommandHelp(args[0])
		} else {
			c.printUsage()
		}
		return nil
	default:
		return usageErrorf("unknown command: %s\nRun 'formloom help' for usage", command)
	}
}

// listForms handles the 'list' command
func (c *CLI) listForms(args []string) error {
	var format string
	var tag string
	var archived bool

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--format", "-f":
			if i+1 < len(args) {
				format = args[i+1]
				i++
			}
		case "--json":
			format = "json"
		case "--tag", "-t":
			if i+1 < len(args) {
				tag = args[i+1]
				i++
			}
		case "--archived", "-a":
			archived = true
		}
	}

	var forms []*models.FormSpec
	var err error
	switch {
	case archived:
		forms, err = c.service.ListArchivedForms()
	case tag != "":
		forms, err = c.service.FilterFormsByTag(tag)
	default:
		forms, err = c.service.ListForms()
	}
	if err != nil {
		return fmt.Errorf("failed to list forms: %w", err)
	}

	if len(forms) == 0 {
		if archived {
			fmt.Println("No archived forms found")
		} else {
			fmt.Println("No forms found")
		}
		return nil
	}

	return c.formatOutput(forms, format)
}

// searchForms handles the 'search' command
func (c *CLI) searchForms(args []string) error {
	var format string
	var queryParts []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--format", "-f":
			if i+1 < len(args) {
				format = args[i+1]
				i++
			}
		case "--json":
			format = "json"
		default:
			queryParts = append(queryParts, args[i])
		}
	}

	if len(queryParts) == 0 {
		return usageErrorf("usage: formloom search <query>")
	}
	query := strings.Join(queryParts, " ")

	forms, err := c.service.SearchForms(query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(forms) == 0 {
		fmt.Printf("No forms match '%s'\n", query)
		return nil
	}

	return c.formatOutput(forms, format)
}

// showForm handles the 'show' command for a form or a single field
func (c *CLI) showForm(args []string) error {
	var jsonOut bool
	var showGlobal bool
	var positional []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--json":
			jsonOut = true
		case "--global", "-g":
			showGlobal = true
		default:
			positional = append(positional, args[i])
		}
	}

	if showGlobal {
		global := c.service.GlobalPrompt()
		if jsonOut {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(global)
		}
		fmt.Println("Global prompt record (top of the default cascade):")
		printResolvedRecord(global)
		return nil
	}

	if len(positional) == 0 {
		return usageErrorf("usage: formloom show <form> [field]")
	}

	form, err := c.service.GetForm(positional[0])
	if err != nil {
		return err
	}

	if len(positional) > 1 {
		return c.showField(form, positional[1], jsonOut)
	}

	if jsonOut {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(form)
	}

	c.printFormDetail(form)
	return nil
}

// showField prints one field along with its fully resolved prompt record,
// the same dump the workbench field view renders.
func (c *CLI) showField(form *models.FormSpec, fieldName string, jsonOut bool) error {
	field := form.Field(fieldName)
	if field == nil {
		return fmt.Errorf("form '%s' has no field '%s'", form.ID, fieldName)
	}

	resolved, err := c.service.ResolvedForm(form.ID)
	if err != nil {
		return err
	}
	resolvedField := resolved.Field(fieldName)

	if jsonOut {
		out := struct {
			Field    *models.Field          `json:"field"`
			Resolved *models.TemplateConfig `json:"resolved_prompt"`
		}{field, resolvedField.Prompt}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	c.printFieldDetail(form, field, resolvedField.Prompt)
	return nil
}

// previewPrompt handles the 'preview' command
func (c *CLI) previewPrompt(args []string) error {
	var values []string
	var locale string
	var copyText bool
	count := 1
	var positional []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--value", "-v":
			if i+1 < len(args) {
				values = append(values, args[i+1])
				i++
			}
		case "--count", "-n":
			if i+1 < len(args) {
				n, err := strconv.Atoi(args[i+1])
				if err != nil || n < 1 {
					return usageErrorf("--count expects a positive number, got '%s'", args[i+1])
				}
				count = n
				i++
			}
		case "--locale", "-l":
			if i+1 < len(args) {
				locale = args[i+1]
				i++
			}
		case "--copy", "-c":
			copyText = true
		default:
			positional = append(positional, args[i])
		}
	}

	if len(positional) < 2 {
		return usageErrorf("usage: formloom preview <form> <field> [--value v]... [--count n] [--locale lang] [--copy]")
	}

	prompts, err := c.service.PreviewPrompt(positional[0], positional[1], service.PreviewOptions{
		Values: values,
		Locale: locale,
		Count:  count,
	})
	if err != nil {
		return err
	}

	for i, prompt := range prompts {
		if len(prompts) > 1 {
			fmt.Printf("%d. %s\n", i+1, prompt.Text)
		} else {
			fmt.Println(prompt.Text)
		}
		// Widget styles carry the choices outside the prompt text.
		if len(prompt.Choices) > 0 {
			fmt.Printf("   choices: %s\n", strings.Join(prompt.Choices, ", "))
		}
	}

	if copyText && len(prompts) > 0 {
		c.copyToClipboard(prompts[0].Text)
	}
	return nil
}

// showChoices handles the 'choices' command
func (c *CLI) showChoices(args []string) error {
	var style string
	var copyText bool
	var positional []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--style", "-s":
			if i+1 < len(args) {
				style = args[i+1]
				i++
			}
		case "--copy", "-c":
			copyText = true
		default:
			positional = append(positional, args[i])
		}
	}

	if len(positional) < 2 {
		return usageErrorf("usage: formloom choices <form> <field> [--style s]")
	}

	choices, err := c.service.RenderFieldChoices(positional[0], positional[1], style)
	if err != nil {
		return err
	}

	text := choices.Text
	if text == "" {
		// Widget styles hand the labels to the client instead of
		// rendering text; print one per line.
		text = strings.Join(choices.Labels, "\n")
	}
	fmt.Println(text)

	if copyText {
		c.copyToClipboard(text)
	}
	return nil
}

// showTerms handles the 'terms' command
func (c *CLI) showTerms(args []string) error {
	var testInput string
	var positional []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--test":
			if i+1 < len(args) {
				testInput = args[i+1]
				i++
			}
		default:
			positional = append(positional, args[i])
		}
	}

	if len(positional) < 2 {
		return usageErrorf("usage: formloom terms <form> <field> [--test input]")
	}
	formID, fieldName := positional[0], positional[1]

	groups, err := c.service.FieldTerms(formID, fieldName)
	if err != nil {
		return err
	}

	if len(groups) == 0 {
		fmt.Printf("Field '%s' declares no terms\n", fieldName)
	}
	for _, group := range groups {
		if strings.EqualFold(group.Owner, fieldName) {
			fmt.Printf("Field terms (%s):\n", group.Owner)
		} else {
			fmt.Printf("Choice terms (%s):\n", group.Owner)
		}
		for _, pattern := range group.Patterns {
			fmt.Printf("  %s\n", pattern)
		}
	}

	if testInput == "" {
		return nil
	}

	matches, err := c.service.TestTerms(formID, fieldName, testInput)
	if err != nil {
		return err
	}

	fmt.Printf("\nTest input: %q\n", testInput)
	if len(matches) == 0 {
		fmt.Println("No patterns matched")
		return nil
	}
	for _, match := range matches {
		fmt.Printf("  %s matched %s\n", match.Owner, match.Pattern)
	}
	return nil
}

// validateForms handles the 'validate' command for one form or the whole
// library. Validation failures are operational errors, not usage errors.
func (c *CLI) validateForms(args []string) error {
	if len(args) > 0 && !strings.HasPrefix(args[0], "--") {
		result, err := c.service.ValidateForm(args[0])
		if err != nil {
			return err
		}
		c.printValidationResult(args[0], result)
		if !result.Valid {
			return fmt.Errorf("form '%s' has validation errors", args[0])
		}
		return nil
	}

	results, err := c.service.ValidateAll()
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	invalid := 0
	for _, id := range ids {
		c.printValidationResult(id, results[id])
		if !results[id].Valid {
			invalid++
		}
	}

	fmt.Printf("\nChecked %d forms\n", len(ids))
	if invalid > 0 {
		return fmt.Errorf("%d of %d forms have validation errors", invalid, len(ids))
	}
	return nil
}

func (c *CLI) printValidationResult(id string, result *validation.ValidationResult) {
	if result.Valid {
		fmt.Printf("✓ %s\n", id)
	} else {
		fmt.Printf("✗ %s\n", id)
	}
	for _, issue := range result.Errors {
		fmt.Printf("    error [%s] %s\n", issue.Code, issue.Message)
	}
	for _, issue := range result.Warnings {
		fmt.Printf("    warning: %s\n", issue.Message)
	}
}

// createForm handles the 'create' command
func (c *CLI) createForm(args []string) error {
	var id, title, summary, content string
	var tags []string
	var fieldSpecs []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--id":
			if i+1 < len(args) {
				id = args[i+1]
				i++
			}
		case "--title", "-t":
			if i+1 < len(args) {
				title = args[i+1]
				i++
			}
		case "--summary", "-s":
			if i+1 < len(args) {
				summary = args[i+1]
				i++
			}
		case "--tags":
			if i+1 < len(args) {
				tags = splitTags(args[i+1])
				i++
			}
		case "--field":
			if i+1 < len(args) {
				fieldSpecs = append(fieldSpecs, args[i+1])
				i++
			}
		case "--content":
			if i+1 < len(args) {
				content = args[i+1]
				i++
			}
		default:
			if id == "" && !strings.HasPrefix(args[i], "--") {
				id = args[i]
			}
		}
	}

	if id == "" {
		return usageErrorf("usage: formloom create <id> --title <title> [--summary s] [--tags a,b] [--field name:type:description]...")
	}
	if title == "" {
		title = id
	}

	fields, err := parseFieldSpecs(fieldSpecs)
	if err != nil {
		return usageErrorf("%v", err)
	}
	if len(fields) == 0 {
		// A form needs at least one field; scaffold a starter the
		// author can rename in the editor.
		fields = []models.Field{{
			Name:        "answer",
			Type:        "string",
			Description: "your answer",
		}}
	}

	form := &models.FormSpec{
		ID:      id,
		Name:    title,
		Summary: summary,
		Tags:    tags,
		Fields:  fields,
		Content: content,
	}

	if err := c.service.CreateForm(form); err != nil {
		return err
	}

	fmt.Printf("Created form '%s' (version %s)\n", form.ID, form.Version)
	return nil
}

// editForm handles the 'edit' command for form metadata
func (c *CLI) editForm(args []string) error {
	if len(args) == 0 {
		return usageErrorf("usage: formloom edit <id> [--title t] [--summary s] [--tags a,b] [--add-tag t] [--remove-tag t]")
	}

	form, err := c.service.GetForm(args[0])
	if err != nil {
		return err
	}

	// Edit a clone so the cached form stays pristine until UpdateForm
	// archives the old version and reloads.
	form = form.Clone()

	changed := false
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "--title", "-t":
			if i+1 < len(args) {
				form.Name = args[i+1]
				changed = true
				i++
			}
		case "--summary", "-s":
			if i+1 < len(args) {
				form.Summary = args[i+1]
				changed = true
				i++
			}
		case "--tags":
			if i+1 < len(args) {
				form.Tags = splitTags(args[i+1])
				changed = true
				i++
			}
		case "--add-tag":
			if i+1 < len(args) {
				form.Tags = addTag(form.Tags, args[i+1])
				changed = true
				i++
			}
		case "--remove-tag":
			if i+1 < len(args) {
				form.Tags = removeTag(form.Tags, args[i+1])
				changed = true
				i++
			}
		}
	}

	if !changed {
		return usageErrorf("nothing to change; pass --title, --summary, --tags, --add-tag or --remove-tag")
	}

	if err := c.service.UpdateForm(form); err != nil {
		return err
	}

	updated, err := c.service.GetForm(form.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Updated form '%s' (now version %s)\n", updated.ID, updated.Version)
	return nil
}

// deleteForm handles the 'delete' command
func (c *CLI) deleteForm(args []string) error {
	if len(args) == 0 {
		return usageErrorf("usage: formloom delete <id> [--force]")
	}

	id := args[0]
	force := false
	for _, arg := range args[1:] {
		if arg == "--force" || arg == "-f" {
			force = true
		}
	}

	form, err := c.service.GetForm(id)
	if err != nil {
		return err
	}

	if !force {
		fmt.Printf("Are you sure you want to delete form '%s'? It will be moved to the archive. (y/N): ", form.Name)
		var response string
		fmt.Scanln(&response)
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Println("Deletion cancelled")
			return nil
		}
	}

	if err := c.service.DeleteForm(id); err != nil {
		return err
	}

	fmt.Printf("Deleted form '%s' (archived)\n", id)
	return nil
}

// listTags handles the 'tags' command
func (c *CLI) listTags() error {
	tags, err := c.service.GetAllTags()
	if err != nil {
		return fmt.Errorf("failed to list tags: %w", err)
	}

	if len(tags) == 0 {
		fmt.Println("No tags found")
		return nil
	}

	for _, tag := range tags {
		fmt.Println(tag)
	}
	return nil
}

// handleLocale dispatches the 'locale' subcommands
func (c *CLI) handleLocale(args []string) error {
	if len(args) == 0 {
		return usageErrorf("usage: formloom locale <export|import|missing|list> ...")
	}

	switch args[0] {
	case "export":
		if len(args) < 3 {
			return usageErrorf("usage: formloom locale export <form> <locale>")
		}
		path, err := c.service.ExportStrings(args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("Exported string table to %s\n", path)
		return nil

	case "import":
		if len(args) < 2 {
			return usageErrorf("usage: formloom locale import <file>")
		}
		table, err := c.service.ImportStrings(args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d strings for form '%s' (locale %s)\n",
			len(table.Strings), table.Form, table.Locale)
		return nil

	case "missing":
		if len(args) < 3 {
			return usageErrorf("usage: formloom locale missing <form> <locale>")
		}
		missing, err := c.service.MissingStrings(args[1], args[2])
		if err != nil {
			return err
		}
		if len(missing) == 0 {
			fmt.Printf("Locale '%s' covers every string of form '%s'\n", args[2], args[1])
			return nil
		}
		fmt.Printf("%d strings missing from locale '%s':\n", len(missing), args[2])
		for _, key := range missing {
			fmt.Printf("  %s\n", key)
		}
		return nil

	case "list":
		if len(args) > 1 {
			tables, err := c.service.ListLocaleTables(args[1])
			if err != nil {
				return err
			}
			if len(tables) == 0 {
				fmt.Printf("No string tables for locale '%s'\n", args[1])
				return nil
			}
			for _, id := range tables {
				fmt.Println(id)
			}
			return nil
		}
		locales, err := c.service.ListLocales()
		if err != nil {
			return err
		}
		fmt.Printf("Library locale: %s\n", c.service.Locale())
		if len(locales) == 0 {
			fmt.Println("No translation tables yet")
			return nil
		}
		fmt.Println("Translated locales:")
		for _, locale := range locales {
			fmt.Printf("  %s\n", locale)
		}
		return nil

	default:
		return usageErrorf("unknown locale subcommand: %s", args[0])
	}
}

// handleImport handles the 'import' command for JSON Schema files
func (c *CLI) handleImport(args []string) error {
	var options importer.Options
	var paths []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--dry-run", "--preview":
			options.DryRun = true
		case "--overwrite":
			options.Overwrite = true
		default:
			paths = append(paths, args[i])
		}
	}

	if len(paths) == 0 {
		return usageErrorf("usage: formloom import <schema.json> [schema.json...] [--dry-run] [--overwrite]")
	}

	report, err := c.service.ImportSchemas(paths, options)
	if err != nil {
		return err
	}

	if options.DryRun {
		fmt.Println("Import preview (nothing was written):")
	} else {
		fmt.Println("Import complete:")
	}

	fmt.Printf("  Forms: %d\n", len(report.Forms))
	for _, form := range report.Forms {
		fmt.Printf("    - %s (%s, %d fields)\n", form.Name, form.ID, len(form.Fields))
	}
	if len(report.Skipped) > 0 {
		fmt.Printf("  Skipped (already exist): %s\n", strings.Join(report.Skipped, ", "))
		if !options.Overwrite {
			fmt.Println("  Re-run with --overwrite to replace them")
		}
	}
	if len(report.Errors) > 0 {
		fmt.Printf("  Errors: %d\n", len(report.Errors))
		for _, importErr := range report.Errors {
			fmt.Printf("    - %v\n", importErr)
		}
	}

	if options.DryRun {
		fmt.Println("\nRun the same command without --dry-run to import these forms")
	}
	return nil
}

// handleGit handles git synchronization commands
func (c *CLI) handleGit(args []string) error {
	if len(args) == 0 {
		return usageErrorf("usage: formloom git <setup|status|sync|pull>")
	}

	switch args[0] {
	case "setup":
		if len(args) < 2 {
			return usageErrorf(`usage: formloom git setup <repository-url>

Examples:
  formloom git setup git@github.com:user/formloom-library.git
  formloom git setup https://github.com/user/formloom-library.git`)
		}
		return c.service.SetupGitRepository(args[1])

	case "status":
		status, err := c.service.GetGitSyncStatus()
		if err != nil {
			return err
		}
		fmt.Println(status)
		return nil

	case "sync":
		if !c.service.IsGitSyncEnabled() {
			return fmt.Errorf("git sync is not enabled; run 'formloom git setup <url>' first")
		}
		if err := c.service.SyncChanges("Manual sync from CLI"); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		fmt.Println("Library synced")
		return nil

	case "pull":
		if !c.service.IsGitSyncEnabled() {
			return fmt.Errorf("git sync is not enabled; run 'formloom git setup <url>' first")
		}
		if err := c.service.PullGitChanges(); err != nil {
			return fmt.Errorf("pull failed: %w", err)
		}
		fmt.Println("Pulled latest changes")
		return nil

	default:
		return usageErrorf("unknown git subcommand: %s", args[0])
	}
}

// copyToClipboard copies text and reports the outcome without failing the
// command; a missing clipboard utility is not worth a bad exit code.
func (c *CLI) copyToClipboard(text string) {
	message, err := clipboard.CopyWithFallback(text)
	if err != nil {
		fmt.Printf("Warning: %v\n", err)
		return
	}
	fmt.Println(message)
}

// formatOutput renders a form list in the requested format
func (c *CLI) formatOutput(forms []*models.FormSpec, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(forms)

	case "ids":
		for _, form := range forms {
			fmt.Println(form.ID)
		}

	case "table":
		fmt.Printf("%-20s %-30s %-10s %-12s\n", "ID", "TITLE", "VERSION", "UPDATED")
		fmt.Println(strings.Repeat("-", 76))
		for _, form := range forms {
			title := form.Name
			if len(title) > 28 {
				title = title[:25] + "..."
			}
			fmt.Printf("%-20s %-30s %-10s %-12s\n",
				form.ID, title, form.Version, form.UpdatedAt.Format("2006-01-02"))
		}

	default:
		for _, form := range forms {
			fmt.Printf("%s - %s\n", form.ID, form.Name)
			if form.Summary != "" {
				fmt.Printf("  %s\n", form.Summary)
			}
			details := fmt.Sprintf("  %d fields", len(form.Fields))
			if len(form.Tags) > 0 {
				details += " • Tags: " + strings.Join(form.Tags, ", ")
			}
			fmt.Println(details)
			fmt.Println()
		}
	}
	return nil
}

func (c *CLI) printFormDetail(form *models.FormSpec) {
	fmt.Printf("ID: %s\n", form.ID)
	fmt.Printf("Title: %s\n", form.Name)
	fmt.Printf("Version: %s\n", form.Version)
	if form.Summary != "" {
		fmt.Printf("Summary: %s\n", form.Summary)
	}
	if len(form.Tags) > 0 {
		fmt.Printf("Tags: %s\n", strings.Join(form.Tags, ", "))
	}
	if form.Locale != "" {
		fmt.Printf("Locale: %s\n", form.Locale)
	}
	fmt.Printf("Created: %s\n", form.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Updated: %s\n", form.UpdatedAt.Format("2006-01-02 15:04:05"))

	fmt.Println("\nFields:")
	for i := range form.Fields {
		field := &form.Fields[i]
		line := fmt.Sprintf("  %-16s %-8s %s", field.Name, fieldType(field), field.PromptDescription())
		if len(field.Choices) > 0 {
			line += fmt.Sprintf(" (%d choices)", len(field.Choices))
		}
		fmt.Println(line)
	}

	if form.Content != "" {
		fmt.Println("\nNotes:")
		fmt.Println(form.Content)
	}
}

func (c *CLI) printFieldDetail(form *models.FormSpec, field *models.Field, resolved *models.TemplateConfig) {
	fmt.Printf("Field: %s (form '%s')\n", field.Name, form.ID)
	fmt.Printf("Type: %s\n", fieldType(field))
	if field.Description != "" {
		fmt.Printf("Description: %s\n", field.Description)
	}
	if field.Optional {
		fmt.Println("Optional: yes")
	}
	if field.Range != nil {
		fmt.Printf("Range: %s\n", field.Range.Describe())
	}
	if field.Pattern != "" {
		fmt.Printf("Pattern: %s\n", field.Pattern)
	}
	if !field.Terms.Empty() {
		fmt.Printf("Terms: %s (max phrase %d)\n",
			strings.Join(field.Terms.Alternatives, ", "), field.Terms.MaxPhrase)
	}
	if len(field.Choices) > 0 {
		fmt.Println("Choices:")
		for _, choice := range field.Choices {
			fmt.Printf("  %-12s %s\n", choice.Value, choice.DisplayLabel())
		}
	}

	fmt.Println("\nResolved prompt record:")
	printResolvedRecord(resolved)
}

// printResolvedRecord dumps a fully cascaded prompt record, every option
// bound to its effective value.
func printResolvedRecord(record *models.TemplateConfig) {
	if record == nil {
		fmt.Println("  (none)")
		return
	}
	fmt.Println("  Patterns:")
	for i, pattern := range record.Patterns {
		fmt.Printf("    %d. %s\n", i+1, pattern)
	}
	fmt.Printf("  Choice style: %s\n", record.ChoiceStyle)
	fmt.Printf("  Field case: %s\n", record.FieldCase)
	fmt.Printf("  Value case: %s\n", record.ValueCase)
	fmt.Printf("  Choice case: %s\n", record.ChoiceCase)
	fmt.Printf("  Feedback: %s\n", record.Feedback)
	fmt.Printf("  Separator: %q\n", deref(record.Separator))
	fmt.Printf("  Last separator: %q\n", deref(record.LastSeparator))
	fmt.Printf("  Choice separator: %q\n", deref(record.ChoiceSeparator))
	fmt.Printf("  Choice last separator: %q\n", deref(record.ChoiceLastSeparator))
	fmt.Printf("  Choice format: %q\n", deref(record.ChoiceFormat))
	fmt.Printf("  Allow default: %v\n", derefBool(record.AllowDefault))
	fmt.Printf("  Choice parens: %v\n", derefBool(record.ChoiceParens))
	fmt.Printf("  Numbers select choices: %v\n", record.AllowNumbers())
}

// fieldType names a field's type, defaulting the empty string to free text.
func fieldType(field *models.Field) string {
	if field.Type == "" {
		return "string"
	}
	return field.Type
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefBool(b *bool) bool {
	return b != nil && *b
}

// parseFieldSpecs turns name:type:description triples into field
// declarations. Type and description are optional.
func parseFieldSpecs(specs []string) ([]models.Field, error) {
	fields := make([]models.Field, 0, len(specs))
	for _, spec := range specs {
		parts := strings.SplitN(spec, ":", 3)
		if parts[0] == "" {
			return nil, fmt.Errorf("field spec '%s' is missing a name", spec)
		}
		field := models.Field{Name: parts[0]}
		if len(parts) > 1 {
			field.Type = parts[1]
		}
		if len(parts) > 2 {
			field.Description = parts[2]
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func splitTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func addTag(tags []string, tag string) []string {
	for _, existing := range tags {
		if strings.EqualFold(existing, tag) {
			return tags
		}
	}
	return append(tags, tag)
}

func removeTag(tags []string, tag string) []string {
	out := make([]string, 0, len(tags))
	for _, existing := range tags {
		if !strings.EqualFold(existing, tag) {
			out = append(out, existing)
		}
	}
	return out
}

// printUsage shows the top-level command summary
func (c *CLI) printUsage() {
	fmt.Println(`Usage: formloom <command> [arguments]

Library commands:
  list, ls [--tag t] [--json] [--archived]   List forms in the library
  search <query>                             Fuzzy search forms by title, summary, ID and tags
  show <form> [field] [--json]               Show a form, or one field with its resolved record
  create <id> --title <t> [options]          Create a new form document
  edit <id> [options]                        Edit a form's metadata
  delete, rm <id> [--force]                  Archive a form
  tags                                       List all tags in use
  validate [form]                            Check forms for configuration problems

Prompt commands:
  preview <form> <field> [options]           Render prompt variants for a field
  choices <form> <field> [--style s]         Render a field's choice list
  terms <form> <field> [--test input]        Show a field's term matcher patterns

Locale commands:
  locale export <form> <locale>              Write a string table for translation
  locale import <file>                       Install a translated string table
  locale missing <form> <locale>             List untranslated strings
  locale list [locale]                       List locales, or the tables of one locale

Other commands:
  import <schema.json>... [--dry-run]        Import forms from JSON Schema files
  git <setup|status|sync|pull>               Manage library synchronization
  version                                    Print the formloom version
  help [command]                             Show help for a command

Run 'formloom help <command>' for details on a command.
Run 'formloom' with no arguments to open the interactive workbench.`)
}

// printCommandHelp shows detailed help for a single command
func (c *CLI) printCommandHelp(command string) {
	switch command {
	case "list", "ls":
		fmt.Println(`Usage: formloom list [options]

List forms in the library.

Options:
  --tag, -t <tag>       Only forms carrying the tag
  --format, -f <fmt>    Output format: table, json, ids
  --json                Shorthand for --format json
  --archived, -a        List archived form versions instead

Examples:
  formloom list
  formloom list --tag onboarding
  formloom list --json`)

	case "search":
		fmt.Println(`Usage: formloom search <query> [--json]

Fuzzy search forms by title, summary, ID and tags. Queries match
subsequences, so 'pza' finds 'pizza'.

Examples:
  formloom search pizza
  formloom search feedback --json`)

	case "show", "get":
		fmt.Println(`Usage: formloom show <form> [field] [--json]
       formloom show --global

Show a form's definition. With a field name, show that field along
with its fully resolved prompt record: every template option bound to
its effective value after the field, form and global defaults cascade.
With --global, show the global record at the top of the cascade
(built-in defaults overlaid with config.yaml).

Examples:
  formloom show pizza
  formloom show pizza size
  formloom show pizza --json
  formloom show --global`)

	case "preview":
		fmt.Println(`Usage: formloom preview <form> <field> [options]

Render the prompt an end user would see for a field. Patterns are
drawn at random when a field declares several, so repeated runs can
differ; use --count to see the rotation.

Options:
  --value, -v <text>    Sample answer for the {} placeholder (repeatable)
  --count, -n <n>       Number of variants to render
  --locale, -l <lang>   Render against a locale's string table
  --copy, -c            Copy the first variant to the clipboard

Examples:
  formloom preview pizza size
  formloom preview pizza toppings --value mushrooms --value olives
  formloom preview pizza size --count 5
  formloom preview pizza size --locale de`)

	case "choices":
		fmt.Println(`Usage: formloom choices <form> <field> [--style s] [--copy]

Render a field's choice list in its resolved presentation style, or
override the style for this run. Widget styles (auto, buttons,
carousel) print one label per line.

Styles: inline, inline-no-paren, per-line, auto-text, auto, buttons, carousel

Examples:
  formloom choices pizza size
  formloom choices pizza size --style per-line`)

	case "terms":
		fmt.Println(`Usage: formloom terms <form> <field> [--test input]

Show the matcher patterns derived from a field's terms and from the
terms of its choices. With --test, run an input string against every
pattern and report which ones hit.

Examples:
  formloom terms pizza size
  formloom terms pizza size --test "give me the big one"`)

	case "validate":
		fmt.Println(`Usage: formloom validate [form]

Check one form, or every form in the library, for configuration
problems: missing fields, bad identifiers, unknown types, duplicate
choices, malformed ranges, patterns and term sets. Exits non-zero
when any form has errors.

Examples:
  formloom validate
  formloom validate pizza`)

	case "create", "new":
		fmt.Println(`Usage: formloom create <id> --title <title> [options]

Create a new form document in the library. Without --field flags the
form gets a single starter field to rename in the editor.

Options:
  --title, -t <title>          Display title
  --summary, -s <text>         One-line summary
  --tags <a,b,c>               Comma-separated tags
  --field <name:type:desc>     Add a field (repeatable); type and
                               description are optional
  --content <text>             Authoring notes for the document body

Examples:
  formloom create pizza --title "Pizza Order"
  formloom create pizza --title "Pizza Order" --field "size:choice:the size" --field comments`)

	case "edit":
		fmt.Println(`Usage: formloom edit <id> [options]

Edit a form's metadata. Saving bumps the patch version and archives
the previous version.

Options:
  --title, -t <title>    Replace the display title
  --summary, -s <text>   Replace the summary
  --tags <a,b,c>         Replace all tags
  --add-tag <tag>        Add one tag
  --remove-tag <tag>     Remove one tag

Examples:
  formloom edit pizza --title "Pizza Order v2"
  formloom edit pizza --add-tag seasonal`)

	case "delete", "rm":
		fmt.Println(`Usage: formloom delete <id> [--force]

Archive a form. The document moves to the archive directory and stops
appearing in listings; it is not destroyed.

Options:
  --force, -f    Skip the confirmation prompt

Examples:
  formloom delete pizza
  formloom rm pizza --force`)

	case "locale":
		fmt.Println(`Usage: formloom locale <subcommand>

Manage per-form string tables for localization.

Subcommands:
  export <form> <locale>    Write a YAML string table seeded with the
                            form's current strings, ready to translate
  import <file>             Install a translated string table
  missing <form> <locale>   List strings the locale does not cover yet
  list [locale]             List locales, or one locale's form tables

Examples:
  formloom locale export pizza de
  formloom locale import ~/pizza-de.yaml
  formloom locale missing pizza de`)

	case "import":
		fmt.Println(`Usage: formloom import <schema.json>... [options]

Import forms from JSON Schema files. Each schema's properties become
fields; enums become choices; minimum/maximum become ranges.

Options:
  --dry-run      Show what would be imported without writing
  --overwrite    Replace existing forms with the same ID

Examples:
  formloom import feedback.schema.json
  formloom import schemas/feedback.json schemas/survey.json --dry-run`)

	case "git":
		fmt.Println(`Usage: formloom git <subcommand>

Synchronize the library with a git repository.

Subcommands:
  setup <url>    Connect the library to a remote repository
  status         Show sync state (ahead/behind/clean)
  sync           Commit and push local changes now
  pull           Pull remote changes now

Examples:
  formloom git setup git@github.com:user/formloom-library.git
  formloom git status`)

	default:
		fmt.Printf("No detailed help for '%s'\n\n", command)
		c.printUsage()
	}
}
