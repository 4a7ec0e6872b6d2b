package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/dpshade/formloom/internal/models"
	"github.com/dpshade/formloom/internal/service"
)

// localize exports locale string tables for every form in the library (or
// a named subset) in one pass, and checks translation coverage. Exporting
// one form at a time through 'formloom locale export' gets tedious once a
// library grows past a handful of forms; this is the batch path a
// translation handoff actually uses.

func main() {
	var locale string
	var formIDs []string
	check := false
	force := false

	for _, arg := range os.Args[1:] {
		switch arg {
		case "--check", "-c":
			check = true
		case "--force", "-f":
			force = true
		case "--help", "-h":
			printUsage()
			return
		default:
			if locale == "" {
				locale = arg
			} else {
				formIDs = append(formIDs, arg)
			}
		}
	}

	if locale == "" {
		printUsage()
		os.Exit(2)
	}

	svc, err := service.NewService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing library: %v\n", err)
		os.Exit(1)
	}

	forms, err := collectForms(svc, formIDs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if len(forms) == 0 {
		fmt.Println("No forms in the library - nothing to do")
		return
	}

	sort.Slice(forms, func(i, j int) bool { return forms[i].ID < forms[j].ID })

	if check {
		os.Exit(checkCoverage(svc, forms, locale))
	}

	os.Exit(exportTables(svc, forms, locale, force))
}

// collectForms loads the named forms, or the whole library when none are
// named
func collectForms(svc *service.Service, formIDs []string) ([]*models.FormSpec, error) {
	if len(formIDs) == 0 {
		forms, err := svc.ListForms()
		if err != nil {
			return nil, fmt.Errorf("error listing forms: %w", err)
		}
		return forms, nil
	}

	var forms []*models.FormSpec
	for _, id := range formIDs {
		form, err := svc.GetForm(id)
		if err != nil {
			return nil, fmt.Errorf("error loading form '%s': %w", id, err)
		}
		forms = append(forms, form)
	}
	return forms, nil
}

// checkCoverage reports which translatable strings each form is missing in
// the locale. Returns 1 when any form has gaps so scripts can gate on it.
func checkCoverage(svc *service.Service, forms []*models.FormSpec, locale string) int {
	fmt.Printf("Checking '%s' coverage for %d forms\n\n", locale, len(forms))

	covered := 0
	for _, form := range forms {
		missing, err := svc.MissingStrings(form.ID, locale)
		if err != nil {
			fmt.Printf("  ✗ %s: %v\n", form.ID, err)
			continue
		}
		if len(missing) == 0 {
			fmt.Printf("  ✓ %s\n", form.ID)
			covered++
			continue
		}
		fmt.Printf("  ✗ %s: %d strings missing\n", form.ID, len(missing))
		for _, key := range missing {
			fmt.Printf("      %s\n", key)
		}
	}

	fmt.Printf("\n%d of %d forms fully covered\n", covered, len(forms))
	if covered < len(forms) {
		return 1
	}
	return 0
}

// exportTables writes one string table per form, skipping forms that
// already have a table for the locale unless force is set. Overwriting an
// existing table discards its translations, so that never happens silently.
func exportTables(svc *service.Service, forms []*models.FormSpec, locale string, force bool) int {
	existing := make(map[string]bool)
	if translated, err := svc.ListLocaleTables(locale); err == nil {
		for _, id := range translated {
			existing[id] = true
		}
	}

	fmt.Printf("Exporting '%s' string tables for %d forms\n\n", locale, len(forms))

	exported := 0
	skipped := 0
	failed := 0
	for _, form := range forms {
		if existing[form.ID] && !force {
			fmt.Printf("  - %s: table exists, skipping (use --force to overwrite)\n", form.ID)
			skipped++
			continue
		}

		path, err := svc.ExportStrings(form.ID, locale)
		if err != nil {
			fmt.Printf("  ✗ %s: %v\n", form.ID, err)
			failed++
			continue
		}
		fmt.Printf("  ✓ %s -> %s\n", form.ID, path)
		exported++
	}

	fmt.Printf("\nExported %d string tables", exported)
	if skipped > 0 {
		fmt.Printf(", skipped %d", skipped)
	}
	if failed > 0 {
		fmt.Printf(", %d failed", failed)
	}
	fmt.Println()

	if exported > 0 && !svc.IsGitSyncEnabled() {
		fmt.Println("Tables written locally; enable git sync to share them across machines.")
	}

	if failed > 0 {
		return 1
	}
	return 0
}

func printUsage() {
	fmt.Println(`localize - batch locale string table export for formloom

USAGE:
    localize <locale> [form-id ...]     Export string tables (all forms by default)
    localize <locale> --check           Report translation coverage, write nothing
    localize <locale> --force           Overwrite existing tables

EXAMPLES:
    localize de                         Export German tables for every form
    localize de pizza-order             Export one form's table
    localize de --check                 List untranslated strings per form

Tables are written to locales/<locale>/<form-id>.yaml inside the library
directory (~/.formloom or FORMLOOM_DIR). Fill in the 'strings' values and
they apply to previews via 'formloom preview --locale <locale>'.`)
}
