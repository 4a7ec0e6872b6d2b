package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dpshade/formloom/internal/cli"
	"github.com/dpshade/formloom/internal/service"
	"github.com/dpshade/formloom/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

func printHelp() {
	fmt.Printf(`formloom - Form templates and prompt generation for conversational dialogs

USAGE:
    formloom [OPTIONS] [COMMAND]

OPTIONS:
    --help          Show this help information
    --version       Print version information
    --init          Initialize a new form library

COMMANDS:
    (no command)        Start the interactive workbench
    list, ls            List forms in the library
    search <query>      Fuzzy search forms
    show <form> [field] Show a form or a field's resolved prompt record
    preview <form> <f>  Render prompt variants for a field
    choices <form> <f>  Render a field's choice list
    terms <form> <f>    Show a field's term matcher patterns
    validate [form]     Check forms for configuration problems
    create, new <id>    Create a new form document
    edit <id>           Edit a form's metadata
    delete, rm <id>     Archive a form
    tags                List all tags
    locale              Export, import and inspect string tables
    import <schema>     Import forms from JSON Schema files
    git                 Git synchronization commands
    version             Print the formloom version
    help [command]      Show CLI command help

EXAMPLES:
    formloom                                  # Start the workbench
    formloom --init                           # Initialize a new library
    formloom list --tag onboarding            # List forms carrying a tag
    formloom preview pizza size --count 5     # See the pattern rotation
    formloom choices pizza size --style per-line
    formloom terms pizza size --test "give me the big one"
    formloom locale export pizza de           # Seed a German string table
    formloom import feedback.schema.json      # Forms from JSON Schema
    formloom git setup <repo-url>             # Set up library sync
    formloom help preview                     # Detailed command help

STORAGE:
    Default directory: ~/.formloom
    Override with: FORMLOOM_DIR=<path>

EXIT CODES:
    0  success
    1  operational error
    2  command-line usage error

For more information, visit: https://github.com/dpshade/formloom
`)
}

func main() {
	var showVersion bool
	var initLib bool
	var showHelp bool

	flag.BoolVar(&showVersion, "version", false, "Print version information")
	flag.BoolVar(&initLib, "init", false, "Initialize a new form library")
	flag.BoolVar(&showHelp, "help", false, "Show help information")
	flag.Parse()

	if showHelp {
		printHelp()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("formloom version %s\n", cli.Version)
		os.Exit(0)
	}

	svc, err := service.NewService()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if initLib {
		if err := svc.InitLibrary(); err != nil {
			fmt.Fprintln(os.Stderr, "Error initializing library:", err)
			os.Exit(1)
		}
		fmt.Println("Initialized formloom library")
		return
	}

	// CLI mode: execute the command and exit. Usage mistakes get their
	// own exit code so scripts can tell them from operational failures.
	args := flag.Args()
	if len(args) > 0 {
		cliHandler := cli.NewCLI(svc)
		if err := cliHandler.ExecuteCommand(args); err != nil {
			fmt.Fprintln(os.Stderr, err)
			if cli.IsUsageError(err) {
				os.Exit(2)
			}
			os.Exit(1)
		}
		return
	}

	// No arguments: start the workbench.
	model, err := ui.NewModel(svc)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
