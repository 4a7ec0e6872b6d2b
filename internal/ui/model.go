package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/dpshade/formloom/internal/clipboard"
	apperrors "github.com/dpshade/formloom/internal/errors"
	"github.com/dpshade/formloom/internal/models"
	"github.com/dpshade/formloom/internal/service"
)

// createGlamourRenderer creates a glamour renderer with improved contrast handling
func createGlamourRenderer(wordWrap int) (*glamour.TermRenderer, error) {
	// Check for environment variable override first
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		return glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wordWrap),
		)
	}

	// Detect terminal capabilities and background
	profile := termenv.ColorProfile()
	hasDarkBg := lipgloss.HasDarkBackground()

	var styleOption glamour.TermRendererOption
	if hasDarkBg {
		switch profile {
		case termenv.TrueColor, termenv.ANSI256:
			styleOption = glamour.WithStandardStyle("dark")
		default:
			// Fallback to auto-style for limited color terminals
			styleOption = glamour.WithAutoStyle()
		}
	} else {
		switch profile {
		case termenv.TrueColor, termenv.ANSI256:
			styleOption = glamour.WithStandardStyle("light")
		default:
			styleOption = glamour.WithAutoStyle()
		}
	}

	return glamour.NewTermRenderer(
		styleOption,
		glamour.WithWordWrap(wordWrap),
	)
}

// formsLoadedMsg carries the async library load result
type formsLoadedMsg struct {
	forms []*models.FormSpec
	err   error
}

// gitStatusMsg carries the async git sync status
type gitStatusMsg struct {
	status string
	err    error
}

// tickMsg drives the status message countdown
type tickMsg time.Time

// loadFormsCmd loads the library off the UI goroutine
func loadFormsCmd(svc *service.Service) tea.Cmd {
	return func() tea.Msg {
		forms, err := svc.ListForms()
		return formsLoadedMsg{forms: forms, err: err}
	}
}

// initialLoadCmd catches up with the git remote, when sync is on and the
// remote is ahead, before the first library load
func initialLoadCmd(svc *service.Service) tea.Cmd {
	return func() tea.Msg {
		svc.PullGitChangesIfNeeded()
		forms, err := svc.ListForms()
		return formsLoadedMsg{forms: forms, err: err}
	}
}

// gitStatusCmd fetches the sync status off the UI goroutine
func gitStatusCmd(svc *service.Service) tea.Cmd {
	return func() tea.Msg {
		status, err := svc.GetGitSyncStatus()
		return gitStatusMsg{status: status, err: err}
	}
}

// clearStatusCmd ticks once a second while a status message is showing
func clearStatusCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// ViewMode represents the different views in the application
type ViewMode int

const (
	ViewLibrary ViewMode = iota
	ViewFormDetail
	ViewFieldDetail
	ViewCreateForm
)

// choiceStyleCycle is the order the s key walks through in the field
// workbench. The empty string means the record's own resolved style.
var choiceStyleCycle = []string{"", "inline", "inline-no-paren", "per-line", "auto-text", "auto"}

// fieldItem adapts a form field to the bubbles list
type fieldItem struct {
	field models.Field
}

func (f fieldItem) Title() string { return f.field.Name }

func (f fieldItem) Description() string {
	parts := []string{fieldTypeName(f.field)}
	if f.field.Description != "" {
		parts = append(parts, f.field.Description)
	}
	if len(f.field.Choices) > 0 {
		parts = append(parts, fmt.Sprintf("%d choices", len(f.field.Choices)))
	}
	if !f.field.Terms.Empty() {
		parts = append(parts, fmt.Sprintf("%d terms", len(f.field.Terms.Alternatives)))
	}
	return strings.Join(parts, " • ")
}

func (f fieldItem) FilterValue() string { return f.field.Name }

func fieldTypeName(field models.Field) string {
	if field.Type == "" {
		return "string"
	}
	return field.Type
}

// KeyMap defines the key bindings for the application
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Enter      key.Binding
	Back       key.Binding
	Quit       key.Binding
	Help       key.Binding
	ExpandHelp key.Binding
	Copy       key.Binding
	New        key.Binding
	Delete     key.Binding
	Reroll     key.Binding
	Style      key.Binding
	Locale     key.Binding
	Terms      key.Binding
	Values     key.Binding
	GitStatus  key.Binding
}

var keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	ExpandHelp: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("ctrl+g", "more keys"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy prompt"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new form"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "archive"),
	),
	Reroll: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "re-roll"),
	),
	Style: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "choice style"),
	),
	Locale: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "locale"),
	),
	Terms: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "term tester"),
	),
	Values: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "sample values"),
	),
	GitStatus: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "sync status"),
	),
}

// Model represents the application state
type Model struct {
	service      *service.Service
	viewMode     ViewMode
	keys         KeyMap
	errorHandler *apperrors.TUIErrorHandler

	formList  list.Model
	fieldList list.Model
	viewport  viewport.Model

	forms   []*models.FormSpec
	loading bool

	// Field workbench state. selectedForm is the authored document,
	// resolvedForm the same document after the default cascade.
	selectedForm  *models.FormSpec
	resolvedForm  *models.FormSpec
	selectedField string
	sampleValues  []string
	previewLocale string
	styleIndex    int
	previewTexts  []string

	createForm *CreateForm

	termModal   *TermTesterModal
	valuesModal *PreviewValuesModal

	glamourRenderer *glamour.TermRenderer

	width  int
	height int

	statusMsg     string
	statusType    string
	statusTimeout int
	deleteConfirm bool

	gitSyncStatus string

	showHelpModal    bool
	showExpandedHelp bool
	helpViewport     viewport.Model

	err error
}

// NewModel creates a new TUI model
func NewModel(svc *service.Service) (*Model, error) {
	initializeColors()

	formList := list.New([]list.Item{}, list.NewDefaultDelegate(), 80, 20)
	formList.Title = ""
	formList.SetShowStatusBar(false)
	formList.SetFilteringEnabled(true)
	formList.SetShowHelp(false)
	formList.KeyMap.Filter = key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	)

	fieldList := list.New([]list.Item{}, list.NewDefaultDelegate(), 80, 14)
	fieldList.Title = ""
	fieldList.SetShowStatusBar(false)
	fieldList.SetFilteringEnabled(false)
	fieldList.SetShowHelp(false)

	renderer, err := createGlamourRenderer(76)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	return &Model{
		service:         svc,
		viewMode:        ViewLibrary,
		keys:            keys,
		errorHandler:    apperrors.NewTUIErrorHandler(os.Getenv("DEBUG") == "true"),
		formList:        formList,
		fieldList:       fieldList,
		viewport:        viewport.New(80, 20),
		helpViewport:    viewport.New(70, 20),
		glamourRenderer: renderer,
		loading:         true,
		termModal:       NewTermTesterModal(),
		valuesModal:     NewPreviewValuesModal(),
	}, nil
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return initialLoadCmd(m.service)
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.statusTimeout > 0 {
			m.statusTimeout--
			if m.statusTimeout <= 0 {
				m.statusMsg = ""
				m.statusType = ""
				return m, nil
			}
			return m, clearStatusCmd()
		}
		return m, nil

	case formsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.forms = msg.forms
		m.refreshFormList()
		return m, nil

	case gitStatusMsg:
		if msg.err != nil {
			return m, m.setStatus("Sync status unavailable: "+msg.err.Error(), "warning", 4)
		}
		m.gitSyncStatus = msg.status
		return m, m.setStatus(msg.status, "info", 4)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey routes key presses by priority: modals first, then the create
// form, then the library filter, then global bindings, then the view's
// main component.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.valuesModal.IsActive() {
		cmd := m.valuesModal.Update(msg)
		if m.valuesModal.IsSubmitted() {
			m.sampleValues = m.valuesModal.Values()
			m.previewLocale = m.valuesModal.Locale()
			m.valuesModal.SetActive(false)
			if err := m.renderFieldWorkbench(); err != nil {
				// A bad locale from the modal must not wedge the workbench
				m.previewLocale = ""
				m.renderFieldWorkbench()
				return m, m.setStatus(err.Error(), "error", 4)
			}
			return m, m.setStatus("Preview values applied", "success", 2)
		}
		return m, cmd
	}

	if m.termModal.IsActive() {
		return m, m.termModal.Update(msg)
	}

	if m.showHelpModal {
		switch msg.String() {
		case "up", "k":
			m.helpViewport.LineUp(1)
		case "down", "j":
			m.helpViewport.LineDown(1)
		case "pgup":
			m.helpViewport.HalfViewUp()
		case "pgdown":
			m.helpViewport.HalfViewDown()
		case "home":
			m.helpViewport.GotoTop()
		case "end":
			m.helpViewport.GotoBottom()
		case "?", "esc", "q":
			m.showHelpModal = false
		}
		return m, nil
	}

	// The create form owns the keyboard while open
	if m.viewMode == ViewCreateForm && m.createForm != nil {
		if msg.String() == "esc" {
			m.createForm = nil
			m.viewMode = ViewLibrary
			return m, m.setStatus("Create cancelled", "info", 2)
		}
		var cmd tea.Cmd
		m.createForm, cmd = m.createForm.Update(msg)
		if m.createForm.IsSubmitted() {
			return m.submitCreateForm()
		}
		return m, cmd
	}

	// While the library filter is open, the list owns the keyboard
	if m.viewMode == ViewLibrary && m.formList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.formList, cmd = m.formList.Update(msg)
		return m, cmd
	}

	// Any key other than a second d cancels a pending archive
	if m.deleteConfirm && !key.Matches(msg, m.keys.Delete) {
		m.deleteConfirm = false
		m.statusMsg = ""
		m.statusType = ""
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = true
		m.helpViewport.SetContent(m.helpContent())
		m.helpViewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.ExpandHelp):
		m.showExpandedHelp = !m.showExpandedHelp
		return m, nil

	case key.Matches(msg, m.keys.Back):
		switch m.viewMode {
		case ViewFieldDetail:
			m.viewMode = ViewFormDetail
			m.renderFormNotes()
		case ViewFormDetail:
			m.viewMode = ViewLibrary
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		switch m.viewMode {
		case ViewLibrary:
			if form, ok := m.formList.SelectedItem().(*models.FormSpec); ok {
				return m.openForm(form.ID)
			}
		case ViewFormDetail:
			if item, ok := m.fieldList.SelectedItem().(fieldItem); ok {
				return m.openField(item.field.Name)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		if m.viewMode == ViewLibrary {
			m.createForm = NewCreateForm()
			m.createForm.Resize(m.width, m.height)
			m.viewMode = ViewCreateForm
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		return m.archiveSelectedForm()

	case key.Matches(msg, m.keys.Copy):
		if m.viewMode == ViewFieldDetail && len(m.previewTexts) > 0 {
			// The ClipboardError's install instructions span several
			// lines; the status bar wants one
			if !clipboard.IsClipboardAvailable() {
				return m, m.setStatus("No clipboard utility found (install xclip or wl-clipboard)", "warning", 4)
			}
			if _, err := clipboard.CopyWithFallback(m.previewTexts[0]); err != nil {
				return m, m.setStatus("Copy failed: "+err.Error(), "error", 4)
			}
			return m, m.setStatus("Prompt copied", "success", 2)
		}
		return m, nil

	case key.Matches(msg, m.keys.Reroll):
		if m.viewMode == ViewFieldDetail {
			if err := m.renderFieldWorkbench(); err != nil {
				return m, m.setStatus(err.Error(), "error", 4)
			}
			return m, m.setStatus("Re-rolled", "info", 1)
		}
		return m, nil

	case key.Matches(msg, m.keys.Style):
		if m.viewMode == ViewFieldDetail {
			return m.cycleChoiceStyle()
		}
		return m, nil

	case key.Matches(msg, m.keys.Locale):
		if m.viewMode == ViewFieldDetail {
			return m.cycleLocale()
		}
		return m, nil

	case key.Matches(msg, m.keys.Terms):
		if m.viewMode == ViewFieldDetail {
			return m.openTermTester()
		}
		return m, nil

	case key.Matches(msg, m.keys.Values):
		if m.viewMode == ViewFieldDetail {
			return m.openValuesModal()
		}
		return m, nil

	case key.Matches(msg, m.keys.GitStatus):
		if m.viewMode == ViewLibrary {
			return m, tea.Batch(gitStatusCmd(m.service), m.setStatus("Checking sync status...", "info", 3))
		}
		return m, nil
	}

	// Remaining keys drive the view's main component
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewLibrary:
		m.formList, cmd = m.formList.Update(msg)
	case ViewFormDetail:
		switch msg.String() {
		case "pgup", "pgdown":
			// Notes viewport scrolls by page; the field list keeps the
			// arrow keys
			m.viewport, cmd = m.viewport.Update(msg)
		default:
			m.fieldList, cmd = m.fieldList.Update(msg)
		}
	case ViewFieldDetail:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

// setStatus shows a transient status message for timeout seconds
func (m *Model) setStatus(text, statusType string, timeout int) tea.Cmd {
	m.statusMsg = text
	m.statusType = statusType
	m.statusTimeout = timeout
	return clearStatusCmd()
}

// refreshFormList rebuilds the library list items from m.forms
func (m *Model) refreshFormList() {
	items := make([]list.Item, len(m.forms))
	for i, form := range m.forms {
		items[i] = form
	}
	m.formList.SetItems(items)
}

// openForm loads a form, resolves it and switches to the detail view
func (m *Model) openForm(id string) (tea.Model, tea.Cmd) {
	form, err := m.service.GetForm(id)
	if err != nil {
		return m, m.setStatus("Load failed: "+err.Error(), "error", 4)
	}
	resolved, err := m.service.ResolvedForm(id)
	if err != nil {
		return m, m.setStatus("Resolve failed: "+err.Error(), "error", 4)
	}

	m.selectedForm = form
	m.resolvedForm = resolved

	items := make([]list.Item, len(form.Fields))
	for i := range form.Fields {
		items[i] = fieldItem{field: form.Fields[i]}
	}
	m.fieldList.SetItems(items)
	m.fieldList.Select(0)

	m.renderFormNotes()
	m.viewMode = ViewFormDetail

	// Surface validation problems as soon as the form opens
	if result, err := m.service.ValidateForm(id); err == nil && result != nil {
		if !result.Valid {
			return m, m.setStatus(fmt.Sprintf("%d validation errors; run 'formloom validate %s'", len(result.Errors), id), "error", 5)
		}
		if len(result.Warnings) > 0 {
			return m, m.setStatus(fmt.Sprintf("%d validation warnings", len(result.Warnings)), "warning", 4)
		}
	}
	return m, nil
}

// openField resets the workbench state and switches to the field view
func (m *Model) openField(name string) (tea.Model, tea.Cmd) {
	m.selectedField = name
	m.sampleValues = nil
	m.previewLocale = ""
	m.styleIndex = 0

	if err := m.renderFieldWorkbench(); err != nil {
		return m, m.setStatus(err.Error(), "error", 4)
	}
	m.viewMode = ViewFieldDetail
	return m, nil
}

// archiveSelectedForm archives the selected library form after a second
// confirming d press
func (m *Model) archiveSelectedForm() (tea.Model, tea.Cmd) {
	if m.viewMode != ViewLibrary {
		return m, nil
	}
	form, ok := m.formList.SelectedItem().(*models.FormSpec)
	if !ok {
		return m, nil
	}

	if !m.deleteConfirm {
		m.deleteConfirm = true
		return m, m.setStatus(fmt.Sprintf("Press d again to archive '%s'", form.ID), "warning", 5)
	}

	m.deleteConfirm = false
	if err := m.service.DeleteForm(form.ID); err != nil {
		return m, m.setStatus("Archive failed: "+err.Error(), "error", 4)
	}
	m.loading = true
	return m, tea.Batch(
		loadFormsCmd(m.service),
		m.setStatus(fmt.Sprintf("Archived '%s'", form.ID), "success", 3),
	)
}

// submitCreateForm saves the new form and returns to the library
func (m *Model) submitCreateForm() (tea.Model, tea.Cmd) {
	form := m.createForm.ToForm()
	if err := m.service.CreateForm(form); err != nil {
		// Keep the form open so nothing typed is lost
		m.createForm.submitted = false
		detail := err.Error()
		if apperrors.IsAppError(err) {
			// Validation failures arrive as AppErrors: log them to the
			// library's error log and strip the code prefix for the
			// status bar
			m.errorHandler.HandleError(err)
			detail = m.errorHandler.FormatError(err)
		}
		return m, m.setStatus("Create failed: "+detail, "error", 5)
	}

	m.createForm = nil
	m.viewMode = ViewLibrary
	m.loading = true
	return m, tea.Batch(
		loadFormsCmd(m.service),
		m.setStatus(fmt.Sprintf("Created form '%s'", form.ID), "success", 3),
	)
}

// cycleChoiceStyle advances the workbench's choice style override
func (m *Model) cycleChoiceStyle() (tea.Model, tea.Cmd) {
	m.styleIndex = (m.styleIndex + 1) % len(choiceStyleCycle)
	if err := m.renderFieldWorkbench(); err != nil {
		return m, m.setStatus(err.Error(), "error", 4)
	}

	label := choiceStyleCycle[m.styleIndex]
	if label == "" {
		label = "resolved default"
	}
	return m, m.setStatus("Choice style: "+label, "info", 2)
}

// cycleLocale walks through the installed locales plus the authored text
func (m *Model) cycleLocale() (tea.Model, tea.Cmd) {
	locales, err := m.service.ListLocales()
	if err != nil {
		return m, m.setStatus("Locale list failed: "+err.Error(), "error", 4)
	}
	if len(locales) == 0 {
		return m, m.setStatus("No locales installed", "info", 2)
	}

	options := append([]string{""}, locales...)
	idx := 0
	for i, locale := range options {
		if locale == m.previewLocale {
			idx = i
			break
		}
	}
	m.previewLocale = options[(idx+1)%len(options)]

	if err := m.renderFieldWorkbench(); err != nil {
		// Typically no string table for this form in that locale
		m.previewLocale = ""
		m.renderFieldWorkbench()
		return m, m.setStatus(err.Error(), "warning", 4)
	}

	label := m.previewLocale
	if label == "" {
		label = "authored text"
	}
	return m, m.setStatus("Locale: "+label, "info", 2)
}

// openTermTester opens the term tester against the selected field
func (m *Model) openTermTester() (tea.Model, tea.Cmd) {
	formID, fieldName := m.selectedForm.ID, m.selectedField

	groups, err := m.service.FieldTerms(formID, fieldName)
	if err != nil {
		return m, m.setStatus("Term lookup failed: "+err.Error(), "error", 4)
	}
	if len(groups) == 0 {
		return m, m.setStatus("Field declares no terms", "info", 2)
	}

	m.termModal.SetField(fieldName, groups, func(input string) ([]service.TermMatch, error) {
		return m.service.TestTerms(formID, fieldName, input)
	})
	m.termModal.SetActive(true)
	m.termModal.Resize(m.width, m.height)
	return m, nil
}

// openValuesModal opens the sample-values modal seeded with the current
// workbench state
func (m *Model) openValuesModal() (tea.Model, tea.Cmd) {
	formID, fieldName := m.selectedForm.ID, m.selectedField

	m.valuesModal.SetPreviewFunc(func(values []string, locale string) (string, error) {
		prompts, err := m.service.PreviewPrompt(formID, fieldName, service.PreviewOptions{
			Values: values,
			Locale: locale,
			Count:  1,
		})
		if err != nil {
			return "", err
		}
		if len(prompts) == 0 {
			return "", fmt.Errorf("nothing rendered")
		}
		return prompts[0].Text, nil
	})
	m.valuesModal.SetActive(true)
	m.valuesModal.SetInitial(m.sampleValues, m.previewLocale)
	m.valuesModal.Resize(m.width, m.height)
	return m, nil
}

// renderFormNotes fills the viewport with the form's authoring notes
func (m *Model) renderFormNotes() {
	if m.selectedForm == nil {
		return
	}

	content := m.selectedForm.Content
	if strings.TrimSpace(content) == "" {
		content = "*No authoring notes.*"
	}

	formatted, err := m.glamourRenderer.Render(content)
	if err != nil {
		formatted = content
	}
	m.viewport.SetContent(formatted)
	m.viewport.GotoTop()
}

// renderFieldWorkbench composes the field workbench document (prompt
// variants, patterns, the resolved record, choices, constraints and terms)
// as markdown and renders it into the viewport
func (m *Model) renderFieldWorkbench() error {
	if m.selectedForm == nil || m.selectedField == "" {
		return fmt.Errorf("no field selected")
	}

	field := m.selectedForm.Field(m.selectedField)
	resolvedField := m.resolvedForm.Field(m.selectedField)
	if field == nil || resolvedField == nil {
		return fmt.Errorf("field '%s' not found", m.selectedField)
	}

	prompts, err := m.service.PreviewPrompt(m.selectedForm.ID, m.selectedField, service.PreviewOptions{
		Values: m.sampleValues,
		Locale: m.previewLocale,
		Count:  3,
	})
	if err != nil {
		return err
	}

	var b strings.Builder

	b.WriteString("## Prompt\n\n")
	m.previewTexts = m.previewTexts[:0]
	for i, prompt := range prompts {
		m.previewTexts = append(m.previewTexts, prompt.Text)
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, prompt.Text))
		for _, choice := range prompt.Choices {
			b.WriteString(fmt.Sprintf("   - %s\n", choice))
		}
	}
	b.WriteString("\n")

	cfg := resolvedField.Prompt
	if len(cfg.Patterns) > 0 {
		b.WriteString("## Patterns\n\n")
		for i, pattern := range cfg.Patterns {
			b.WriteString(fmt.Sprintf("%d. `%s`\n", i+1, pattern))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Resolved record\n\n")
	b.WriteString("| Option | Value |\n")
	b.WriteString("|--------|-------|\n")
	b.WriteString(fmt.Sprintf("| Choice style | %s |\n", cfg.ChoiceStyle))
	b.WriteString(fmt.Sprintf("| Field case | %s |\n", cfg.FieldCase))
	b.WriteString(fmt.Sprintf("| Value case | %s |\n", cfg.ValueCase))
	b.WriteString(fmt.Sprintf("| Choice case | %s |\n", cfg.ChoiceCase))
	b.WriteString(fmt.Sprintf("| Feedback | %s |\n", cfg.Feedback))
	b.WriteString(fmt.Sprintf("| Separator | %q |\n", derefString(cfg.Separator)))
	b.WriteString(fmt.Sprintf("| Last separator | %q |\n", derefString(cfg.LastSeparator)))
	b.WriteString(fmt.Sprintf("| Choice separator | %q |\n", derefString(cfg.ChoiceSeparator)))
	b.WriteString(fmt.Sprintf("| Choice last separator | %q |\n", derefString(cfg.ChoiceLastSeparator)))
	b.WriteString(fmt.Sprintf("| Choice format | %q |\n", derefString(cfg.ChoiceFormat)))
	b.WriteString(fmt.Sprintf("| Allow default | %v |\n", derefBoolValue(cfg.AllowDefault)))
	b.WriteString(fmt.Sprintf("| Choice parens | %v |\n", derefBoolValue(cfg.ChoiceParens)))
	b.WriteString(fmt.Sprintf("| Numbers select choices | %v |\n", cfg.AllowNumbers()))
	b.WriteString("\n")

	if len(field.Choices) > 0 {
		b.WriteString("## Choices\n\n")
		choices, err := m.service.RenderFieldChoices(m.selectedForm.ID, m.selectedField, choiceStyleCycle[m.styleIndex])
		if err != nil {
			return err
		}
		if choices.Text != "" {
			b.WriteString(choices.Text + "\n")
		} else {
			for _, label := range choices.Labels {
				b.WriteString(fmt.Sprintf("- %s\n", label))
			}
		}
		b.WriteString("\n")
	}

	if field.Range != nil || field.Pattern != "" {
		b.WriteString("## Constraints\n\n")
		if field.Range != nil {
			b.WriteString(fmt.Sprintf("- Range: %s\n", field.Range.Describe()))
		}
		if field.Pattern != "" {
			b.WriteString(fmt.Sprintf("- Pattern: `%s`\n", field.Pattern))
		}
		b.WriteString("\n")
	}

	if groups, err := m.service.FieldTerms(m.selectedForm.ID, m.selectedField); err == nil && len(groups) > 0 {
		b.WriteString("## Terms\n\n")
		for _, group := range groups {
			b.WriteString(fmt.Sprintf("**%s**\n\n", group.Owner))
			for _, pattern := range group.Patterns {
				b.WriteString(fmt.Sprintf("- `%s`\n", pattern))
			}
			b.WriteString("\n")
		}
	}

	formatted, err := m.glamourRenderer.Render(b.String())
	if err != nil {
		formatted = b.String()
	}
	m.viewport.SetContent(formatted)
	m.viewport.GotoTop()
	return nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefBoolValue(b *bool) bool {
	return b != nil && *b
}

// resize distributes the window across the active view's components
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	const minReservedHeight = 8
	availableHeight := height - minReservedHeight
	if availableHeight < 5 {
		availableHeight = 5
	}

	m.formList.SetSize(width-4, availableHeight)

	// The form detail view splits between the field list and the notes
	listHeight := availableHeight / 2
	if listHeight < 5 {
		listHeight = 5
	}
	m.fieldList.SetSize(width-4, listHeight)

	viewportWidth := width - 8
	if viewportWidth < 40 {
		viewportWidth = 40
	}
	m.viewport.Width = viewportWidth
	m.viewport.Height = availableHeight

	m.helpViewport.Width = min(70, width-8)
	m.helpViewport.Height = min(24, availableHeight)

	// Re-wrap markdown to the new width
	if renderer, err := createGlamourRenderer(viewportWidth - 4); err == nil {
		m.glamourRenderer = renderer
	}
	switch m.viewMode {
	case ViewFormDetail:
		m.renderFormNotes()
	case ViewFieldDetail:
		m.renderFieldWorkbench()
	}

	if m.createForm != nil {
		m.createForm.Resize(width, height)
	}
	m.termModal.Resize(width, height)
	m.valuesModal.Resize(width, height)
}

// View renders the current view
func (m *Model) View() string {
	if m.err != nil {
		return AddMainPadding(fmt.Sprintf("\n%s\n\n%s\n",
			StyleError.Render("Error: "+m.err.Error()),
			StyleTextDim.Render("Press q to quit")))
	}

	if m.showHelpModal {
		return m.renderHelpModal()
	}
	if m.valuesModal.IsActive() {
		return CenterModal(m.valuesModal.View(), m.width, m.height)
	}
	if m.termModal.IsActive() {
		return CenterModal(m.termModal.View(), m.width, m.height)
	}

	var view string
	switch m.viewMode {
	case ViewLibrary:
		view = m.renderLibraryView()
	case ViewFormDetail:
		view = m.renderFormDetailView()
	case ViewFieldDetail:
		view = m.renderFieldDetailView()
	case ViewCreateForm:
		view = m.renderCreateFormView()
	}

	if m.statusMsg != "" {
		view += "\n" + CreateStatus(m.statusMsg, m.statusType)
	}

	return AddMainPadding(view)
}

// renderLibraryView renders the form library
func (m *Model) renderLibraryView() string {
	var sections []string

	sections = append(sections, CreateMainHeader("Formloom Library"))

	if m.gitSyncStatus != "" {
		sections = append(sections, CreateGitStatus(m.gitSyncStatus))
	}

	if m.loading {
		sections = append(sections, StyleLoading.Render("⏳ Loading forms..."))
	} else if len(m.forms) == 0 {
		sections = append(sections, StyleTextMuted.Render("No forms yet. Press n to create one."))
	} else {
		sections = append(sections, m.formList.View())
	}

	essential := []string{"enter: open", "/: search", "n: new", "q: quit"}
	additional := []string{"d: archive", "g: sync status", "?: help"}
	sections = append(sections, CreateContextualHelp(essential, additional, m.showExpandedHelp, m.width))

	return strings.Join(sections, "\n")
}

// renderFormDetailView renders one form: metadata, fields and notes
func (m *Model) renderFormDetailView() string {
	if m.selectedForm == nil {
		return StyleError.Render("No form selected")
	}
	form := m.selectedForm

	var sections []string

	sections = append(sections, CreateSubPageHeader(form.Name))

	meta := []string{"ID: " + form.ID}
	if form.Version != "" {
		meta = append(meta, "Version: "+form.Version)
	}
	if form.Locale != "" {
		meta = append(meta, "Locale: "+form.Locale)
	}
	if len(form.Tags) > 0 {
		meta = append(meta, "Tags: "+strings.Join(form.Tags, ", "))
	}
	sections = append(sections, CreateMetadata(strings.Join(meta, " • ")))

	if form.Summary != "" {
		sections = append(sections, StyleText.Render(form.Summary))
	}
	sections = append(sections, "")

	sections = append(sections, StyleFormLabel.Render("Fields"))
	sections = append(sections, m.fieldList.View())

	if strings.TrimSpace(form.Content) != "" {
		up, down := CreateScrollIndicators(m.viewport.ScrollPercent() > 0, m.viewport.ScrollPercent() < 1)
		sections = append(sections, StyleFormLabel.Render("Notes")+" "+up+" "+down)
		sections = append(sections, StyleContentContainer.Render(m.viewport.View()))
	}

	essential := []string{"enter: open field", "esc: back"}
	additional := []string{"pgup/pgdn: scroll notes", "?: help"}
	sections = append(sections, CreateContextualHelp(essential, additional, m.showExpandedHelp, m.width))

	return strings.Join(sections, "\n")
}

// renderFieldDetailView renders the field workbench
func (m *Model) renderFieldDetailView() string {
	if m.selectedForm == nil || m.selectedField == "" {
		return StyleError.Render("No field selected")
	}

	var sections []string

	sections = append(sections, CreateSubPageHeader(m.selectedForm.Name+" / "+m.selectedField))

	meta := []string{}
	if style := choiceStyleCycle[m.styleIndex]; style != "" {
		meta = append(meta, "Style: "+style)
	}
	if m.previewLocale != "" {
		meta = append(meta, "Locale: "+m.previewLocale)
	}
	if len(m.sampleValues) > 0 {
		meta = append(meta, "Values: "+strings.Join(m.sampleValues, ", "))
	}
	if len(meta) > 0 {
		sections = append(sections, CreateMetadata(strings.Join(meta, " • ")))
	}

	up, down := CreateScrollIndicators(m.viewport.ScrollPercent() > 0, m.viewport.ScrollPercent() < 1)
	sections = append(sections, up)
	sections = append(sections, StyleContentContainer.Render(m.viewport.View()))
	sections = append(sections, down)

	essential := []string{"r: re-roll", "v: values", "c: copy", "esc: back"}
	additional := []string{"s: choice style", "l: locale", "t: term tester", "?: help"}
	sections = append(sections, CreateContextualHelp(essential, additional, m.showExpandedHelp, m.width))

	return strings.Join(sections, "\n")
}

// renderCreateFormView renders the create form
func (m *Model) renderCreateFormView() string {
	if m.createForm == nil {
		return StyleError.Render("No form in progress")
	}

	labels := []string{"Title", "Summary", "Tags", "First field name", "First field type", "First field description"}

	var sections []string
	sections = append(sections, CreateSubPageHeader("Create New Form"))
	sections = append(sections, CreateMetadata("ID: "+m.createForm.ID()))
	sections = append(sections, "")

	for i, label := range labels {
		rendered := StyleFormLabel.Render(label + ":")
		if m.createForm.FocusedField() == i {
			rendered = StyleFormLabel.Render("▶ " + label + ":")
		}
		sections = append(sections, rendered)
		sections = append(sections, m.createForm.InputView(i))
	}

	notesLabel := "Notes (document body):"
	if m.createForm.FocusedField() == notesField {
		notesLabel = "▶ " + notesLabel
	}
	sections = append(sections, StyleFormLabel.Render(notesLabel))
	sections = append(sections, m.createForm.NotesView())

	sections = append(sections, StyleFormHelp.Render("Tab: next field • Ctrl+S: save • Esc: cancel"))

	return AddFormPadding(strings.Join(sections, "\n"))
}

// renderHelpModal renders the scrollable keybinding reference
func (m *Model) renderHelpModal() string {
	title := StyleTitle.Render("Formloom Help")
	scrollHint := StyleTextDim.Render("↑/↓ scroll • esc close")
	content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.helpViewport.View(), "", scrollHint)
	return CenterModal(StyleModal.Render(content), m.width, m.height)
}

// helpContent builds the help modal text
func (m *Model) helpContent() string {
	return `LIBRARY

  enter        open the selected form
  /            filter forms by title, summary or tags
  n            create a new form
  d (twice)    archive the selected form
  g            show git sync status
  q            quit

FORM

  enter        open the selected field's workbench
  pgup/pgdn    scroll the authoring notes
  esc          back to the library

FIELD WORKBENCH

  r            re-roll the prompt preview (new random pattern)
  v            set sample values and preview locale
  s            cycle the choice list style
  l            cycle the preview locale
  t            open the term tester
  c            copy the first prompt variant
  esc          back to the form

The workbench shows the prompt exactly as a dialog would ask it:
patterns are drawn at random, sample values fill the {} placeholder
and the choice list renders per the resolved record.

STORAGE

  Forms live as YAML-frontmatter markdown in ~/.formloom
  (override with FORMLOOM_DIR). The same library is served by
  the formloom command line; run 'formloom help' for it.`
}
