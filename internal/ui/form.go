package ui

import (
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dpshade/formloom/internal/models"
)

// generateIDFromTitle creates a URL-safe ID from a title
func generateIDFromTitle(title string) string {
	if title == "" {
		return "untitled-form"
	}

	id := strings.ToLower(title)

	// Replace spaces and special characters with hyphens
	reg := regexp.MustCompile(`[^a-z0-9]+`)
	id = reg.ReplaceAllString(id, "-")

	// Remove leading and trailing hyphens
	id = strings.Trim(id, "-")

	if id == "" {
		return "untitled-form"
	}

	// Limit length to 50 characters
	if len(id) > 50 {
		id = id[:50]
		id = strings.TrimSuffix(id, "-")
	}

	return id
}

// CreateForm collects the metadata and starter field for a new form
// document. It covers the common case of one field; more fields are added
// later by editing the document or importing a schema.
type CreateForm struct {
	inputs    []textinput.Model
	textarea  textarea.Model
	focused   int
	submitted bool
}

// Form field indices
const (
	titleField = iota
	summaryField
	tagsField
	fieldNameField
	fieldTypeField
	fieldDescField
	notesField // the textarea, always last
)

// NewCreateForm creates an empty form with the title focused
func NewCreateForm() *CreateForm {
	inputs := make([]textinput.Model, 6)

	inputs[titleField] = textinput.New()
	inputs[titleField].Placeholder = "Pizza Order"
	inputs[titleField].Focus()
	inputs[titleField].CharLimit = 100
	inputs[titleField].Width = 40

	inputs[summaryField] = textinput.New()
	inputs[summaryField].Placeholder = "What this form collects"
	inputs[summaryField].CharLimit = 255
	inputs[summaryField].Width = 60

	inputs[tagsField] = textinput.New()
	inputs[tagsField].Placeholder = "food, onboarding (comma-separated)"
	inputs[tagsField].CharLimit = 200
	inputs[tagsField].Width = 60

	inputs[fieldNameField] = textinput.New()
	inputs[fieldNameField].Placeholder = "size"
	inputs[fieldNameField].CharLimit = 50
	inputs[fieldNameField].Width = 30

	inputs[fieldTypeField] = textinput.New()
	inputs[fieldTypeField].Placeholder = "string, number, bool or choice"
	inputs[fieldTypeField].CharLimit = 20
	inputs[fieldTypeField].Width = 30

	inputs[fieldDescField] = textinput.New()
	inputs[fieldDescField].Placeholder = "the size (fills the {&} placeholder)"
	inputs[fieldDescField].CharLimit = 255
	inputs[fieldDescField].Width = 60

	ta := textarea.New()
	ta.Placeholder = "Authoring notes for the document body..."
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetWidth(80)
	ta.SetHeight(6)

	return &CreateForm{
		inputs:   inputs,
		textarea: ta,
		focused:  titleField,
	}
}

// Update handles form input
func (f *CreateForm) Update(msg tea.Msg) (*CreateForm, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+s":
			f.submitted = true
			return f, nil
		case "tab":
			f.nextField()
			return f, nil
		case "shift+tab":
			f.prevField()
			return f, nil
		case "up", "down", "enter":
			// Inside the notes textarea these keys edit; elsewhere they
			// move between fields
			if f.focused != notesField {
				if msg.String() == "up" {
					f.prevField()
				} else {
					f.nextField()
				}
				return f, nil
			}
		}
	}

	// Route everything else to the focused component
	if f.focused == notesField {
		var cmd tea.Cmd
		f.textarea, cmd = f.textarea.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		var cmd tea.Cmd
		f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
		cmds = append(cmds, cmd)
	}

	return f, tea.Batch(cmds...)
}

func (f *CreateForm) nextField() {
	f.blurCurrent()
	f.focused = (f.focused + 1) % (len(f.inputs) + 1)
	f.focusCurrent()
}

func (f *CreateForm) prevField() {
	f.blurCurrent()
	f.focused--
	if f.focused < 0 {
		f.focused = len(f.inputs)
	}
	f.focusCurrent()
}

func (f *CreateForm) blurCurrent() {
	if f.focused == notesField {
		f.textarea.Blur()
	} else {
		f.inputs[f.focused].Blur()
	}
}

func (f *CreateForm) focusCurrent() {
	if f.focused == notesField {
		f.textarea.Focus()
	} else {
		f.inputs[f.focused].Focus()
	}
}

// ID returns the identifier the form will be saved under, derived live
// from the title so the author sees it before submitting
func (f *CreateForm) ID() string {
	return generateIDFromTitle(strings.TrimSpace(f.inputs[titleField].Value()))
}

// IsSubmitted returns whether ctrl+s was pressed
func (f *CreateForm) IsSubmitted() bool {
	return f.submitted
}

// FocusedField returns the index of the focused input
func (f *CreateForm) FocusedField() int {
	return f.focused
}

// InputView returns the rendered view of one text input
func (f *CreateForm) InputView(index int) string {
	return f.inputs[index].View()
}

// NotesView returns the rendered textarea
func (f *CreateForm) NotesView() string {
	return f.textarea.View()
}

// ToForm converts the collected values into a form document. Validation
// happens in the service; this only shapes the data.
func (f *CreateForm) ToForm() *models.FormSpec {
	now := time.Now()

	title := strings.TrimSpace(f.inputs[titleField].Value())

	field := models.Field{
		Name:        strings.TrimSpace(f.inputs[fieldNameField].Value()),
		Type:        strings.TrimSpace(strings.ToLower(f.inputs[fieldTypeField].Value())),
		Description: strings.TrimSpace(f.inputs[fieldDescField].Value()),
	}
	if field.Name == "" {
		field = models.Field{Name: "answer", Type: "string", Description: "your answer"}
	}

	var tags []string
	for _, tag := range strings.Split(f.inputs[tagsField].Value(), ",") {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}

	return &models.FormSpec{
		ID:        generateIDFromTitle(title),
		Name:      title,
		Summary:   strings.TrimSpace(f.inputs[summaryField].Value()),
		Tags:      tags,
		Fields:    []models.Field{field},
		Content:   f.textarea.Value(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Resize adjusts the form layout to the window size
func (f *CreateForm) Resize(width, height int) {
	inputWidth := min(60, width-16)
	for i := range f.inputs {
		if f.inputs[i].Width > 30 || inputWidth < 30 {
			f.inputs[i].Width = inputWidth
		}
	}

	f.textarea.SetWidth(min(80, width-12))

	// Rows above the textarea: header, six labeled inputs, ID line, help
	reservedHeight := 22
	taHeight := height - reservedHeight
	if taHeight < 3 {
		taHeight = 3
	}
	if taHeight > 10 {
		taHeight = 10
	}
	f.textarea.SetHeight(taHeight)
}
