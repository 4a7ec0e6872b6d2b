package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PreviewValuesModal collects sample field values and a locale for the
// field workbench. The prompt preview updates live while typing, so the
// author sees immediately how "red wine, beer" reads inside the pattern.
type PreviewValuesModal struct {
	valuesInput textinput.Model
	localeInput textinput.Model
	previewFunc func(values []string, locale string) (string, error)
	previewText string
	previewErr  string
	isActive    bool
	submitted   bool
	focusIndex  int
	width       int
	height      int
}

// NewPreviewValuesModal creates an inactive sample-values modal
func NewPreviewValuesModal() *PreviewValuesModal {
	valuesInput := textinput.New()
	valuesInput.Placeholder = "red wine, beer (comma-separated)"
	valuesInput.CharLimit = 200
	valuesInput.Width = 50

	localeInput := textinput.New()
	localeInput.Placeholder = "de (optional)"
	localeInput.CharLimit = 20
	localeInput.Width = 20

	return &PreviewValuesModal{
		valuesInput: valuesInput,
		localeInput: localeInput,
	}
}

// SetPreviewFunc wires the live renderer. The model closes this over the
// selected form and field so the modal stays service-agnostic.
func (m *PreviewValuesModal) SetPreviewFunc(fn func(values []string, locale string) (string, error)) {
	m.previewFunc = fn
}

// SetInitial seeds the inputs with the workbench's current values
func (m *PreviewValuesModal) SetInitial(values []string, locale string) {
	m.valuesInput.SetValue(strings.Join(values, ", "))
	m.localeInput.SetValue(locale)
	m.refreshPreview()
}

// Update handles input for the modal
func (m *PreviewValuesModal) Update(msg tea.Msg) tea.Cmd {
	if !m.isActive {
		return nil
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.isActive = false
			m.submitted = false
			return nil
		case "enter":
			m.submitted = true
			return nil
		case "tab", "shift+tab", "up", "down":
			// Two fields, so either direction is a toggle
			m.focusIndex = (m.focusIndex + 1) % 2
			m.updateFocus()
			return nil
		}

		before := m.valuesInput.Value() + "\x00" + m.localeInput.Value()
		if m.focusIndex == 0 {
			m.valuesInput, cmd = m.valuesInput.Update(msg)
		} else {
			m.localeInput, cmd = m.localeInput.Update(msg)
		}
		if after := m.valuesInput.Value() + "\x00" + m.localeInput.Value(); after != before {
			m.refreshPreview()
		}
	}
	return cmd
}

func (m *PreviewValuesModal) updateFocus() {
	if m.focusIndex == 0 {
		m.valuesInput.Focus()
		m.localeInput.Blur()
	} else {
		m.valuesInput.Blur()
		m.localeInput.Focus()
	}
}

// refreshPreview re-renders the prompt with the current inputs
func (m *PreviewValuesModal) refreshPreview() {
	if m.previewFunc == nil {
		return
	}

	text, err := m.previewFunc(m.Values(), m.Locale())
	if err != nil {
		m.previewErr = err.Error()
		m.previewText = ""
		return
	}
	m.previewErr = ""
	m.previewText = text
}

// View renders the modal
func (m *PreviewValuesModal) View() string {
	if !m.isActive {
		return ""
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2).
		Width(70)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		MarginBottom(1)

	labelStyle := lipgloss.NewStyle().
		Bold(true)

	previewStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		Padding(0, 1).
		Width(62)

	errorStyle := lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color("9"))

	helpStyle := lipgloss.NewStyle().
		Italic(true).
		MarginTop(1)

	valuesLabel := "Sample values:"
	localeLabel := "Locale:"
	if m.focusIndex == 0 {
		valuesLabel = "▶ " + valuesLabel
	} else {
		localeLabel = "▶ " + localeLabel
	}

	var content []string

	content = append(content, titleStyle.Render("Preview Values"))
	content = append(content, labelStyle.Render(valuesLabel))
	content = append(content, m.valuesInput.View())
	content = append(content, "")
	content = append(content, labelStyle.Render(localeLabel))
	content = append(content, m.localeInput.View())
	content = append(content, "")

	switch {
	case m.previewErr != "":
		content = append(content, errorStyle.Render("✗ "+m.previewErr))
	case m.previewText != "":
		content = append(content, previewStyle.Render(m.previewText))
	}

	content = append(content, helpStyle.Render("Tab: switch field • Enter: apply • Esc: cancel"))

	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, content...))
}

// Values returns the parsed sample values
func (m *PreviewValuesModal) Values() []string {
	return parseSampleValues(m.valuesInput.Value())
}

// Locale returns the trimmed locale code
func (m *PreviewValuesModal) Locale() string {
	return strings.TrimSpace(m.localeInput.Value())
}

// SetActive sets the modal active state
func (m *PreviewValuesModal) SetActive(active bool) {
	m.isActive = active
	if active {
		m.submitted = false
		m.focusIndex = 0
		m.updateFocus()
	} else {
		m.valuesInput.Blur()
		m.localeInput.Blur()
	}
}

// IsActive returns whether the modal is active
func (m *PreviewValuesModal) IsActive() bool {
	return m.isActive
}

// IsSubmitted returns whether the user pressed enter to apply
func (m *PreviewValuesModal) IsSubmitted() bool {
	return m.submitted
}

// Resize updates the modal dimensions
func (m *PreviewValuesModal) Resize(width, height int) {
	m.width = width
	m.height = height
	inputWidth := min(60, width-12)
	m.valuesInput.Width = inputWidth
	m.localeInput.Width = min(20, inputWidth)
}

// parseSampleValues splits a comma-separated value list, dropping blanks
func parseSampleValues(raw string) []string {
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
