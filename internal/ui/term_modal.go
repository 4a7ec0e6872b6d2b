package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dpshade/formloom/internal/service"
)

// TermTesterModal runs sample utterances against a field's term matchers
// and reports which patterns hit, live as the user types. This is how an
// author checks that "give me the big one" actually selects the large
// choice before shipping the form.
type TermTesterModal struct {
	input     textinput.Model
	fieldName string
	groups    []service.TermGroup
	testFunc  func(input string) ([]service.TermMatch, error)
	matches   []service.TermMatch
	testError string
	isActive  bool
	width     int
	height    int
}

// NewTermTesterModal creates an inactive term tester
func NewTermTesterModal() *TermTesterModal {
	input := textinput.New()
	input.Placeholder = "Type what an end user might say..."
	input.CharLimit = 200
	input.Width = 50

	return &TermTesterModal{input: input}
}

// SetField points the tester at one field's matcher groups. testFunc runs
// the service-side matching so the modal never compiles patterns itself.
func (m *TermTesterModal) SetField(fieldName string, groups []service.TermGroup, testFunc func(string) ([]service.TermMatch, error)) {
	m.fieldName = fieldName
	m.groups = groups
	m.testFunc = testFunc
	m.matches = nil
	m.testError = ""
	m.input.SetValue("")
}

// Update handles input for the modal
func (m *TermTesterModal) Update(msg tea.Msg) tea.Cmd {
	if !m.isActive {
		return nil
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.isActive = false
			return nil
		case "enter":
			m.runTest(m.input.Value())
			return nil
		}

		oldInput := m.input.Value()
		m.input, cmd = m.input.Update(msg)
		if newInput := m.input.Value(); newInput != oldInput {
			m.runTest(newInput)
		}
	}
	return cmd
}

// runTest matches the input against every pattern and stores the hits
func (m *TermTesterModal) runTest(input string) {
	if strings.TrimSpace(input) == "" {
		m.matches = nil
		m.testError = ""
		return
	}
	if m.testFunc == nil {
		return
	}

	matches, err := m.testFunc(input)
	if err != nil {
		m.testError = err.Error()
		m.matches = nil
		return
	}
	m.testError = ""
	m.matches = matches
}

// View renders the modal
func (m *TermTesterModal) View() string {
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

	hitStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	missStyle := lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color("8"))

	errorStyle := lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color("9"))

	helpStyle := lipgloss.NewStyle().
		Italic(true).
		MarginTop(1)

	var content []string

	content = append(content, titleStyle.Render(fmt.Sprintf("Term Tester: %s", m.fieldName)))
	content = append(content, "")
	content = append(content, m.input.View())

	// Live result line
	if m.input.Value() != "" {
		switch {
		case m.testError != "":
			content = append(content, errorStyle.Render("✗ "+m.testError))
		case len(m.matches) == 0:
			content = append(content, missStyle.Render("No patterns matched"))
		default:
			content = append(content, hitStyle.Render(fmt.Sprintf("✓ %d patterns matched", len(m.matches))))
			for _, match := range m.matches {
				content = append(content, hitStyle.Render(fmt.Sprintf("  %s: %s", match.Owner, match.Pattern)))
			}
		}
	}
	content = append(content, "")

	// The patterns under test, dimmed, one group per line
	if len(m.groups) > 0 {
		groupStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		content = append(content, groupStyle.Render("Patterns under test:"))
		for _, group := range m.groups {
			line := fmt.Sprintf("  %s: %s", group.Owner, strings.Join(group.Patterns, "  "))
			if len(line) > 64 {
				line = line[:61] + "..."
			}
			content = append(content, groupStyle.Render(line))
		}
	}

	content = append(content, helpStyle.Render("Enter: re-run • Esc: close"))

	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, content...))
}

// SetActive sets the modal active state
func (m *TermTesterModal) SetActive(active bool) {
	m.isActive = active
	if active {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// IsActive returns whether the modal is active
func (m *TermTesterModal) IsActive() bool {
	return m.isActive
}

// Resize updates the modal dimensions
func (m *TermTesterModal) Resize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = min(60, width-12)
}
