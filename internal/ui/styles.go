package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Workbench colors, adaptive to the terminal background.
var (
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorAccent    lipgloss.Color

	ColorSuccess lipgloss.Color
	ColorWarning lipgloss.Color
	ColorError   lipgloss.Color
	ColorInfo    lipgloss.Color

	ColorText       lipgloss.Color
	ColorTextMuted  lipgloss.Color
	ColorTextDim    lipgloss.Color
	ColorBorder     lipgloss.Color
	ColorBackground lipgloss.Color
	ColorSurface    lipgloss.Color
)

// initializeColors sets up adaptive colors based on terminal background
func initializeColors() {
	// GLAMOUR_STYLE also drives the markdown renderer, so honoring it
	// here keeps the chrome and the content consistent.
	if os.Getenv("GLAMOUR_STYLE") == "light" {
		setLightThemeColors()
		return
	}
	if os.Getenv("GLAMOUR_STYLE") == "dark" {
		setDarkThemeColors()
		return
	}

	if lipgloss.HasDarkBackground() {
		setDarkThemeColors()
	} else {
		setLightThemeColors()
	}
}

func setDarkThemeColors() {
	ColorPrimary = lipgloss.Color("205")
	ColorSecondary = lipgloss.Color("33")
	ColorAccent = lipgloss.Color("214")

	ColorSuccess = lipgloss.Color("10")
	ColorWarning = lipgloss.Color("11")
	ColorError = lipgloss.Color("9")
	ColorInfo = lipgloss.Color("12")

	ColorText = lipgloss.Color("252")
	ColorTextMuted = lipgloss.Color("244")
	ColorTextDim = lipgloss.Color("240")
	ColorBorder = lipgloss.Color("238")
	ColorBackground = lipgloss.Color("235")
	ColorSurface = lipgloss.Color("236")
}

func setLightThemeColors() {
	ColorPrimary = lipgloss.Color("125")
	ColorSecondary = lipgloss.Color("24")
	ColorAccent = lipgloss.Color("130")

	ColorSuccess = lipgloss.Color("22")
	ColorWarning = lipgloss.Color("136")
	ColorError = lipgloss.Color("160")
	ColorInfo = lipgloss.Color("24")

	ColorText = lipgloss.Color("232")
	ColorTextMuted = lipgloss.Color("240")
	ColorTextDim = lipgloss.Color("244")
	ColorBorder = lipgloss.Color("248")
	ColorBackground = lipgloss.Color("255")
	ColorSurface = lipgloss.Color("254")
}

// Component styles
var (
	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	StyleText = lipgloss.NewStyle().
			Foreground(ColorText)

	StyleTextMuted = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	StyleTextDim = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true).
			Padding(0, 1)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true).
			Padding(0, 1)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true).
			Padding(0, 1)

	StyleInfo = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Bold(true).
			Padding(0, 1)

	StyleModal = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(2, 3).
			Background(ColorBackground).
			MarginTop(1).
			MarginBottom(1)

	StyleContentContainer = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorder).
				Padding(1, 2).
				Background(ColorSurface).
				MarginTop(1).
				MarginBottom(1)

	StyleFormLabel = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	StyleFormHelp = lipgloss.NewStyle().
			Foreground(ColorTextDim).
			Italic(true).
			Padding(0, 3)

	StyleLoading = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Italic(true).
			Padding(0, 1)

	StyleMetadata = lipgloss.NewStyle().
			Foreground(ColorTextDim).
			Padding(0, 1)

	StyleScrollIndicator = lipgloss.NewStyle().
				Foreground(ColorTextDim).
				Align(lipgloss.Center)

	StyleScrollIndicatorActive = lipgloss.NewStyle().
					Foreground(ColorSecondary).
					Bold(true).
					Align(lipgloss.Center)
)

// CreateMainHeader renders the top-level page title.
func CreateMainHeader(titleText string) string {
	return StyleTitle.Render(titleText)
}

// CreateSubPageHeader renders a subpage title; back navigation is a keybind.
func CreateSubPageHeader(titleText string) string {
	return StyleTitle.Render(titleText)
}

func CreateMetadata(text string) string {
	return StyleMetadata.Render(text)
}

// CreateContextualHelp renders help text: one essential row, plus the
// additional rows when expanded via Ctrl+g.
func CreateContextualHelp(essential []string, additional []string, showExpanded bool, width int) string {
	var lines []string

	firstRowParts := essential
	if len(additional) > 0 && !showExpanded {
		firstRowParts = append(firstRowParts, "Ctrl+g for more")
	}

	essentialText := strings.Join(firstRowParts, " • ")
	if width > 0 && len(essentialText) > width-4 {
		essentialText = essentialText[:width-7] + "..."
	}
	lines = append(lines, essentialText)

	if showExpanded {
		for _, row := range additional {
			if width > 0 && len(row) > width-4 {
				row = row[:width-7] + "..."
			}
			lines = append(lines, row)
		}
	}

	return StyleTextDim.Render(strings.Join(lines, "\n"))
}

// CreateGuaranteedHelp renders help text that stays visible regardless of
// terminal size.
func CreateGuaranteedHelp(helpText string, width int) string {
	helpStyle := lipgloss.NewStyle().
		Foreground(ColorTextDim).
		Width(width).
		Align(lipgloss.Left).
		Padding(0, 1)

	if width > 0 && len(helpText) > width-2 {
		helpText = helpText[:width-5] + "..."
	}

	return helpStyle.Render(helpText)
}

func CreateStatus(text string, statusType string) string {
	switch statusType {
	case "success":
		return StyleSuccess.Render(text)
	case "warning":
		return StyleWarning.Render(text)
	case "error":
		return StyleError.Render(text)
	case "info":
		return StyleInfo.Render(text)
	default:
		return StyleText.Render(text)
	}
}

// CreateGitStatus renders the library sync state line.
func CreateGitStatus(status string) string {
	return StyleMetadata.Render("Git: " + status)
}

// CenterModal places modal content in the middle of the window.
func CenterModal(content string, width, height int) string {
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}

// AddMainPadding indents main content from the terminal edge.
func AddMainPadding(content string) string {
	return lipgloss.NewStyle().PaddingLeft(2).Render(content)
}

// AddFormPadding indents form content.
func AddFormPadding(content string) string {
	return lipgloss.NewStyle().PaddingLeft(3).Render(content)
}

// CreateScrollIndicators renders the markers above and below a viewport.
func CreateScrollIndicators(canScrollUp, canScrollDown bool) (string, string) {
	var topIndicator string
	if canScrollUp {
		topIndicator = StyleScrollIndicatorActive.Render("...")
	} else {
		topIndicator = StyleScrollIndicator.Render("─────────")
	}

	var bottomIndicator string
	if canScrollDown {
		bottomIndicator = StyleScrollIndicatorActive.Render("...")
	} else {
		bottomIndicator = StyleScrollIndicator.Render("─────────")
	}

	return topIndicator, bottomIndicator
}
