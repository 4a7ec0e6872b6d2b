package renderer

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dpshade/formloom/internal/models"
)

// autoTextThreshold is the label count at which auto-text switches from an
// inline run to one label per line. Tunable, not part of the contract.
const autoTextThreshold = 4

// ChoiceText is a rendered choice list. Labels always carries the normalized
// labels in declaration order; Text is filled only for the textual styles
// (inline and per-line). Widget styles (auto, buttons, carousel) leave Text
// empty so the presentation layer can draw the labels itself.
type ChoiceText struct {
	Text   string
	Labels []string
}

// RenderChoices renders labels according to the resolved record's choice
// style and case normalization. An empty label list renders empty without
// error. The record must be resolved: a ChoiceDefault style reaching this
// point means the default cascade was skipped.
func RenderChoices(labels []string, cfg *models.TemplateConfig) (ChoiceText, error) {
	if len(labels) == 0 {
		return ChoiceText{}, nil
	}

	normalized := make([]string, 0, len(labels))
	for _, label := range labels {
		normalized = append(normalized, NormalizeCase(label, cfg.ChoiceCase))
	}

	style := cfg.ChoiceStyle
	if style == models.ChoiceAutoText {
		if len(normalized) < autoTextThreshold {
			style = models.ChoiceInline
		} else {
			style = models.ChoicePerLine
		}
	}

	switch style {
	case models.ChoiceInline, models.ChoiceInlineNoParen:
		joined := joinList(normalized, stringOpt(cfg.ChoiceSeparator, ", "), stringOpt(cfg.ChoiceLastSeparator, ", "))
		if style == models.ChoiceInline && boolOpt(cfg.ChoiceParens) {
			joined = "(" + joined + ")"
		}
		return ChoiceText{Text: joined, Labels: normalized}, nil

	case models.ChoicePerLine:
		format := stringOpt(cfg.ChoiceFormat, models.DefaultChoiceFormat)
		lines := make([]string, 0, len(normalized))
		for i, label := range normalized {
			line := strings.ReplaceAll(format, models.ChoiceFormatIndex, strconv.Itoa(i+1))
			line = strings.ReplaceAll(line, models.ChoiceFormatLabel, label)
			lines = append(lines, line)
		}
		return ChoiceText{Text: strings.Join(lines, "\n"), Labels: normalized}, nil

	case models.ChoiceAuto, models.ChoiceButtons, models.ChoiceCarousel:
		return ChoiceText{Labels: normalized}, nil

	default:
		return ChoiceText{}, fmt.Errorf("choice style not resolved: %s", style)
	}
}

// NormalizeCase folds text per the given normalization. A fresh caser is
// built per call for the title case: cases.Caser is not safe for concurrent
// use and prompt renders may run in parallel.
func NormalizeCase(s string, c models.CaseNormalization) string {
	switch c {
	case models.CaseLower:
		return strings.ToLower(s)
	case models.CaseUpper:
		return strings.ToUpper(s)
	case models.CaseInitialUpper:
		return cases.Title(language.English).String(s)
	default:
		return s
	}
}

// joinList joins items with sep between all but the final pair and lastSep
// before the final item: "a, b, and c".
func joinList(items []string, sep, lastSep string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], sep) + lastSep + items[len(items)-1]
}

func stringOpt(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}

func boolOpt(p *bool) bool {
	return p != nil && *p
}
