package tui

import (
	"fmt"
	"html"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formclient/pkg/engine"
)

const progressWidth = 20

// Styles holds the lipgloss styles applied to runner output.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Section  lipgloss.Style
	Progress lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Success  lipgloss.Style
}

// DefaultStyles returns the styles used when none are configured.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2563eb")),
		Subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")),
		Section:  lipgloss.NewStyle().Bold(true).Underline(true),
		Progress: lipgloss.NewStyle().Foreground(lipgloss.Color("#2563eb")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626")),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("#d97706")),
		Success:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#16a34a")),
	}
}

func (s Styles) progressLine(p engine.Progress) string {
	filled := int(p.Percent / 100 * progressWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressWidth-filled)
	return fmt.Sprintf("Section %d of %d %s", p.Current, p.Total, s.Progress.Render(bar))
}

var stripPolicy = bluemonday.StrictPolicy()

// plainText drops markup from a section description for terminal output.
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}
