package tui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Help     lipgloss.Style
	Card     lipgloss.Style
	Toast    lipgloss.Style

	Pass lipgloss.Style
	Fail lipgloss.Style
	Warn lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true),
		Subtitle: lipgloss.NewStyle().Faint(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Card: lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
		Toast: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),

		Pass: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		Fail: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Warn: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	}
}

// StyleFor picks the color of a PASS, FAIL or WARN outcome.
func (t Theme) StyleFor(status string) lipgloss.Style {
	switch status {
	case "PASS":
		return t.Pass
	case "FAIL":
		return t.Fail
	case "WARN":
		return t.Warn
	}
	return lipgloss.NewStyle()
}
