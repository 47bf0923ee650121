package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			MarginBottom(1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	KeyHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	stepDoneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	stepCurrentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true).Underline(true)
	stepTodoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// StepIndicator renders "Step 2 of 3" followed by the step titles, with the
// current one highlighted.
func StepIndicator(current int, titles []string) string {
	parts := make([]string, len(titles))
	for i, t := range titles {
		switch {
		case i < current:
			parts[i] = stepDoneStyle.Render("✓ " + t)
		case i == current:
			parts[i] = stepCurrentStyle.Render(t)
		default:
			parts[i] = stepTodoStyle.Render(t)
		}
	}
	return fmt.Sprintf("Step %d of %d  %s", current+1, len(titles), strings.Join(parts, stepTodoStyle.Render(" › ")))
}
