package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/PhilipNzube/stroke-prediction-app/cmd/strokecheck/wizard/help"
	"github.com/PhilipNzube/stroke-prediction-app/internal/intake"
)

var (
	helpPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63")).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	helpFactKeyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("86"))

	helpDetailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// HelpPanel explains the focused question: what it asks, the answers it
// accepts, and what is wrong with the current answer, if anything.
type HelpPanel struct {
	field   intake.Field
	problem string
	width   int
}

// NewHelpPanel creates a new help panel
func NewHelpPanel() *HelpPanel {
	return &HelpPanel{width: 60}
}

// SetField switches the panel to the question with the given form key.
// Unknown keys leave the panel without a question.
func (h *HelpPanel) SetField(key string) {
	f, err := intake.ParseField(key)
	if err != nil {
		f = ""
	}
	if f != h.field {
		h.problem = ""
	}
	h.field = f
}

// Field returns the question whose help is displayed
func (h *HelpPanel) Field() intake.Field { return h.field }

// SetProblem shows msg as the reason the current answer was not accepted.
func (h *HelpPanel) SetProblem(msg string) { h.problem = msg }

// SetWidth updates the panel width
func (h *HelpPanel) SetWidth(width int) {
	if width < 30 {
		width = 30
	}
	h.width = width
}

// Facts lists what the question accepts, one line per fact.
func (h *HelpPanel) Facts() []string {
	if h.field == "" {
		return nil
	}
	spec := h.field.Spec()
	facts := []string{fact("Required", spec.Required)}
	if r := h.field.Range(); r != "" {
		facts = append(facts, fact("Typical range", r))
	}
	if opts := h.field.Options(); len(opts) > 0 {
		labels := make([]string, len(opts))
		for i, o := range opts {
			labels[i] = o.Label
		}
		facts = append(facts, fact("Choices", strings.Join(labels, ", ")))
	}
	return facts
}

func fact(key, value string) string {
	return helpFactKeyStyle.Render(key+":") + " " + value
}

// View renders the help panel
func (h *HelpPanel) View() string {
	style := helpPanelStyle.Width(h.width - 4)

	text, ok := help.Texts[string(h.field)]
	if h.field == "" || !ok {
		return style.Render("Move to a question to see help")
	}

	parts := []string{
		helpTitleStyle.Render(text.Title),
		"",
		helpDescStyle.Render(text.Description),
		"",
	}
	parts = append(parts, h.Facts()...)
	if text.Details != "" {
		parts = append(parts, "", helpDetailStyle.Render(text.Details))
	}
	if h.problem != "" {
		parts = append(parts, "", ErrorStyle.Render("✗ "+h.problem))
	}
	return style.Render(strings.Join(parts, "\n"))
}
