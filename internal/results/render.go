// Package results presents a finished assessment: the risk summary and
// recommendations, the downloadable report, share links and the
// statistics dashboard.
package results

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/PhilipNzube/stroke-prediction-app/internal/intake"
	"github.com/PhilipNzube/stroke-prediction-app/internal/predict"
	"github.com/PhilipNzube/stroke-prediction-app/internal/session"
)

// NoResultsMessage is shown when there is nothing to present.
const NoResultsMessage = "No results available. Please complete the assessment first."

// Disclaimer is printed under every result.
const Disclaimer = "This assessment is for informational purposes only and should not replace " +
	"professional medical advice. Always consult with your healthcare provider for proper " +
	"diagnosis and treatment. If you experience any stroke symptoms (F.A.S.T. - Face drooping, " +
	"Arm weakness, Speech difficulty, Time to call emergency services), seek immediate medical attention."

var nextSteps = []struct{ title, text string }{
	{"Implement Changes", "Start with the lifestyle recommendations and gradually incorporate other changes."},
	{"Monitor Progress", "Track your health metrics and reassess your risk in 3-6 months."},
	{"Consult Doctor", "Discuss these results with your healthcare provider for personalized medical advice."},
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
)

// RiskColor is the terminal color used for a risk level.
func RiskColor(level predict.RiskLevel) lipgloss.Color {
	switch level {
	case predict.RiskLow:
		return lipgloss.Color("42")
	case predict.RiskModerate:
		return lipgloss.Color("214")
	case predict.RiskHigh:
		return lipgloss.Color("196")
	default:
		return lipgloss.Color("39")
	}
}

// Encouragement is the one-line reaction shown next to a risk level.
func Encouragement(level predict.RiskLevel) string {
	switch level {
	case predict.RiskLow:
		return "Keep up the good work!"
	case predict.RiskModerate:
		return "Time to make some changes"
	case predict.RiskHigh:
		return "Immediate action required"
	}
	return ""
}

// Summary is the one-sentence description used when sharing.
func Summary(o *predict.Outcome) string {
	return fmt.Sprintf("My stroke risk assessment: %s risk (%s%% probability)", o.RiskLevel, formatPercent(o.StrokeProbability))
}

func formatPercent(p float64) string {
	return humanize.FtoaWithDigits(p, 2)
}

// Options tunes Render.
type Options struct {
	Width int // wrap width; 0 means 80
}

// Render formats a session snapshot for the terminal.
func Render(s session.State, opts Options) string {
	width := opts.Width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	switch {
	case s.Loading:
		b.WriteString(mutedStyle.Render("Analyzing your health data..."))
		b.WriteString("\n")
		return b.String()
	case s.Error != "":
		b.WriteString(errorStyle.Render(s.Error))
		b.WriteString("\n")
		return b.String()
	case s.Outcome == nil:
		b.WriteString(errorStyle.Render(NoResultsMessage))
		b.WriteString("\n")
		return b.String()
	}

	o := s.Outcome
	color := RiskColor(o.RiskLevel)
	level := lipgloss.NewStyle().Bold(true).Foreground(color).Render(o.RiskLevel.Title() + " Risk")
	prob := lipgloss.NewStyle().Bold(true).Render(formatPercent(o.StrokeProbability) + "%")

	summary := strings.Join([]string{
		level + "  " + mutedStyle.Render(Encouragement(o.RiskLevel)),
		prob + " " + mutedStyle.Render("probability of experiencing a stroke"),
	}, "\n")
	if !s.SettledAt.IsZero() {
		summary += "\n" + mutedStyle.Render("Assessed "+humanize.Time(s.SettledAt))
	}
	b.WriteString(headingStyle.Render("Your Stroke Risk Assessment Results"))
	b.WriteString("\n\n")
	b.WriteString(boxStyle.BorderForeground(color).Render(summary))
	b.WriteString("\n\n")

	if s.Submission != nil {
		if hints := intake.FromPayload(*s.Submission).Hints(); len(hints) > 0 {
			for _, h := range hints {
				b.WriteString(warnStyle.Render("! " + h.Message))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	if cats := o.Categories(); len(cats) > 0 {
		b.WriteString(headingStyle.Render("Personalized Recommendations"))
		b.WriteString("\n")
		for _, cat := range cats {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Bold(true).Render(CategoryTitle(cat)))
			b.WriteString("\n")
			for _, rec := range o.Recommendations[cat] {
				b.WriteString(wrap("  • ", rec, width))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(headingStyle.Render("Next Steps"))
	b.WriteString("\n")
	for i, step := range nextSteps {
		b.WriteString(wrap(fmt.Sprintf("  %d. ", i+1), step.title+": "+step.text, width))
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(wrapPlain(Disclaimer, width)))
	b.WriteString("\n")
	return b.String()
}

// CategoryTitle turns a recommendation category key into a heading.
func CategoryTitle(cat string) string {
	words := strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(cat))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// wrap formats text as a hanging-indent paragraph that starts with prefix.
func wrap(prefix, text string, width int) string {
	indent := strings.Repeat(" ", lipgloss.Width(prefix))
	lines := strings.Split(wrapPlain(text, width-len(indent)), "\n")
	var b strings.Builder
	for i, line := range lines {
		if i == 0 {
			b.WriteString(prefix)
		} else {
			b.WriteString(indent)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func wrapPlain(text string, width int) string {
	if width < 20 {
		width = 20
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
