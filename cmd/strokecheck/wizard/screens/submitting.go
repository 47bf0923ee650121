package screens

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/PhilipNzube/stroke-prediction-app/cmd/strokecheck/wizard/components"
)

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

// SubmittingScreen is shown while a request is outstanding
type SubmittingScreen struct {
	spinner   spinner.Model
	label     string
	startTime time.Time
	cancelled bool
}

// NewSubmittingScreen creates a spinner screen with the given label
func NewSubmittingScreen(label string) *SubmittingScreen {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle
	return &SubmittingScreen{
		spinner:   sp,
		label:     label,
		startTime: time.Now(),
	}
}

// Init implements tea.Model
func (s *SubmittingScreen) Init() tea.Cmd {
	return s.spinner.Tick
}

// Update implements tea.Model
func (s *SubmittingScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			s.cancelled = true
			return s, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

// View implements tea.Model
func (s *SubmittingScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}
	elapsed := time.Since(s.startTime).Truncate(time.Second)
	return lipgloss.JoinVertical(lipgloss.Left,
		components.TitleStyle.Render("STROKE RISK ASSESSMENT"),
		s.spinner.View()+" "+s.label,
		"",
		components.KeyHintStyle.Render("Elapsed: "+elapsed.String()+" | Ctrl+C: Quit"),
	)
}

// Cancelled returns true if the user cancelled
func (s *SubmittingScreen) Cancelled() bool { return s.cancelled }
