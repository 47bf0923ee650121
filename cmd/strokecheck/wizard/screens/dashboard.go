package screens

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/PhilipNzube/stroke-prediction-app/cmd/strokecheck/wizard/components"
	"github.com/PhilipNzube/stroke-prediction-app/internal/results"
)

// DashboardScreen shows population statistics in a scrollable view
type DashboardScreen struct {
	viewport  viewport.Model
	data      *results.DashboardData
	err       error
	width     int
	done      bool
	cancelled bool
}

// NewDashboardScreen creates the dashboard screen for data, or for err when
// loading failed.
func NewDashboardScreen(data *results.DashboardData, err error, width, height int) *DashboardScreen {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	s := &DashboardScreen{
		viewport: viewport.New(width, height-4),
		data:     data,
		err:      err,
		width:    width,
	}
	s.viewport.SetContent(s.content())
	return s
}

func (s *DashboardScreen) content() string {
	if s.err != nil {
		return components.ErrorStyle.Render(results.DashboardErrorMessage)
	}
	return results.RenderDashboard(s.data, s.width)
}

// Init implements tea.Model
func (s *DashboardScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s *DashboardScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			s.cancelled = true
			return s, tea.Quit
		case "esc", "enter", "q":
			s.done = true
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.viewport.Width = msg.Width
		s.viewport.Height = msg.Height - 4
		s.viewport.SetContent(s.content())
	}

	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return s, cmd
}

// View implements tea.Model
func (s *DashboardScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		s.viewport.View(),
		"",
		components.KeyHintStyle.Render("↑/↓: Scroll | Esc: Back to results"),
	)
}

// Done returns true when the user leaves the dashboard
func (s *DashboardScreen) Done() bool { return s.done }

// Cancelled returns true if the user cancelled
func (s *DashboardScreen) Cancelled() bool { return s.cancelled }
