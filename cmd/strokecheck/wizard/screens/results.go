package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/PhilipNzube/stroke-prediction-app/cmd/strokecheck/wizard/components"
	"github.com/PhilipNzube/stroke-prediction-app/internal/results"
)

// ResultsAction represents the action selected on the results screen
type ResultsAction string

const (
	ActionDownload    ResultsAction = "download"
	ActionShare       ResultsAction = "share"
	ActionDashboard   ResultsAction = "dashboard"
	ActionSaveAnswers ResultsAction = "save_answers"
	ActionNew         ResultsAction = "new"
	ActionQuit        ResultsAction = "quit"
)

// ResultsScreen shows the current outcome and the actions on it
type ResultsScreen struct {
	form      *huh.Form
	presenter *results.Presenter
	notice    *results.Notice
	action    string
	busy      string
	width     int
	height    int
	done      bool
	cancelled bool
}

// NewResultsScreen creates the results screen. notice, when set, is the
// outcome of the previous action.
func NewResultsScreen(p *results.Presenter, notice *results.Notice) *ResultsScreen {
	s := &ResultsScreen{
		presenter: p,
		notice:    notice,
		action:    string(ActionDownload),
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("action").
				Title("What next?").
				Options(
					huh.NewOption("Download PDF report", string(ActionDownload)),
					huh.NewOption("Share results", string(ActionShare)),
					huh.NewOption("View risk dashboard", string(ActionDashboard)),
					huh.NewOption("Save answers to a file", string(ActionSaveAnswers)),
					huh.NewOption("Start a new assessment", string(ActionNew)),
					huh.NewOption("Quit", string(ActionQuit)),
				).
				Value(&s.action),
		),
	).WithShowHelp(false)

	return s
}

// Init implements tea.Model
func (s *ResultsScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *ResultsScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			s.cancelled = true
			return s, tea.Quit
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	if s.busy != "" {
		return s, nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.done = true
	}

	return s, cmd
}

// View implements tea.Model
func (s *ResultsScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	width := s.width
	if width <= 0 || width > 100 {
		width = 100
	}

	parts := []string{
		components.TitleStyle.Render("YOUR RESULTS"),
		s.presenter.Render(results.Options{Width: width}),
	}
	if s.notice != nil {
		parts = append(parts, NoticeView(*s.notice), "")
	}
	if s.busy != "" {
		parts = append(parts, components.InfoStyle.Render(s.busy))
	} else {
		parts = append(parts, s.form.View())
	}
	parts = append(parts, "", components.KeyHintStyle.Render("↑/↓: Choose | Enter: Run | Q: Quit"))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// NoticeView styles a notice by kind
func NoticeView(n results.Notice) string {
	switch n.Kind {
	case results.NoticeSuccess:
		return components.SuccessStyle.Render("✓ " + n.Text)
	case results.NoticeError:
		return components.ErrorStyle.Render("✗ " + n.Text)
	}
	return components.InfoStyle.Render(n.Text)
}

// SetBusy replaces the action list with label while an action runs
func (s *ResultsScreen) SetBusy(label string) { s.busy = label }

// Busy reports whether an action is running
func (s *ResultsScreen) Busy() bool { return s.busy != "" }

// Action returns the selected action
func (s *ResultsScreen) Action() ResultsAction { return ResultsAction(s.action) }

// Done returns true if an action was chosen
func (s *ResultsScreen) Done() bool { return s.done }

// Cancelled returns true if the user quit
func (s *ResultsScreen) Cancelled() bool { return s.cancelled }
