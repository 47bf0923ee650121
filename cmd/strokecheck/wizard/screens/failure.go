package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/PhilipNzube/stroke-prediction-app/cmd/strokecheck/wizard/components"
)

// FailureAction represents the choice made after a failed submission
type FailureAction string

const (
	FailureRetry FailureAction = "retry"
	FailureEdit  FailureAction = "edit"
	FailureQuit  FailureAction = "quit"
)

var failurePanelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("196")).
	Padding(1, 2)

// FailureScreen shows why a submission failed and offers to retry
type FailureScreen struct {
	form      *huh.Form
	message   string
	retryable bool
	action    string
	done      bool
	cancelled bool
}

// NewFailureScreen creates the failure screen. Retry is offered first when
// the failure is likely transient.
func NewFailureScreen(message string, retryable bool) *FailureScreen {
	s := &FailureScreen{
		message:   message,
		retryable: retryable,
	}

	retry := huh.NewOption("Try again", string(FailureRetry))
	edit := huh.NewOption("Review my answers", string(FailureEdit))
	quit := huh.NewOption("Quit", string(FailureQuit))
	opts := []huh.Option[string]{edit, retry, quit}
	s.action = string(FailureEdit)
	if retryable {
		opts = []huh.Option[string]{retry, edit, quit}
		s.action = string(FailureRetry)
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("failure_action").
				Title("What would you like to do?").
				Options(opts...).
				Value(&s.action),
		),
	).WithShowHelp(false)

	return s
}

// Init implements tea.Model
func (s *FailureScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *FailureScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c":
			s.cancelled = true
			return s, tea.Quit
		case "esc":
			s.action = string(FailureEdit)
			s.done = true
			return s, nil
		}
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
func (s *FailureScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	body := components.ErrorStyle.Render(s.message)
	if s.retryable {
		body += "\n\n" + components.KeyHintStyle.Render("The service could not be reached. Your answers are kept.")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		components.TitleStyle.Render("ASSESSMENT FAILED"),
		failurePanelStyle.Render(body),
		"",
		s.form.View(),
		"",
		components.KeyHintStyle.Render("Enter: Select | Esc: Back to answers"),
	)
}

// Message returns the error shown to the user
func (s *FailureScreen) Message() string { return s.message }

// Action returns the selected action
func (s *FailureScreen) Action() FailureAction { return FailureAction(s.action) }

// Done returns true if an action was chosen
func (s *FailureScreen) Done() bool { return s.done }

// Cancelled returns true if the user cancelled
func (s *FailureScreen) Cancelled() bool { return s.cancelled }
