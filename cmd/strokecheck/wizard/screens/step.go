package screens

import (
	"errors"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/PhilipNzube/stroke-prediction-app/cmd/strokecheck/wizard/components"
	"github.com/PhilipNzube/stroke-prediction-app/internal/intake"
)

// StepScreen asks the questions of one questionnaire step
type StepScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	index     int
	step      intake.Step
	values    map[intake.Field]*string
	errors    map[intake.Field]string
	width     int
	height    int
	done      bool
	back      bool
	cancelled bool
}

// NewStepScreen creates the screen for step index, prefilled from record.
// errs are shown above the form until the step is completed again.
func NewStepScreen(index int, record intake.Record, errs map[intake.Field]string) *StepScreen {
	step := intake.Steps[index]
	s := &StepScreen{
		helpPanel: components.NewHelpPanel(),
		index:     index,
		step:      step,
		values:    make(map[intake.Field]*string, len(step.Fields)),
		errors:    make(map[intake.Field]string),
	}

	fields := make([]huh.Field, 0, len(step.Fields))
	for _, f := range step.Fields {
		v := record.Get(f)
		s.values[f] = &v
		if msg, ok := errs[f]; ok {
			s.errors[f] = msg
		}
		fields = append(fields, questionField(f, s.values[f]))
	}

	s.form = huh.NewForm(huh.NewGroup(fields...)).
		WithShowHelp(false).
		WithShowErrors(true)
	if len(step.Fields) > 0 {
		s.focus(step.Fields[0])
	}

	return s
}

// focus points the help panel at f along with its carried-over error.
func (s *StepScreen) focus(f intake.Field) {
	s.helpPanel.SetField(string(f))
	s.helpPanel.SetProblem(s.errors[f])
}

// requiredAnswer rejects a blank answer to f with its required message.
func requiredAnswer(f intake.Field) func(string) error {
	msg := f.Spec().Required
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return errors.New(msg)
		}
		return nil
	}
}

// questionField builds the form control for f bound to value.
func questionField(f intake.Field, value *string) huh.Field {
	spec := f.Spec()
	required := requiredAnswer(f)

	if opts := f.Options(); opts != nil {
		choices := make([]huh.Option[string], 0, len(opts))
		for _, o := range opts {
			choices = append(choices, huh.NewOption(o.Label, o.Value))
		}
		return huh.NewSelect[string]().
			Key(string(f)).
			Title(spec.Label).
			Options(choices...).
			Value(value).
			Validate(required)
	}

	input := huh.NewInput().
		Key(string(f)).
		Title(spec.Label).
		Value(value).
		Validate(required)
	if r := f.Range(); r != "" {
		input = input.Description("Typically " + r)
	}
	return input
}

// Init implements tea.Model
func (s *StepScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *StepScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			s.cancelled = true
			return s, tea.Quit
		case "esc":
			s.back = true
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.helpPanel.SetWidth(msg.Width / 2)
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if focused := s.form.GetFocusedField(); focused != nil {
		s.focus(intake.Field(focused.GetKey()))
	}

	if s.form.State == huh.StateCompleted {
		s.done = true
	}

	return s, cmd
}

// View implements tea.Model
func (s *StepScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	titles := make([]string, len(intake.Steps))
	for i, st := range intake.Steps {
		titles[i] = st.Title
	}

	parts := []string{
		components.TitleStyle.Render(strings.ToUpper(s.step.Title)),
		components.StepIndicator(s.index, titles),
		"",
	}
	if errs := s.errorLines(); len(errs) > 0 {
		parts = append(parts, errs...)
		parts = append(parts, "")
	}

	hints := "Tab: Next question | Enter: Continue | Esc: Back | Ctrl+C: Quit"
	if s.index == 0 {
		hints = "Tab: Next question | Enter: Continue | Ctrl+C: Quit"
	}
	parts = append(parts,
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		components.KeyHintStyle.Render(hints),
	)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// errorLines lists the carried-over errors in question order.
func (s *StepScreen) errorLines() []string {
	fields := make([]intake.Field, 0, len(s.errors))
	for f := range s.errors {
		fields = append(fields, f)
	}
	order := make(map[intake.Field]int)
	for i, f := range intake.AllFields() {
		order[f] = i
	}
	sort.Slice(fields, func(i, j int) bool { return order[fields[i]] < order[fields[j]] })

	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, components.ErrorStyle.Render("✗ "+s.errors[f]))
	}
	return lines
}

// Values returns the answers entered on this step
func (s *StepScreen) Values() map[intake.Field]string {
	out := make(map[intake.Field]string, len(s.values))
	for f, v := range s.values {
		out[f] = *v
	}
	return out
}

// Index returns the step index
func (s *StepScreen) Index() int { return s.index }

// Done returns true if the form was completed
func (s *StepScreen) Done() bool { return s.done }

// Back returns true if the user asked for the previous step
func (s *StepScreen) Back() bool { return s.back }

// Cancelled returns true if the user cancelled
func (s *StepScreen) Cancelled() bool { return s.cancelled }
