// Package wizard is the interactive terminal front end: the questionnaire
// steps, the submission spinner, the results and their actions.
package wizard

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/PhilipNzube/stroke-prediction-app/cmd/strokecheck/wizard/components"
	"github.com/PhilipNzube/stroke-prediction-app/cmd/strokecheck/wizard/screens"
	"github.com/PhilipNzube/stroke-prediction-app/internal/intake"
	"github.com/PhilipNzube/stroke-prediction-app/internal/predict"
	"github.com/PhilipNzube/stroke-prediction-app/internal/results"
)

// Phase represents the current phase/screen of the wizard.
type Phase int

const (
	PhaseQuestions Phase = iota
	PhaseSubmitting
	PhaseResults
	PhaseFailure
	PhaseDashboard
	PhaseSaveAnswers
)

// DefaultAnswersPath is offered when saving answers.
const DefaultAnswersPath = "strokecheck-answers.yaml"

// Deps are the collaborators the wizard drives.
type Deps struct {
	Intake    *intake.Wizard
	Presenter *results.Presenter
	ReportDir string
	Logger    *zap.Logger
}

// Wizard is the main orchestrator for the terminal interface.
type Wizard struct {
	ctx       context.Context
	intake    *intake.Wizard
	presenter *results.Presenter
	reportDir string
	logger    *zap.Logger

	phase Phase

	stepScreen       *screens.StepScreen
	submittingScreen *screens.SubmittingScreen
	resultsScreen    *screens.ResultsScreen
	failureScreen    *screens.FailureScreen
	dashboardScreen  *screens.DashboardScreen

	saveAnswersForm *huh.Form
	answersPath     string

	width  int
	height int

	cancelled bool
}

// New creates a wizard. When the intake already holds answers, it opens on
// the first step that still needs one.
func New(ctx context.Context, deps Deps) *Wizard {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.ReportDir == "" {
		deps.ReportDir = "."
	}
	w := &Wizard{
		ctx:       ctx,
		intake:    deps.Intake,
		presenter: deps.Presenter,
		reportDir: deps.ReportDir,
		logger:    deps.Logger,
	}

	rec := w.intake.Record()
	if len(rec.Missing()) < len(intake.AllFields()) {
		w.intake.AdvanceToEnd()
	}
	w.transitionToStep()

	return w
}

// Init implements tea.Model.
func (w *Wizard) Init() tea.Cmd {
	return w.stepScreen.Init()
}

// Update implements tea.Model.
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		w.width = wsm.Width
		w.height = wsm.Height
	}

	switch w.phase {
	case PhaseQuestions:
		return w.updateQuestions(msg)
	case PhaseSubmitting:
		return w.updateSubmitting(msg)
	case PhaseResults:
		return w.updateResults(msg)
	case PhaseFailure:
		return w.updateFailure(msg)
	case PhaseDashboard:
		return w.updateDashboard(msg)
	case PhaseSaveAnswers:
		return w.updateSaveAnswers(msg)
	}

	return w, nil
}

// View implements tea.Model.
func (w *Wizard) View() string {
	switch w.phase {
	case PhaseQuestions:
		return w.stepScreen.View()
	case PhaseSubmitting:
		return w.submittingScreen.View()
	case PhaseResults:
		return w.resultsScreen.View()
	case PhaseFailure:
		return w.failureScreen.View()
	case PhaseDashboard:
		return w.dashboardScreen.View()
	case PhaseSaveAnswers:
		return w.viewSaveAnswers()
	}

	return ""
}

// Phase returns the current phase.
func (w *Wizard) Phase() Phase { return w.phase }

// Cancelled reports whether the user quit with Ctrl+C.
func (w *Wizard) Cancelled() bool { return w.cancelled }

// sized replays the last window size so a freshly built screen lays out
// correctly.
func (w *Wizard) sized(cmd tea.Cmd) tea.Cmd {
	if w.width == 0 {
		return cmd
	}
	width, height := w.width, w.height
	return tea.Batch(cmd, func() tea.Msg {
		return tea.WindowSizeMsg{Width: width, Height: height}
	})
}

// transitionToStep shows the current questionnaire step.
func (w *Wizard) transitionToStep() (tea.Model, tea.Cmd) {
	w.phase = PhaseQuestions
	w.stepScreen = screens.NewStepScreen(w.intake.Step(), w.intake.Record(), w.intake.Errors())
	return w, w.sized(w.stepScreen.Init())
}

// applyStep copies the answers of the step screen into the intake.
func (w *Wizard) applyStep() {
	for f, v := range w.stepScreen.Values() {
		if err := w.intake.SetField(f, v); err != nil {
			w.logger.Warn("dropping answer", zap.String("field", string(f)), zap.Error(err))
		}
	}
}

// updateQuestions handles updates while a questionnaire step is shown.
func (w *Wizard) updateQuestions(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.stepScreen.Update(msg)
	if ss, ok := model.(*screens.StepScreen); ok {
		w.stepScreen = ss
	}

	if w.stepScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.stepScreen.Back() {
		w.applyStep()
		w.intake.Retreat()
		return w.transitionToStep()
	}

	if w.stepScreen.Done() {
		w.applyStep()
		if w.intake.IsLast() {
			return w.startSubmit()
		}
		w.intake.Advance()
		return w.transitionToStep()
	}

	return w, cmd
}

// startSubmit sends the answers and shows the spinner until they resolve.
func (w *Wizard) startSubmit() (tea.Model, tea.Cmd) {
	w.phase = PhaseSubmitting
	w.submittingScreen = screens.NewSubmittingScreen("Analyzing your health data...")
	return w, tea.Batch(w.submittingScreen.Init(), w.submitCmd())
}

func (w *Wizard) submitCmd() tea.Cmd {
	iw, ctx := w.intake, w.ctx
	return func() tea.Msg {
		out, err := iw.Submit(ctx)
		return screens.SubmittedMsg{Outcome: out, Err: err}
	}
}

// updateSubmitting handles updates while a prediction is outstanding.
func (w *Wizard) updateSubmitting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if sm, ok := msg.(screens.SubmittedMsg); ok {
		return w.handleSubmitted(sm)
	}

	model, cmd := w.submittingScreen.Update(msg)
	if ss, ok := model.(*screens.SubmittingScreen); ok {
		w.submittingScreen = ss
	}

	if w.submittingScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	return w, cmd
}

// handleSubmitted routes a finished submission to results, back to the
// questions or to the failure screen.
func (w *Wizard) handleSubmitted(msg screens.SubmittedMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Err == nil:
		return w.transitionToResults(nil)

	case intake.IsValidationError(msg.Err):
		w.retreatToFirstError()
		return w.transitionToStep()

	case errors.Is(msg.Err, intake.ErrStaleResponse),
		errors.Is(msg.Err, intake.ErrSubmitInFlight),
		errors.Is(msg.Err, intake.ErrNotAtFinalStep):
		w.logger.Debug("submission ignored", zap.Error(msg.Err))
		return w.transitionToStep()
	}

	text := w.intake.Store().Snapshot().Error
	if text == "" {
		text = predict.UserMessage(msg.Err)
	}
	w.phase = PhaseFailure
	w.failureScreen = screens.NewFailureScreen(text, predict.IsRetryable(msg.Err))
	return w, w.sized(w.failureScreen.Init())
}

// retreatToFirstError moves back to the earliest step with an invalid answer.
func (w *Wizard) retreatToFirstError() {
	target := w.intake.Step()
	for f := range w.intake.Errors() {
		if i := intake.StepOf(f); i >= 0 && i < target {
			target = i
		}
	}
	for w.intake.Step() > target {
		w.intake.Retreat()
	}
}

// updateFailure handles updates on the failure screen.
func (w *Wizard) updateFailure(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.failureScreen.Update(msg)
	if fs, ok := model.(*screens.FailureScreen); ok {
		w.failureScreen = fs
	}

	if w.failureScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.failureScreen.Done() {
		switch w.failureScreen.Action() {
		case screens.FailureRetry:
			return w.startSubmit()
		case screens.FailureQuit:
			return w, tea.Quit
		default:
			return w.transitionToStep()
		}
	}

	return w, cmd
}

// transitionToResults shows the outcome, with notice from the last action.
func (w *Wizard) transitionToResults(notice *results.Notice) (tea.Model, tea.Cmd) {
	w.phase = PhaseResults
	w.resultsScreen = screens.NewResultsScreen(w.presenter, notice)
	return w, w.sized(w.resultsScreen.Init())
}

// updateResults handles updates on the results screen.
func (w *Wizard) updateResults(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case screens.NoticeMsg:
		n := msg.Notice
		return w.transitionToResults(&n)
	case screens.DashboardMsg:
		w.phase = PhaseDashboard
		w.dashboardScreen = screens.NewDashboardScreen(msg.Data, msg.Err, w.width, w.height)
		return w, w.dashboardScreen.Init()
	}

	model, cmd := w.resultsScreen.Update(msg)
	if rs, ok := model.(*screens.ResultsScreen); ok {
		w.resultsScreen = rs
	}

	if w.resultsScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.resultsScreen.Done() && !w.resultsScreen.Busy() {
		return w.runResultsAction(w.resultsScreen.Action())
	}

	return w, cmd
}

// runResultsAction starts the chosen action. Report and share requests run
// in the background and come back as a NoticeMsg.
func (w *Wizard) runResultsAction(action screens.ResultsAction) (tea.Model, tea.Cmd) {
	p, ctx := w.presenter, w.ctx

	switch action {
	case screens.ActionDownload:
		w.resultsScreen.SetBusy("Downloading report...")
		dir := w.reportDir
		return w, func() tea.Msg {
			return screens.NoticeMsg{Notice: p.Export(ctx, dir)}
		}

	case screens.ActionShare:
		w.resultsScreen.SetBusy("Creating share link...")
		return w, func() tea.Msg {
			return screens.NoticeMsg{Notice: p.Share(ctx)}
		}

	case screens.ActionDashboard:
		w.resultsScreen.SetBusy("Loading dashboard...")
		return w, func() tea.Msg {
			d, err := p.Dashboard(ctx)
			return screens.DashboardMsg{Data: d, Err: err}
		}

	case screens.ActionSaveAnswers:
		return w.transitionToSaveAnswers()

	case screens.ActionNew:
		w.intake.Reset()
		return w.transitionToStep()
	}

	return w, tea.Quit
}

// updateDashboard handles updates on the dashboard screen.
func (w *Wizard) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.dashboardScreen.Update(msg)
	if ds, ok := model.(*screens.DashboardScreen); ok {
		w.dashboardScreen = ds
	}

	if w.dashboardScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.dashboardScreen.Done() {
		return w.transitionToResults(nil)
	}

	return w, cmd
}

// transitionToSaveAnswers shows the save answers dialog.
func (w *Wizard) transitionToSaveAnswers() (tea.Model, tea.Cmd) {
	w.phase = PhaseSaveAnswers
	if w.answersPath == "" {
		w.answersPath = DefaultAnswersPath
	}

	w.saveAnswersForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("answers_path").
				Title("Save answers to").
				Description("Load them later with: strokecheck wizard --from <file>").
				Value(&w.answersPath).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),
		),
	).WithShowHelp(false)

	return w, w.saveAnswersForm.Init()
}

// updateSaveAnswers handles updates in the save answers phase.
func (w *Wizard) updateSaveAnswers(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			return w.transitionToResults(nil)
		case "ctrl+c":
			w.cancelled = true
			return w, tea.Quit
		}
	}

	form, cmd := w.saveAnswersForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.saveAnswersForm = f
	}

	if w.saveAnswersForm.State == huh.StateCompleted {
		n := w.saveAnswers()
		return w.transitionToResults(&n)
	}

	return w, cmd
}

// saveAnswers writes the current answers to answersPath.
func (w *Wizard) saveAnswers() results.Notice {
	if err := intake.SaveAnswers(w.intake.Record(), w.answersPath); err != nil {
		w.logger.Warn("saving answers failed", zap.String("path", w.answersPath), zap.Error(err))
		return results.Notice{Kind: results.NoticeError, Text: fmt.Sprintf("Could not save answers: %v", err)}
	}
	return results.Notice{
		Kind: results.NoticeSuccess,
		Text: "Answers saved to " + w.answersPath,
		Path: w.answersPath,
	}
}

// viewSaveAnswers renders the save answers dialog.
func (w *Wizard) viewSaveAnswers() string {
	title := components.TitleStyle.Render("Save Answers")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		w.saveAnswersForm.View(),
		"",
		components.KeyHintStyle.Render("Enter: Save | Esc: Back"),
	)
}

// Run starts the interactive assessment and returns when the user quits.
func Run(ctx context.Context, deps Deps) error {
	w := New(ctx, deps)
	p := tea.NewProgram(w, tea.WithAltScreen(), tea.WithContext(ctx))

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("running wizard: %w", err)
	}

	if fw, ok := finalModel.(*Wizard); ok && fw.cancelled {
		w.logger.Debug("wizard cancelled")
	}

	return nil
}
