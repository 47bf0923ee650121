package wizard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/PhilipNzube/stroke-prediction-app/cmd/strokecheck/wizard/screens"
	"github.com/PhilipNzube/stroke-prediction-app/internal/intake"
	"github.com/PhilipNzube/stroke-prediction-app/internal/predict"
	"github.com/PhilipNzube/stroke-prediction-app/internal/predict/predicttest"
	"github.com/PhilipNzube/stroke-prediction-app/internal/results"
	"github.com/PhilipNzube/stroke-prediction-app/internal/session"
)

type stubPredictor struct {
	out   *predict.Outcome
	err   error
	calls int
}

func (s *stubPredictor) Predict(ctx context.Context, p predict.Payload) (*predict.Outcome, error) {
	s.calls++
	return s.out, s.err
}

func fullRecord() intake.Record {
	return intake.Record{
		Age:             "67",
		Gender:          "Female",
		Hypertension:    "1",
		HeartDisease:    "0",
		EverMarried:     "Yes",
		WorkType:        "Private",
		ResidenceType:   "Urban",
		AvgGlucoseLevel: "150.5",
		BMI:             "28.3",
		SmokingStatus:   "never smoked",
	}
}

func newTestWizard(t *testing.T, p intake.Predictor, opts ...intake.WizardOption) *Wizard {
	t.Helper()
	srv, err := predicttest.New()
	if err != nil {
		t.Fatalf("starting stub service: %v", err)
	}
	t.Cleanup(srv.Close)
	client, err := predict.NewClient(predict.Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if p == nil {
		p = client
	}

	store := session.NewStore()
	return New(context.Background(), Deps{
		Intake:    intake.NewWizard(p, store, opts...),
		Presenter: results.NewPresenter(client, store),
		ReportDir: t.TempDir(),
	})
}

func TestNew_StartsOnFirstStep(t *testing.T) {
	w := newTestWizard(t, &stubPredictor{})

	if w.Phase() != PhaseQuestions {
		t.Errorf("Expected PhaseQuestions, got %d", w.Phase())
	}
	if w.stepScreen.Index() != 0 {
		t.Errorf("Expected step 0, got %d", w.stepScreen.Index())
	}
	if len(w.intake.Errors()) != 0 {
		t.Errorf("Expected no errors on a fresh wizard, got %v", w.intake.Errors())
	}
}

func TestNew_PrefilledOpensOnFirstIncompleteStep(t *testing.T) {
	rec := fullRecord()
	rec.BMI = ""
	w := newTestWizard(t, &stubPredictor{}, intake.WithRecord(rec))

	if w.stepScreen.Index() != 1 {
		t.Errorf("Expected step 1 (health), got %d", w.stepScreen.Index())
	}
	if !strings.Contains(w.View(), "BMI is required") {
		t.Error("Expected the missing answer to be flagged")
	}
}

func TestNew_CompleteAnswersOpenOnLastStep(t *testing.T) {
	w := newTestWizard(t, &stubPredictor{}, intake.WithRecord(fullRecord()))

	if w.stepScreen.Index() != intake.LastStep {
		t.Errorf("Expected last step, got %d", w.stepScreen.Index())
	}
}

func TestSubmit_SuccessShowsResults(t *testing.T) {
	w := newTestWizard(t, nil, intake.WithRecord(fullRecord()))

	w.startSubmit()
	if w.Phase() != PhaseSubmitting {
		t.Fatalf("Expected PhaseSubmitting, got %d", w.Phase())
	}
	if !strings.Contains(w.View(), "Analyzing your health data") {
		t.Error("Expected the spinner label")
	}

	w.Update(w.submitCmd()())

	if w.Phase() != PhaseResults {
		t.Fatalf("Expected PhaseResults, got %d", w.Phase())
	}
	if !strings.Contains(w.View(), "Low Risk") {
		t.Errorf("Expected the outcome in the view:\n%s", w.View())
	}
}

func TestSubmit_NetworkFailureOffersRetry(t *testing.T) {
	sp := &stubPredictor{err: &predict.NetworkError{Op: "predict", URL: "http://x", Err: errors.New("refused")}}
	w := newTestWizard(t, sp, intake.WithRecord(fullRecord()))

	w.startSubmit()
	w.Update(w.submitCmd()())

	if w.Phase() != PhaseFailure {
		t.Fatalf("Expected PhaseFailure, got %d", w.Phase())
	}
	if w.failureScreen.Action() != screens.FailureRetry {
		t.Errorf("Expected retry to be preselected, got %s", w.failureScreen.Action())
	}
	if !strings.Contains(w.failureScreen.Message(), "Could not reach the prediction service") {
		t.Errorf("Unexpected message: %s", w.failureScreen.Message())
	}
	if w.intake.Step() != intake.LastStep {
		t.Errorf("Expected the wizard to stay on the last step, got %d", w.intake.Step())
	}

	snap := w.intake.Store().Snapshot()
	if snap.HasOutcome() || snap.Loading {
		t.Errorf("Expected error state only, got %+v", snap)
	}
}

func TestSubmit_ServerMessageIsShown(t *testing.T) {
	sp := &stubPredictor{err: &predict.ServerError{Op: "predict", StatusCode: 400, Message: "Missing required field: bmi"}}
	w := newTestWizard(t, sp, intake.WithRecord(fullRecord()))

	w.startSubmit()
	w.Update(w.submitCmd()())

	if w.failureScreen.Message() != "Missing required field: bmi" {
		t.Errorf("Expected the server message, got %q", w.failureScreen.Message())
	}
	if w.failureScreen.Action() != screens.FailureEdit {
		t.Errorf("Expected edit to be preselected for a 400, got %s", w.failureScreen.Action())
	}
}

func TestSubmit_InvalidAnswerReturnsToItsStep(t *testing.T) {
	rec := fullRecord()
	rec.Age = "sixty"
	sp := &stubPredictor{}
	w := newTestWizard(t, sp, intake.WithRecord(rec))

	w.startSubmit()
	w.Update(w.submitCmd()())

	if w.Phase() != PhaseQuestions {
		t.Fatalf("Expected PhaseQuestions, got %d", w.Phase())
	}
	if w.intake.Step() != 0 {
		t.Errorf("Expected step 0, got %d", w.intake.Step())
	}
	if !strings.Contains(w.View(), "Age must be a whole number") {
		t.Errorf("Expected the age error in the view:\n%s", w.View())
	}
	if sp.calls != 0 {
		t.Errorf("Expected no request, got %d", sp.calls)
	}
}

func TestEscRetreats(t *testing.T) {
	w := newTestWizard(t, &stubPredictor{}, intake.WithRecord(fullRecord()))

	w.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if w.intake.Step() != intake.LastStep-1 {
		t.Errorf("Expected step %d, got %d", intake.LastStep-1, w.intake.Step())
	}

	for i := 0; i < 5; i++ {
		w.Update(tea.KeyMsg{Type: tea.KeyEsc})
	}
	if w.intake.Step() != 0 {
		t.Errorf("Expected retreat to stop at 0, got %d", w.intake.Step())
	}
	if w.intake.Record() != fullRecord() {
		t.Error("Expected answers to survive going back")
	}
}

func TestCtrlCCancels(t *testing.T) {
	w := newTestWizard(t, &stubPredictor{})

	_, cmd := w.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !w.Cancelled() {
		t.Error("Expected cancelled")
	}
	if cmd == nil {
		t.Error("Expected a quit command")
	}
}

func TestResults_NewAssessmentResets(t *testing.T) {
	w := newTestWizard(t, nil, intake.WithRecord(fullRecord()))
	w.startSubmit()
	w.Update(w.submitCmd()())
	gen := w.intake.Store().Generation()

	w.runResultsAction(screens.ActionNew)

	if w.Phase() != PhaseQuestions || w.intake.Step() != 0 {
		t.Errorf("Expected first step, got phase %d step %d", w.Phase(), w.intake.Step())
	}
	if w.intake.Record() != (intake.Record{}) {
		t.Error("Expected answers to be cleared")
	}
	if w.intake.Store().Generation() != gen+1 {
		t.Error("Expected the session to be reset")
	}
	if w.intake.Store().Snapshot().HasOutcome() {
		t.Error("Expected the outcome to be cleared")
	}
}

func TestResults_DownloadReport(t *testing.T) {
	w := newTestWizard(t, nil, intake.WithRecord(fullRecord()))
	w.startSubmit()
	w.Update(w.submitCmd()())

	_, cmd := w.runResultsAction(screens.ActionDownload)
	if !w.resultsScreen.Busy() {
		t.Error("Expected the results screen to be busy")
	}

	w.Update(cmd())

	if w.Phase() != PhaseResults {
		t.Fatalf("Expected PhaseResults, got %d", w.Phase())
	}
	if !strings.Contains(w.View(), "Report saved to") {
		t.Errorf("Expected the success notice:\n%s", w.View())
	}
	path := filepath.Join(w.reportDir, "stroke-risk-assessment-report.pdf")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected report at %s: %v", path, err)
	}
}

func TestResults_Dashboard(t *testing.T) {
	w := newTestWizard(t, nil, intake.WithRecord(fullRecord()))
	w.startSubmit()
	w.Update(w.submitCmd()())

	_, cmd := w.runResultsAction(screens.ActionDashboard)
	w.Update(cmd())

	if w.Phase() != PhaseDashboard {
		t.Fatalf("Expected PhaseDashboard, got %d", w.Phase())
	}
	if !strings.Contains(w.View(), "Global Statistics") {
		t.Errorf("Expected statistics in the view:\n%s", w.View())
	}

	w.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if w.Phase() != PhaseResults {
		t.Errorf("Expected PhaseResults after esc, got %d", w.Phase())
	}
}

func TestSaveAnswers(t *testing.T) {
	w := newTestWizard(t, &stubPredictor{}, intake.WithRecord(fullRecord()))
	w.answersPath = filepath.Join(t.TempDir(), "answers.yaml")

	n := w.saveAnswers()
	if n.Kind != results.NoticeSuccess {
		t.Fatalf("Expected success, got %s", n.Text)
	}

	got, err := intake.LoadAnswers(w.answersPath)
	if err != nil {
		t.Fatalf("LoadAnswers: %v", err)
	}
	if got != fullRecord() {
		t.Errorf("Expected %+v, got %+v", fullRecord(), got)
	}
}

func TestSaveAnswers_BadPath(t *testing.T) {
	w := newTestWizard(t, &stubPredictor{})
	w.answersPath = filepath.Join(t.TempDir(), "missing", "dir", "answers.yaml")

	n := w.saveAnswers()
	if n.Kind != results.NoticeError {
		t.Errorf("Expected error notice, got %+v", n)
	}
}
