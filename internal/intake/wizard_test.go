package intake

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/PhilipNzube/stroke-prediction-app/internal/predict"
	"github.com/PhilipNzube/stroke-prediction-app/internal/predict/predicttest"
	"github.com/PhilipNzube/stroke-prediction-app/internal/session"
)

func writeFile(path, data string) error {
	return os.WriteFile(path, []byte(data), 0o600)
}

// fakePredictor answers with out/err, optionally waiting for release first.
type fakePredictor struct {
	mu      sync.Mutex
	calls   int
	last    predict.Payload
	out     *predict.Outcome
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakePredictor) Predict(ctx context.Context, p predict.Payload) (*predict.Outcome, error) {
	f.mu.Lock()
	f.calls++
	f.last = p
	f.mu.Unlock()

	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	return f.out, f.err
}

func (f *fakePredictor) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var lowRisk = &predict.Outcome{
	StrokeProbability: 3.2,
	RiskLevel:         predict.RiskLow,
	Recommendations:   map[string][]string{"lifestyle": {"Exercise regularly"}},
}

func readyWizard(t *testing.T, client Predictor, opts ...WizardOption) *Wizard {
	t.Helper()
	opts = append([]WizardOption{WithRecord(completeRecord())}, opts...)
	w := NewWizard(client, session.NewStore(), opts...)
	if !w.AdvanceToEnd() {
		t.Fatalf("AdvanceToEnd failed: %v", w.Errors())
	}
	return w
}

func TestSubmit_Success(t *testing.T) {
	fp := &fakePredictor{out: lowRisk}
	w := readyWizard(t, fp)

	out, err := w.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if out.RiskLevel != predict.RiskLow {
		t.Errorf("RiskLevel = %s, want low", out.RiskLevel)
	}

	snap := w.Store().Snapshot()
	if snap.Loading {
		t.Error("loading should be false after success")
	}
	if snap.Outcome == nil || snap.Outcome.RiskLevel != predict.RiskLow {
		t.Errorf("store outcome = %+v", snap.Outcome)
	}
	if snap.Submission == nil || snap.Submission.Age != 50 || snap.Submission.SmokingStatus != "never smoked" {
		t.Errorf("store submission = %+v", snap.Submission)
	}
	if fp.last.ResidenceType != "Urban" {
		t.Errorf("sent Residence_type = %q", fp.last.ResidenceType)
	}
}

func TestSubmit_Failure(t *testing.T) {
	fp := &fakePredictor{err: &predict.NetworkError{Op: "predict", Err: errors.New("connection refused")}}
	w := readyWizard(t, fp)

	_, err := w.Submit(context.Background())
	var ne *predict.NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("Submit error = %v, want NetworkError", err)
	}

	snap := w.Store().Snapshot()
	if snap.Error == "" || snap.Outcome != nil || snap.Loading {
		t.Errorf("store = %+v, want error only", snap)
	}
	if !w.IsLast() {
		t.Errorf("wizard moved to step %d", w.Step())
	}

	fp.err = nil
	fp.out = lowRisk
	if _, err := w.Submit(context.Background()); err != nil {
		t.Fatalf("resubmission failed: %v", err)
	}
	if snap := w.Store().Snapshot(); snap.Error != "" || snap.Outcome == nil {
		t.Errorf("after retry store = %+v", snap)
	}
}

func TestSubmit_NotAtFinalStep(t *testing.T) {
	fp := &fakePredictor{out: lowRisk}
	w := NewWizard(fp, session.NewStore(), WithRecord(completeRecord()))

	if _, err := w.Submit(context.Background()); !errors.Is(err, ErrNotAtFinalStep) {
		t.Errorf("Submit error = %v, want ErrNotAtFinalStep", err)
	}
	if fp.Calls() != 0 {
		t.Error("no request expected")
	}
}

func TestSubmit_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		value string
	}{
		{"blank last-step field", FieldSmokingStatus, ""},
		{"fractional age", FieldAge, "67.5"},
		{"unparseable glucose", FieldAvgGlucoseLevel, "high"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fp := &fakePredictor{out: lowRisk}
			w := readyWizard(t, fp)
			if err := w.SetField(tc.field, tc.value); err != nil {
				t.Fatal(err)
			}

			_, err := w.Submit(context.Background())
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Submit error = %v, want ValidationError", err)
			}
			if ve.Fields[tc.field] == "" {
				t.Errorf("no error for %s: %v", tc.field, ve.Fields)
			}
			if w.Error(tc.field) == "" {
				t.Errorf("wizard does not show the error for %s", tc.field)
			}
			if fp.Calls() != 0 {
				t.Error("no request expected for invalid answers")
			}
			if w.Store().Snapshot().Loading {
				t.Error("loading should stay false")
			}
		})
	}
}

func TestSubmit_BoundsAreSoftByDefault(t *testing.T) {
	fp := &fakePredictor{out: lowRisk}
	w := readyWizard(t, fp)
	_ = w.SetField(FieldAge, "15")

	if _, err := w.Submit(context.Background()); err != nil {
		t.Fatalf("out-of-range age should not block submission: %v", err)
	}
	if fp.Calls() != 1 {
		t.Errorf("calls = %d, want 1", fp.Calls())
	}
}

func TestSubmit_StrictBounds(t *testing.T) {
	fp := &fakePredictor{out: lowRisk}
	w := readyWizard(t, fp, WithStrict(true))
	_ = w.SetField(FieldBMI, "70")

	_, err := w.Submit(context.Background())
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Submit error = %v, want ValidationError", err)
	}
	if ve.Fields[FieldBMI] != "BMI must be between 15 and 60 kg/m²" {
		t.Errorf("bmi error = %q", ve.Fields[FieldBMI])
	}
	if fp.Calls() != 0 {
		t.Error("no request expected")
	}
}

func TestSubmit_RejectedWhileInFlight(t *testing.T) {
	fp := &fakePredictor{out: lowRisk, started: make(chan struct{}), release: make(chan struct{})}
	w := readyWizard(t, fp)

	done := make(chan error, 1)
	go func() {
		_, err := w.Submit(context.Background())
		done <- err
	}()
	<-fp.started

	if !w.Store().Snapshot().Loading {
		t.Error("loading should be true while the request is outstanding")
	}
	if _, err := w.Submit(context.Background()); !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("second Submit error = %v, want ErrSubmitInFlight", err)
	}

	close(fp.release)
	if err := <-done; err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}
	if fp.Calls() != 1 {
		t.Errorf("calls = %d, want 1", fp.Calls())
	}
}

func TestSubmit_ResubmitClearsPreviousResult(t *testing.T) {
	tests := []struct {
		name  string
		first *fakePredictor
	}{
		{"after success", &fakePredictor{out: lowRisk}},
		{"after failure", &fakePredictor{err: &predict.NetworkError{Err: errors.New("connection refused")}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := readyWizard(t, tc.first)
			_, _ = w.Submit(context.Background())

			second := &fakePredictor{out: lowRisk, started: make(chan struct{}), release: make(chan struct{})}
			w.client = second
			done := make(chan error, 1)
			go func() {
				_, err := w.Submit(context.Background())
				done <- err
			}()
			<-second.started

			snap := w.Store().Snapshot()
			if !snap.Loading || snap.Outcome != nil || snap.Error != "" {
				t.Errorf("state while resubmitting = %+v", snap)
			}

			close(second.release)
			if err := <-done; err != nil {
				t.Fatalf("second Submit failed: %v", err)
			}
		})
	}
}

func TestSubmit_ConcurrentCallsSendOnce(t *testing.T) {
	fp := &fakePredictor{out: lowRisk, started: make(chan struct{}), release: make(chan struct{})}
	w := readyWizard(t, fp)

	const callers = 8
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			_, err := w.Submit(context.Background())
			errs <- err
		}()
	}
	<-fp.started

	// every caller but the one holding the request is turned away
	for i := 0; i < callers-1; i++ {
		if err := <-errs; !errors.Is(err, ErrSubmitInFlight) {
			t.Errorf("Submit error = %v, want ErrSubmitInFlight", err)
		}
	}
	close(fp.release)
	if err := <-errs; err != nil {
		t.Errorf("outstanding Submit failed: %v", err)
	}
	if fp.Calls() != 1 {
		t.Errorf("calls = %d, want 1", fp.Calls())
	}
}

func TestSubmit_StaleAfterReset(t *testing.T) {
	fp := &fakePredictor{out: lowRisk, started: make(chan struct{}), release: make(chan struct{})}
	w := readyWizard(t, fp)

	done := make(chan error, 1)
	go func() {
		_, err := w.Submit(context.Background())
		done <- err
	}()
	<-fp.started

	w.Reset()
	close(fp.release)

	if err := <-done; !errors.Is(err, ErrStaleResponse) {
		t.Fatalf("Submit error = %v, want ErrStaleResponse", err)
	}
	snap := w.Store().Snapshot()
	if snap.Outcome != nil || snap.Loading || snap.Submission != nil {
		t.Errorf("stale response changed the new session: %+v", snap)
	}
	if w.Step() != 0 || w.Record() != (Record{}) {
		t.Error("Reset should clear the wizard")
	}
}

func TestAdvanceToEnd_StopsAtIncompleteStep(t *testing.T) {
	r := completeRecord()
	r.BMI = ""
	w := NewWizard(&fakePredictor{}, session.NewStore(), WithRecord(r))

	if w.AdvanceToEnd() {
		t.Fatal("AdvanceToEnd should fail with BMI missing")
	}
	if w.Step() != StepOf(FieldBMI) {
		t.Errorf("Step() = %d, want %d", w.Step(), StepOf(FieldBMI))
	}
	if w.Error(FieldBMI) != "BMI is required" {
		t.Errorf("BMI error = %q", w.Error(FieldBMI))
	}
}

func TestSubmit_AgainstService(t *testing.T) {
	srv, err := predicttest.New()
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	client, err := predict.NewClient(predict.Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	w := readyWizard(t, client)

	if _, err := w.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	snap := w.Store().Snapshot()
	if snap.Outcome == nil || snap.Outcome.RiskLevel != predict.RiskLow || snap.Loading {
		t.Errorf("store = %+v, want low risk outcome", snap)
	}
}

func TestSubmit_ServiceUnreachable(t *testing.T) {
	srv, err := predicttest.New()
	if err != nil {
		t.Fatal(err)
	}
	url := srv.URL
	srv.Close()

	client, err := predict.NewClient(predict.Config{BaseURL: url, Timeout: 2 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	w := readyWizard(t, client)

	if _, err := w.Submit(context.Background()); err == nil {
		t.Fatal("Submit should fail when the service is down")
	}
	snap := w.Store().Snapshot()
	if snap.Error == "" || snap.Outcome != nil || snap.Loading {
		t.Errorf("store = %+v", snap)
	}
	if !w.IsLast() {
		t.Error("wizard should stay on the final step")
	}
}

func TestSubmit_ServerMessageSurfaced(t *testing.T) {
	srv, err := predicttest.New()
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()
	srv.Fail(predict.PathPredict, 500, "Model not loaded")

	client, err := predict.NewClient(predict.Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	w := readyWizard(t, client)
	_, _ = w.Submit(context.Background())

	if got := w.Store().Snapshot().Error; got != "Model not loaded" {
		t.Errorf("store error = %q, want the server's message", got)
	}
}
