package intake

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/PhilipNzube/stroke-prediction-app/internal/predict"
	"github.com/PhilipNzube/stroke-prediction-app/internal/session"
)

// Submit errors that involve no request.
var (
	ErrNotAtFinalStep = errors.New("answers can only be submitted from the final step")
	ErrSubmitInFlight = errors.New("a submission is already in progress")
	ErrStaleResponse  = errors.New("response arrived after the session was reset")
)

// Predictor is the part of the prediction client the wizard needs.
type Predictor interface {
	Predict(ctx context.Context, p predict.Payload) (*predict.Outcome, error)
}

// Wizard drives one questionnaire: it owns the State and submits the answers
// through a Predictor, recording the result in the session store.
//
// Submit may be called from any goroutine. The navigation methods of the
// embedded State are not safe for concurrent use and belong to the caller
// that drives the questionnaire.
type Wizard struct {
	*State

	// submitMu serializes validation and claiming the store in Submit.
	submitMu sync.Mutex

	client Predictor
	store  *session.Store
	strict bool
	logger *zap.Logger
}

// WizardOption customizes a Wizard.
type WizardOption func(*Wizard)

// WithStrict makes out-of-range numbers block submission.
func WithStrict(strict bool) WizardOption {
	return func(w *Wizard) { w.strict = strict }
}

// WithLogger sets the logger for submissions.
func WithLogger(l *zap.Logger) WizardOption {
	return func(w *Wizard) { w.logger = l }
}

// WithRecord prefills the answers.
func WithRecord(r Record) WizardOption {
	return func(w *Wizard) { w.State = NewStateFrom(r) }
}

// NewWizard returns a wizard on the first step with no answers.
func NewWizard(client Predictor, store *session.Store, opts ...WizardOption) *Wizard {
	w := &Wizard{
		State:  NewState(),
		client: client,
		store:  store,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Store returns the session store the wizard reports to.
func (w *Wizard) Store() *session.Store { return w.store }

// Strict reports whether range checks block submission.
func (w *Wizard) Strict() bool { return w.strict }

// Submit validates the final step, converts the answers and requests a
// prediction. Only one submission may be outstanding; a second call returns
// ErrSubmitInFlight without sending anything.
//
// On success the outcome is stored and returned. On failure the message is
// stored, the wizard stays on the final step and the error is returned.
// Invalid answers produce a *ValidationError and no request.
func (w *Wizard) Submit(ctx context.Context) (*predict.Outcome, error) {
	ticket, payload, err := w.claim()
	if err != nil {
		return nil, err
	}

	log := w.logger.With(zap.Uint64("generation", ticket.Generation()))
	log.Info("submitting assessment")

	out, err := w.client.Predict(ctx, payload)
	if err != nil {
		msg := predict.UserMessage(err)
		if !w.store.Settle(ticket, session.SetError{Message: msg}) {
			return nil, ErrStaleResponse
		}
		log.Warn("prediction failed", zap.Error(err), zap.Bool("retryable", predict.IsRetryable(err)))
		return nil, fmt.Errorf("submitting assessment: %w", err)
	}

	if !w.store.Settle(ticket, session.SetOutcome{Outcome: out}) {
		return nil, ErrStaleResponse
	}
	log.Info("prediction received",
		zap.String("risk_level", string(out.RiskLevel)),
		zap.Float64("stroke_probability", out.StrokeProbability))
	return out, nil
}

// claim validates the answers and, when they are valid, marks the request as
// outstanding in the store.
func (w *Wizard) claim() (session.Ticket, predict.Payload, error) {
	w.submitMu.Lock()
	defer w.submitMu.Unlock()

	if !w.IsLast() {
		return session.Ticket{}, predict.Payload{}, ErrNotAtFinalStep
	}
	if w.store.Snapshot().Loading {
		return session.Ticket{}, predict.Payload{}, ErrSubmitInFlight
	}

	if v := w.ValidateStep(LastStep); len(v) > 0 {
		return session.Ticket{}, predict.Payload{}, &ValidationError{Fields: w.Errors()}
	}

	payload, errs := ToPayload(w.Record())
	if w.strict {
		for f, msg := range boundErrors(w.Record().Hints()) {
			if _, ok := errs[f]; !ok {
				errs[f] = msg
			}
		}
	}
	if len(errs) > 0 {
		w.setErrors(errs)
		return session.Ticket{}, predict.Payload{}, &ValidationError{Fields: w.Errors()}
	}

	ticket, ok := w.store.Begin()
	if !ok {
		return session.Ticket{}, predict.Payload{}, ErrSubmitInFlight
	}
	w.store.SetSubmission(payload)
	return ticket, payload, nil
}

// Reset discards the answers, returns to the first step and resets the
// session, so a response still in flight is ignored when it arrives.
func (w *Wizard) Reset() {
	w.State.Reset()
	w.store.Reset()
}

// AdvanceToEnd moves forward through every complete step and stops at the
// first incomplete one. It reports whether the final step was reached with
// all answers present.
func (w *Wizard) AdvanceToEnd() bool {
	for !w.IsLast() {
		if !w.Advance() {
			return false
		}
	}
	return len(w.ValidateStep(LastStep)) == 0
}
