// Package session holds the state shared by the wizard and the results
// views: the last submission, the last outcome, the loading flag and the
// last error. It is changed only by applying messages.
package session

import (
	"time"

	"github.com/PhilipNzube/stroke-prediction-app/internal/predict"
)

// State is one snapshot of the session.
type State struct {
	Submission *predict.Payload
	Outcome    *predict.Outcome
	Loading    bool
	Error      string

	// Generation increases on every Reset. Requests started in an older
	// generation must not settle into a newer one.
	Generation uint64

	// SettledAt is when the last outcome or error arrived.
	SettledAt time.Time
}

// HasOutcome reports whether a result is available.
func (s State) HasOutcome() bool { return s.Outcome != nil }

// HasError reports whether the last operation failed.
func (s State) HasError() bool { return s.Error != "" }

// Settled reports whether no request is outstanding.
func (s State) Settled() bool { return !s.Loading }

func (s State) clone() State {
	c := s
	if s.Submission != nil {
		p := *s.Submission
		c.Submission = &p
	}
	c.Outcome = s.Outcome.Clone()
	return c
}

// Msg is a change to the session. The set of messages is closed.
type Msg interface {
	isMsg()
}

type (
	// SetLoading marks a request as outstanding or not.
	SetLoading struct{ Loading bool }

	// StartRequest begins a submission: loading is set and the previous
	// outcome and error are dropped.
	StartRequest struct{}

	// SetSubmission records the payload being sent.
	SetSubmission struct{ Payload predict.Payload }

	// SetOutcome stores a result and clears loading and any error.
	SetOutcome struct {
		Outcome *predict.Outcome
		At      time.Time
	}

	// SetError stores a failure message and clears loading and any outcome.
	SetError struct {
		Message string
		At      time.Time
	}

	// ClearOutcome drops the result and the error.
	ClearOutcome struct{}

	// Reset returns to the initial state and starts a new generation.
	Reset struct{}
)

func (SetLoading) isMsg()    {}
func (StartRequest) isMsg()  {}
func (SetSubmission) isMsg() {}
func (SetOutcome) isMsg()    {}
func (SetError) isMsg()      {}
func (ClearOutcome) isMsg()  {}
func (Reset) isMsg()         {}

// Reduce returns the state that results from applying msg to s.
// s is not modified.
func Reduce(s State, msg Msg) State {
	next := s.clone()
	switch m := msg.(type) {
	case SetLoading:
		next.Loading = m.Loading
	case StartRequest:
		next.Loading = true
		next.Outcome = nil
		next.Error = ""
	case SetSubmission:
		p := m.Payload
		next.Submission = &p
	case SetOutcome:
		next.Outcome = m.Outcome.Clone()
		next.Error = ""
		next.Loading = false
		next.SettledAt = m.At
	case SetError:
		next.Error = m.Message
		next.Outcome = nil
		next.Loading = false
		next.SettledAt = m.At
	case ClearOutcome:
		next.Outcome = nil
		next.Error = ""
	case Reset:
		next = State{Generation: s.Generation + 1}
	}
	return next
}
