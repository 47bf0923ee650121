package intake

import (
	"errors"
	"sort"
	"strings"
)

// ValidationError reports invalid answers, keyed by field.
type ValidationError struct {
	Fields map[Field]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		keys = append(keys, string(f))
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[Field(k)])
	}
	return "invalid answers: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err carries field errors.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// State is the questionnaire position, the answers and the current field errors.
// A State belongs to a single wizard.
type State struct {
	step   int
	errors map[Field]string
	record Record
}

// NewState returns an empty questionnaire positioned on the first step.
func NewState() *State {
	return &State{errors: make(map[Field]string)}
}

// NewStateFrom returns a questionnaire prefilled with r, positioned on the first step.
func NewStateFrom(r Record) *State {
	s := NewState()
	s.record = r
	return s
}

// Step returns the current step index.
func (s *State) Step() int { return s.step }

// Current returns the current step.
func (s *State) Current() Step { return Steps[s.step] }

// IsLast reports whether the current step is the final one.
func (s *State) IsLast() bool { return s.step == LastStep }

// Record returns a copy of the answers.
func (s *State) Record() Record { return s.record }

// Errors returns a copy of the field errors.
func (s *State) Errors() map[Field]string {
	out := make(map[Field]string, len(s.errors))
	for f, msg := range s.errors {
		out[f] = msg
	}
	return out
}

// Error returns the error for f, or "" when f is valid.
func (s *State) Error(f Field) string { return s.errors[f] }

// SetField stores raw as the answer for f and clears the error for f.
// The answer is not checked until the step is validated.
func (s *State) SetField(f Field, raw string) error {
	if err := s.record.Set(f, raw); err != nil {
		return err
	}
	delete(s.errors, f)
	return nil
}

// ValidateStep checks that every question of step i is answered and returns
// the unanswered fields. The error map is replaced with exactly those violations.
func (s *State) ValidateStep(i int) []Field {
	if i < 0 || i >= len(Steps) {
		return nil
	}

	var violations []Field
	errs := make(map[Field]string)
	for _, f := range Steps[i].Fields {
		if !s.record.IsSet(f) {
			errs[f] = f.Spec().Required
			violations = append(violations, f)
		}
	}
	s.errors = errs
	return violations
}

// Advance moves to the next step if the current one is complete. It returns
// false, leaving the step unchanged, when there are violations.
func (s *State) Advance() bool {
	if len(s.ValidateStep(s.step)) > 0 {
		return false
	}
	if s.step < LastStep {
		s.step++
	}
	return true
}

// Retreat moves to the previous step. Errors are kept.
func (s *State) Retreat() {
	if s.step > 0 {
		s.step--
	}
}

// Reset discards all answers and returns to the first step.
func (s *State) Reset() {
	s.step = 0
	s.errors = make(map[Field]string)
	s.record = Record{}
}

// setErrors merges field errors into the error map.
func (s *State) setErrors(errs map[Field]string) {
	for f, msg := range errs {
		s.errors[f] = msg
	}
}
