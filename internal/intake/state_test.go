package intake

import (
	"strings"
	"testing"
)

func completeRecord() Record {
	return Record{
		Age:             "50",
		Gender:          "Male",
		Hypertension:    "0",
		HeartDisease:    "0",
		EverMarried:     "Yes",
		WorkType:        "Private",
		ResidenceType:   "Urban",
		AvgGlucoseLevel: "120.0",
		BMI:             "25.0",
		SmokingStatus:   "never smoked",
	}
}

func TestValidateStep_ViolationsIffFieldEmpty(t *testing.T) {
	for step, s := range Steps {
		s := s
		t.Run(s.Key, func(t *testing.T) {
			st := NewStateFrom(completeRecord())
			if v := st.ValidateStep(step); len(v) != 0 {
				t.Fatalf("complete record: ValidateStep(%d) = %v, want none", step, v)
			}

			for _, f := range s.Fields {
				for _, blank := range []string{"", "   "} {
					r := completeRecord()
					if err := r.Set(f, blank); err != nil {
						t.Fatal(err)
					}
					st := NewStateFrom(r)
					v := st.ValidateStep(step)
					if len(v) != 1 || v[0] != f {
						t.Errorf("blank %s: violations = %v, want [%s]", f, v, f)
					}
					if st.Error(f) != f.Spec().Required {
						t.Errorf("blank %s: error = %q, want %q", f, st.Error(f), f.Spec().Required)
					}
				}
			}
		})
	}
}

func TestValidateStep_RequiredMessages(t *testing.T) {
	st := NewState()
	st.ValidateStep(0)
	want := map[Field]string{
		FieldAge:         "Age is required",
		FieldGender:      "Gender is required",
		FieldEverMarried: "Marital status is required",
	}
	got := st.Errors()
	if len(got) != len(want) {
		t.Fatalf("Errors() = %v, want %v", got, want)
	}
	for f, msg := range want {
		if got[f] != msg {
			t.Errorf("error for %s = %q, want %q", f, got[f], msg)
		}
	}
}

func TestValidateStep_ReplacesErrors(t *testing.T) {
	st := NewState()
	st.ValidateStep(0)
	st.ValidateStep(1)

	errs := st.Errors()
	if _, ok := errs[FieldAge]; ok {
		t.Error("errors from step 0 should be replaced by step 1 validation")
	}
	if errs[FieldBMI] != "BMI is required" {
		t.Errorf("BMI error = %q", errs[FieldBMI])
	}
}

func TestValidateStep_OutOfRange(t *testing.T) {
	st := NewState()
	if v := st.ValidateStep(-1); v != nil {
		t.Errorf("ValidateStep(-1) = %v, want nil", v)
	}
	if v := st.ValidateStep(len(Steps)); v != nil {
		t.Errorf("ValidateStep(%d) = %v, want nil", len(Steps), v)
	}
}

func TestAdvance_BlockedByViolations(t *testing.T) {
	st := NewState()
	_ = st.SetField(FieldAge, "50")

	if st.Advance() {
		t.Fatal("Advance should fail with gender and marital status missing")
	}
	if st.Step() != 0 {
		t.Errorf("Step() = %d, want 0", st.Step())
	}
	if st.Error(FieldGender) == "" || st.Error(FieldEverMarried) == "" {
		t.Errorf("errors not surfaced: %v", st.Errors())
	}
}

func TestAdvance_ThroughAllSteps(t *testing.T) {
	st := NewStateFrom(completeRecord())
	for want := 1; want <= LastStep; want++ {
		if !st.Advance() {
			t.Fatalf("Advance from %d failed: %v", want-1, st.Errors())
		}
		if st.Step() != want {
			t.Fatalf("Step() = %d, want %d", st.Step(), want)
		}
	}
	if !st.Advance() {
		t.Fatal("Advance at the last step with valid answers should report true")
	}
	if st.Step() != LastStep {
		t.Errorf("Advance at the last step moved to %d", st.Step())
	}
}

func TestRetreat(t *testing.T) {
	st := NewState()
	st.Retreat()
	if st.Step() != 0 {
		t.Errorf("Retreat at 0 moved to %d", st.Step())
	}

	st = NewStateFrom(completeRecord())
	st.Advance()
	st.Advance()
	_ = st.SetField(FieldBMI, "")
	st.Retreat()
	if st.Step() != 1 {
		t.Fatalf("Step() = %d, want 1", st.Step())
	}
	st.ValidateStep(1)
	st.Retreat()
	if st.Step() != 0 {
		t.Fatalf("Step() = %d, want 0", st.Step())
	}
	if st.Error(FieldBMI) == "" {
		t.Error("Retreat should keep errors")
	}
}

func TestSetField_ClearsOnlyThatError(t *testing.T) {
	st := NewState()
	st.ValidateStep(0)

	if err := st.SetField(FieldAge, "abc"); err != nil {
		t.Fatal(err)
	}
	if st.Error(FieldAge) != "" {
		t.Error("SetField should clear the field's error")
	}
	if st.Error(FieldGender) == "" {
		t.Error("SetField should not clear other errors")
	}
	if st.Record().Age != "abc" {
		t.Errorf("raw value not stored verbatim: %q", st.Record().Age)
	}
}

func TestSetField_UnknownField(t *testing.T) {
	st := NewState()
	if err := st.SetField(Field("residence_typ"), "Urban"); err == nil {
		t.Error("SetField with an unknown field should fail")
	}
}

func TestReset(t *testing.T) {
	st := NewStateFrom(completeRecord())
	st.Advance()
	st.ValidateStep(0)
	st.Reset()

	if st.Step() != 0 || len(st.Errors()) != 0 || st.Record() != (Record{}) {
		t.Errorf("Reset left step=%d errors=%v record=%+v", st.Step(), st.Errors(), st.Record())
	}
}

func TestParseField(t *testing.T) {
	f, err := ParseField("residence_type")
	if err != nil || f != FieldResidenceType {
		t.Errorf("ParseField(residence_type) = %q, %v", f, err)
	}
	if _, err := ParseField("height"); err == nil {
		t.Error("ParseField(height) should return error")
	}
}

func TestEveryFieldBelongsToOneStep(t *testing.T) {
	for _, f := range AllFields() {
		if StepOf(f) < 0 {
			t.Errorf("%s is not asked in any step", f)
		}
		if f.Spec().Required == "" {
			t.Errorf("%s has no required message", f)
		}
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: map[Field]string{FieldBMI: "BMI is required", FieldAge: "Age is required"}}
	if got := err.Error(); !strings.HasPrefix(got, "invalid answers: Age is required") {
		t.Errorf("Error() = %q, want sorted field messages", got)
	}
	if !IsValidationError(err) {
		t.Error("IsValidationError should match")
	}
}
