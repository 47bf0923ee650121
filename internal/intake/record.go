// Package intake holds the stroke-risk questionnaire: the answer record,
// the ordered steps, validation, and conversion into a prediction request.
package intake

import (
	"fmt"
	"strings"
)

// Field names a question. The value is the key the prediction service expects.
type Field string

const (
	FieldAge             Field = "age"
	FieldGender          Field = "gender"
	FieldHypertension    Field = "hypertension"
	FieldHeartDisease    Field = "heart_disease"
	FieldEverMarried     Field = "ever_married"
	FieldWorkType        Field = "work_type"
	FieldResidenceType   Field = "Residence_type"
	FieldAvgGlucoseLevel Field = "avg_glucose_level"
	FieldBMI             Field = "bmi"
	FieldSmokingStatus   Field = "smoking_status"
)

// AllFields returns every question in canonical order.
func AllFields() []Field {
	return []Field{
		FieldAge, FieldGender, FieldHypertension, FieldHeartDisease, FieldEverMarried,
		FieldWorkType, FieldResidenceType, FieldAvgGlucoseLevel, FieldBMI, FieldSmokingStatus,
	}
}

// ParseField resolves a field name case-insensitively.
func ParseField(s string) (Field, error) {
	for _, f := range AllFields() {
		if strings.EqualFold(string(f), strings.TrimSpace(s)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", s)
}

// FieldSpec describes how a question is presented and checked.
type FieldSpec struct {
	Label    string
	Required string // message shown when the answer is missing

	// Expected range for numeric answers; zero Max means no range.
	Min, Max float64
	Unit     string
}

var specs = map[Field]FieldSpec{
	FieldAge:             {Label: "Age", Required: "Age is required", Min: 18, Max: 120, Unit: "years"},
	FieldGender:          {Label: "Gender", Required: "Gender is required"},
	FieldEverMarried:     {Label: "Have you ever been married?", Required: "Marital status is required"},
	FieldHypertension:    {Label: "Do you have hypertension?", Required: "Hypertension status is required"},
	FieldHeartDisease:    {Label: "Do you have heart disease?", Required: "Heart disease status is required"},
	FieldAvgGlucoseLevel: {Label: "Average Glucose Level", Required: "Average glucose level is required", Min: 50, Max: 500, Unit: "mg/dL"},
	FieldBMI:             {Label: "BMI", Required: "BMI is required", Min: 15, Max: 60, Unit: "kg/m²"},
	FieldWorkType:        {Label: "Work Type", Required: "Work type is required"},
	FieldResidenceType:   {Label: "Residence Type", Required: "Residence type is required"},
	FieldSmokingStatus:   {Label: "Smoking Status", Required: "Smoking status is required"},
}

// Spec returns the presentation and validation details of f.
func (f Field) Spec() FieldSpec {
	return specs[f]
}

// Record is the raw answer set for one assessment. Values are kept exactly as
// entered; conversion to typed values happens once, at submission.
type Record struct {
	Age             string
	Gender          string
	Hypertension    string
	HeartDisease    string
	EverMarried     string
	WorkType        string
	ResidenceType   string
	AvgGlucoseLevel string
	BMI             string
	SmokingStatus   string
}

func (r *Record) ptr(f Field) *string {
	switch f {
	case FieldAge:
		return &r.Age
	case FieldGender:
		return &r.Gender
	case FieldHypertension:
		return &r.Hypertension
	case FieldHeartDisease:
		return &r.HeartDisease
	case FieldEverMarried:
		return &r.EverMarried
	case FieldWorkType:
		return &r.WorkType
	case FieldResidenceType:
		return &r.ResidenceType
	case FieldAvgGlucoseLevel:
		return &r.AvgGlucoseLevel
	case FieldBMI:
		return &r.BMI
	case FieldSmokingStatus:
		return &r.SmokingStatus
	}
	return nil
}

// Set stores raw verbatim under f.
func (r *Record) Set(f Field, raw string) error {
	p := r.ptr(f)
	if p == nil {
		return fmt.Errorf("unknown field %q", f)
	}
	*p = raw
	return nil
}

// Get returns the raw answer for f, or "" for an unknown field.
func (r *Record) Get(f Field) string {
	if p := r.ptr(f); p != nil {
		return *p
	}
	return ""
}

// IsSet reports whether f holds a non-blank answer.
func (r *Record) IsSet(f Field) bool {
	return strings.TrimSpace(r.Get(f)) != ""
}

// Missing returns the fields without an answer, in canonical order.
func (r *Record) Missing() []Field {
	var missing []Field
	for _, f := range AllFields() {
		if !r.IsSet(f) {
			missing = append(missing, f)
		}
	}
	return missing
}
