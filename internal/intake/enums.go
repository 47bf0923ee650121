package intake

import (
	"fmt"
	"strings"
)

// Option is a selectable answer: Label is shown to the user, Value is sent to the service.
type Option struct {
	Label string
	Value string
}

// Gender of the person being assessed.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// AllGenders returns all valid genders
func AllGenders() []Gender {
	return []Gender{GenderMale, GenderFemale}
}

// ParseGender parses a gender from its wire value or a short form (m, f).
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return GenderMale, nil
	case "female", "f":
		return GenderFemale, nil
	default:
		return "", fmt.Errorf("invalid gender: %s (valid: Male, Female)", s)
	}
}

// WorkType is the person's occupation category.
type WorkType string

const (
	WorkPrivate        WorkType = "Private"
	WorkSelfEmployed   WorkType = "Self-employed"
	WorkGovernment     WorkType = "Govt_job"
	WorkChildOrStudent WorkType = "children"
)

// AllWorkTypes returns all valid work types
func AllWorkTypes() []WorkType {
	return []WorkType{WorkPrivate, WorkSelfEmployed, WorkGovernment, WorkChildOrStudent}
}

// Label returns the human readable name of the work type.
func (w WorkType) Label() string {
	switch w {
	case WorkSelfEmployed:
		return "Self-employed"
	case WorkGovernment:
		return "Government Job"
	case WorkChildOrStudent:
		return "Children/Student"
	default:
		return "Private"
	}
}

// ParseWorkType accepts the wire value, the label, or a short name
// such as "government" or "student".
func ParseWorkType(s string) (WorkType, error) {
	switch normalize(s) {
	case "private":
		return WorkPrivate, nil
	case "self-employed", "selfemployed", "self":
		return WorkSelfEmployed, nil
	case "govt-job", "government-job", "government", "govt":
		return WorkGovernment, nil
	case "children", "child", "student", "children/student", "child-or-student":
		return WorkChildOrStudent, nil
	default:
		return "", fmt.Errorf("invalid work type: %s (valid: Private, Self-employed, Government, Child-or-Student)", s)
	}
}

// ResidenceType is where the person lives.
type ResidenceType string

const (
	ResidenceUrban ResidenceType = "Urban"
	ResidenceRural ResidenceType = "Rural"
)

// AllResidenceTypes returns all valid residence types
func AllResidenceTypes() []ResidenceType {
	return []ResidenceType{ResidenceUrban, ResidenceRural}
}

// ParseResidenceType parses a residence type.
func ParseResidenceType(s string) (ResidenceType, error) {
	switch normalize(s) {
	case "urban":
		return ResidenceUrban, nil
	case "rural":
		return ResidenceRural, nil
	default:
		return "", fmt.Errorf("invalid residence type: %s (valid: Urban, Rural)", s)
	}
}

// SmokingStatus is the person's smoking history.
type SmokingStatus string

const (
	SmokingNever    SmokingStatus = "never smoked"
	SmokingFormerly SmokingStatus = "formerly smoked"
	SmokingCurrent  SmokingStatus = "smokes"
	SmokingUnknown  SmokingStatus = "Unknown"
)

// AllSmokingStatuses returns all valid smoking statuses
func AllSmokingStatuses() []SmokingStatus {
	return []SmokingStatus{SmokingNever, SmokingFormerly, SmokingCurrent, SmokingUnknown}
}

// Label returns the human readable name of the smoking status.
func (s SmokingStatus) Label() string {
	switch s {
	case SmokingNever:
		return "Never Smoked"
	case SmokingFormerly:
		return "Formerly Smoked"
	case SmokingCurrent:
		return "Currently Smokes"
	default:
		return "Unknown"
	}
}

// ParseSmokingStatus accepts the wire value, the label, or one of
// never, formerly, currently, unknown.
func ParseSmokingStatus(s string) (SmokingStatus, error) {
	switch normalize(s) {
	case "never", "never-smoked":
		return SmokingNever, nil
	case "formerly", "formerly-smoked", "former":
		return SmokingFormerly, nil
	case "currently", "smokes", "currently-smokes", "current":
		return SmokingCurrent, nil
	case "unknown":
		return SmokingUnknown, nil
	default:
		return "", fmt.Errorf("invalid smoking status: %s (valid: never, formerly, currently, unknown)", s)
	}
}

// ParseYesNo parses a yes/no answer into its wire value ("Yes" or "No").
func ParseYesNo(s string) (string, error) {
	switch normalize(s) {
	case "yes", "y", "true", "1":
		return "Yes", nil
	case "no", "n", "false", "0":
		return "No", nil
	default:
		return "", fmt.Errorf("invalid yes/no answer: %s", s)
	}
}

// ParseFlag parses a boolean health condition into the 0/1 integer the
// service expects.
func ParseFlag(s string) (int, error) {
	switch normalize(s) {
	case "1", "yes", "y", "true":
		return 1, nil
	case "0", "no", "n", "false":
		return 0, nil
	default:
		return 0, fmt.Errorf("invalid yes/no answer: %s", s)
	}
}

// normalize lowercases s and folds spaces and underscores into hyphens.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "-", "_", "-").Replace(s)
}

// GenderOptions, and friends, list the choices offered for each select field.
func GenderOptions() []Option {
	opts := make([]Option, 0, 2)
	for _, g := range AllGenders() {
		opts = append(opts, Option{Label: string(g), Value: string(g)})
	}
	return opts
}

func YesNoOptions() []Option {
	return []Option{{Label: "Yes", Value: "Yes"}, {Label: "No", Value: "No"}}
}

func FlagOptions() []Option {
	return []Option{{Label: "No", Value: "0"}, {Label: "Yes", Value: "1"}}
}

func WorkTypeOptions() []Option {
	opts := make([]Option, 0, 4)
	for _, w := range AllWorkTypes() {
		opts = append(opts, Option{Label: w.Label(), Value: string(w)})
	}
	return opts
}

func ResidenceTypeOptions() []Option {
	opts := make([]Option, 0, 2)
	for _, r := range AllResidenceTypes() {
		opts = append(opts, Option{Label: string(r), Value: string(r)})
	}
	return opts
}

func SmokingStatusOptions() []Option {
	opts := make([]Option, 0, 4)
	for _, s := range AllSmokingStatuses() {
		opts = append(opts, Option{Label: s.Label(), Value: string(s)})
	}
	return opts
}

// Options returns the choices offered for f, or nil when f is typed in.
func (f Field) Options() []Option {
	switch f {
	case FieldGender:
		return GenderOptions()
	case FieldEverMarried:
		return YesNoOptions()
	case FieldHypertension, FieldHeartDisease:
		return FlagOptions()
	case FieldWorkType:
		return WorkTypeOptions()
	case FieldResidenceType:
		return ResidenceTypeOptions()
	case FieldSmokingStatus:
		return SmokingStatusOptions()
	}
	return nil
}
