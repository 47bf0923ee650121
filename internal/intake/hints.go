package intake

import (
	"fmt"
	"strconv"
	"strings"
)

// Hint is advice about an answer that is allowed but unusual.
type Hint struct {
	Field   Field
	Message string
}

// Hints returns a hint for every numeric answer outside its expected range.
// Blank or non-numeric answers produce no hint.
func (r Record) Hints() []Hint {
	var hints []Hint
	for _, f := range AllFields() {
		spec := f.Spec()
		if spec.Max == 0 {
			continue
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(r.Get(f)), 64)
		if err != nil {
			continue
		}
		if x < spec.Min || x > spec.Max {
			hints = append(hints, Hint{Field: f, Message: rangeMessage(spec)})
		}
	}
	return hints
}

// Range returns the expected range of f as shown next to the question,
// e.g. "18-120 years", or "" for fields without one.
func (f Field) Range() string {
	spec := f.Spec()
	if spec.Max == 0 {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%s-%s %s", trimFloat(spec.Min), trimFloat(spec.Max), spec.Unit))
}

func rangeMessage(spec FieldSpec) string {
	return fmt.Sprintf("%s is usually between %s and %s %s", spec.Label, trimFloat(spec.Min), trimFloat(spec.Max), spec.Unit)
}

func trimFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// boundErrors turns hints into field errors for strict submission.
func boundErrors(hints []Hint) map[Field]string {
	if len(hints) == 0 {
		return nil
	}
	errs := make(map[Field]string, len(hints))
	for _, h := range hints {
		errs[h.Field] = strings.Replace(h.Message, "is usually between", "must be between", 1)
	}
	return errs
}
