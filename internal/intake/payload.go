package intake

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/PhilipNzube/stroke-prediction-app/internal/predict"
)

// ToPayload converts a complete record into the request body. Integers and
// decimals are parsed exactly; select answers are mapped to the values the
// service expects. Every answer that cannot be converted is reported under
// its field, and the payload is only usable when the map is empty.
func ToPayload(r Record) (predict.Payload, map[Field]string) {
	var p predict.Payload
	errs := make(map[Field]string)

	fail := func(f Field, msg string) {
		errs[f] = msg
	}
	text := func(f Field) (string, bool) {
		v := strings.TrimSpace(r.Get(f))
		if v == "" {
			fail(f, f.Spec().Required)
			return "", false
		}
		return v, true
	}

	if v, ok := text(FieldAge); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			fail(FieldAge, "Age must be a whole number")
		} else {
			p.Age = n
		}
	}
	if v, ok := text(FieldGender); ok {
		if g, err := ParseGender(v); err != nil {
			fail(FieldGender, "Gender must be Male or Female")
		} else {
			p.Gender = string(g)
		}
	}
	if v, ok := text(FieldHypertension); ok {
		if n, err := ParseFlag(v); err != nil {
			fail(FieldHypertension, "Hypertension must be 0 (no) or 1 (yes)")
		} else {
			p.Hypertension = n
		}
	}
	if v, ok := text(FieldHeartDisease); ok {
		if n, err := ParseFlag(v); err != nil {
			fail(FieldHeartDisease, "Heart disease must be 0 (no) or 1 (yes)")
		} else {
			p.HeartDisease = n
		}
	}
	if v, ok := text(FieldEverMarried); ok {
		if yn, err := ParseYesNo(v); err != nil {
			fail(FieldEverMarried, "Marital status must be Yes or No")
		} else {
			p.EverMarried = yn
		}
	}
	if v, ok := text(FieldWorkType); ok {
		if w, err := ParseWorkType(v); err != nil {
			fail(FieldWorkType, "Work type must be one of Private, Self-employed, Government, Children/Student")
		} else {
			p.WorkType = string(w)
		}
	}
	if v, ok := text(FieldResidenceType); ok {
		if rt, err := ParseResidenceType(v); err != nil {
			fail(FieldResidenceType, "Residence type must be Urban or Rural")
		} else {
			p.ResidenceType = string(rt)
		}
	}
	if v, ok := text(FieldAvgGlucoseLevel); ok {
		if x, err := parseDecimal(v); err != nil {
			fail(FieldAvgGlucoseLevel, "Average glucose level must be a number")
		} else {
			p.AvgGlucoseLevel = x
		}
	}
	if v, ok := text(FieldBMI); ok {
		if x, err := parseDecimal(v); err != nil {
			fail(FieldBMI, "BMI must be a number")
		} else {
			p.BMI = x
		}
	}
	if v, ok := text(FieldSmokingStatus); ok {
		if s, err := ParseSmokingStatus(v); err != nil {
			fail(FieldSmokingStatus, "Smoking status must be one of never, formerly, currently, unknown")
		} else {
			p.SmokingStatus = string(s)
		}
	}

	return p, errs
}

func parseDecimal(s string) (float64, error) {
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return x, nil
}

// FromPayload is the inverse of ToPayload, used to prefill a record from a
// previous submission.
func FromPayload(p predict.Payload) Record {
	return Record{
		Age:             strconv.Itoa(p.Age),
		Gender:          p.Gender,
		Hypertension:    strconv.Itoa(p.Hypertension),
		HeartDisease:    strconv.Itoa(p.HeartDisease),
		EverMarried:     p.EverMarried,
		WorkType:        p.WorkType,
		ResidenceType:   p.ResidenceType,
		AvgGlucoseLevel: strconv.FormatFloat(p.AvgGlucoseLevel, 'f', -1, 64),
		BMI:             strconv.FormatFloat(p.BMI, 'f', -1, 64),
		SmokingStatus:   p.SmokingStatus,
	}
}
