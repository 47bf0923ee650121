package intake

// Step is one page of the questionnaire.
type Step struct {
	Key    string
	Title  string
	Fields []Field
}

// Steps lists the questionnaire pages in the order they are answered.
var Steps = []Step{
	{
		Key:    "personal",
		Title:  "Personal Information",
		Fields: []Field{FieldAge, FieldGender, FieldEverMarried},
	},
	{
		Key:    "health",
		Title:  "Health Conditions",
		Fields: []Field{FieldHypertension, FieldHeartDisease, FieldAvgGlucoseLevel, FieldBMI},
	},
	{
		Key:    "lifestyle",
		Title:  "Lifestyle & Work",
		Fields: []Field{FieldWorkType, FieldResidenceType, FieldSmokingStatus},
	},
}

// LastStep is the index of the final step.
var LastStep = len(Steps) - 1

// StepOf returns the index of the step that asks f, or -1.
func StepOf(f Field) int {
	for i, s := range Steps {
		for _, sf := range s.Fields {
			if sf == f {
				return i
			}
		}
	}
	return -1
}
