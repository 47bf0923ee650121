package help

// HelpText contains information about a question
type HelpText struct {
	Title       string
	Description string
	Details     string
}

// Texts contains help information for every question, keyed by field name
var Texts = map[string]HelpText{
	"age": {
		Title:       "AGE",
		Description: "Your age in whole years.",
		Details:     "Stroke risk roughly doubles every decade after 55.",
	},
	"gender": {
		Title:       "GENDER",
		Description: "Biological sex used by the model.",
		Details:     "Women have a higher lifetime risk, partly because they live longer.",
	},
	"ever_married": {
		Title:       "MARITAL STATUS",
		Description: "Whether you have ever been married.",
		Details:     "Included because it correlates with age and lifestyle in the training data.",
	},
	"hypertension": {
		Title:       "HYPERTENSION",
		Description: "Diagnosed high blood pressure.",
		Details:     "Blood pressure consistently above 130/80 mmHg.\nThe single most important modifiable risk factor.",
	},
	"heart_disease": {
		Title:       "HEART DISEASE",
		Description: "Any diagnosed heart condition.",
		Details:     "Includes atrial fibrillation, coronary artery disease and heart failure.",
	},
	"avg_glucose_level": {
		Title:       "AVERAGE GLUCOSE LEVEL",
		Description: "Average blood glucose in mg/dL.",
		Details:     "Normal fasting: 70-100 mg/dL\nPrediabetes: 100-125 mg/dL\nDiabetes: 126 mg/dL and above",
	},
	"bmi": {
		Title:       "BODY MASS INDEX",
		Description: "Weight in kilograms divided by height in meters squared.",
		Details:     "Underweight: below 18.5\nNormal: 18.5-24.9\nOverweight: 25-29.9\nObese: 30 and above",
	},
	"work_type": {
		Title:       "WORK TYPE",
		Description: "Your main occupation.",
		Details:     "Private sector, self-employed, government job, or children for minors.",
	},
	"Residence_type": {
		Title:       "RESIDENCE TYPE",
		Description: "Where you live.",
		Details:     "Urban or rural. Access to care and lifestyle differ between the two.",
	},
	"smoking_status": {
		Title:       "SMOKING STATUS",
		Description: "Your smoking history.",
		Details:     "Smoking doubles stroke risk.\nThe excess risk falls steadily after quitting.",
	},
	"action": {
		Title:       "ACTIONS",
		Description: "What to do with your results.",
		Details:     "Reports are saved as PDF in the report directory.\nShared links expire after a few days.",
	},
}
