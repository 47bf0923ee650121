package intake

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AnswersFile is the YAML form of a record. Keys match the service's field
// names so a file can be written by hand.
type AnswersFile struct {
	Age             string `yaml:"age"`
	Gender          string `yaml:"gender"`
	Hypertension    string `yaml:"hypertension"`
	HeartDisease    string `yaml:"heart_disease"`
	EverMarried     string `yaml:"ever_married"`
	WorkType        string `yaml:"work_type"`
	ResidenceType   string `yaml:"Residence_type"`
	AvgGlucoseLevel string `yaml:"avg_glucose_level"`
	BMI             string `yaml:"bmi"`
	SmokingStatus   string `yaml:"smoking_status"`
}

// Record returns the answers as a record.
func (a AnswersFile) Record() Record {
	return Record(a)
}

// LoadAnswers reads a record from a YAML file. Missing keys stay blank.
func LoadAnswers(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("failed to read answers file: %w", err)
	}

	var a AnswersFile
	if err := yaml.Unmarshal(data, &a); err != nil {
		return Record{}, fmt.Errorf("failed to parse answers file %s: %w", path, err)
	}
	return a.Record(), nil
}

// SaveAnswers writes r to path as YAML.
func SaveAnswers(r Record, path string) error {
	data, err := yaml.Marshal(AnswersFile(r))
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write answers file: %w", err)
	}
	return nil
}
