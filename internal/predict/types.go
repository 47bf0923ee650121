package predict

import (
	"fmt"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
)

// Payload is the body of a prediction request.
type Payload struct {
	Age             int     `json:"age"`
	Gender          string  `json:"gender"`
	Hypertension    int     `json:"hypertension"`
	HeartDisease    int     `json:"heart_disease"`
	EverMarried     string  `json:"ever_married"`
	WorkType        string  `json:"work_type"`
	ResidenceType   string  `json:"Residence_type"`
	AvgGlucoseLevel float64 `json:"avg_glucose_level"`
	BMI             float64 `json:"bmi"`
	SmokingStatus   string  `json:"smoking_status"`
}

// RiskLevel is the service's classification of stroke risk.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// Valid reports whether r is one of the known levels.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskModerate, RiskHigh:
		return true
	}
	return false
}

// Title returns the level as shown to users, e.g. "Moderate".
func (r RiskLevel) Title() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

// Outcome is a successful prediction.
type Outcome struct {
	StrokeProbability float64             `json:"stroke_probability"`
	RiskLevel         RiskLevel           `json:"risk_level"`
	Recommendations   map[string][]string `json:"recommendations"`

	// Optional details some service versions include.
	RiskCategory map[string]string `json:"risk_category,omitempty"`
	Timestamp    string            `json:"timestamp,omitempty"`
	ModelInfo    *ModelSummary     `json:"model_info,omitempty"`
}

// ModelSummary describes the model that produced an outcome.
type ModelSummary struct {
	Type         string   `json:"type"`
	FeaturesUsed []string `json:"features_used,omitempty"`
	LastUpdated  string   `json:"last_updated,omitempty"`
}

// Validate checks the fields every outcome must carry.
func (o *Outcome) Validate() error {
	if !o.RiskLevel.Valid() {
		return fmt.Errorf("unknown risk level %q", o.RiskLevel)
	}
	if o.StrokeProbability < 0 || o.StrokeProbability > 100 {
		return fmt.Errorf("stroke probability %.2f out of range 0-100", o.StrokeProbability)
	}
	return nil
}

// Clone returns a deep copy of o.
func (o *Outcome) Clone() *Outcome {
	if o == nil {
		return nil
	}
	c := *o
	if o.Recommendations != nil {
		c.Recommendations = make(map[string][]string, len(o.Recommendations))
		for k, v := range o.Recommendations {
			c.Recommendations[k] = append([]string(nil), v...)
		}
	}
	if o.RiskCategory != nil {
		c.RiskCategory = make(map[string]string, len(o.RiskCategory))
		for k, v := range o.RiskCategory {
			c.RiskCategory[k] = v
		}
	}
	if o.ModelInfo != nil {
		mi := *o.ModelInfo
		mi.FeaturesUsed = append([]string(nil), o.ModelInfo.FeaturesUsed...)
		c.ModelInfo = &mi
	}
	return &c
}

// categoryOrder is the display order of well-known recommendation categories.
var categoryOrder = []string{"lifestyle", "diet", "medical", "monitoring"}

// Categories returns the recommendation categories in display order: the
// well-known ones first, then any others alphabetically.
func (o *Outcome) Categories() []string {
	var out []string
	seen := make(map[string]bool)
	for _, c := range categoryOrder {
		if _, ok := o.Recommendations[c]; ok {
			out = append(out, c)
			seen[c] = true
		}
	}
	var rest []string
	for c := range o.Recommendations {
		if !seen[c] {
			rest = append(rest, c)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// Health is the service status report.
type Health struct {
	Status        string `json:"status"`
	ModelLoaded   bool   `json:"model_loaded"`
	ModelType     string `json:"model_type,omitempty"`
	FeaturesCount int    `json:"features_count,omitempty"`
	Timestamp     string `json:"timestamp,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Healthy reports whether the service declared itself healthy.
func (h *Health) Healthy() bool {
	return h.Status == "healthy"
}

// Statistics is the aggregate stroke information shown on the dashboard.
type Statistics struct {
	GlobalStatistics map[string]string `json:"global_statistics"`
	RiskFactors      map[string]string `json:"risk_factors"`
	PreventionTips   []string          `json:"prevention_tips"`
}

// FeatureWeight is a model input and its importance.
type FeatureWeight struct {
	Name       string
	Importance float64
}

// UnmarshalJSON decodes the service's [name, importance] pair form.
func (fw *FeatureWeight) UnmarshalJSON(data []byte) error {
	var pair []any
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("feature weight: expected [name, importance], got %d elements", len(pair))
	}
	name, ok := pair[0].(string)
	if !ok {
		return fmt.Errorf("feature weight: name is %T, not a string", pair[0])
	}
	importance, ok := pair[1].(float64)
	if !ok {
		return fmt.Errorf("feature weight: importance is %T, not a number", pair[1])
	}
	fw.Name = name
	fw.Importance = importance
	return nil
}

// MarshalJSON encodes the pair form accepted by UnmarshalJSON.
func (fw FeatureWeight) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{fw.Name, fw.Importance})
}

// FeatureImportance lists the inputs that influence the model most.
type FeatureImportance struct {
	FeatureImportance map[string]float64 `json:"feature_importance,omitempty"`
	TopFeatures       []FeatureWeight    `json:"top_features"`
}

// ModelInfo describes the model currently loaded by the service.
type ModelInfo struct {
	ModelType    string   `json:"model_type"`
	Features     []string `json:"features"`
	FeatureCount int      `json:"feature_count"`
	LastUpdated  string   `json:"last_updated"`
}

// ShareRequest is the body sent to the report and share endpoints.
type ShareRequest struct {
	StrokeProbability float64             `json:"stroke_probability"`
	RiskLevel         RiskLevel           `json:"risk_level"`
	RiskCategory      map[string]string   `json:"risk_category,omitempty"`
	Recommendations   map[string][]string `json:"recommendations"`
	UserData          *Payload            `json:"userData,omitempty"`
	Timestamp         string              `json:"timestamp"`
}

// Report is a generated assessment document.
type Report struct {
	Data        []byte
	ContentType string
	Filename    string
}

// ShareLink is a shareable reference to an assessment.
type ShareLink struct {
	ID        string `json:"share_id"`
	URL       string `json:"share_url"`
	ExpiresAt string `json:"expires_at"`
}

type shareResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	ShareLink
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
