package help

import (
	"testing"

	"github.com/PhilipNzube/stroke-prediction-app/internal/intake"
)

func TestEveryQuestionHasHelp(t *testing.T) {
	for _, f := range intake.AllFields() {
		text, ok := Texts[string(f)]
		if !ok {
			t.Errorf("no help for %s", f)
			continue
		}
		if text.Title == "" || text.Description == "" {
			t.Errorf("incomplete help for %s: %+v", f, text)
		}
	}
}
