package results

import (
	"bytes"
	"context"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhilipNzube/stroke-prediction-app/internal/predict"
	"github.com/PhilipNzube/stroke-prediction-app/internal/predict/predicttest"
	"github.com/PhilipNzube/stroke-prediction-app/internal/session"
)

func moderateRisk() *predict.Outcome {
	return &predict.Outcome{
		StrokeProbability: 12.5,
		RiskLevel:         predict.RiskModerate,
		Recommendations: map[string][]string{
			"monitoring": {"Check blood pressure monthly"},
			"lifestyle":  {"Exercise regularly", "Quit smoking"},
			"sleep":      {"Sleep 7-9 hours"},
			"diet":       {"Reduce salt intake"},
		},
	}
}

func settledStore(t *testing.T) *session.Store {
	t.Helper()
	s := session.NewStore()
	s.SetSubmission(predict.Payload{Age: 67, Gender: "Female", AvgGlucoseLevel: 150.5, BMI: 28.3})
	s.SetOutcome(moderateRisk())
	return s
}

func newService(t *testing.T) (*predicttest.Server, *predict.Client) {
	t.Helper()
	srv, err := predicttest.New()
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	c, err := predict.NewClient(predict.Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return srv, c
}

func TestRenderNoResults(t *testing.T) {
	out := Render(session.State{}, Options{})
	assert.Contains(t, out, NoResultsMessage)
}

func TestRenderError(t *testing.T) {
	out := Render(session.State{Error: "Model not loaded"}, Options{})
	assert.Contains(t, out, "Model not loaded")
	assert.NotContains(t, out, "Recommendations")
}

func TestRenderLoading(t *testing.T) {
	out := Render(session.State{Loading: true}, Options{})
	assert.Contains(t, out, "Analyzing your health data")
}

func TestRenderOutcome(t *testing.T) {
	out := Render(settledStore(t).Snapshot(), Options{Width: 100})

	assert.Contains(t, out, "Moderate Risk")
	assert.Contains(t, out, "12.5%")
	assert.Contains(t, out, "Time to make some changes")
	assert.Contains(t, out, "Quit smoking")
	assert.Contains(t, out, "Next Steps")

	// well-known categories first, others after
	life := strings.Index(out, "Lifestyle")
	diet := strings.Index(out, "Diet")
	mon := strings.Index(out, "Monitoring")
	sleep := strings.Index(out, "Sleep\n")
	require.True(t, life >= 0 && diet >= 0 && mon >= 0 && sleep >= 0, out)
	assert.True(t, life < diet && diet < mon && mon < sleep, "category order")
}

func TestRenderShowsRangeHints(t *testing.T) {
	s := session.NewStore()
	s.SetSubmission(predict.Payload{Age: 15, AvgGlucoseLevel: 100, BMI: 25})
	s.SetOutcome(moderateRisk())

	out := Render(s.Snapshot(), Options{})
	assert.Contains(t, out, "Age is usually between 18 and 120 years")
}

func TestSummary(t *testing.T) {
	o := &predict.Outcome{StrokeProbability: 3.2, RiskLevel: predict.RiskLow}
	assert.Equal(t, "My stroke risk assessment: low risk (3.2% probability)", Summary(o))
}

func TestCategoryTitle(t *testing.T) {
	assert.Equal(t, "Lifestyle", CategoryTitle("lifestyle"))
	assert.Equal(t, "Annual Strokes", CategoryTitle("annual_strokes"))
	assert.Equal(t, "Avg Glucose Level", FeatureLabel("avg_glucose_level"))
	assert.Equal(t, "Work Type Private", FeatureLabel("work_type_Private"))
}

func TestExport(t *testing.T) {
	srv, client := newService(t)
	store := settledStore(t)
	before := store.Snapshot()
	p := NewPresenter(client, store)

	dir := filepath.Join(t.TempDir(), "reports")
	n := p.Export(context.Background(), dir)
	require.Equal(t, NoticeSuccess, n.Kind, n.Text)

	data, err := os.ReadFile(n.Path)
	require.NoError(t, err)
	assert.Equal(t, predicttest.ReportBody, data)
	assert.Equal(t, filepath.Join(dir, "stroke-risk-assessment-report.pdf"), n.Path)
	assert.Equal(t, 1, srv.Calls(predict.PathDownloadReport))
	assert.Equal(t, before, store.Snapshot())
}

func TestExportFailureLeavesStore(t *testing.T) {
	srv, client := newService(t)
	srv.Fail(predict.PathDownloadReport, 500, "Failed to generate PDF report")
	store := settledStore(t)
	before := store.Snapshot()

	n := NewPresenter(client, store).Export(context.Background(), t.TempDir())
	assert.Equal(t, NoticeError, n.Kind)
	assert.Contains(t, n.Text, "Failed to download PDF report")
	assert.Equal(t, before, store.Snapshot())
}

func TestExportWithoutOutcome(t *testing.T) {
	srv, client := newService(t)
	n := NewPresenter(client, session.NewStore()).Export(context.Background(), t.TempDir())
	assert.Equal(t, NoticeError, n.Kind)
	assert.Equal(t, NoResultsMessage, n.Text)
	assert.Equal(t, 0, srv.Calls(predict.PathDownloadReport))
}

func TestShare(t *testing.T) {
	srv, client := newService(t)
	now := time.Date(2029, 12, 25, 0, 0, 0, 0, time.UTC)
	p := NewPresenter(client, settledStore(t), WithClock(func() time.Time { return now }))

	n := p.Share(context.Background())
	require.Equal(t, NoticeSuccess, n.Kind, n.Text)
	require.NotNil(t, n.Link)
	assert.Equal(t, srv.URL+"/shared/abc123", n.Link.URL)
	assert.Contains(t, n.Text, n.Link.URL)
	assert.Contains(t, n.Text, "from now")
}

func TestShareFailureFallsBackToSummary(t *testing.T) {
	srv, client := newService(t)
	srv.RespondJSON(predict.PathShareResults, 200, map[string]any{"success": false, "error": "Storage unavailable"})
	store := settledStore(t)
	before := store.Snapshot()

	n := NewPresenter(client, store).Share(context.Background())
	assert.Equal(t, NoticeInfo, n.Kind)
	assert.Equal(t, "My stroke risk assessment: moderate risk (12.5% probability)", n.Text)
	assert.Nil(t, n.Link)
	assert.Equal(t, before, store.Snapshot())
}

func TestDashboard(t *testing.T) {
	srv, client := newService(t)
	p := NewPresenter(client, session.NewStore())

	d, err := p.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "15 million", d.Statistics.GlobalStatistics["annual_strokes"])
	require.Len(t, d.Features.TopFeatures, 3)
	assert.Equal(t, 1, srv.Calls(predict.PathStatistics))
	assert.Equal(t, 1, srv.Calls(predict.PathFeatures))

	out := RenderDashboard(d, 80)
	assert.Contains(t, out, "Annual Strokes")
	assert.Contains(t, out, "Control blood pressure")
	assert.Contains(t, out, "Avg Glucose Level")
	assert.Contains(t, out, "38%")
}

func TestDashboardFailure(t *testing.T) {
	srv, client := newService(t)
	srv.Fail(predict.PathFeatures, 500, "Model not loaded")

	_, err := NewPresenter(client, session.NewStore()).Dashboard(context.Background())
	require.Error(t, err)
	assert.True(t, IsDashboardError(err))
	assert.Equal(t, DashboardErrorMessage, err.Error())

	var se *predict.ServerError
	assert.ErrorAs(t, err, &se)
}

func TestFeatureBarsOddImportances(t *testing.T) {
	features := []predict.FeatureWeight{
		{Name: "age", Importance: 0.5},
		{Name: "bmi", Importance: -0.1},
		{Name: "hypertension", Importance: 0},
		{Name: "heart_disease", Importance: math.NaN()},
	}

	var out string
	require.NotPanics(t, func() { out = FeatureBars(features, 80) })
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "█")
	for _, l := range lines[1:] {
		assert.NotContains(t, l, "█", l)
	}
}

func TestFeatureBarsAllNonPositive(t *testing.T) {
	out := FeatureBars([]predict.FeatureWeight{{Name: "age", Importance: -0.2}}, 80)
	assert.Contains(t, out, "Age")
	assert.NotContains(t, out, "█")
}

func TestBarLength(t *testing.T) {
	tests := []struct {
		name       string
		importance float64
		maxImp     float64
		want       int
	}{
		{"largest fills", 0.5, 0.5, 60},
		{"half", 0.25, 0.5, 30},
		{"negative", -0.1, 0.5, 0},
		{"zero max", 0.1, 0, 0},
		{"nan", math.NaN(), 0.5, 0},
		{"above max", 0.9, 0.5, 60},
	}
	for _, tc := range tests {
		if got := barLength(tc.importance, tc.maxImp, 60); got != tc.want {
			t.Errorf("%s: barLength(%v, %v) = %d, want %d", tc.name, tc.importance, tc.maxImp, got, tc.want)
		}
	}
}

func TestFeatureChartNegativeImportance(t *testing.T) {
	var buf bytes.Buffer
	features := []predict.FeatureWeight{{Name: "age", Importance: 0.5}, {Name: "bmi", Importance: -0.1}}
	require.NoError(t, FeatureChart(features, &buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)

	// the second row has no bar pixels at all
	y := titleHeight + rowHeight + rowHeight/2
	for x := 0; x < img.Bounds().Dx(); x++ {
		r, g, bl, _ := img.At(x, y).RGBA()
		if uint8(r>>8) == chartBar.R && uint8(g>>8) == chartBar.G && uint8(bl>>8) == chartBar.B {
			t.Fatalf("bar pixel at x=%d in the negative row", x)
		}
	}
}

func TestFeatureChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FeatureChart(predicttest.SampleFeatures.TopFeatures, &buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	b := img.Bounds()
	assert.Equal(t, chartWidth, b.Dx())
	assert.Equal(t, titleHeight+3*rowHeight+chartMargin, b.Dy())

	// the top feature's bar reaches the full bar width
	y := titleHeight + rowHeight/2
	found := false
	for x := 0; x < b.Dx(); x++ {
		r, g, bl, _ := img.At(x, y).RGBA()
		if uint8(r>>8) == chartBar.R && uint8(g>>8) == chartBar.G && uint8(bl>>8) == chartBar.B {
			found = true
			break
		}
	}
	assert.True(t, found, "no bar pixels in the first row")
}

func TestFeatureChartEmpty(t *testing.T) {
	assert.Error(t, FeatureChart(nil, &bytes.Buffer{}))
}
