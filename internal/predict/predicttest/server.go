// Package predicttest runs an in-process stand-in for the prediction service.
package predicttest

import (
	"fmt"
	"net"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/PhilipNzube/stroke-prediction-app/internal/predict"
)

// Canned bodies returned until a test overrides a route.
var (
	LowRiskOutcome = predict.Outcome{
		StrokeProbability: 3.2,
		RiskLevel:         predict.RiskLow,
		Recommendations:   map[string][]string{"lifestyle": {"Exercise regularly"}},
	}

	SampleHealth = predict.Health{
		Status:        "healthy",
		ModelLoaded:   true,
		ModelType:     "RandomForestClassifier",
		FeaturesCount: 10,
	}

	SampleStatistics = predict.Statistics{
		GlobalStatistics: map[string]string{
			"annual_strokes": "15 million",
			"deaths":         "5 million",
		},
		RiskFactors: map[string]string{
			"hypertension": "Most important controllable risk factor",
		},
		PreventionTips: []string{"Control blood pressure", "Stay physically active"},
	}

	SampleFeatures = predict.FeatureImportance{
		TopFeatures: []predict.FeatureWeight{
			{Name: "age", Importance: 0.38},
			{Name: "avg_glucose_level", Importance: 0.21},
			{Name: "bmi", Importance: 0.17},
		},
	}

	SampleModelInfo = predict.ModelInfo{
		ModelType:    "RandomForestClassifier",
		Features:     []string{"age", "gender", "bmi"},
		FeatureCount: 3,
		LastUpdated:  "2024-01-01",
	}
)

// ReportBody is the document served by the default report route.
var ReportBody = []byte("%PDF-1.4\n% strokecheck test report\n")

// Server is a fasthttp server answering the prediction service routes.
// Routes can be replaced at any time; requests are recorded per path.
type Server struct {
	URL string

	ln  net.Listener
	srv *fasthttp.Server

	mu       sync.Mutex
	routes   map[string]fasthttp.RequestHandler
	delay    time.Duration
	requests map[string][][]byte
	headers  map[string][]string

	closing   chan struct{}
	serveDone chan struct{}
}

// New starts a server on a free loopback port with the default routes.
func New() (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listening for stub service: %w", err)
	}

	s := &Server{
		URL:       "http://" + ln.Addr().String(),
		ln:        ln,
		routes:    make(map[string]fasthttp.RequestHandler),
		requests:  make(map[string][][]byte),
		headers:   make(map[string][]string),
		closing:   make(chan struct{}),
		serveDone: make(chan struct{}),
	}
	s.srv = &fasthttp.Server{
		Handler:               s.serve,
		Name:                  "predicttest",
		NoDefaultServerHeader: true,
	}

	s.RespondJSON(predict.PathPredict, fasthttp.StatusOK, LowRiskOutcome)
	s.RespondJSON(predict.PathHealth, fasthttp.StatusOK, SampleHealth)
	s.RespondJSON(predict.PathStatistics, fasthttp.StatusOK, SampleStatistics)
	s.RespondJSON(predict.PathFeatures, fasthttp.StatusOK, SampleFeatures)
	s.RespondJSON(predict.PathModelInfo, fasthttp.StatusOK, SampleModelInfo)
	s.Handle(predict.PathDownloadReport, func(ctx *fasthttp.RequestCtx) {
		ctx.SetContentType("application/pdf")
		ctx.Response.Header.Set("Content-Disposition", `attachment; filename="stroke-risk-assessment-report.pdf"`)
		ctx.SetBody(ReportBody)
	})
	s.RespondJSON(predict.PathShareResults, fasthttp.StatusOK, map[string]any{
		"success":    true,
		"share_id":   "abc123",
		"share_url":  s.URL + "/shared/abc123",
		"expires_at": "2030-01-01T00:00:00Z",
	})

	go func() {
		defer close(s.serveDone)
		_ = s.srv.Serve(ln)
	}()
	return s, nil
}

// Handle replaces the handler for path.
func (s *Server) Handle(path string, h fasthttp.RequestHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[path] = h
}

// RespondJSON makes path answer with status and body encoded as JSON.
func (s *Server) RespondJSON(path string, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		panic(fmt.Sprintf("predicttest: encoding %s body: %v", path, err))
	}
	s.Handle(path, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(status)
		ctx.SetContentType("application/json")
		ctx.SetBody(data)
	})
}

// Fail makes path answer with status and {"error": message}.
func (s *Server) Fail(path string, status int, message string) {
	s.RespondJSON(path, status, map[string]string{"error": message})
}

// SetDelay holds every response for d, or until Close.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Calls returns how many requests reached path.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests[path])
}

// LastBody returns the body of the latest request to path.
func (s *Server) LastBody(path string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	reqs := s.requests[path]
	if len(reqs) == 0 {
		return nil
	}
	return reqs[len(reqs)-1]
}

// RequestIDs returns the X-Request-ID values seen on path, in order.
func (s *Server) RequestIDs(path string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.headers[path]...)
}

// Close stops the server and waits for it to exit.
func (s *Server) Close() {
	select {
	case <-s.closing:
		return
	default:
		close(s.closing)
	}
	_ = s.srv.Shutdown()
	<-s.serveDone
}

func (s *Server) serve(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())

	s.mu.Lock()
	h, ok := s.routes[path]
	delay := s.delay
	s.requests[path] = append(s.requests[path], append([]byte(nil), ctx.PostBody()...))
	s.headers[path] = append(s.headers[path], string(ctx.Request.Header.Peek(predict.RequestIDHeader)))
	s.mu.Unlock()

	if delay > 0 {
		t := time.NewTimer(delay)
		select {
		case <-t.C:
		case <-s.closing:
			t.Stop()
		}
	}

	if !ok {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"error":"Endpoint not found"}`)
		return
	}
	h(ctx)
}
