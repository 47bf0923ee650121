// Package predict is the HTTP client for the remote stroke prediction service.
//
// Every call is made once. Failures are reported as *NetworkError (no response),
// *TimeoutError (no response in time) or *ServerError (non-2xx or unreadable
// response); callers decide whether to offer a retry.
package predict

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Service endpoints, relative to the base URL.
const (
	PathPredict        = "/api/predict"
	PathHealth         = "/api/health"
	PathStatistics     = "/api/statistics"
	PathFeatures       = "/api/features"
	PathModelInfo      = "/api/model-info"
	PathDownloadReport = "/api/download-report"
	PathShareResults   = "/api/share-results"
)

// RequestIDHeader carries the per-request id that is also logged.
const RequestIDHeader = "X-Request-ID"

// Config selects the service and how long to wait for it.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Validate checks that cfg can be used to build a client.
func (cfg Config) Validate() error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		return fmt.Errorf("base URL %q must start with http:// or https://", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be greater than 0, got %s", cfg.Timeout)
	}
	return nil
}

// Client talks to the prediction service.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *fasthttp.Client
	logger  *zap.Logger
	now     func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithHTTPClient replaces the underlying fasthttp client.
func WithHTTPClient(hc *fasthttp.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithClock sets the time source used for report file names and timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a client for cfg.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		http: &fasthttp.Client{
			Name:                "strokecheck",
			MaxIdleConnDuration: 30 * time.Second,
		},
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service root the client sends requests to.
func (c *Client) BaseURL() string { return c.baseURL }

// Predict submits p and returns the service's assessment.
func (c *Client) Predict(ctx context.Context, p Payload) (*Outcome, error) {
	r, err := c.do(ctx, "predict", fasthttp.MethodPost, PathPredict, p)
	if err != nil {
		return nil, err
	}
	var out Outcome
	if err := r.decode(&out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, &ServerError{Op: "predict", StatusCode: r.status, Message: "invalid prediction response: " + err.Error()}
	}
	return &out, nil
}

// Health returns the service status.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	r, err := c.do(ctx, "health", fasthttp.MethodGet, PathHealth, nil)
	if err != nil {
		return nil, err
	}
	var out Health
	if err := r.decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Statistics returns aggregate stroke statistics.
func (c *Client) Statistics(ctx context.Context) (*Statistics, error) {
	r, err := c.do(ctx, "statistics", fasthttp.MethodGet, PathStatistics, nil)
	if err != nil {
		return nil, err
	}
	var out Statistics
	if err := r.decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FeatureImportance returns the model's most influential inputs.
func (c *Client) FeatureImportance(ctx context.Context) (*FeatureImportance, error) {
	r, err := c.do(ctx, "features", fasthttp.MethodGet, PathFeatures, nil)
	if err != nil {
		return nil, err
	}
	var out FeatureImportance
	if err := r.decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ModelInfo describes the model the service is running.
func (c *Client) ModelInfo(ctx context.Context) (*ModelInfo, error) {
	r, err := c.do(ctx, "model-info", fasthttp.MethodGet, PathModelInfo, nil)
	if err != nil {
		return nil, err
	}
	var out ModelInfo
	if err := r.decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DownloadReport asks the service to render req as a document.
func (c *Client) DownloadReport(ctx context.Context, req ShareRequest) (*Report, error) {
	r, err := c.do(ctx, "download-report", fasthttp.MethodPost, PathDownloadReport, req)
	if err != nil {
		return nil, err
	}
	if len(r.body) == 0 {
		return nil, &ServerError{Op: "download-report", StatusCode: r.status, Message: "empty report"}
	}

	filename := ReportFilename(c.now())
	if r.disposition != "" {
		if _, params, err := mime.ParseMediaType(r.disposition); err == nil && params["filename"] != "" {
			filename = params["filename"]
		}
	}
	return &Report{Data: r.body, ContentType: r.contentType, Filename: filename}, nil
}

// ShareResults asks the service for a shareable link to req.
func (c *Client) ShareResults(ctx context.Context, req ShareRequest) (*ShareLink, error) {
	r, err := c.do(ctx, "share-results", fasthttp.MethodPost, PathShareResults, req)
	if err != nil {
		return nil, err
	}
	var out shareResponse
	if err := r.decode(&out); err != nil {
		return nil, err
	}
	if !out.Success || out.URL == "" {
		msg := out.Error
		if msg == "" {
			msg = fallbackMessage("share-results")
		}
		return nil, &ServerError{Op: "share-results", StatusCode: r.status, Message: msg}
	}
	return &out.ShareLink, nil
}

// NewShareRequest builds the report/share body for an outcome and the answers
// that produced it.
func (c *Client) NewShareRequest(o *Outcome, p *Payload) ShareRequest {
	req := ShareRequest{
		StrokeProbability: o.StrokeProbability,
		RiskLevel:         o.RiskLevel,
		RiskCategory:      o.RiskCategory,
		Recommendations:   o.Recommendations,
		Timestamp:         c.now().UTC().Format(time.RFC3339),
	}
	if p != nil {
		cp := *p
		req.UserData = &cp
	}
	return req
}

// ReportFilename is the default name of a report produced at t.
func ReportFilename(t time.Time) string {
	return fmt.Sprintf("stroke-risk-assessment-%s.pdf", t.Format("2006-01-02"))
}

type response struct {
	op          string
	status      int
	body        []byte
	contentType string
	disposition string
}

func (r *response) decode(out any) error {
	if err := json.Unmarshal(r.body, out); err != nil {
		return &ServerError{Op: r.op, StatusCode: r.status, Message: fmt.Sprintf("unreadable response: %v", err)}
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in any) (*response, error) {
	url := c.baseURL + path
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &TimeoutError{Op: op, URL: url, Timeout: c.timeout}
		}
		return nil, &NetworkError{Op: op, URL: url, Err: err}
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	id := uuid.NewString()
	req.SetRequestURI(url)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, id)
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("%s: encoding request: %w", op, err)
		}
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(data)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	log := c.logger.With(zap.String("op", op), zap.String("request_id", id), zap.String("url", url))
	start := time.Now()
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		if isTimeout(err) {
			log.Warn("request timed out", zap.Duration("elapsed", time.Since(start)))
			return nil, &TimeoutError{Op: op, URL: url, Timeout: c.timeout}
		}
		log.Warn("request failed", zap.Error(err))
		return nil, &NetworkError{Op: op, URL: url, Err: err}
	}

	r := &response{
		op:          op,
		status:      resp.StatusCode(),
		body:        append([]byte(nil), resp.Body()...),
		contentType: string(resp.Header.ContentType()),
		disposition: string(resp.Header.Peek("Content-Disposition")),
	}
	log.Debug("request completed", zap.Int("status", r.status), zap.Duration("elapsed", time.Since(start)))

	if r.status < 200 || r.status > 299 {
		return nil, &ServerError{Op: op, StatusCode: r.status, Message: serverMessage(r.body, fallbackMessage(op))}
	}
	return r, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, fasthttp.ErrTimeout) || errors.Is(err, fasthttp.ErrDialTimeout) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// serverMessage pulls the reason out of an error body, falling back to def.
func serverMessage(body []byte, def string) string {
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		if eb.Error != "" {
			return eb.Error
		}
		if eb.Message != "" {
			return eb.Message
		}
	}
	return def
}

func fallbackMessage(op string) string {
	switch op {
	case "predict":
		return DefaultErrorMessage
	case "download-report":
		return "Failed to generate PDF report"
	case "share-results":
		return "Failed to share results"
	case "statistics", "features":
		return "Failed to load dashboard data. Please try again later."
	default:
		return "The prediction service returned an error."
	}
}
