package results

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/PhilipNzube/stroke-prediction-app/internal/predict"
	"github.com/PhilipNzube/stroke-prediction-app/internal/session"
)

// DashboardErrorMessage is shown when the dashboard data cannot be loaded.
const DashboardErrorMessage = "Failed to load dashboard data. Please try again later."

// Service is the part of the prediction client the results views use.
type Service interface {
	NewShareRequest(o *predict.Outcome, p *predict.Payload) predict.ShareRequest
	DownloadReport(ctx context.Context, req predict.ShareRequest) (*predict.Report, error)
	ShareResults(ctx context.Context, req predict.ShareRequest) (*predict.ShareLink, error)
	Statistics(ctx context.Context) (*predict.Statistics, error)
	FeatureImportance(ctx context.Context) (*predict.FeatureImportance, error)
}

// NoticeKind tells the UI how to style a notice.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeError
)

// Notice is a transient message about a user-triggered action. Actions that
// produce notices never change the session.
type Notice struct {
	Kind NoticeKind
	Text string

	// Set by Export on success.
	Path string
	// Set by Share on success.
	Link *predict.ShareLink
}

// Presenter reads the session store and runs the result actions.
type Presenter struct {
	service Service
	store   *session.Store
	logger  *zap.Logger
	now     func() time.Time
}

// PresenterOption customizes a Presenter.
type PresenterOption func(*Presenter)

// WithLogger sets the presenter's logger.
func WithLogger(l *zap.Logger) PresenterOption {
	return func(p *Presenter) { p.logger = l }
}

// WithClock sets the time source used for expiry text.
func WithClock(now func() time.Time) PresenterOption {
	return func(p *Presenter) { p.now = now }
}

// NewPresenter returns a presenter for store.
func NewPresenter(service Service, store *session.Store, opts ...PresenterOption) *Presenter {
	p := &Presenter{
		service: service,
		store:   store,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Render formats the current session.
func (p *Presenter) Render(opts Options) string {
	return Render(p.store.Snapshot(), opts)
}

func (p *Presenter) shareRequest() (predict.ShareRequest, bool) {
	snap := p.store.Snapshot()
	if snap.Outcome == nil {
		return predict.ShareRequest{}, false
	}
	return p.service.NewShareRequest(snap.Outcome, snap.Submission), true
}

// Export downloads the report for the current outcome into dir.
func (p *Presenter) Export(ctx context.Context, dir string) Notice {
	req, ok := p.shareRequest()
	if !ok {
		return Notice{Kind: NoticeError, Text: NoResultsMessage}
	}

	rep, err := p.service.DownloadReport(ctx, req)
	if err != nil {
		p.logger.Warn("report download failed", zap.Error(err))
		return Notice{Kind: NoticeError, Text: "Failed to download PDF report. Please try again."}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Notice{Kind: NoticeError, Text: fmt.Sprintf("Could not create %s: %v", dir, err)}
	}
	path := filepath.Join(dir, filepath.Base(rep.Filename))
	if err := os.WriteFile(path, rep.Data, 0o644); err != nil {
		p.logger.Warn("report write failed", zap.String("path", path), zap.Error(err))
		return Notice{Kind: NoticeError, Text: fmt.Sprintf("Could not save report: %v", err)}
	}

	p.logger.Info("report saved", zap.String("path", path), zap.Int("bytes", len(rep.Data)))
	return Notice{
		Kind: NoticeSuccess,
		Text: fmt.Sprintf("Report saved to %s (%s)", path, humanize.Bytes(uint64(len(rep.Data)))),
		Path: path,
	}
}

// Share requests a share link for the current outcome. When the service
// cannot provide one the notice carries a plain-text summary instead.
func (p *Presenter) Share(ctx context.Context) Notice {
	req, ok := p.shareRequest()
	if !ok {
		return Notice{Kind: NoticeError, Text: NoResultsMessage}
	}

	link, err := p.service.ShareResults(ctx, req)
	if err != nil {
		p.logger.Warn("share failed", zap.Error(err))
		snap := p.store.Snapshot()
		return Notice{Kind: NoticeInfo, Text: Summary(snap.Outcome)}
	}

	text := "Results shared successfully! Share link: " + link.URL
	if t, err := time.Parse(time.RFC3339, link.ExpiresAt); err == nil {
		text += fmt.Sprintf(" (expires %s)", humanize.RelTime(t, p.now(), "ago", "from now"))
	}
	return Notice{Kind: NoticeSuccess, Text: text, Link: link}
}

// DashboardData is everything the dashboard shows.
type DashboardData struct {
	Statistics *predict.Statistics
	Features   *predict.FeatureImportance
}

// DashboardError wraps the cause of a failed dashboard load.
type DashboardError struct {
	Err error
}

func (e *DashboardError) Error() string { return DashboardErrorMessage }

func (e *DashboardError) Unwrap() error { return e.Err }

// Dashboard loads statistics and feature importance concurrently. Either
// failing fails the whole load.
func (p *Presenter) Dashboard(ctx context.Context) (*DashboardData, error) {
	return LoadDashboard(ctx, p.service, p.logger)
}

// LoadDashboard is Dashboard without a session.
func LoadDashboard(ctx context.Context, svc Service, logger *zap.Logger) (*DashboardData, error) {
	var data DashboardData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st, err := svc.Statistics(gctx)
		if err != nil {
			return fmt.Errorf("statistics: %w", err)
		}
		data.Statistics = st
		return nil
	})
	g.Go(func() error {
		fi, err := svc.FeatureImportance(gctx)
		if err != nil {
			return fmt.Errorf("feature importance: %w", err)
		}
		data.Features = fi
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Warn("dashboard load failed", zap.Error(err))
		return nil, &DashboardError{Err: err}
	}
	return &data, nil
}

// IsDashboardError reports whether err came from a dashboard load.
func IsDashboardError(err error) bool {
	var de *DashboardError
	return errors.As(err, &de)
}
