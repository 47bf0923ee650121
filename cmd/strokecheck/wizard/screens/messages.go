package screens

import (
	"github.com/PhilipNzube/stroke-prediction-app/internal/predict"
	"github.com/PhilipNzube/stroke-prediction-app/internal/results"
)

// SubmittedMsg is sent when a submission finishes, successfully or not
type SubmittedMsg struct {
	Outcome *predict.Outcome
	Err     error
}

// NoticeMsg carries the result of a results-screen action
type NoticeMsg struct {
	Notice results.Notice
}

// DashboardMsg is sent when dashboard data has loaded or failed to
type DashboardMsg struct {
	Data *results.DashboardData
	Err  error
}
