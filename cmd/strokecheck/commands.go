package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/PhilipNzube/stroke-prediction-app/cmd/strokecheck/wizard"
	"github.com/PhilipNzube/stroke-prediction-app/internal/content"
	"github.com/PhilipNzube/stroke-prediction-app/internal/intake"
	"github.com/PhilipNzube/stroke-prediction-app/internal/predict"
	"github.com/PhilipNzube/stroke-prediction-app/internal/results"
)

const outputWidth = 80

func newWizardCmd(opts *globalOptions) *cobra.Command {
	var fromPath string
	var strict bool

	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Start the interactive assessment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWizard(cmd, opts, fromPath, strict)
		},
	}
	cmd.Flags().StringVar(&fromPath, "from", "", "Prefill answers from a YAML file")
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject numbers outside their usual range")
	return cmd
}

func runWizard(cmd *cobra.Command, opts *globalOptions, fromPath string, strict bool) error {
	a, err := opts.setup(true)
	if err != nil {
		return err
	}
	defer a.close()

	iopts := []intake.WizardOption{intake.WithStrict(strict), intake.WithLogger(a.logger)}
	if fromPath != "" {
		rec, err := intake.LoadAnswers(fromPath)
		if err != nil {
			return err
		}
		iopts = append(iopts, intake.WithRecord(rec))
	}

	return wizard.Run(cmd.Context(), wizard.Deps{
		Intake:    intake.NewWizard(a.client, a.store, iopts...),
		Presenter: a.presenter,
		ReportDir: a.cfg.ReportDir,
		Logger:    a.logger,
	})
}

func newPredictCmd(opts *globalOptions) *cobra.Command {
	var (
		fromPath  string
		strict    bool
		savePath  string
		reportDir string
		share     bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Assess stroke risk from an answers file",
		Long: `Reads answers from a YAML file, submits them and prints the result.

Example answers file:

  age: "67"
  gender: Female
  hypertension: "1"
  heart_disease: "0"
  ever_married: "Yes"
  work_type: Private
  Residence_type: Urban
  avg_glucose_level: "150.5"
  bmi: "28.3"
  smoking_status: never smoked`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.setup(false)
			if err != nil {
				return err
			}
			defer a.close()

			rec, err := intake.LoadAnswers(fromPath)
			if err != nil {
				return err
			}
			w := intake.NewWizard(a.client, a.store,
				intake.WithRecord(rec),
				intake.WithStrict(strict),
				intake.WithLogger(a.logger))

			out := cmd.OutOrStdout()
			if !w.AdvanceToEnd() {
				printFieldErrors(out, w.Errors())
				return errors.New("answers are incomplete")
			}

			if _, err := w.Submit(cmd.Context()); err != nil {
				if intake.IsValidationError(err) {
					printFieldErrors(out, w.Errors())
					return errors.New("answers are invalid")
				}
				if msg := a.store.Snapshot().Error; msg != "" {
					return errors.New(msg)
				}
				return err
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(a.store.Snapshot().Outcome); err != nil {
					return fmt.Errorf("encoding outcome: %w", err)
				}
			} else {
				fmt.Fprint(out, a.presenter.Render(results.Options{Width: outputWidth}))
			}

			if savePath != "" {
				if err := intake.SaveAnswers(w.Record(), savePath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Answers saved to %s\n", savePath)
			}
			if reportDir != "" {
				printNotice(cmd.ErrOrStderr(), a.presenter.Export(cmd.Context(), reportDir))
			}
			if share {
				printNotice(cmd.ErrOrStderr(), a.presenter.Share(cmd.Context()))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&fromPath, "from", "", "Answers file (required)")
	f.BoolVar(&strict, "strict", false, "Reject numbers outside their usual range")
	f.StringVar(&savePath, "save", "", "Write the answers back to this file after a successful assessment")
	f.StringVar(&reportDir, "report", "", "Download the PDF report into this directory")
	f.BoolVar(&share, "share", false, "Create a share link for the result")
	f.BoolVar(&asJSON, "json", false, "Print the raw outcome as JSON")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

// printFieldErrors lists field errors in question order.
func printFieldErrors(w io.Writer, errs map[intake.Field]string) {
	for _, f := range intake.AllFields() {
		if msg, ok := errs[f]; ok {
			fmt.Fprintf(w, "  ✗ %s\n", msg)
		}
	}
}

func printNotice(w io.Writer, n results.Notice) {
	switch n.Kind {
	case results.NoticeSuccess:
		fmt.Fprintf(w, "✓ %s\n", n.Text)
	case results.NoticeError:
		fmt.Fprintf(w, "✗ %s\n", n.Text)
	default:
		fmt.Fprintln(w, n.Text)
	}
}

func newDashboardCmd(opts *globalOptions) *cobra.Command {
	var chartPath string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show stroke statistics and the most influential factors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.setup(false)
			if err != nil {
				return err
			}
			defer a.close()

			d, err := a.presenter.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), results.RenderDashboard(d, outputWidth))

			if chartPath == "" {
				return nil
			}
			if d.Features == nil {
				return errors.New("no feature importance to chart")
			}
			f, err := os.Create(chartPath)
			if err != nil {
				return fmt.Errorf("creating chart file: %w", err)
			}
			if err := results.FeatureChart(d.Features.TopFeatures, f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("writing chart: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Chart saved to %s\n", chartPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&chartPath, "chart", "", "Also write a PNG bar chart of feature importance")
	return cmd
}

func newHealthCmd(opts *globalOptions) *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the prediction service is up",
		Long: `Queries the service status. With --wait, keeps polling with backoff until
the service reports healthy or the duration elapses. Hosted instances can
take a while to wake up.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.setup(false)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			var h *predict.Health
			if wait > 0 {
				policy := predict.DefaultWaitPolicy()
				policy.MaxElapsed = wait
				h, err = a.client.WaitHealthy(ctx, policy)
			} else {
				h, err = a.client.Health(ctx)
			}
			if h != nil {
				printHealth(cmd.OutOrStdout(), a.client.BaseURL(), h)
			}
			if err != nil {
				return err
			}
			if !h.Healthy() {
				return fmt.Errorf("service status %q", h.Status)
			}

			info, err := a.client.ModelInfo(ctx)
			if err != nil {
				a.logger.Warn("model info unavailable", zap.Error(err))
				return nil
			}
			printModelInfo(cmd.OutOrStdout(), info)
			return nil
		},
	}
	cmd.Flags().DurationVar(&wait, "wait", 0, "Keep polling until healthy, up to this long")
	return cmd
}

func printHealth(w io.Writer, url string, h *predict.Health) {
	fmt.Fprintf(w, "Service:      %s\n", url)
	fmt.Fprintf(w, "Status:       %s\n", h.Status)
	fmt.Fprintf(w, "Model loaded: %t\n", h.ModelLoaded)
	if h.ModelType != "" {
		fmt.Fprintf(w, "Model type:   %s\n", h.ModelType)
	}
	if h.Error != "" {
		fmt.Fprintf(w, "Error:        %s\n", h.Error)
	}
}

func printModelInfo(w io.Writer, info *predict.ModelInfo) {
	fmt.Fprintf(w, "Features:     %d\n", info.FeatureCount)
	if info.LastUpdated != "" {
		fmt.Fprintf(w, "Updated:      %s\n", info.LastUpdated)
	}
	features := append([]string(nil), info.Features...)
	sort.Strings(features)
	for _, f := range features {
		fmt.Fprintf(w, "  - %s\n", results.FeatureLabel(f))
	}
}

func newPageCmd(name, short string) *cobra.Command {
	var style string

	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := content.Render(name, content.Style(style), outputWidth)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&style, "style", string(content.StyleAuto), "Rendering style: auto, dark, light, notty")
	return cmd
}
