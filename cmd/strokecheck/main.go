package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/PhilipNzube/stroke-prediction-app/internal/config"
)

// version is set at build time via -ldflags
var version = "dev"

// globalOptions are the flags shared by every command.
type globalOptions struct {
	env        string
	configPath string
	endpoint   string
	timeout    time.Duration
	logFile    string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	var fromPath string
	var strict bool

	root := &cobra.Command{
		Use:   "strokecheck",
		Short: "Stroke risk assessment from the terminal",
		Long: `strokecheck asks ten health and lifestyle questions, sends them to a
stroke prediction service and explains the estimated risk.

Run without arguments to start the interactive assessment.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWizard(cmd, opts, fromPath, strict)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.env, "env", "", "Service environment: development or production (default from config)")
	pf.StringVar(&opts.configPath, "config", "", "Config file (default "+config.DefaultPath()+")")
	pf.StringVar(&opts.endpoint, "endpoint", "", "Prediction service base URL, overrides the config")
	pf.DurationVar(&opts.timeout, "timeout", 0, "Request timeout, overrides the config")
	pf.StringVar(&opts.logFile, "log-file", "", "Write JSON logs to this file")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	root.Flags().StringVar(&fromPath, "from", "", "Prefill answers from a YAML file")
	root.Flags().BoolVar(&strict, "strict", false, "Reject numbers outside their usual range")

	root.AddCommand(
		newWizardCmd(opts),
		newPredictCmd(opts),
		newDashboardCmd(opts),
		newHealthCmd(opts),
		newPageCmd("home", "Show the introduction page"),
		newPageCmd("about", "Show background on stroke and the model"),
		newConfigCmd(opts),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
