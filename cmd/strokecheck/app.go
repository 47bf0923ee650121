package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/PhilipNzube/stroke-prediction-app/internal/config"
	"github.com/PhilipNzube/stroke-prediction-app/internal/logging"
	"github.com/PhilipNzube/stroke-prediction-app/internal/predict"
	"github.com/PhilipNzube/stroke-prediction-app/internal/results"
	"github.com/PhilipNzube/stroke-prediction-app/internal/session"
)

// app is everything a command needs, built from the config and the flags.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	client    *predict.Client
	store     *session.Store
	presenter *results.Presenter
}

// loadConfig reads the config file and applies the global flags over it.
func (o *globalOptions) loadConfig() (*config.Config, string, error) {
	path := o.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}

	if o.env != "" {
		env, err := config.ParseEnvironment(o.env)
		if err != nil {
			return nil, path, err
		}
		cfg.Environment = env
	}
	if o.endpoint != "" {
		cfg.Active().BaseURL = o.endpoint
	}
	if o.timeout > 0 {
		cfg.Active().Timeout = o.timeout.String()
	}
	if o.logFile != "" {
		cfg.Logging.File = o.logFile
	}
	return cfg, path, nil
}

// setup builds the app. The terminal interface gets a logger that cannot
// draw over the screen.
func (o *globalOptions) setup(tui bool) (*app, error) {
	cfg, _, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	lopts := logging.Options{Level: cfg.Logging.Level, File: cfg.Logging.File, Verbose: o.verbose}
	var logger *zap.Logger
	if tui {
		logger, err = logging.ForTerminalUI(lopts)
	} else {
		logger, err = logging.New(lopts)
	}
	if err != nil {
		return nil, err
	}

	pc, err := cfg.Client()
	if err != nil {
		return nil, err
	}
	client, err := predict.NewClient(pc, predict.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	logger.Debug("configured",
		zap.String("environment", string(cfg.Environment)),
		zap.String("endpoint", pc.BaseURL),
		zap.Duration("timeout", pc.Timeout))

	store := session.NewStore(session.WithLogger(logger))
	return &app{
		cfg:       cfg,
		logger:    logger,
		client:    client,
		store:     store,
		presenter: results.NewPresenter(client, store, results.WithLogger(logger)),
	}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}
