package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"evalcmp/internal/analysis"
	"evalcmp/internal/config"
	"evalcmp/internal/discovery"
	"evalcmp/internal/logging"
	"evalcmp/internal/spec"
)

// sessionParams are the flags shared by commands that run the pipeline.
type sessionParams struct {
	SpecPath string
	Root     string
	Models   string
	LogLevel string
}

// session is a loaded config plus everything needed to run the pipeline.
type session struct {
	cfg         spec.Config
	projectRoot string
	resultsRoot string
	models      []string
	logger      *zap.Logger
	source      discovery.Source
}

// openSource is a test seam for artifact discovery.
var openSource = discovery.Open

// openSession loads the config and prepares the artifact source.
func openSession(ctx context.Context, params sessionParams, stderr io.Writer) (*session, error) {
	resolvedSpec, err := resolveSpecPath(params.SpecPath)
	if err != nil {
		return nil, fmt.Errorf("locate config: %w", err)
	}
	cfg, err := config.Load(resolvedSpec)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	projectRoot := config.RootFromConfigPath(resolvedSpec)

	level := cfg.Logging.Level
	if strings.TrimSpace(params.LogLevel) != "" {
		level = params.LogLevel
	}
	logger, err := logging.New(level, cfg.Logging.Format, stderr)
	if err != nil {
		return nil, err
	}

	root := cfg.Results.Root
	if strings.TrimSpace(params.Root) != "" {
		root = params.Root
	}
	resultsRoot := config.ResolvePath(projectRoot, root)

	models := splitList(params.Models)
	if len(models) == 0 {
		for _, model := range cfg.Models {
			models = append(models, model.ID)
		}
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("no models configured; add models to the config or pass --models")
	}

	source, err := openSource(ctx, resultsRoot, cfg.Results.Benchmark, cfg.S3)
	if err != nil {
		return nil, fmt.Errorf("open results root: %w", err)
	}
	return &session{
		cfg:         cfg,
		projectRoot: projectRoot,
		resultsRoot: resultsRoot,
		models:      models,
		logger:      logger,
		source:      source,
	}, nil
}

// run executes the pipeline for the session's models.
func (s *session) run(ctx context.Context, concurrency int, observer analysis.Observer) (analysis.Result, error) {
	opts := []analysis.Option{}
	if concurrency > 0 {
		opts = append(opts, analysis.WithConcurrency(concurrency))
	}
	if observer != nil {
		opts = append(opts, analysis.WithObserver(observer))
	}
	pipeline, err := analysis.New(s.cfg, s.source, s.logger, opts...)
	if err != nil {
		return analysis.Result{}, err
	}
	return pipeline.Run(ctx, s.models)
}

// outputPath picks the flag value over the config value and anchors it at the
// project root.
func (s *session) outputPath(flagValue, configValue string) string {
	path := configValue
	if strings.TrimSpace(flagValue) != "" {
		path = flagValue
	}
	return config.ResolvePath(s.projectRoot, path)
}

// close flushes the logger.
func (s *session) close() {
	_ = s.logger.Sync()
}
