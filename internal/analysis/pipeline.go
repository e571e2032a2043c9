// Package analysis runs the full comparison: discover each model's latest
// report, extract and classify its records, and compare the loaded models.
package analysis

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"evalcmp/internal/classify"
	"evalcmp/internal/compare"
	"evalcmp/internal/discovery"
	"evalcmp/internal/record"
	"evalcmp/internal/report"
	"evalcmp/internal/spec"
)

// Warning kinds raised while loading models.
const (
	WarnMissingData     = "missing_data"
	WarnLoadFailed      = "load_failed"
	WarnMalformedRecord = "malformed_record"
	WarnShortExtraction = "short_extraction"
	WarnSummaryMismatch = "summary_mismatch"
	WarnBadSummary      = "bad_summary"
)

// DefaultConcurrency bounds parallel model loads.
const DefaultConcurrency = 4

// ErrNoModels reports that none of the requested models could be loaded.
var ErrNoModels = errors.New("no model results loaded")

// Warning is a recoverable anomaly surfaced to the user.
type Warning = compare.Warning

// Pipeline holds everything needed to analyze a roster.
type Pipeline struct {
	source            discovery.Source
	extractor         *record.Extractor
	classifier        *classify.Classifier
	roster            compare.Roster
	patterns          []compare.PatternSpec
	expectedQuestions int
	concurrency       int
	logger            *zap.Logger
	observer          Observer
}

// Option customizes a pipeline.
type Option func(*Pipeline)

// WithObserver attaches a progress observer.
func WithObserver(observer Observer) Option {
	return func(p *Pipeline) {
		if observer != nil {
			p.observer = observer
		}
	}
}

// WithConcurrency sets the number of models loaded at once.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// New builds a pipeline from a normalized config.
func New(cfg spec.Config, source discovery.Source, logger *zap.Logger, opts ...Option) (*Pipeline, error) {
	format, err := record.NewFormat(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("build report format: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pipeline{
		source:            source,
		extractor:         record.NewExtractor(format),
		classifier:        classify.New(classify.SettingsFromConfig(cfg.Classifier), format.Labels),
		roster:            compare.RosterFromConfig(cfg.Models),
		patterns:          compare.PatternsFromConfig(cfg.Patterns),
		expectedQuestions: cfg.Results.ExpectedQuestions,
		concurrency:       DefaultConcurrency,
		logger:            logger,
		observer:          nopObserver{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Classifier returns the classifier in use.
func (p *Pipeline) Classifier() *classify.Classifier {
	return p.classifier
}

// Extractor returns the extractor in use.
func (p *Pipeline) Extractor() *record.Extractor {
	return p.extractor
}

// Result is the outcome of one pipeline run.
type Result struct {
	Sets         []record.ResultSet
	Missing      []string
	Comparison   *compare.Comparison
	Taxonomies   map[string]classify.Taxonomy
	Warnings     []Warning
	NoAnswerText string
}

// Export assembles the report document.
func (r Result) Export() report.Export {
	return report.Assemble(report.Input{
		Sets:          r.Sets,
		MissingModels: r.Missing,
		Comparison:    r.Comparison,
		Taxonomies:    r.Taxonomies,
		Warnings:      r.Warnings,
		NoAnswerText:  r.NoAnswerText,
	})
}

// loadedModel is owned by the goroutine that fills it.
type loadedModel struct {
	set      record.ResultSet
	taxonomy classify.Taxonomy
	missing  bool
	warnings []Warning
}

// Run loads the models in order, classifies their records and compares them.
// Missing or unreadable models are excluded with a warning; only context
// cancellation or an empty result is an error.
func (p *Pipeline) Run(ctx context.Context, models []string) (Result, error) {
	for _, model := range models {
		p.observer.OnModelEvent(ModelEvent{Model: model, Stage: StageQueued})
	}

	slots := make([]loadedModel, len(models))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(p.concurrency)
	for i, model := range models {
		group.Go(func() error {
			loaded, err := p.loadModel(groupCtx, model)
			if err != nil {
				return err
			}
			slots[i] = loaded
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Result{}, err
	}

	result := Result{
		Taxonomies:   map[string]classify.Taxonomy{},
		NoAnswerText: p.extractor.Format().NoAnswerText,
	}
	for i, loaded := range slots {
		result.Warnings = append(result.Warnings, loaded.warnings...)
		if loaded.missing {
			result.Missing = append(result.Missing, models[i])
			continue
		}
		result.Sets = append(result.Sets, loaded.set)
		result.Taxonomies[loaded.set.ModelID] = loaded.taxonomy
	}
	if len(result.Sets) == 0 {
		return result, ErrNoModels
	}

	result.Comparison = compare.Compare(result.Sets, p.roster, p.patterns)
	for _, warning := range result.Comparison.Warnings() {
		p.logWarning(warning)
		result.Warnings = append(result.Warnings, warning)
	}
	p.logger.Info("comparison complete",
		zap.Int("models", len(result.Sets)),
		zap.Int("missing", len(result.Missing)),
		zap.Int("aligned_questions", result.Comparison.Aligned()),
	)
	return result, nil
}

// loadModel returns an error only when the context is done.
func (p *Pipeline) loadModel(ctx context.Context, model string) (loadedModel, error) {
	p.observer.OnModelEvent(ModelEvent{Model: model, Stage: StageLoading})
	artifact, err := p.source.Latest(ctx, model)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return loadedModel{}, ctxErr
		}
		kind, stage := WarnLoadFailed, StageFailed
		if errors.Is(err, discovery.ErrNotFound) {
			kind, stage = WarnMissingData, StageMissing
		}
		warning := Warning{Kind: kind, Model: model, Message: err.Error()}
		p.logWarning(warning)
		p.observer.OnModelEvent(ModelEvent{Model: model, Stage: stage, Err: err})
		return loadedModel{missing: true, warnings: []Warning{warning}}, nil
	}

	set := p.extractor.ExtractResultSet(model, artifact.Document, artifact.Summary)
	set.RunID = artifact.RunID
	loaded := loadedModel{set: set, taxonomy: classify.Tally(p.classifier, set)}
	loaded.warnings = p.qualityWarnings(set)
	if artifact.SummaryErr != nil {
		loaded.warnings = append(loaded.warnings, Warning{
			Kind:    WarnBadSummary,
			Model:   model,
			Message: fmt.Sprintf("summary ignored: %v", artifact.SummaryErr),
		})
	}
	for _, warning := range loaded.warnings {
		p.logWarning(warning)
	}

	p.logger.Info("model loaded",
		zap.String("model", model),
		zap.String("run", artifact.RunID),
		zap.String("location", artifact.Location),
		zap.Int("records", set.Total()),
		zap.Int("format_failures", set.FormatFailures),
	)
	p.observer.OnModelEvent(ModelEvent{
		Model:          model,
		Stage:          StageClassified,
		RunID:          artifact.RunID,
		Records:        set.Total(),
		Correct:        set.Correct,
		FormatFailures: set.FormatFailures,
	})
	return loaded, nil
}

// qualityWarnings flags records without a correct label, suspiciously short
// extractions and disagreement with the summary file.
func (p *Pipeline) qualityWarnings(set record.ResultSet) []Warning {
	var warnings []Warning
	if missing := set.MissingCorrect(); missing > 0 {
		warnings = append(warnings, Warning{
			Kind:    WarnMalformedRecord,
			Model:   set.ModelID,
			Message: fmt.Sprintf("%d of %d records have no correct answer label", missing, set.Total()),
		})
	}
	if p.expectedQuestions > 0 && set.Total() < p.expectedQuestions {
		warnings = append(warnings, Warning{
			Kind:    WarnShortExtraction,
			Model:   set.ModelID,
			Message: fmt.Sprintf("extracted %d records, expected %d", set.Total(), p.expectedQuestions),
		})
	}
	for _, note := range set.Reconcile() {
		warnings = append(warnings, Warning{Kind: WarnSummaryMismatch, Model: set.ModelID, Message: note})
	}
	return warnings
}

func (p *Pipeline) logWarning(warning Warning) {
	p.logger.Warn(warning.Message, zap.String("kind", warning.Kind), zap.String("model", warning.Model))
}
