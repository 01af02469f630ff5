// Package pipeline runs one learning job end to end: load, validate, learn,
// score, optionally narrate, and assemble the report.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/induct/internal/cache"
	"github.com/ppiankov/induct/internal/consistency"
	"github.com/ppiankov/induct/internal/currentbest"
	"github.com/ppiankov/induct/internal/dataset"
	"github.com/ppiankov/induct/internal/llm"
	"github.com/ppiankov/induct/internal/metrics"
	"github.com/ppiankov/induct/internal/model"
	"github.com/ppiankov/induct/internal/score"
	"github.com/ppiankov/induct/internal/space"
	"github.com/ppiankov/induct/internal/validate"
	"github.com/ppiankov/induct/internal/versionspace"
)

// Pipeline orchestrates learning runs. It is safe for concurrent use: every
// run builds its own learner and only the enumerator cache is shared.
type Pipeline struct {
	enumerator *space.Enumerator
	validator  *validate.Validator
	scorer     *score.Scorer
	renderer   *Renderer
	summarizer *llm.Summarizer // nil if disabled
	metrics    *metrics.Metrics
	logger     *slog.Logger
	config     *model.Config
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger. nil keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics records every run into m
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithSummarizer replaces the summarizer built from cfg.LLM
func WithSummarizer(s *llm.Summarizer) Option {
	return func(p *Pipeline) { p.summarizer = s }
}

// NewPipeline creates a pipeline from a validated configuration
func NewPipeline(cfg *model.Config, opts ...Option) (*Pipeline, error) {
	policy, err := space.ParsePolicy(cfg.Space.Policy)
	if err != nil {
		return nil, fmt.Errorf("space policy: %w", err)
	}
	limits := space.LimitsFromConfig(cfg.Space)

	p := &Pipeline{
		validator: validate.NewValidator(limits, policy),
		scorer:    score.NewScorer(),
		renderer:  NewRenderer(cfg.Output.Color, cfg.Output.MaxListed),
		logger:    slog.Default(),
		config:    cfg,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.summarizer == nil && cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			p.logger.Warn("LLM provider disabled", slog.Any("error", err))
		} else {
			p.summarizer = s
		}
	}

	var c cache.Cache[[]model.Conjunction]
	if cfg.Space.CacheTTL > 0 {
		c = cache.NewMemory[[]model.Conjunction](cfg.Space.CacheTTL, cfg.Space.CacheTTL)
	}
	p.enumerator = space.NewEnumerator(
		space.WithPolicy(policy),
		space.WithLimits(limits),
		space.WithCache(c),
		space.WithMetrics(p.metrics),
		space.WithLogger(p.logger),
	)
	return p, nil
}

// Renderer returns the pipeline's report renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// Enumerator returns the shared hypothesis-space enumerator
func (p *Pipeline) Enumerator() *space.Enumerator {
	return p.enumerator
}

// RunResult contains the complete run result
type RunResult struct {
	Report    *model.Report
	Predictor model.Predictor // the learned hypothesis or version space
}

// Run loads ref (a file path or built-in name) and learns from it
func (p *Pipeline) Run(ctx context.Context, ref string, alg model.Algorithm) (*RunResult, error) {
	ds, err := dataset.Open(ref)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return p.RunDataset(ctx, ds, alg)
}

// RunDataset learns from an already loaded dataset
func (p *Pipeline) RunDataset(ctx context.Context, ds *dataset.Dataset, alg model.Algorithm) (*RunResult, error) {
	started := time.Now()
	logger := p.logger.With(slog.String("dataset", ds.Name), slog.String("algorithm", string(alg)))

	// 1. Validate
	issues := p.validator.Validate(ds)
	for _, issue := range issues {
		if issue.Severity != model.SeverityInfo {
			logger.Warn("dataset issue", slog.Int("index", issue.Index),
				slog.String("severity", string(issue.Severity)), slog.String("message", issue.Message))
		}
	}
	if validate.HasCritical(issues) {
		return nil, fmt.Errorf("validate %s: %w: %s", ds.Name, model.ErrInvalidDataset, firstCritical(issues))
	}

	report := &model.Report{
		RunID:      uuid.NewString(),
		Dataset:    ds.Name,
		Algorithm:  alg,
		StartedAt:  started.UTC(),
		Examples:   len(ds.Examples),
		Vocabulary: ds.Vocabulary().Domains(),
		Issues:     issues,
	}
	in := score.Input{Training: ds.Examples, Test: ds.Test}
	var predictor model.Predictor

	// 2. Learn
	switch alg {
	case model.AlgorithmCurrentBest:
		learner := currentbest.New(
			currentbest.WithLogger(logger),
			currentbest.WithMetrics(p.metrics),
			currentbest.WithProgressInterval(p.config.Logging.ProgressInterval),
			currentbest.WithTrace(p.config.Output.IncludeTrace),
		)
		res, err := learner.Learn(ctx, ds.Examples, ds.Seed)
		if err != nil {
			return nil, fmt.Errorf("learn %s: %w", ds.Name, err)
		}
		report.Seed = res.Seed
		report.Hypothesis = res.Hypothesis
		report.Trace = currentBestTrace(res.Steps)
		in.Hypothesis, in.Seed = res.Hypothesis, res.Seed
		predictor = res.Hypothesis

	case model.AlgorithmVersionSpace:
		learner := versionspace.New(
			versionspace.WithEnumerator(p.enumerator),
			versionspace.WithLogger(logger),
			versionspace.WithMetrics(p.metrics),
			versionspace.WithProgressInterval(p.config.Logging.ProgressInterval),
			versionspace.WithTrace(p.config.Output.IncludeTrace),
		)
		res, err := learner.Learn(ctx, ds.Examples)
		if err != nil {
			return nil, fmt.Errorf("learn %s: %w", ds.Name, err)
		}
		report.VersionSpace = p.summarizeSpace(res)
		report.Trace = versionSpaceTrace(res.Steps)
		in.Space = res.Space
		predictor = res.Space

	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownAlgorithm, alg)
	}

	// 3. Score
	report.Score = p.scorer.Calculate(in)
	report.Duration = time.Since(started)

	// 4. Narrate (after scoring, never affects the result)
	if p.summarizer.IsEnabled() {
		summary, err := p.summarizer.GenerateSummary(ctx, *report)
		if err != nil {
			logger.Warn("LLM summary generation failed", slog.Any("error", err))
		} else if summary != nil {
			report.LLM = summary
		}
	}

	logger.Info("run complete",
		slog.String("run_id", report.RunID),
		slog.Int("index", report.Score.Index),
		slog.Duration("duration", report.Duration))

	return &RunResult{Report: report, Predictor: predictor}, nil
}

// Guess learns from ds and predicts the goal value of e
func (p *Pipeline) Guess(ctx context.Context, ds *dataset.Dataset, alg model.Algorithm, e model.Example) (bool, *RunResult, error) {
	if err := ds.Vocabulary().Check(0, e); err != nil {
		return false, nil, fmt.Errorf("query: %w", err)
	}
	res, err := p.RunDataset(ctx, ds, alg)
	if err != nil {
		return false, nil, err
	}
	return consistency.GuessExampleValue(e, res.Predictor), res, nil
}

func (p *Pipeline) summarizeSpace(res *versionspace.Result) *model.VersionSpaceSummary {
	members := res.Space.Hypotheses()
	sum := &model.VersionSpaceSummary{
		Size:         len(members),
		Empty:        res.Space.Empty(),
		Conjunctions: res.Conjunctions,
		Members:      members,
	}
	if limit := p.config.Output.MaxListed; limit > 0 && len(members) > limit {
		sum.Members = members[:limit]
		sum.Truncated = true
	}
	return sum
}

func currentBestTrace(steps []currentbest.Step) []model.TraceStep {
	if len(steps) == 0 {
		return nil
	}
	out := make([]model.TraceStep, len(steps))
	for i, s := range steps {
		out[i] = model.TraceStep{
			Index:      s.Index,
			Example:    s.Example.String(),
			Outcome:    s.Outcome.String(),
			Action:     s.Action(),
			Candidates: s.Candidates,
			Result:     s.Hypothesis.String(),
		}
	}
	return out
}

func versionSpaceTrace(steps []versionspace.Step) []model.TraceStep {
	if len(steps) == 0 {
		return nil
	}
	out := make([]model.TraceStep, len(steps))
	for i, s := range steps {
		ts := model.TraceStep{
			Index:   s.Index,
			Example: s.Example.String(),
			Outcome: "negative",
			Action:  "eliminate",
			Result:  fmt.Sprintf("%d surviving conjunctions", s.Surviving),
		}
		if s.Example.Goal {
			ts.Outcome, ts.Action = "positive", "cover"
		} else {
			ts.Candidates = s.Removed
		}
		if s.Empty {
			ts.Result += " (empty)"
		}
		out[i] = ts
	}
	return out
}

func firstCritical(issues []model.Issue) string {
	var msgs []string
	for _, issue := range issues {
		if issue.Severity == model.SeverityCritical {
			msgs = append(msgs, issue.Message)
		}
	}
	return strings.Join(msgs, "; ")
}
