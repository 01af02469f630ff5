// Package currentbest implements current-best-hypothesis learning: a single
// hypothesis is carried through the example stream and repaired, without
// backtracking, whenever an example contradicts it.
package currentbest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/ppiankov/induct/internal/consistency"
	"github.com/ppiankov/induct/internal/metrics"
	"github.com/ppiankov/induct/internal/model"
	"github.com/ppiankov/induct/internal/refine"
)

const algorithm = string(model.AlgorithmCurrentBest)

// Step records how one example was handled
type Step struct {
	Index      int
	Example    model.Example
	Outcome    consistency.Outcome
	Changed    bool
	Phase      refine.Phase // valid when Changed
	Candidates int          // size of the candidate pool the refinement came from
	Hypothesis model.Hypothesis
}

// Action describes the step for traces
func (s Step) Action() string {
	if !s.Changed {
		return "keep"
	}
	return s.Phase.String()
}

// Result is the hypothesis after the last example plus the per-example trace
type Result struct {
	Seed        model.Hypothesis
	Hypothesis  model.Hypothesis
	Steps       []Step
	Refinements int
}

// Learner runs current-best search
type Learner struct {
	logger   *slog.Logger
	metrics  *metrics.Metrics
	progress *rate.Sometimes
	trace    bool
}

// Option configures a Learner
type Option func(*Learner)

// WithLogger sets the logger. nil keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Learner) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMetrics records run metrics into m
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Learner) { l.metrics = m }
}

// WithProgressInterval throttles per-example debug logs to one per interval
func WithProgressInterval(d time.Duration) Option {
	return func(l *Learner) { l.progress = &rate.Sometimes{First: 1, Interval: d} }
}

// WithTrace keeps a Step for every example in the Result
func WithTrace(on bool) Option {
	return func(l *Learner) { l.trace = on }
}

// New creates a learner
func New(opts ...Option) *Learner {
	l := &Learner{
		logger:   slog.Default(),
		progress: &rate.Sometimes{First: 1, Interval: time.Second},
		trace:    true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Learn processes examples strictly in order starting from seed. Each
// contradiction is repaired with the first one-step refinement that is
// consistent with every example seen so far. If none exists the run fails
// with a *model.RefinementError wrapping model.ErrNoConsistentRefinement.
//
// An empty seed is the always-false hypothesis.
func (l *Learner) Learn(ctx context.Context, examples []model.Example, seed model.Hypothesis) (*Result, error) {
	start := time.Now()
	defer func() { l.metrics.Run(algorithm, time.Since(start)) }()

	vocab := model.InduceVocabulary(examples)
	if err := vocab.CheckAll(examples); err != nil {
		l.metrics.Failure(algorithm, "malformed_example")
		return nil, fmt.Errorf("check examples: %w", err)
	}

	res := &Result{Seed: seed, Hypothesis: seed}
	h := seed

	for i, e := range examples {
		if err := ctx.Err(); err != nil {
			l.metrics.Failure(algorithm, "canceled")
			return nil, err
		}

		evidence := examples[:i+1]
		outcome := consistency.Classify(e, h)
		l.metrics.Example(algorithm, outcome.String())

		step := Step{Index: i, Example: e, Outcome: outcome}

		if outcome != consistency.Consistent {
			var (
				cand refine.Candidate
				n    int
				ok   bool
			)
			if outcome == consistency.FalsePositive {
				cand, n, ok = refine.FirstSpecialization(evidence, h, e)
			} else {
				cand, n, ok = refine.FirstGeneralization(evidence, h, e)
			}
			if !ok {
				l.metrics.Failure(algorithm, "no_consistent_refinement")
				l.logger.Warn("no consistent refinement",
					slog.Int("index", i),
					slog.String("outcome", outcome.String()),
					slog.String("hypothesis", h.String()))
				return nil, &model.RefinementError{Index: i, Example: e, Outcome: outcome.String(), Hypothesis: h}
			}

			h = cand.Hypothesis
			res.Refinements++
			l.metrics.Refinement(cand.Phase.String(), n)

			step.Changed = true
			step.Phase = cand.Phase
			step.Candidates = n
		}
		step.Hypothesis = h

		l.progress.Do(func() {
			l.logger.Debug("current-best step",
				slog.Int("index", i),
				slog.Int("of", len(examples)),
				slog.String("outcome", outcome.String()),
				slog.String("action", step.Action()),
				slog.String("hypothesis", h.String()))
		})

		if l.trace {
			res.Steps = append(res.Steps, step)
		}
	}

	res.Hypothesis = h
	l.logger.Info("current-best learning complete",
		slog.Int("examples", len(examples)),
		slog.Int("refinements", res.Refinements),
		slog.Int("disjuncts", len(h)))

	return res, nil
}

// CurrentBestLearning runs a silent default learner and returns only the hypothesis
func CurrentBestLearning(examples []model.Example, seed model.Hypothesis) (model.Hypothesis, error) {
	res, err := New(WithTrace(false), WithLogger(slog.New(slog.DiscardHandler))).Learn(context.Background(), examples, seed)
	if err != nil {
		return nil, err
	}
	return res.Hypothesis, nil
}
